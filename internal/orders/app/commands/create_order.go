package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/formation/products-api/internal/errs"
	"github.com/formation/products-api/internal/orders/domain"
	"github.com/formation/products-api/internal/orders/ports"
)

// ItemInput references a product and the quantity to order. The unit price
// is copied from the product when the command is handled, never supplied
// by the caller.
type ItemInput struct {
	ProductID string
	Quantity  int
}

type CreateOrderCommand struct {
	CustomerName  string
	CustomerEmail string
	Items         []ItemInput
	OrderDate     time.Time
	DeliveryDate  *time.Time
}

func (c CreateOrderCommand) Validate() error {
	if strings.TrimSpace(c.CustomerName) == "" {
		return errs.Validation("customer_name", "is required")
	}
	if c.CustomerEmail != "" && !strings.Contains(c.CustomerEmail, "@") {
		return errs.Validation("customer_email", "must be a valid email address")
	}
	if len(c.Items) == 0 {
		return errs.Validation("items", "at least one item is required")
	}
	for _, item := range c.Items {
		if item.ProductID == "" {
			return errs.Validation("items", "product_id is required")
		}
		if item.Quantity < domain.MinQuantity || item.Quantity > domain.MaxQuantity {
			return errs.Validation("items",
				fmt.Sprintf("quantity for product %s must be between 1 and 1000", item.ProductID))
		}
	}
	return nil
}

type CommandHandler interface {
	Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
}

type CreateOrderCommandHandler struct {
	repo    ports.OrderRepository
	catalog ports.ProductCatalog
	events  ports.EventBus
}

func NewCreateOrderCommandHandler(
	repo ports.OrderRepository,
	catalog ports.ProductCatalog,
	events ports.EventBus,
) *CreateOrderCommandHandler {
	return &CreateOrderCommandHandler{
		repo:    repo,
		catalog: catalog,
		events:  events,
	}
}

func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(cmd.Items))
	for _, input := range cmd.Items {
		product, err := h.catalog.GetProduct(ctx, input.ProductID)
		if err != nil {
			return nil, err
		}

		item, err := domain.NewOrderItem(product.ID, input.Quantity, product.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	order, err := domain.NewOrder(cmd.CustomerName, cmd.CustomerEmail, cmd.OrderDate, cmd.DeliveryDate, items)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := h.events.PublishOrderCreated(ctx, order.ID); err != nil {
		return order, fmt.Errorf("order saved but failed to publish event: %w", err)
	}

	return order, nil
}
