package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/formation/products-api/internal/orders/app/commands"
	"github.com/formation/products-api/internal/orders/app/queries"
	"github.com/formation/products-api/internal/orders/domain"
	"github.com/formation/products-api/internal/orders/metrics"
	"github.com/formation/products-api/internal/orders/ports"
)

// Service bundles use cases for handling orders via the API.
type Service struct {
	repo               ports.OrderRepository
	catalog            ports.ProductCatalog
	events             ports.EventBus
	idemStore          ports.IdempotencyStore
	logger             *slog.Logger
	createOrderHandler commands.CommandHandler
	getOrderHandler    *queries.GetOrderQueryHandler
}

// NewService wires required dependencies.
func NewService(
	repo ports.OrderRepository,
	catalog ports.ProductCatalog,
	events ports.EventBus,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Service {
	coreHandler := commands.NewCreateOrderCommandHandler(repo, catalog, events)
	observableHandler := commands.NewObservableCommandHandler(coreHandler, logger, metrics)

	return &Service{
		repo:               repo,
		catalog:            catalog,
		events:             events,
		idemStore:          idem,
		logger:             logger,
		createOrderHandler: observableHandler,
		getOrderHandler:    queries.NewGetOrderQueryHandler(repo),
	}
}

// CreateOrderInput captures payload for creating an order.
type CreateOrderInput struct {
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	OrderDate     time.Time        `json:"order_date"`
	DeliveryDate  *time.Time       `json:"delivery_date"`
	Items         []OrderItemInput `json:"items"`
}

// OrderItemInput references a product and quantity. Prices come from the
// catalog, never from the request.
type OrderItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrder orchestrates order creation and event emission.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	items := make([]commands.ItemInput, len(input.Items))
	for i, item := range input.Items {
		items[i] = commands.ItemInput{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	cmd := commands.CreateOrderCommand{
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		OrderDate:     input.OrderDate,
		DeliveryDate:  input.DeliveryDate,
		Items:         items,
	}
	return s.createOrderHandler.Handle(ctx, cmd)
}

// GetOrder retrieves an order by ID.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.getOrderHandler.Handle(ctx, queries.GetOrderQuery{OrderID: id})
}

// ListOrders returns orders using a filter.
func (s *Service) ListOrders(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	return s.repo.List(ctx, filter)
}

// UpdateOrderStatus moves an order to the given status. Any known status is
// accepted from any current status.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.repo.Mutate(ctx, id, func(order *domain.Order) error {
		return order.SetStatus(status)
	})
	if err != nil {
		return nil, err
	}

	if err := s.events.PublishOrderStatusChanged(ctx, order.ID, order.Status); err != nil {
		s.logger.WarnContext(ctx, "failed to publish status change event",
			"order_id", order.ID,
			"error", err,
		)
	}

	return order, nil
}

// AddOrderItem appends a line item to an existing order. The unit price is
// copied from the catalog at the moment of the call and the order total is
// recomputed before anything is persisted.
func (s *Service) AddOrderItem(ctx context.Context, orderID, productID string, quantity int) (*domain.Order, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	item, err := domain.NewOrderItem(product.ID, quantity, product.Price)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.Mutate(ctx, orderID, func(order *domain.Order) error {
		order.AddItem(item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.events.PublishOrderItemsChanged(ctx, order.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to publish items change event",
			"order_id", order.ID,
			"error", err,
		)
	}

	return order, nil
}

// RemoveOrderItem removes a line item from an order and recomputes the
// total. Removing an item that is not on the order leaves the order
// untouched.
func (s *Service) RemoveOrderItem(ctx context.Context, orderID, itemID string) (*domain.Order, error) {
	var removed bool
	order, err := s.repo.Mutate(ctx, orderID, func(order *domain.Order) error {
		removed = order.RemoveItem(itemID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if removed {
		if err := s.events.PublishOrderItemsChanged(ctx, order.ID); err != nil {
			s.logger.WarnContext(ctx, "failed to publish items change event",
				"order_id", order.ID,
				"error", err,
			)
		}
	}

	return order, nil
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
