package ports

import (
	"context"

	"github.com/formation/products-api/internal/orders/domain"
)

// EventBus defines the contract for publishing order lifecycle events.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, orderID string) error
	PublishOrderStatusChanged(ctx context.Context, orderID string, status domain.OrderStatus) error
	PublishOrderItemsChanged(ctx context.Context, orderID string) error
}
