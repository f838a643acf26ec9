package kafka

import (
	"context"
	"log/slog"

	"github.com/formation/products-api/internal/orders/domain"
)

// NoopEventBus logs events without sending them to Kafka. Useful for local dev before wiring Kafka.
// It satisfies both the orders and the catalog event bus contracts.
type NoopEventBus struct{}

// NewNoopEventBus returns a new no-op event publisher.
func NewNoopEventBus() *NoopEventBus {
	return &NoopEventBus{}
}

func (n *NoopEventBus) PublishOrderCreated(_ context.Context, orderID string) error {
	slog.Debug("event::order_created", "order_id", orderID)
	return nil
}

func (n *NoopEventBus) PublishOrderStatusChanged(_ context.Context, orderID string, status domain.OrderStatus) error {
	slog.Debug("event::order_status_changed", "order_id", orderID, "status", string(status))
	return nil
}

func (n *NoopEventBus) PublishOrderItemsChanged(_ context.Context, orderID string) error {
	slog.Debug("event::order_items_changed", "order_id", orderID)
	return nil
}

func (n *NoopEventBus) PublishStockAdjusted(_ context.Context, productID string, delta, newStock int) error {
	slog.Debug("event::stock_adjusted", "product_id", productID, "delta", delta, "stock", newStock)
	return nil
}
