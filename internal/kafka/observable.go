package kafka

import (
	"context"
	"time"

	"github.com/formation/products-api/internal/orders/domain"
)

// EventBus is the union of the event publishing contracts the service
// wires. NoopEventBus implements it today; a real Kafka producer slots in
// behind the same decorator.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, orderID string) error
	PublishOrderStatusChanged(ctx context.Context, orderID string, status domain.OrderStatus) error
	PublishOrderItemsChanged(ctx context.Context, orderID string) error
	PublishStockAdjusted(ctx context.Context, productID string, delta, newStock int) error
}

// Topics the service publishes to.
const (
	TopicOrderCreated       = "orders.created"
	TopicOrderStatusChanged = "orders.status_changed"
	TopicOrderItemsChanged  = "orders.items_changed"
	TopicStockAdjusted      = "catalog.stock_adjusted"
)

// ObservableEventBus records producer latency around an inner event bus.
type ObservableEventBus struct {
	inner   EventBus
	metrics *Metrics
}

// NewObservableEventBus wraps inner with publish metrics.
func NewObservableEventBus(inner EventBus, metrics *Metrics) *ObservableEventBus {
	return &ObservableEventBus{inner: inner, metrics: metrics}
}

func (o *ObservableEventBus) publish(ctx context.Context, topic string, fn func() error) error {
	start := time.Now()
	err := fn()
	o.metrics.RecordPublish(ctx, topic, time.Since(start).Seconds(), err == nil)
	return err
}

func (o *ObservableEventBus) PublishOrderCreated(ctx context.Context, orderID string) error {
	return o.publish(ctx, TopicOrderCreated, func() error {
		return o.inner.PublishOrderCreated(ctx, orderID)
	})
}

func (o *ObservableEventBus) PublishOrderStatusChanged(ctx context.Context, orderID string, status domain.OrderStatus) error {
	return o.publish(ctx, TopicOrderStatusChanged, func() error {
		return o.inner.PublishOrderStatusChanged(ctx, orderID, status)
	})
}

func (o *ObservableEventBus) PublishOrderItemsChanged(ctx context.Context, orderID string) error {
	return o.publish(ctx, TopicOrderItemsChanged, func() error {
		return o.inner.PublishOrderItemsChanged(ctx, orderID)
	})
}

func (o *ObservableEventBus) PublishStockAdjusted(ctx context.Context, productID string, delta, newStock int) error {
	return o.publish(ctx, TopicStockAdjusted, func() error {
		return o.inner.PublishStockAdjusted(ctx, productID, delta, newStock)
	})
}
