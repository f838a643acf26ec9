package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	catalogdomain "github.com/formation/products-api/internal/catalog/domain"
	"github.com/formation/products-api/internal/errs"
	"github.com/formation/products-api/internal/orders/adapters/memory"
	"github.com/formation/products-api/internal/orders/app"
	"github.com/formation/products-api/internal/orders/domain"
	"github.com/formation/products-api/internal/orders/metrics"
	"github.com/formation/products-api/internal/orders/ports"
)

type stubCatalog struct {
	products map[string]catalogdomain.Product
}

func (s *stubCatalog) GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, errs.NotFound("product", id)
	}
	return &product, nil
}

type recordingEventBus struct {
	created        []string
	statusChanges  []domain.OrderStatus
	itemsChanged   []string
	publishCreated error
}

func (b *recordingEventBus) PublishOrderCreated(ctx context.Context, orderID string) error {
	b.created = append(b.created, orderID)
	return b.publishCreated
}

func (b *recordingEventBus) PublishOrderStatusChanged(ctx context.Context, orderID string, status domain.OrderStatus) error {
	b.statusChanges = append(b.statusChanges, status)
	return nil
}

func (b *recordingEventBus) PublishOrderItemsChanged(ctx context.Context, orderID string) error {
	b.itemsChanged = append(b.itemsChanged, orderID)
	return nil
}

type noopIdemStore struct{}

func (noopIdemStore) Get(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return nil, nil
}

func (noopIdemStore) Save(ctx context.Context, key string, response ports.StoredResponse) error {
	return nil
}

func newTestService(t *testing.T) (*app.Service, *recordingEventBus) {
	t.Helper()

	catalog := &stubCatalog{products: map[string]catalogdomain.Product{
		"prod-1": {ID: "prod-1", Name: "Widget", Price: decimal.RequireFromString("10.00")},
		"prod-2": {ID: "prod-2", Name: "Gadget", Price: decimal.RequireFromString("5.00")},
	}}
	events := &recordingEventBus{}

	m, err := metrics.NewMetrics(sdkmetric.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := app.NewService(memory.NewRepository(), catalog, events, noopIdemStore{}, logger, m)
	return svc, events
}

func createTestOrder(t *testing.T, svc *app.Service) *domain.Order {
	t.Helper()

	order, err := svc.CreateOrder(context.Background(), app.CreateOrderInput{
		CustomerName: "Alice Martin",
		Items: []app.OrderItemInput{
			{ProductID: "prod-1", Quantity: 2},
			{ProductID: "prod-2", Quantity: 1},
		},
	})
	require.NoError(t, err)
	return order
}

func TestServiceCreateAndGet(t *testing.T) {
	svc, events := newTestService(t)

	order := createTestOrder(t, svc)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, []string{order.ID}, events.created)

	fetched, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
	assert.Len(t, fetched.Items, 2)
}

func TestServiceUpdateOrderStatus(t *testing.T) {
	svc, events := newTestService(t)
	order := createTestOrder(t, svc)

	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
	assert.Equal(t, []domain.OrderStatus{domain.StatusConfirmed}, events.statusChanges)

	// No transition guard: cancelling a confirmed order is allowed, and so
	// is moving it back afterwards.
	updated, err = svc.UpdateOrderStatus(context.Background(), order.ID, domain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)

	updated, err = svc.UpdateOrderStatus(context.Background(), order.ID, domain.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)
}

func TestServiceUpdateOrderStatusRejectsUnknown(t *testing.T) {
	svc, _ := newTestService(t)
	order := createTestOrder(t, svc)

	_, err := svc.UpdateOrderStatus(context.Background(), order.ID, domain.OrderStatus("SOMEWHERE"))

	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)

	fetched, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, fetched.Status)
}

func TestServiceAddOrderItem(t *testing.T) {
	svc, events := newTestService(t)
	order := createTestOrder(t, svc)

	updated, err := svc.AddOrderItem(context.Background(), order.ID, "prod-2", 3)
	require.NoError(t, err)
	assert.Len(t, updated.Items, 3)
	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("40.00")),
		"expected 40.00, got %s", updated.TotalAmount)
	assert.Equal(t, []string{order.ID}, events.itemsChanged)
}

func TestServiceAddOrderItemUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)
	order := createTestOrder(t, svc)

	_, err := svc.AddOrderItem(context.Background(), order.ID, "missing", 1)

	var nferr *errs.NotFoundError
	require.ErrorAs(t, err, &nferr)

	fetched, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, fetched.Items, 2)
}

func TestServiceRemoveOrderItem(t *testing.T) {
	svc, events := newTestService(t)
	order := createTestOrder(t, svc)

	updated, err := svc.RemoveOrderItem(context.Background(), order.ID, order.Items[0].ID)
	require.NoError(t, err)
	assert.Len(t, updated.Items, 1)
	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("5.00")))
	assert.Equal(t, []string{order.ID}, events.itemsChanged)
}

func TestServiceRemoveOrderItemAbsentIsNoop(t *testing.T) {
	svc, events := newTestService(t)
	order := createTestOrder(t, svc)

	updated, err := svc.RemoveOrderItem(context.Background(), order.ID, "no-such-item")
	require.NoError(t, err)
	assert.Len(t, updated.Items, 2)
	assert.True(t, updated.TotalAmount.Equal(order.TotalAmount))
	assert.Empty(t, events.itemsChanged)
}

func TestServiceRemoveOrderItemUnknownOrder(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RemoveOrderItem(context.Background(), "no-such-order", "item-1")

	var nferr *errs.NotFoundError
	require.ErrorAs(t, err, &nferr)
}

func TestServiceListOrdersByStatus(t *testing.T) {
	svc, _ := newTestService(t)
	first := createTestOrder(t, svc)
	second := createTestOrder(t, svc)

	_, err := svc.UpdateOrderStatus(context.Background(), second.ID, domain.StatusConfirmed)
	require.NoError(t, err)

	pending := domain.StatusPending
	orders, err := svc.ListOrders(context.Background(), ports.ListFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)
}

func TestServiceCreateOrderEventFailureStillPersists(t *testing.T) {
	svc, events := newTestService(t)
	events.publishCreated = errors.New("broker down")

	order, err := svc.CreateOrder(context.Background(), app.CreateOrderInput{
		CustomerName: "Alice Martin",
		Items:        []app.OrderItemInput{{ProductID: "prod-1", Quantity: 1}},
	})
	require.Error(t, err)
	require.NotNil(t, order)

	fetched, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
}
