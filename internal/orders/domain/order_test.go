package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formation/products-api/internal/errs"
	"github.com/formation/products-api/internal/orders/domain"
)

func mustItem(t *testing.T, productID string, quantity int, price string) domain.OrderItem {
	t.Helper()
	item, err := domain.NewOrderItem(productID, quantity, decimal.RequireFromString(price))
	require.NoError(t, err)
	return item
}

func TestNewOrder(t *testing.T) {
	t.Run("computes total from supplied items", func(t *testing.T) {
		items := []domain.OrderItem{
			mustItem(t, "product-a", 2, "10.00"),
			mustItem(t, "product-b", 1, "5.00"),
		}

		order, err := domain.NewOrder("Alice Martin", "alice@example.com", time.Time{}, nil, items)
		require.NoError(t, err)

		assert.Equal(t, domain.StatusPending, order.Status)
		assert.NotEmpty(t, order.ID)
		assert.NotEmpty(t, order.OrderNumber)
		assert.False(t, order.OrderDate.IsZero())
		assert.Len(t, order.Items, 2)
		assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("25.00")),
			"total = %s, want 25.00", order.TotalAmount)
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		_, err := domain.NewOrder("Alice Martin", "", time.Time{}, nil, nil)
		require.Error(t, err)

		var validation *errs.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "items", validation.Field)
	})

	t.Run("rejects non-positive item quantity", func(t *testing.T) {
		items := []domain.OrderItem{
			mustItem(t, "product-a", 1, "10.00"),
			{ID: "item-b", ProductID: "product-b", Quantity: 0, UnitPrice: decimal.RequireFromString("5.00")},
		}
		_, err := domain.NewOrder("Alice Martin", "", time.Time{}, nil, items)

		var validation *errs.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "items", validation.Field)
	})

	t.Run("rejects blank customer name", func(t *testing.T) {
		items := []domain.OrderItem{mustItem(t, "product-a", 1, "1.00")}
		_, err := domain.NewOrder("   ", "", time.Time{}, nil, items)

		var validation *errs.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "customer_name", validation.Field)
	})

	t.Run("rejects malformed email when present", func(t *testing.T) {
		items := []domain.OrderItem{mustItem(t, "product-a", 1, "1.00")}
		_, err := domain.NewOrder("Alice Martin", "not-an-email", time.Time{}, nil, items)

		var validation *errs.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "customer_email", validation.Field)
	})

	t.Run("email is optional", func(t *testing.T) {
		items := []domain.OrderItem{mustItem(t, "product-a", 1, "1.00")}
		_, err := domain.NewOrder("Alice Martin", "", time.Time{}, nil, items)
		assert.NoError(t, err)
	})

	t.Run("keeps supplied order and delivery dates", func(t *testing.T) {
		orderDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		deliveryDate := orderDate.AddDate(0, 0, 5)
		items := []domain.OrderItem{mustItem(t, "product-a", 1, "1.00")}

		order, err := domain.NewOrder("Alice Martin", "", orderDate, &deliveryDate, items)
		require.NoError(t, err)

		assert.True(t, order.OrderDate.Equal(orderDate))
		require.NotNil(t, order.DeliveryDate)
		assert.True(t, order.DeliveryDate.Equal(deliveryDate))
	})
}

func TestOrderTotalInvariant(t *testing.T) {
	newOrder := func(t *testing.T) *domain.Order {
		t.Helper()
		order, err := domain.NewOrder("Alice Martin", "", time.Time{}, nil, []domain.OrderItem{
			mustItem(t, "product-a", 2, "10.00"),
		})
		require.NoError(t, err)
		return order
	}

	sumOfSubtotals := func(o *domain.Order) decimal.Decimal {
		sum := decimal.Zero
		for _, item := range o.Items {
			sum = sum.Add(item.Subtotal)
		}
		return sum
	}

	t.Run("holds after add", func(t *testing.T) {
		order := newOrder(t)
		order.AddItem(mustItem(t, "product-b", 3, "2.50"))

		assert.True(t, order.TotalAmount.Equal(sumOfSubtotals(order)))
		assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("27.50")))
	})

	t.Run("add then remove restores the previous total", func(t *testing.T) {
		order := newOrder(t)
		before := order.TotalAmount

		extra := mustItem(t, "product-b", 3, "2.50")
		order.AddItem(extra)
		require.False(t, order.TotalAmount.Equal(before))

		removed := order.RemoveItem(extra.ID)
		assert.True(t, removed)
		assert.True(t, order.TotalAmount.Equal(before),
			"total = %s, want %s", order.TotalAmount, before)
	})

	t.Run("removing an unknown item is a no-op", func(t *testing.T) {
		order := newOrder(t)
		before := order.TotalAmount

		removed := order.RemoveItem("does-not-exist")
		assert.False(t, removed)
		assert.True(t, order.TotalAmount.Equal(before))
		assert.Len(t, order.Items, 1)
	})

	t.Run("calculate total is idempotent", func(t *testing.T) {
		order := newOrder(t)
		order.AddItem(mustItem(t, "product-b", 7, "0.99"))

		order.CalculateTotal()
		once := order.TotalAmount
		order.CalculateTotal()

		assert.True(t, order.TotalAmount.Equal(once))
	})

	t.Run("item linked to order on add", func(t *testing.T) {
		order := newOrder(t)
		order.AddItem(mustItem(t, "product-b", 1, "2.00"))

		for _, item := range order.Items {
			assert.Equal(t, order.ID, item.OrderID)
		}
	})
}

func TestOrderSetStatus(t *testing.T) {
	order, err := domain.NewOrder("Alice Martin", "", time.Time{}, nil, []domain.OrderItem{
		mustItem(t, "product-a", 1, "1.00"),
	})
	require.NoError(t, err)

	// Transitions are intentionally unguarded: any known status may be set
	// from any other.
	for _, status := range []domain.OrderStatus{
		domain.StatusConfirmed,
		domain.StatusShipped,
		domain.StatusDelivered,
		domain.StatusPending,
		domain.StatusCancelled,
	} {
		require.NoError(t, order.SetStatus(status))
		assert.Equal(t, status, order.Status)
	}

	err = order.SetStatus(domain.OrderStatus("UNKNOWN"))
	var validation *errs.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestOrderIsTerminal(t *testing.T) {
	tests := []struct {
		status domain.OrderStatus
		want   bool
	}{
		{domain.StatusPending, false},
		{domain.StatusConfirmed, false},
		{domain.StatusShipped, false},
		{domain.StatusDelivered, true},
		{domain.StatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			order := domain.Order{Status: tt.status}
			assert.Equal(t, tt.want, order.IsTerminal())
		})
	}
}
