package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/formation/products-api/internal/errs"
)

// OrderStatus captures the lifecycle of an order in the system.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether the status is one of the known values.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// Order is the aggregate root for a customer order. It owns its line items
// and keeps TotalAmount equal to the sum of their subtotals after every
// mutation.
type Order struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"order_number"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	Status        OrderStatus     `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	OrderDate     time.Time       `json:"order_date"`
	DeliveryDate  *time.Time      `json:"delivery_date,omitempty"`
	Items         []OrderItem     `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewOrder builds an order in status PENDING from at least one line item.
// The order number is generated when absent and the total is computed from
// the supplied items. A zero orderDate defaults to the current time.
func NewOrder(customerName, customerEmail string, orderDate time.Time, deliveryDate *time.Time, items []OrderItem) (*Order, error) {
	if strings.TrimSpace(customerName) == "" {
		return nil, errs.Validation("customer_name", "is required")
	}
	if customerEmail != "" && !strings.Contains(customerEmail, "@") {
		return nil, errs.Validation("customer_email", "must be a valid email address")
	}
	if len(items) == 0 {
		return nil, errs.Validation("items", "at least one item is required")
	}
	// Items normally come through NewOrderItem, but the aggregate enforces
	// the quantity floor itself rather than trusting every caller.
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, errs.Validation("items", "every item quantity must be positive")
		}
	}

	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}

	id, err := NewID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &Order{
		ID:            id,
		OrderNumber:   uuid.New().String(),
		CustomerName:  strings.TrimSpace(customerName),
		CustomerEmail: customerEmail,
		Status:        StatusPending,
		OrderDate:     orderDate,
		DeliveryDate:  deliveryDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, item := range items {
		order.AddItem(item)
	}

	return order, nil
}

// AddItem appends the item, links it to this order and recomputes the
// total. No other item is affected.
func (o *Order) AddItem(item OrderItem) {
	item.OrderID = o.ID
	o.Items = append(o.Items, item)
	o.CalculateTotal()
}

// RemoveItem removes the item with the given ID, severing the ownership
// link, and recomputes the total. It is a no-op when no item matches.
func (o *Order) RemoveItem(itemID string) bool {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.CalculateTotal()
			return true
		}
	}
	return false
}

// CalculateTotal sums the item subtotals into TotalAmount. Deterministic
// and idempotent: calling it twice in a row yields the same total.
func (o *Order) CalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	o.TotalAmount = total.Round(2)
}

// SetStatus stores the new status. The aggregate enforces no transition
// rules; deciding which transitions are legal is the service layer's call.
func (o *Order) SetStatus(status OrderStatus) error {
	if !status.Valid() {
		return errs.Validation("status", "unknown order status "+string(status))
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// IsTerminal indicates whether the order is in a terminal state.
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// NewID generates an opaque identifier for orders and line items.
func NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
