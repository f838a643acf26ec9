package domain

import (
	"github.com/shopspring/decimal"

	"github.com/formation/products-api/internal/errs"
)

const (
	// MinQuantity and MaxQuantity bound the quantity accepted at creation.
	MinQuantity = 1
	MaxQuantity = 1000
)

// minUnitPrice is the smallest unit price accepted at creation (0.01).
var minUnitPrice = decimal.New(1, -2)

// OrderItem is one product/quantity/price triple within an order. It
// belongs to exactly one order; the Subtotal is derived and never accepted
// as caller input.
type OrderItem struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"-"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// NewOrderItem builds a line item, validating quantity and unit price. The
// unit price is normally copied from the product at the moment the item is
// added and is not re-read later.
func NewOrderItem(productID string, quantity int, unitPrice decimal.Decimal) (OrderItem, error) {
	if productID == "" {
		return OrderItem{}, errs.Validation("product_id", "is required")
	}
	if quantity < MinQuantity || quantity > MaxQuantity {
		return OrderItem{}, errs.Validation("quantity", "must be between 1 and 1000")
	}
	if unitPrice.LessThan(minUnitPrice) {
		return OrderItem{}, errs.Validation("unit_price", "must be at least 0.01")
	}

	id, err := NewID()
	if err != nil {
		return OrderItem{}, err
	}

	item := OrderItem{
		ID:        id,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	item.recomputeSubtotal()
	return item, nil
}

// SetQuantity updates the quantity and recomputes the subtotal.
func (i *OrderItem) SetQuantity(quantity int) {
	i.Quantity = quantity
	i.recomputeSubtotal()
}

// SetUnitPrice updates the unit price and recomputes the subtotal.
func (i *OrderItem) SetUnitPrice(unitPrice decimal.Decimal) {
	i.UnitPrice = unitPrice
	i.recomputeSubtotal()
}

// recomputeSubtotal keeps Subtotal consistent with quantity and unit
// price. A negative quantity is normalized to zero rather than rejected.
// Amounts carry two fractional digits, rounding half-up.
func (i *OrderItem) recomputeSubtotal() {
	if i.Quantity < 0 {
		i.Quantity = 0
	}
	i.Subtotal = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}
