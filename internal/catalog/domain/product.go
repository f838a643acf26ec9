package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/formation/products-api/internal/errs"
)

var (
	skuPattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`)
	minPrice   = decimal.New(1, -2)
)

// Product is a catalog entry. Stock is adjusted exclusively through the
// repository's AdjustStock so it can never go negative, even under
// concurrent writers.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	SKU         string          `json:"sku,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Validate ensures the product adheres to catalog constraints.
func (p Product) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return errs.Validation("name", "is required")
	}
	if len(name) < 2 || len(name) > 200 {
		return errs.Validation("name", "must be between 2 and 200 characters")
	}
	if len(p.Description) > 1000 {
		return errs.Validation("description", "must not exceed 1000 characters")
	}
	if p.Price.LessThan(minPrice) {
		return errs.Validation("price", "must be at least 0.01")
	}
	if !p.Price.Equal(p.Price.Round(2)) {
		return errs.Validation("price", "must have at most 2 decimal places")
	}
	if p.Stock < 0 {
		return errs.Validation("stock", "must not be negative")
	}
	if p.SKU != "" && !skuPattern.MatchString(p.SKU) {
		return errs.Validation("sku", "must match the pattern AAA000")
	}
	return nil
}
