package domain

import (
	"strings"
	"time"

	"github.com/formation/products-api/internal/errs"
)

// Category groups products. A category that still has products cannot be
// deleted.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate ensures the category adheres to catalog constraints.
func (c Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return errs.Validation("name", "is required")
	}
	if len(name) > 100 {
		return errs.Validation("name", "must not exceed 100 characters")
	}
	return nil
}
