package domain

import (
	"strings"
	"time"

	"github.com/formation/products-api/internal/errs"
)

// Supplier identifies where catalog products are sourced from.
type Supplier struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate ensures the supplier adheres to catalog constraints.
func (s Supplier) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errs.Validation("name", "is required")
	}
	if s.ContactEmail != "" && !strings.Contains(s.ContactEmail, "@") {
		return errs.Validation("contact_email", "must be a valid email address")
	}
	return nil
}
