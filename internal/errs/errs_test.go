package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/formation/products-api/internal/errs"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation error", errs.Validation("name", "is required"), http.StatusBadRequest},
		{"not found error", errs.NotFound("product", "abc"), http.StatusNotFound},
		{"conflict error", errs.Conflict("sku %s already exists", "ABC123"), http.StatusConflict},
		{"insufficient stock error", errs.InsufficientStock("Widget", 5, 2), http.StatusConflict},
		{"wrapped validation error", fmt.Errorf("create product: %w", errs.Validation("price", "too low")), http.StatusBadRequest},
		{"wrapped not found error", fmt.Errorf("load: %w", errs.NotFound("order", "1")), http.StatusNotFound},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"nil error", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errs.HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInsufficientStockMessage(t *testing.T) {
	err := errs.InsufficientStock("Clavier mécanique", 3, 2)

	want := `insufficient stock for product "Clavier mécanique": requested 3, available 2`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var stockErr *errs.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatal("expected error to be an *InsufficientStockError")
	}
	if stockErr.Requested != 3 || stockErr.Available != 2 {
		t.Errorf("unexpected diagnostics: requested=%d available=%d", stockErr.Requested, stockErr.Available)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	withField := errs.Validation("customer_name", "is required")
	if withField.Error() != "customer_name: is required" {
		t.Errorf("unexpected message: %q", withField.Error())
	}

	withoutField := errs.Validation("", "at least one item is required")
	if withoutField.Error() != "at least one item is required" {
		t.Errorf("unexpected message: %q", withoutField.Error())
	}
}
