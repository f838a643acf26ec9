package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/formation/products-api/internal/errs"
	"github.com/formation/products-api/internal/orders/adapters/memory"
	"github.com/formation/products-api/internal/orders/app/queries"
	"github.com/formation/products-api/internal/orders/domain"
)

func seedOrder(t *testing.T, repo *memory.Repository, id, email string, status domain.OrderStatus) domain.Order {
	t.Helper()

	order := domain.Order{
		ID:           id,
		OrderNumber:  "ON-" + id,
		CustomerName: "Test Customer",
		Status:       status,
		TotalAmount:  decimal.RequireFromString("10.00"),
		OrderDate:    time.Now().UTC(),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	order.CustomerEmail = email

	if err := repo.Create(context.Background(), &order); err != nil {
		t.Fatalf("failed to seed order %s: %v", id, err)
	}
	return order
}

func TestGetOrder(t *testing.T) {
	t.Run("returns order by ID", func(t *testing.T) {
		repo := memory.NewRepository()
		handler := queries.NewGetOrderQueryHandler(repo)
		ctx := context.Background()

		expected := seedOrder(t, repo, "test-order-123", "test@example.com", domain.StatusPending)

		result, err := handler.Handle(ctx, queries.GetOrderQuery{OrderID: "test-order-123"})

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result == nil {
			t.Fatal("expected order to be returned, got nil")
		}

		if result.ID != expected.ID {
			t.Errorf("expected ID %s, got %s", expected.ID, result.ID)
		}

		if result.CustomerEmail != expected.CustomerEmail {
			t.Errorf("expected email %s, got %s", expected.CustomerEmail, result.CustomerEmail)
		}

		if result.Status != expected.Status {
			t.Errorf("expected status %s, got %s", expected.Status, result.Status)
		}
	})

	t.Run("returns not found error for nonexistent order", func(t *testing.T) {
		repo := memory.NewRepository()
		handler := queries.NewGetOrderQueryHandler(repo)

		result, err := handler.Handle(context.Background(), queries.GetOrderQuery{OrderID: "nonexistent-order"})

		var nferr *errs.NotFoundError
		if !errors.As(err, &nferr) {
			t.Errorf("expected not found error, got %v", err)
		}

		if result != nil {
			t.Errorf("expected nil result, got %+v", result)
		}
	})

	t.Run("retrieves correct order from multiple orders", func(t *testing.T) {
		repo := memory.NewRepository()
		handler := queries.NewGetOrderQueryHandler(repo)
		ctx := context.Background()

		seeded := []domain.Order{
			seedOrder(t, repo, "order-1", "user1@example.com", domain.StatusPending),
			seedOrder(t, repo, "order-2", "user2@example.com", domain.StatusShipped),
			seedOrder(t, repo, "order-3", "user3@example.com", domain.StatusCancelled),
		}

		for _, expected := range seeded {
			result, err := handler.Handle(ctx, queries.GetOrderQuery{OrderID: expected.ID})

			if err != nil {
				t.Errorf("failed to get order %s: %v", expected.ID, err)
				continue
			}

			if result.ID != expected.ID {
				t.Errorf("expected ID %s, got %s", expected.ID, result.ID)
			}

			if result.Status != expected.Status {
				t.Errorf("expected status %s, got %s", expected.Status, result.Status)
			}
		}
	})
}

func TestGetOrderQueryValidation(t *testing.T) {
	tests := []struct {
		name    string
		query   queries.GetOrderQuery
		wantErr bool
	}{
		{
			name:    "valid order ID",
			query:   queries.GetOrderQuery{OrderID: "order-123"},
			wantErr: false,
		},
		{
			name:    "empty order ID",
			query:   queries.GetOrderQuery{OrderID: ""},
			wantErr: true,
		},
		{
			name:    "whitespace order ID",
			query:   queries.GetOrderQuery{OrderID: "  \t  "},
			wantErr: true,
		},
		{
			name:    "valid UUID order ID",
			query:   queries.GetOrderQuery{OrderID: "550e8400-e29b-41d4-a716-446655440000"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr {
				var verr *errs.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected validation error, got %v", err)
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}
