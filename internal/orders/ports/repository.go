package ports

import (
	"context"

	"github.com/formation/products-api/internal/orders/domain"
)

// OrderRepository exposes persistence operations required by the
// application layer. Mutations of a single order's item list go through
// Mutate so each adapter can serialize concurrent writers on that order.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Order, error)
	// Mutate loads the order, applies fn to it inside the adapter's
	// critical section for that order, and persists the result. When fn
	// returns an error nothing is written.
	Mutate(ctx context.Context, id string, fn func(*domain.Order) error) (*domain.Order, error)
}

// ListFilter narrows list queries by customer email, status and pagination.
type ListFilter struct {
	CustomerEmail string
	Status        *domain.OrderStatus
	Page          int
	PageSize      int
}
