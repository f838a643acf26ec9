package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/formation/products-api/internal/errs"
	"github.com/formation/products-api/internal/orders/domain"
	"github.com/formation/products-api/internal/orders/ports"
)

// Repository provides an in-memory order store useful for local
// development and tests.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

// NewRepository constructs a new in-memory order repository.
func NewRepository() *Repository {
	return &Repository{orders: make(map[string]domain.Order)}
}

// Create stores a new order.
func (r *Repository) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = cloneOrder(*order)
	return nil
}

// GetByID fetches a single order by identifier.
func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, errs.NotFound("order", id)
	}
	copy := cloneOrder(order)
	return &copy, nil
}

// List returns orders respecting the provided filter. Pagination is 1-based.
func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Order
	for _, order := range r.orders {
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		if filter.CustomerEmail != "" && order.CustomerEmail != filter.CustomerEmail {
			continue
		}
		result = append(result, cloneOrder(order))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].OrderDate.Before(result[j].OrderDate)
	})

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	start := (page - 1) * pageSize
	if start >= len(result) {
		return []domain.Order{}, nil
	}

	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

// Mutate applies fn to the stored order under the repository lock, so
// concurrent mutations of the same order's item list are serialized around
// the add/remove/recompute sequence. Nothing is written when fn errors.
func (r *Repository) Mutate(_ context.Context, id string, fn func(*domain.Order) error) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[id]
	if !ok {
		return nil, errs.NotFound("order", id)
	}

	order := cloneOrder(stored)
	if err := fn(&order); err != nil {
		return nil, err
	}

	r.orders[id] = cloneOrder(order)
	return &order, nil
}

// All returns a snapshot of every stored order. Used by the in-memory
// stats reader.
func (r *Repository) All() []domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		result = append(result, cloneOrder(order))
	}
	return result
}

func cloneOrder(order domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}
