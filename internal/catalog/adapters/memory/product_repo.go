package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/formation/products-api/internal/catalog/domain"
	"github.com/formation/products-api/internal/catalog/ports"
	"github.com/formation/products-api/internal/errs"
)

// ProductRepository provides an in-memory product store useful for local
// development and tests. The repository mutex doubles as the critical
// section serializing stock adjustments on a product.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// NewProductRepository constructs a new in-memory product repository.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]domain.Product)}
}

// Create stores a new product.
func (r *ProductRepository) Create(_ context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

// GetByID fetches a single product by identifier.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, errs.NotFound("product", id)
	}
	copy := product
	return &copy, nil
}

// List returns products matching the filter, ordered by name.
func (r *ProductRepository) List(_ context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []domain.Product{}
	for _, product := range r.products {
		if filter.CategoryID != "" && product.CategoryID != filter.CategoryID {
			continue
		}
		result = append(result, product)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// Update replaces a stored product.
func (r *ProductRepository) Update(_ context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return errs.NotFound("product", product.ID)
	}
	r.products[product.ID] = product
	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return errs.NotFound("product", id)
	}
	delete(r.products, id)
	return nil
}

// AdjustStock applies delta inside the repository's critical section. The
// check and the write happen under the same lock so concurrent adjustments
// to one product cannot interleave and drive stock negative.
func (r *ProductRepository) AdjustStock(_ context.Context, id string, delta int) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, errs.NotFound("product", id)
	}

	newStock := product.Stock + delta
	if newStock < 0 {
		requested := delta
		if requested < 0 {
			requested = -requested
		}
		return nil, errs.InsufficientStock(product.Name, requested, product.Stock)
	}

	product.Stock = newStock
	product.UpdatedAt = time.Now().UTC()
	r.products[id] = product

	copy := product
	return &copy, nil
}

// ExistsBySKU reports whether any product carries the given SKU.
func (r *ProductRepository) ExistsBySKU(_ context.Context, sku string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, product := range r.products {
		if product.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

// All returns a snapshot of every stored product. Used by the in-memory
// stats reader.
func (r *ProductRepository) All() []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		result = append(result, product)
	}
	return result
}
