package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/formation/products-api/internal/catalog/domain"
	"github.com/formation/products-api/internal/errs"
)

// SupplierRepository provides an in-memory supplier store.
type SupplierRepository struct {
	mu        sync.RWMutex
	suppliers map[string]domain.Supplier
}

// NewSupplierRepository constructs a new in-memory supplier repository.
func NewSupplierRepository() *SupplierRepository {
	return &SupplierRepository{suppliers: make(map[string]domain.Supplier)}
}

func (r *SupplierRepository) Create(_ context.Context, supplier domain.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers[supplier.ID] = supplier
	return nil
}

func (r *SupplierRepository) GetByID(_ context.Context, id string) (*domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	supplier, ok := r.suppliers[id]
	if !ok {
		return nil, errs.NotFound("supplier", id)
	}
	copy := supplier
	return &copy, nil
}

func (r *SupplierRepository) List(_ context.Context) ([]domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Supplier, 0, len(r.suppliers))
	for _, supplier := range r.suppliers {
		result = append(result, supplier)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *SupplierRepository) Update(_ context.Context, supplier domain.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.suppliers[supplier.ID]; !ok {
		return errs.NotFound("supplier", supplier.ID)
	}
	r.suppliers[supplier.ID] = supplier
	return nil
}

func (r *SupplierRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.suppliers[id]; !ok {
		return errs.NotFound("supplier", id)
	}
	delete(r.suppliers, id)
	return nil
}
