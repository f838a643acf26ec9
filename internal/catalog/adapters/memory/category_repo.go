package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/formation/products-api/internal/catalog/domain"
	"github.com/formation/products-api/internal/errs"
)

// CategoryRepository provides an in-memory category store.
type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]domain.Category
}

// NewCategoryRepository constructs a new in-memory category repository.
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{categories: make(map[string]domain.Category)}
}

func (r *CategoryRepository) Create(_ context.Context, category domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[category.ID] = category
	return nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, errs.NotFound("category", id)
	}
	copy := category
	return &copy, nil
}

func (r *CategoryRepository) GetByName(_ context.Context, name string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, category := range r.categories {
		if category.Name == name {
			copy := category
			return &copy, nil
		}
	}
	return nil, errs.NotFound("category", name)
}

func (r *CategoryRepository) List(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Category, 0, len(r.categories))
	for _, category := range r.categories {
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *CategoryRepository) Update(_ context.Context, category domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return errs.NotFound("category", category.ID)
	}
	r.categories[category.ID] = category
	return nil
}

func (r *CategoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return errs.NotFound("category", id)
	}
	delete(r.categories, id)
	return nil
}

// All returns a snapshot of every stored category.
func (r *CategoryRepository) All() []domain.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Category, 0, len(r.categories))
	for _, category := range r.categories {
		result = append(result, category)
	}
	return result
}
