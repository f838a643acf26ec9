package ports

import (
	"context"

	"github.com/formation/products-api/internal/catalog/domain"
)

// ProductRepository exposes persistence operations for products.
//
// AdjustStock is the stock ledger: it applies delta to the product's stock
// atomically with respect to concurrent callers on the same product, and
// returns errs.InsufficientStockError when the result would be negative,
// leaving the stock unchanged.
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID   string
	CategoryName string
}

// CategoryRepository exposes persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category domain.Category) error
	Delete(ctx context.Context, id string) error
}

// SupplierRepository exposes persistence operations for suppliers.
type SupplierRepository interface {
	Create(ctx context.Context, supplier domain.Supplier) error
	GetByID(ctx context.Context, id string) (*domain.Supplier, error)
	List(ctx context.Context) ([]domain.Supplier, error)
	Update(ctx context.Context, supplier domain.Supplier) error
	Delete(ctx context.Context, id string) error
}

// EventBus defines the contract for publishing catalog events.
type EventBus interface {
	PublishStockAdjusted(ctx context.Context, productID string, delta, newStock int) error
}
