package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/formation/products-api/internal/catalog/domain"
	"github.com/formation/products-api/internal/catalog/metrics"
	"github.com/formation/products-api/internal/catalog/ports"
	"github.com/formation/products-api/internal/errs"
)

// Service bundles the catalog use cases: product, category and supplier
// management plus the stock ledger operations.
type Service struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
	suppliers  ports.SupplierRepository
	events     ports.EventBus
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewService wires required dependencies.
func NewService(
	products ports.ProductRepository,
	categories ports.CategoryRepository,
	suppliers ports.SupplierRepository,
	events ports.EventBus,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		products:   products,
		categories: categories,
		suppliers:  suppliers,
		events:     events,
		logger:     logger,
		metrics:    metrics,
	}
}

// CreateProduct validates and stores a new product. A SKU already in use
// is a conflict.
func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if product.SKU != "" {
		exists, err := s.products.ExistsBySKU(ctx, product.SKU)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errs.Conflict("product with sku %s already exists", product.SKU)
		}
	}

	if product.CategoryID != "" {
		if _, err := s.categories.GetByID(ctx, product.CategoryID); err != nil {
			return nil, err
		}
	}
	if product.SupplierID != "" {
		if _, err := s.suppliers.GetByID(ctx, product.SupplierID); err != nil {
			return nil, err
		}
	}

	product.ID = uuid.New().String()
	product.CreatedAt = time.Now().UTC()
	product.UpdatedAt = product.CreatedAt

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.metrics.RecordProductCreated(ctx)
	s.logger.InfoContext(ctx, "product created", "product_id", product.ID, "sku", product.SKU)

	return &product, nil
}

// GetProduct retrieves a product by ID.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// ListProducts returns products, optionally filtered by category ID or
// category name. An unknown category name yields an empty list.
func (s *Service) ListProducts(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	if filter.CategoryName != "" {
		category, err := s.categories.GetByName(ctx, filter.CategoryName)
		if err != nil {
			var notFound *errs.NotFoundError
			if errors.As(err, &notFound) {
				return []domain.Product{}, nil
			}
			return nil, err
		}
		filter = ports.ProductFilter{CategoryID: category.ID}
	}
	return s.products.List(ctx, filter)
}

// UpdateProduct replaces a product's attributes, preserving its identity
// and creation time.
func (s *Service) UpdateProduct(ctx context.Context, id string, updated domain.Product) (*domain.Product, error) {
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

// AdjustStock applies a signed stock delta to a product. The adjustment is
// atomic per product; when it would drive stock negative nothing changes
// and an InsufficientStockError is returned.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error) {
	product, err := s.products.AdjustStock(ctx, id, delta)
	if err != nil {
		s.metrics.RecordStockAdjustment(ctx, false)
		return nil, err
	}

	s.metrics.RecordStockAdjustment(ctx, true)
	s.logger.InfoContext(ctx, "stock adjusted",
		"product_id", id, "delta", delta, "stock", product.Stock)

	if err := s.events.PublishStockAdjusted(ctx, id, delta, product.Stock); err != nil {
		s.logger.WarnContext(ctx, "failed to publish stock event", "product_id", id, "error", err)
	}

	return product, nil
}

// DecreaseStock consumes quantity units of stock. Quantity must be
// strictly positive; the failure semantics match AdjustStock.
func (s *Service) DecreaseStock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	if quantity <= 0 {
		return nil, errs.Validation("quantity", "must be strictly positive")
	}
	return s.AdjustStock(ctx, id, -quantity)
}

// CreateCategory validates and stores a new category.
func (s *Service) CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}

	category.ID = uuid.New().String()
	category.CreatedAt = time.Now().UTC()
	category.UpdatedAt = category.CreatedAt

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategory retrieves a category by ID.
func (s *Service) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// UpdateCategory replaces a category's attributes.
func (s *Service) UpdateCategory(ctx context.Context, id string, updated domain.Category) (*domain.Category, error) {
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if err := s.categories.Update(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory removes a category. A category that still has products is
// a conflict.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}

	products, err := s.products.List(ctx, ports.ProductFilter{CategoryID: id})
	if err != nil {
		return err
	}
	if len(products) > 0 {
		return errs.Conflict("category %s still has %d products", category.Name, len(products))
	}

	return s.categories.Delete(ctx, id)
}

// TransferProducts moves every product of one category to another.
func (s *Service) TransferProducts(ctx context.Context, fromCategoryID, toCategoryID string) error {
	if _, err := s.categories.GetByID(ctx, fromCategoryID); err != nil {
		return err
	}
	if _, err := s.categories.GetByID(ctx, toCategoryID); err != nil {
		return err
	}

	products, err := s.products.List(ctx, ports.ProductFilter{CategoryID: fromCategoryID})
	if err != nil {
		return err
	}

	for _, product := range products {
		product.CategoryID = toCategoryID
		product.UpdatedAt = time.Now().UTC()
		if err := s.products.Update(ctx, product); err != nil {
			return err
		}
	}

	s.logger.InfoContext(ctx, "products transferred",
		"from_category", fromCategoryID, "to_category", toCategoryID, "count", len(products))
	return nil
}

// CreateSupplier validates and stores a new supplier.
func (s *Service) CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if err := supplier.Validate(); err != nil {
		return nil, err
	}

	supplier.ID = uuid.New().String()
	supplier.CreatedAt = time.Now().UTC()
	supplier.UpdatedAt = supplier.CreatedAt

	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return &supplier, nil
}

// GetSupplier retrieves a supplier by ID.
func (s *Service) GetSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	return s.suppliers.GetByID(ctx, id)
}

// ListSuppliers returns all suppliers.
func (s *Service) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.suppliers.List(ctx)
}

// UpdateSupplier replaces a supplier's attributes.
func (s *Service) UpdateSupplier(ctx context.Context, id string, updated domain.Supplier) (*domain.Supplier, error) {
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if err := s.suppliers.Update(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSupplier removes a supplier.
func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	return s.suppliers.Delete(ctx, id)
}
