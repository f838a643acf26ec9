package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/formation/products-api/internal/catalog/domain"
	"github.com/formation/products-api/internal/catalog/ports"
	"github.com/formation/products-api/internal/errs"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, description, price, stock, sku, category_id, supplier_id, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var description, sku, categoryID, supplierID *string
	err := row.Scan(
		&p.ID,
		&p.Name,
		&description,
		&p.Price,
		&p.Stock,
		&sku,
		&categoryID,
		&supplierID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description != nil {
		p.Description = *description
	}
	if sku != nil {
		p.SKU = *sku
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	if supplierID != nil {
		p.SupplierID = *supplierID
	}
	return &p, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *ProductRepository) Create(ctx context.Context, product domain.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, stock, sku, category_id, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		nullable(product.Description),
		product.Price,
		product.Stock,
		nullable(product.SKU),
		nullable(product.CategoryID),
		nullable(product.SupplierID),
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFound("product", id)
		}
		return nil, fmt.Errorf("select product: %w", err)
	}

	return product, nil
}

func (r *ProductRepository) List(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1::text IS NULL OR category_id = $1)
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, nullable(filter.CategoryID))
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, product domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, sku = $6,
		    category_id = $7, supplier_id = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		nullable(product.Description),
		product.Price,
		product.Stock,
		nullable(product.SKU),
		nullable(product.CategoryID),
		nullable(product.SupplierID),
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return errs.NotFound("product", product.ID)
	}

	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return errs.NotFound("product", id)
	}

	return nil
}

// AdjustStock relies on a single conditional UPDATE so the stock check and
// the write are one atomic statement; concurrent adjustments on the same
// row are serialized by the database.
func (r *ProductRepository) AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error) {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = $3
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING ` + productColumns

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id, delta, time.Now().UTC()))
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}

	// The guarded update matched nothing: either the product is missing or
	// the adjustment would drive stock negative.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	requested := delta
	if requested < 0 {
		requested = -requested
	}
	return nil, errs.InsufficientStock(current.Name, requested, current.Stock)
}

func (r *ProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE sku = $1)`, sku).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check sku: %w", err)
	}
	return exists, nil
}
