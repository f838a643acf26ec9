package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/formation/products-api/internal/catalog/domain"
	"github.com/formation/products-api/internal/errs"
)

type SupplierRepository struct {
	pool *pgxpool.Pool
}

func NewSupplierRepository(pool *pgxpool.Pool) *SupplierRepository {
	return &SupplierRepository{pool: pool}
}

func scanSupplier(row pgx.Row) (*domain.Supplier, error) {
	var s domain.Supplier
	var email, phone *string
	err := row.Scan(&s.ID, &s.Name, &email, &phone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if email != nil {
		s.ContactEmail = *email
	}
	if phone != nil {
		s.Phone = *phone
	}
	return &s, nil
}

func (r *SupplierRepository) Create(ctx context.Context, supplier domain.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, contact_email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		supplier.ID,
		supplier.Name,
		nullable(supplier.ContactEmail),
		nullable(supplier.Phone),
		supplier.CreatedAt,
		supplier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}

	return nil
}

func (r *SupplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	query := `SELECT id, name, contact_email, phone, created_at, updated_at FROM suppliers WHERE id = $1`

	supplier, err := scanSupplier(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFound("supplier", id)
		}
		return nil, fmt.Errorf("select supplier: %w", err)
	}

	return supplier, nil
}

func (r *SupplierRepository) List(ctx context.Context) ([]domain.Supplier, error) {
	query := `SELECT id, name, contact_email, phone, created_at, updated_at FROM suppliers ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, *supplier)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suppliers: %w", err)
	}

	return suppliers, nil
}

func (r *SupplierRepository) Update(ctx context.Context, supplier domain.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $2, contact_email = $3, phone = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		supplier.ID,
		supplier.Name,
		nullable(supplier.ContactEmail),
		nullable(supplier.Phone),
		supplier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}

	if result.RowsAffected() == 0 {
		return errs.NotFound("supplier", supplier.ID)
	}

	return nil
}

func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}

	if result.RowsAffected() == 0 {
		return errs.NotFound("supplier", id)
	}

	return nil
}
