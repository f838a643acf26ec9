package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/formation/products-api/internal/errs"
	"github.com/formation/products-api/internal/orders/domain"
	"github.com/formation/products-api/internal/orders/ports"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create order: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := insertOrder(ctx, tx, order); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, order.ID, order.Items); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order, err := loadOrder(ctx, r.pool, id, false)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	query := `
		SELECT id, order_number, customer_name, customer_email, status, total_amount,
		       order_date, delivery_date, created_at, updated_at
		FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR customer_email = $2)
		ORDER BY order_date DESC
		LIMIT $3 OFFSET $4
	`

	var statusFilter *string
	if filter.Status != nil {
		s := string(*filter.Status)
		statusFilter = &s
	}
	var emailFilter *string
	if filter.CustomerEmail != "" {
		emailFilter = &filter.CustomerEmail
	}

	rows, err := r.pool.Query(ctx, query, statusFilter, emailFilter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	// Single pass over the items of the whole page instead of one query per
	// order.
	if len(orders) > 0 {
		ids := make([]string, len(orders))
		index := make(map[string]int, len(orders))
		for i, order := range orders {
			ids[i] = order.ID
			index[order.ID] = i
		}

		itemRows, err := r.pool.Query(ctx, `
			SELECT id, order_id, product_id, quantity, unit_price, subtotal
			FROM order_items
			WHERE order_id = ANY($1)
			ORDER BY position
		`, ids)
		if err != nil {
			return nil, fmt.Errorf("query order items: %w", err)
		}
		defer itemRows.Close()

		for itemRows.Next() {
			var item domain.OrderItem
			if err := itemRows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
				return nil, fmt.Errorf("scan order item: %w", err)
			}
			i := index[item.OrderID]
			orders[i].Items = append(orders[i].Items, item)
		}
		if err := itemRows.Err(); err != nil {
			return nil, fmt.Errorf("iterate order items: %w", err)
		}
	}

	return orders, nil
}

// Mutate loads the order with a row lock, applies fn and rewrites the
// order and its items inside one transaction. The FOR UPDATE lock
// serializes concurrent mutations of the same order's item list; nothing
// is written when fn errors.
func (r *Repository) Mutate(ctx context.Context, id string, fn func(*domain.Order) error) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin mutate order: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	order, err := loadOrder(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}

	if err := fn(order); err != nil {
		return nil, err
	}

	query := `
		UPDATE orders
		SET customer_name = $2, customer_email = $3, status = $4, total_amount = $5,
		    order_date = $6, delivery_date = $7, updated_at = $8
		WHERE id = $1
	`
	_, err = tx.Exec(ctx, query,
		order.ID,
		order.CustomerName,
		nullable(order.CustomerEmail),
		order.Status,
		order.TotalAmount,
		order.OrderDate,
		order.DeliveryDate,
		order.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return nil, fmt.Errorf("clear order items: %w", err)
	}
	if err := insertItems(ctx, tx, order.ID, order.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit mutate order: %w", err)
	}
	return order, nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func loadOrder(ctx context.Context, q queryer, id string, forUpdate bool) (*domain.Order, error) {
	query := `
		SELECT id, order_number, customer_name, customer_email, status, total_amount,
		       order_date, delivery_date, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	order, err := scanOrder(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NotFound("order", id)
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return order, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var email *string
	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.CustomerName,
		&email,
		&order.Status,
		&order.TotalAmount,
		&order.OrderDate,
		&order.DeliveryDate,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email != nil {
		order.CustomerEmail = *email
	}
	return &order, nil
}

func insertOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, order_number, customer_name, customer_email, status, total_amount,
		                    order_date, delivery_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := tx.Exec(ctx, query,
		order.ID,
		order.OrderNumber,
		order.CustomerName,
		nullable(order.CustomerEmail),
		order.Status,
		order.TotalAmount,
		order.OrderDate,
		order.DeliveryDate,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID string, items []domain.OrderItem) error {
	for position, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, subtotal, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, item.ID, orderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal, position)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
