package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/formation/products-api/internal/stats/ports"
)

// Reader computes reporting aggregates with SQL.
type Reader struct {
	pool *pgxpool.Pool
}

// NewReader constructs a Reader over the given pool.
func NewReader(pool *pgxpool.Pool) *Reader {
	return &Reader{pool: pool}
}

func (r *Reader) CategoryStats(ctx context.Context) ([]ports.CategoryStat, error) {
	query := `
		SELECT c.id, c.name,
		       COUNT(p.id) AS product_count,
		       COALESCE(ROUND(AVG(p.price), 2), 0) AS average_price,
		       COALESCE(MIN(p.price), 0) AS min_price,
		       COALESCE(MAX(p.price), 0) AS max_price
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query category stats: %w", err)
	}
	defer rows.Close()

	stats := []ports.CategoryStat{}
	for rows.Next() {
		var stat ports.CategoryStat
		if err := rows.Scan(&stat.CategoryID, &stat.CategoryName, &stat.ProductCount, &stat.AveragePrice, &stat.MinPrice, &stat.MaxPrice); err != nil {
			return nil, fmt.Errorf("scan category stat: %w", err)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category stats: %w", err)
	}
	return stats, nil
}

func (r *Reader) OrdersByStatus(ctx context.Context) ([]ports.StatusCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM orders
		GROUP BY status
		ORDER BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("query orders by status: %w", err)
	}
	defer rows.Close()

	counts := []ports.StatusCount{}
	for rows.Next() {
		var count ports.StatusCount
		if err := rows.Scan(&count.Status, &count.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts = append(counts, count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

func (r *Reader) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status <> 'CANCELLED'
	`).Scan(&revenue)
	if err != nil {
		return decimal.Zero, fmt.Errorf("query total revenue: %w", err)
	}
	return revenue.Round(2), nil
}

func (r *Reader) MostOrderedProducts(ctx context.Context, limit int) ([]ports.ProductOrderCount, error) {
	query := `
		SELECT oi.product_id,
		       COALESCE(MAX(p.name), '') AS product_name,
		       SUM(oi.quantity) AS total_quantity
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		GROUP BY oi.product_id
		ORDER BY total_quantity DESC, oi.product_id
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query most ordered products: %w", err)
	}
	defer rows.Close()

	ranking := []ports.ProductOrderCount{}
	for rows.Next() {
		var entry ports.ProductOrderCount
		if err := rows.Scan(&entry.ProductID, &entry.ProductName, &entry.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan product ranking: %w", err)
		}
		ranking = append(ranking, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product ranking: %w", err)
	}
	return ranking, nil
}

func (r *Reader) TopExpensiveProducts(ctx context.Context, limit int) ([]ports.ExpensiveProduct, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price
		FROM products
		ORDER BY price DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top expensive products: %w", err)
	}
	defer rows.Close()

	ranking := []ports.ExpensiveProduct{}
	for rows.Next() {
		var entry ports.ExpensiveProduct
		if err := rows.Scan(&entry.ProductID, &entry.Name, &entry.Price); err != nil {
			return nil, fmt.Errorf("scan expensive product: %w", err)
		}
		ranking = append(ranking, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expensive products: %w", err)
	}
	return ranking, nil
}
