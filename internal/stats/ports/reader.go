package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// CategoryStat aggregates the products of one category.
type CategoryStat struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	ProductCount int             `json:"product_count"`
	AveragePrice decimal.Decimal `json:"average_price"`
	MinPrice     decimal.Decimal `json:"min_price"`
	MaxPrice     decimal.Decimal `json:"max_price"`
}

// StatusCount is the number of orders currently in one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ProductOrderCount ranks a product by the total quantity ordered.
type ProductOrderCount struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	TotalQuantity int    `json:"total_quantity"`
}

// ExpensiveProduct is a product ranked by price.
type ExpensiveProduct struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// StatsReader computes reporting aggregates over the catalog and the
// orders. Each backend implements it with whatever access path is natural
// for it; results are read-only snapshots.
type StatsReader interface {
	CategoryStats(ctx context.Context) ([]CategoryStat, error)
	OrdersByStatus(ctx context.Context) ([]StatusCount, error)
	// TotalRevenue sums the totals of all orders except cancelled ones.
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	MostOrderedProducts(ctx context.Context, limit int) ([]ProductOrderCount, error)
	TopExpensiveProducts(ctx context.Context, limit int) ([]ExpensiveProduct, error)
}
