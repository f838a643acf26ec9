package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	catalogmem "github.com/formation/products-api/internal/catalog/adapters/memory"
	ordersmem "github.com/formation/products-api/internal/orders/adapters/memory"
	"github.com/formation/products-api/internal/orders/domain"
	"github.com/formation/products-api/internal/stats/ports"
)

// Reader computes reporting aggregates from in-memory repository
// snapshots.
type Reader struct {
	products   *catalogmem.ProductRepository
	categories *catalogmem.CategoryRepository
	orders     *ordersmem.Repository
}

// NewReader constructs a Reader over the given in-memory repositories.
func NewReader(
	products *catalogmem.ProductRepository,
	categories *catalogmem.CategoryRepository,
	orders *ordersmem.Repository,
) *Reader {
	return &Reader{products: products, categories: categories, orders: orders}
}

func (r *Reader) CategoryStats(_ context.Context) ([]ports.CategoryStat, error) {
	type bucket struct {
		count    int
		sum      decimal.Decimal
		min, max decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	for _, product := range r.products.All() {
		if product.CategoryID == "" {
			continue
		}
		b, ok := buckets[product.CategoryID]
		if !ok {
			b = &bucket{sum: decimal.Zero, min: product.Price, max: product.Price}
			buckets[product.CategoryID] = b
		}
		b.count++
		b.sum = b.sum.Add(product.Price)
		if product.Price.LessThan(b.min) {
			b.min = product.Price
		}
		if product.Price.GreaterThan(b.max) {
			b.max = product.Price
		}
	}

	stats := []ports.CategoryStat{}
	for _, category := range r.categories.All() {
		stat := ports.CategoryStat{
			CategoryID:   category.ID,
			CategoryName: category.Name,
			AveragePrice: decimal.Zero,
			MinPrice:     decimal.Zero,
			MaxPrice:     decimal.Zero,
		}
		if b, ok := buckets[category.ID]; ok {
			stat.ProductCount = b.count
			stat.AveragePrice = b.sum.Div(decimal.NewFromInt(int64(b.count))).Round(2)
			stat.MinPrice = b.min
			stat.MaxPrice = b.max
		}
		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].CategoryName < stats[j].CategoryName
	})
	return stats, nil
}

func (r *Reader) OrdersByStatus(_ context.Context) ([]ports.StatusCount, error) {
	counts := make(map[string]int)
	for _, order := range r.orders.All() {
		counts[string(order.Status)]++
	}

	result := []ports.StatusCount{}
	for status, count := range counts {
		result = append(result, ports.StatusCount{Status: status, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Status < result[j].Status
	})
	return result, nil
}

func (r *Reader) TotalRevenue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, order := range r.orders.All() {
		if order.Status == domain.StatusCancelled {
			continue
		}
		total = total.Add(order.TotalAmount)
	}
	return total.Round(2), nil
}

func (r *Reader) MostOrderedProducts(_ context.Context, limit int) ([]ports.ProductOrderCount, error) {
	quantities := make(map[string]int)
	for _, order := range r.orders.All() {
		for _, item := range order.Items {
			quantities[item.ProductID] += item.Quantity
		}
	}

	names := make(map[string]string)
	for _, product := range r.products.All() {
		names[product.ID] = product.Name
	}

	ranking := []ports.ProductOrderCount{}
	for productID, quantity := range quantities {
		ranking = append(ranking, ports.ProductOrderCount{
			ProductID:     productID,
			ProductName:   names[productID],
			TotalQuantity: quantity,
		})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].TotalQuantity != ranking[j].TotalQuantity {
			return ranking[i].TotalQuantity > ranking[j].TotalQuantity
		}
		return ranking[i].ProductID < ranking[j].ProductID
	})

	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking, nil
}

func (r *Reader) TopExpensiveProducts(_ context.Context, limit int) ([]ports.ExpensiveProduct, error) {
	products := r.products.All()
	sort.Slice(products, func(i, j int) bool {
		if !products[i].Price.Equal(products[j].Price) {
			return products[i].Price.GreaterThan(products[j].Price)
		}
		return products[i].ID < products[j].ID
	})

	if len(products) > limit {
		products = products[:limit]
	}

	ranking := make([]ports.ExpensiveProduct, len(products))
	for i, product := range products {
		ranking[i] = ports.ExpensiveProduct{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
		}
	}
	return ranking, nil
}
