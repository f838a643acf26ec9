package ports

import (
	"context"

	catalogdomain "github.com/formation/products-api/internal/catalog/domain"
)

// ProductCatalog is the read-only view of the catalog the order context
// needs: resolving a product reference to copy its price onto a line item.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error)
}
