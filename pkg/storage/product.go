//go:generate mockgen -package mockstorage -source=product.go -destination=mock/mockproduct.go

package storage

import (
	"context"
	"intake/pkg/domain"

	"github.com/shopspring/decimal"
)

// ProductUpdates describes a set of optional fields applied to an existing
// product. Only non-nil fields are updated.
type ProductUpdates struct {
	Name *string
	// ScanCode, when provided, replaces the scan code. An empty code clears it.
	ScanCode *domain.ScanCode
	Price    *decimal.Decimal
	Stock    *int
	MinStock *int
	Active   *bool
}

// ProductStorage defines persistence operations for catalog products.
type ProductStorage interface {
	// StoreProducts inserts one or more products and returns the stored rows
	// including generated fields. A duplicated scan code yields a
	// serrors.ErrConflict error.
	StoreProducts(ctx context.Context, products ...domain.CatalogEntry) ([]domain.CatalogEntry, error)
	// UpdateProduct applies updates to the product with the given id and
	// returns the updated row, or nil if it does not exist.
	UpdateProduct(ctx context.Context, id domain.ProductID, updates ProductUpdates) (*domain.CatalogEntry, error)
	// ProductByID returns a product regardless of its active flag, or nil.
	ProductByID(ctx context.Context, id domain.ProductID) (*domain.CatalogEntry, error)
	// ProductByScanCode returns the active product carrying code, or nil.
	ProductByScanCode(ctx context.Context, code domain.ScanCode) (*domain.CatalogEntry, error)
	// ActiveProducts returns every active product ordered by name.
	ActiveProducts(ctx context.Context) ([]domain.CatalogEntry, error)
	// SearchProducts returns at most limit active products whose name
	// contains query, ignoring case, or whose scan code contains it.
	SearchProducts(ctx context.Context, query string, limit int) ([]domain.CatalogEntry, error)
}
