package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductID uniquely identifies a product in the catalog.
// It wraps uuid.UUID to provide type safety at the domain layer.
type ProductID uuid.UUID

func (id ProductID) String() string { return uuid.UUID(id).String() }

// ProductKind tells how a product is sold.
type ProductKind string

const (
	// ProductKindBarcode is a unit product identified by its scan code.
	ProductKindBarcode ProductKind = "BARCODE"
	// ProductKindByWeight is a product priced per weight unit.
	ProductKindByWeight ProductKind = "BY_WEIGHT"
)

// CatalogEntry is the read-only projection of a product as exposed by the
// product catalog. The intake core only reads it and never mutates it.
type CatalogEntry struct {
	// ID is the unique identifier of the product.
	ID ProductID `json:"id"`
	// Name is the display name shown to the cashier.
	Name string `json:"name"`
	// ScanCode is the optional barcode/QR payload printed on the product.
	ScanCode ScanCode `json:"scanCode,omitempty"`
	// Kind tells whether the product is sold per unit or per weight.
	Kind ProductKind `json:"kind"`
	// Price is the unit price.
	Price decimal.Decimal `json:"price"`
	// PricePerWeight is set for products sold by weight.
	PricePerWeight decimal.NullDecimal `json:"pricePerWeight"`
	// Stock is the quantity on hand as last reported by the backend.
	Stock int `json:"stock"`
	// MinStock is the threshold under which the product is considered low on stock.
	MinStock int `json:"minStock"`
	// Active is false for products withdrawn from sale.
	Active bool `json:"active"`

	// CreatedAt is the time when the product was created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the time of the last change, zero when never updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasScanCode reports whether the entry can be found by scanning.
func (e CatalogEntry) HasScanCode() bool {
	return e.ScanCode.Valid()
}

// LowStock reports whether the stock on hand is at or below MinStock.
func (e CatalogEntry) LowStock() bool {
	return e.Stock <= e.MinStock
}
