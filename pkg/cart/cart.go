// Package cart holds the sale being built on a terminal. It is the mutation
// sink for resolved scans: every Found result adds one unit.
package cart

import (
	"intake/pkg/domain"
	"sync"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is applied on top of the subtotal when no rate is configured.
var DefaultTaxRate = decimal.RequireFromString("0.12") //nolint: gochecknoglobals

// Line is one product in the cart.
type Line struct {
	ProductID domain.ProductID `json:"productId"`
	Name      string           `json:"name"`
	ScanCode  domain.ScanCode  `json:"scanCode,omitempty"`
	UnitPrice decimal.Decimal  `json:"unitPrice"`
	Quantity  decimal.Decimal  `json:"quantity"`
}

// Subtotal is UnitPrice times Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(l.Quantity)
}

// Cart is safe for concurrent use. Lines keep the order in which products were
// first added.
type Cart struct {
	mu      sync.Mutex
	lines   []Line
	taxRate decimal.Decimal
}

// New creates an empty cart. A negative rate falls back to DefaultTaxRate.
func New(taxRate decimal.Decimal) *Cart {
	if taxRate.IsNegative() {
		taxRate = DefaultTaxRate
	}

	return &Cart{taxRate: taxRate}
}

// Add appends entry with the given quantity, or increments the existing line
// for the same product. It returns the resulting line.
func (c *Cart) Add(entry domain.CatalogEntry, quantity decimal.Decimal) Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == entry.ID {
			c.lines[i].Quantity = c.lines[i].Quantity.Add(quantity)

			return c.lines[i]
		}
	}

	line := Line{
		ProductID: entry.ID,
		Name:      entry.Name,
		ScanCode:  entry.ScanCode,
		UnitPrice: entry.Price,
		Quantity:  quantity,
	}
	c.lines = append(c.lines, line)

	return line
}

// SetQuantity overrides the quantity of a line. A quantity of zero or less
// removes the line. It reports whether the product was in the cart.
func (c *Cart) SetQuantity(id domain.ProductID, quantity decimal.Decimal) bool {
	if !quantity.IsPositive() {
		return c.Remove(id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == id {
			c.lines[i].Quantity = quantity

			return true
		}
	}

	return false
}

// Remove drops the line for id and reports whether it existed.
func (c *Cart) Remove(id domain.ProductID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)

			return true
		}
	}

	return false
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)

	return out
}

// Len returns the number of distinct products in the cart.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.lines)
}

// Totals is a consistent view of the cart amounts.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Totals computes subtotal, tax and total rounded to cents.
func (c *Cart) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()

	subtotal := decimal.Zero
	for _, l := range c.lines {
		subtotal = subtotal.Add(l.Subtotal())
	}
	tax := subtotal.Mul(c.taxRate)

	return Totals{
		Subtotal: subtotal.Round(2),
		Tax:      tax.Round(2),
		Total:    subtotal.Add(tax).Round(2),
	}
}
