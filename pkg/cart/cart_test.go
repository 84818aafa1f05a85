package cart_test

import (
	"intake/pkg/cart"
	"intake/pkg/domain"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var one = decimal.NewFromInt(1)

func product(name, price string) domain.CatalogEntry {
	return domain.CatalogEntry{
		ID:     domain.ProductID(uuid.New()),
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Active: true,
	}
}

func TestCart_AddIncrementsSameProduct(t *testing.T) {
	c := cart.New(cart.DefaultTaxRate)
	milk := product("Milk 1L", "1.25")

	c.Add(milk, one)
	line := c.Add(milk, one)

	require.Equal(t, 1, c.Len())
	require.True(t, line.Quantity.Equal(decimal.NewFromInt(2)))
	require.True(t, line.Subtotal().Equal(decimal.RequireFromString("2.50")))
}

func TestCart_KeepsInsertionOrder(t *testing.T) {
	c := cart.New(cart.DefaultTaxRate)
	bread := product("Bread", "2.00")
	eggs := product("Eggs", "3.10")

	c.Add(bread, one)
	c.Add(eggs, one)
	c.Add(bread, one)

	lines := c.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, "Bread", lines[0].Name)
	require.Equal(t, "Eggs", lines[1].Name)
}

func TestCart_SetQuantityAndRemove(t *testing.T) {
	c := cart.New(cart.DefaultTaxRate)
	milk := product("Milk 1L", "1.25")
	c.Add(milk, one)

	require.True(t, c.SetQuantity(milk.ID, decimal.NewFromInt(5)))
	require.True(t, c.Lines()[0].Quantity.Equal(decimal.NewFromInt(5)))

	require.True(t, c.SetQuantity(milk.ID, decimal.Zero), "zero quantity removes the line")
	require.Equal(t, 0, c.Len())

	require.False(t, c.Remove(milk.ID))
	require.False(t, c.SetQuantity(milk.ID, one))
}

func TestCart_Totals(t *testing.T) {
	c := cart.New(cart.DefaultTaxRate)
	c.Add(product("Milk 1L", "1.25"), decimal.NewFromInt(2))
	c.Add(product("Bread", "2.00"), one)

	totals := c.Totals()
	require.Equal(t, "4.5", totals.Subtotal.String())
	require.Equal(t, "0.54", totals.Tax.String())
	require.Equal(t, "5.04", totals.Total.String())

	c.Clear()
	require.True(t, c.Totals().Total.IsZero())
}

func TestCart_NegativeRateFallsBack(t *testing.T) {
	c := cart.New(decimal.NewFromInt(-1))
	c.Add(product("Bread", "10.00"), one)
	require.Equal(t, "1.2", c.Totals().Tax.String())
}
