package sales

import (
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, price string, stock int) Product {
	return Product{ID: id, Name: "product " + id, UnitPrice: decimal.RequireFromString(price), StockQuantity: stock}
}

func TestCart_AddItem(t *testing.T) {
	p := product("P", "10.00", 5)

	cart := NewCart()
	require.NoError(t, cart.AddItem(p, 3))

	assert.Equal(t, 1, cart.Len())
	assert.Equal(t, "30.00", cart.Total().StringFixed(2))
}

func TestCart_AddItemMergesAndRejectsOverStock(t *testing.T) {
	p := product("P", "10.00", 5)

	cart := NewCart()
	require.NoError(t, cart.AddItem(p, 3))

	err := cart.AddItem(p, 4)
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr), "expected InsufficientStockError, got %v", err)
	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.Equal(t, "P", stockErr.ProductID)
	assert.Equal(t, 7, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)

	assert.Equal(t, 1, cart.Len())
	assert.Equal(t, 3, cart.Quantity("P"))
	assert.Equal(t, "30.00", cart.Total().StringFixed(2))

	require.NoError(t, cart.AddItem(p, 2))
	assert.Equal(t, 1, cart.Len(), "same product must stay on one line")
	assert.Equal(t, 5, cart.Quantity("P"))
}

func TestCart_MergeKeepsFirstPriceSnapshot(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.AddItem(product("P", "10.00", 10), 1))
	require.NoError(t, cart.AddItem(product("P", "12.00", 10), 1))

	lines := slices.Collect(cart.Lines())
	require.Len(t, lines, 1)
	assert.Equal(t, "10.00", lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "20.00", cart.Total().StringFixed(2))
}

func TestCart_AddItemInvalidQuantity(t *testing.T) {
	cart := NewCart()
	for _, q := range []int{0, -1} {
		err := cart.AddItem(product("P", "1.00", 10), q)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.Equal(t, 0, cart.Len())
}

func TestCart_TotalIsExactDecimal(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.AddItem(product("A", "0.10", 100), 3))
	require.NoError(t, cart.AddItem(product("B", "0.20", 100), 1))
	require.NoError(t, cart.AddItem(product("C", "19.99", 100), 7))

	want := decimal.Zero
	for l := range cart.Lines() {
		want = want.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	assert.True(t, want.Equal(cart.Total()))
	assert.Equal(t, "140.43", cart.Total().StringFixed(2))
}

func TestCart_EmptyTotal(t *testing.T) {
	assert.True(t, NewCart().Total().IsZero())
	var zero Cart
	assert.True(t, zero.Total().IsZero())
	require.NoError(t, zero.AddItem(product("P", "1.00", 1), 1))
	assert.Equal(t, 1, zero.Len())
}

func TestCart_RemoveLine(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.AddItem(product("A", "1.00", 10), 1))
	require.NoError(t, cart.AddItem(product("B", "2.00", 10), 1))
	require.NoError(t, cart.AddItem(product("C", "3.00", 10), 1))

	cart.RemoveLine("B")
	cart.RemoveLine("missing")

	ids := []string{}
	for l := range cart.Lines() {
		ids = append(ids, l.ProductID)
	}
	assert.Equal(t, []string{"A", "C"}, ids)
	assert.Equal(t, "4.00", cart.Total().StringFixed(2))

	require.NoError(t, cart.AddItem(product("C", "3.00", 10), 2))
	assert.Equal(t, 3, cart.Quantity("C"))
	assert.Equal(t, 2, cart.Len())
}

func TestCart_LinesIsRestartableAndReadOnly(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.AddItem(product("A", "1.00", 10), 1))
	require.NoError(t, cart.AddItem(product("B", "2.00", 10), 2))

	first := slices.Collect(cart.Lines())
	second := slices.Collect(cart.Lines())
	assert.Equal(t, first, second)

	for l := range cart.Lines() {
		l.Quantity = 99
		_ = l
	}
	assert.Equal(t, 1, cart.Quantity("A"))

	n := 0
	for range cart.Lines() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}
