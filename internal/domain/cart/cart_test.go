package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-checkout/internal/pkg/clock"
)

var now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newCart(t *testing.T) *Cart {
	t.Helper()
	return New(clock.Fixed(now))
}

func collect(c *Cart) ([]*catalog.Product, []int) {
	var products []*catalog.Product
	var quantities []int
	for p, qty := range c.Lines() {
		products = append(products, p)
		quantities = append(quantities, qty)
	}
	return products, quantities
}

func TestAddAccumulates(t *testing.T) {
	c := newCart(t)
	cheese, err := catalog.NewExpiring("Cheese", 100, 10, now.AddDate(0, 0, 3), 0.4)
	require.NoError(t, err)

	require.NoError(t, c.Add(cheese, 2))
	require.NoError(t, c.Add(cheese, 3))

	assert.Equal(t, 1, c.Len())
	_, quantities := collect(c)
	assert.Equal(t, []int{5}, quantities)
}

func TestAddValidation(t *testing.T) {
	cheese, err := catalog.NewExpiring("Cheese", 100, 3, now.AddDate(0, 0, 3), 0.4)
	require.NoError(t, err)

	tests := []struct {
		name string
		qtys []int
	}{
		{"zero quantity", []int{0}},
		{"negative quantity", []int{-1}},
		{"over stock", []int{4}},
		{"accumulated over stock", []int{2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCart(t)
			var lastErr error
			for _, q := range tt.qtys {
				lastErr = c.Add(cheese, q)
			}
			assert.ErrorIs(t, lastErr, ErrInvalidQuantity)
		})
	}
}

func TestAddRejectionLeavesCartUnchanged(t *testing.T) {
	c := newCart(t)
	cheese, err := catalog.NewExpiring("Cheese", 100, 3, now.AddDate(0, 0, 3), 0.4)
	require.NoError(t, err)

	require.NoError(t, c.Add(cheese, 2))
	require.ErrorIs(t, c.Add(cheese, 2), ErrInvalidQuantity)

	_, quantities := collect(c)
	assert.Equal(t, []int{2}, quantities)
}

func TestAddExpiredProduct(t *testing.T) {
	c := newCart(t)
	milk, err := catalog.NewExpiring("Milk", 20, 1, now.AddDate(0, 0, -1), 0.5)
	require.NoError(t, err)

	err = c.Add(milk, 1)
	assert.ErrorIs(t, err, ErrProductExpired)
	assert.Contains(t, err.Error(), "Milk")
	assert.True(t, c.IsEmpty())
}

func TestLinesInsertionOrder(t *testing.T) {
	c := newCart(t)
	cheese, err := catalog.NewExpiring("Cheese", 100, 10, now.AddDate(0, 0, 3), 0.4)
	require.NoError(t, err)
	biscuits, err := catalog.NewExpiring("Biscuits", 150, 5, now.AddDate(0, 0, 2), 0.7)
	require.NoError(t, err)
	card, err := catalog.NewDigital("Scratch Card", 50, 100)
	require.NoError(t, err)

	require.NoError(t, c.Add(cheese, 2))
	require.NoError(t, c.Add(biscuits, 1))
	require.NoError(t, c.Add(card, 1))
	// Accumulating into an existing line must not move it.
	require.NoError(t, c.Add(cheese, 1))

	products, quantities := collect(c)
	require.Len(t, products, 3)
	assert.Equal(t, "Cheese", products[0].Name())
	assert.Equal(t, "Biscuits", products[1].Name())
	assert.Equal(t, "Scratch Card", products[2].Name())
	assert.Equal(t, []int{3, 1, 1}, quantities)
}

func TestLinesRestartable(t *testing.T) {
	c := newCart(t)
	cheese, err := catalog.NewExpiring("Cheese", 100, 10, now.AddDate(0, 0, 3), 0.4)
	require.NoError(t, err)
	card, err := catalog.NewDigital("Scratch Card", 50, 100)
	require.NoError(t, err)
	require.NoError(t, c.Add(cheese, 2))
	require.NoError(t, c.Add(card, 1))

	seq := c.Lines()

	first, _ := collect(c)
	_, second := collect(c)
	assert.Len(t, first, 2)
	assert.Equal(t, []int{2, 1}, second)

	// Early break, then a fresh full pass over the same sequence value.
	count := 0
	for range seq {
		count++
		break
	}
	assert.Equal(t, 1, count)

	count = 0
	for range seq {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestClear(t *testing.T) {
	c := newCart(t)
	card, err := catalog.NewDigital("Scratch Card", 50, 100)
	require.NoError(t, err)
	require.NoError(t, c.Add(card, 1))
	require.False(t, c.IsEmpty())

	c.Clear()

	assert.True(t, c.IsEmpty())
	require.NoError(t, c.Add(card, 1))
	assert.Equal(t, 1, c.Len())
}
