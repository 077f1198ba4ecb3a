package cart

import (
	"errors"
	"fmt"
	"iter"

	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-checkout/internal/pkg/clock"
)

var (
	ErrInvalidQuantity = errors.New("cart: invalid quantity")
	ErrProductExpired  = errors.New("cart: product expired")
)

type line struct {
	product  *catalog.Product
	quantity int
}

// Cart accumulates product selections for a single checkout session. Lines
// keep insertion order and quantities accumulate per product identity. A cart
// is single-owner and not safe for concurrent use.
type Cart struct {
	clk   clock.Clock
	lines []line
	index map[string]int // product id -> position in lines
}

func New(clk clock.Clock) *Cart {
	if clk == nil {
		clk = clock.System()
	}
	return &Cart{clk: clk, index: make(map[string]int)}
}

// Add validates and accumulates quantity for the product. Only cart state is
// mutated here; stock is untouched until settlement, checkout being the
// authoritative gate.
func (c *Cart) Add(p *catalog.Product, quantity int) error {
	existing := 0
	pos, known := c.index[p.ID()]
	if known {
		existing = c.lines[pos].quantity
	}
	if quantity <= 0 || existing+quantity > p.Stock() {
		return fmt.Errorf("%w for %s", ErrInvalidQuantity, p.Name())
	}
	if p.IsExpired(c.clk.Now()) {
		return fmt.Errorf("%w: %s", ErrProductExpired, p.Name())
	}
	if known {
		c.lines[pos].quantity += quantity
		return nil
	}
	c.index[p.ID()] = len(c.lines)
	c.lines = append(c.lines, line{product: p, quantity: quantity})
	return nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Len returns the number of distinct lines.
func (c *Cart) Len() int { return len(c.lines) }

// Lines yields (product, quantity) pairs in insertion order. The sequence is
// restartable: every range starts again from the first line.
func (c *Cart) Lines() iter.Seq2[*catalog.Product, int] {
	return func(yield func(*catalog.Product, int) bool) {
		for _, l := range c.lines {
			if !yield(l.product, l.quantity) {
				return
			}
		}
	}
}

// Clear empties the cart. Checkout calls it at the commit point so a
// committed cart cannot settle twice.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]int)
}
