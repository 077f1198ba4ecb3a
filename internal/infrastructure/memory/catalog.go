package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/Zhima-Mochi/minishop-checkout/internal/domain/catalog"
)

// Catalog is an in-memory product store preserving registration order.
// Products are handed out as shared pointers: settlement mutates stock in
// place and every session must observe it.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	order    []string
}

func NewCatalog() *Catalog {
	return &Catalog{
		products: make(map[string]*domain.Product),
	}
}

func (c *Catalog) Save(ctx context.Context, p *domain.Product) error {
	_ = ctx
	if p == nil || p.ID() == "" {
		return fmt.Errorf("catalog store: product is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.products[p.ID()]; !exists {
		c.order = append(c.order, p.ID())
	}
	c.products[p.ID()] = p
	return nil
}

func (c *Catalog) Get(ctx context.Context, id string) (*domain.Product, error) {
	_ = ctx

	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (c *Catalog) List(ctx context.Context) ([]*domain.Product, error) {
	_ = ctx

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out, nil
}
