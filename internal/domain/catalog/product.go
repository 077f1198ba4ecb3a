package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("catalog: product not found")
	ErrInvalidPrice    = errors.New("catalog: price must be zero or greater")
	ErrInvalidStock    = errors.New("catalog: stock must be zero or greater")
	ErrInvalidWeight   = errors.New("catalog: unit weight must be greater than zero")
	ErrInvalidQuantity = errors.New("catalog: invalid quantity")
)

// Product is a catalog entry. Capabilities are explicit fields resolved per
// variant instead of a type hierarchy: an expiry date makes the product
// expirable, a positive unit weight makes it shippable, neither makes it
// digital. No product is both digital and shippable.
type Product struct {
	id       string
	name     string
	price    float64
	stock    int
	expiry   *time.Time
	weightKg float64
}

func newProduct(name string, price float64, stock int, expiry *time.Time, weightKg float64) (*Product, error) {
	if price < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrice, name)
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStock, name)
	}
	return &Product{
		id:       uuid.NewString(),
		name:     name,
		price:    price,
		stock:    stock,
		expiry:   expiry,
		weightKg: weightKg,
	}, nil
}

// NewExpiring creates a shippable product that expires at the given date.
func NewExpiring(name string, price float64, stock int, expiry time.Time, weightKg float64) (*Product, error) {
	if weightKg <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWeight, name)
	}
	e := expiry
	return newProduct(name, price, stock, &e, weightKg)
}

// NewDurable creates a shippable product with no expiry.
func NewDurable(name string, price float64, stock int, weightKg float64) (*Product, error) {
	if weightKg <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWeight, name)
	}
	return newProduct(name, price, stock, nil, weightKg)
}

// NewDigital creates a product that neither ships nor expires.
func NewDigital(name string, price float64, stock int) (*Product, error) {
	return newProduct(name, price, stock, nil, 0)
}

// ID is the stable identity assigned at construction. Carts key lines by it,
// so two products constructed with the same name remain distinct.
func (p *Product) ID() string { return p.id }

func (p *Product) Name() string      { return p.name }
func (p *Product) Price() float64    { return p.price }
func (p *Product) Stock() int        { return p.stock }
func (p *Product) WeightKg() float64 { return p.weightKg }

// IsShippable reports whether the product contributes weight to shipping.
func (p *Product) IsShippable() bool { return p.weightKg > 0 }

// IsExpired reports whether the product is past its expiry at the given
// instant. Durable and digital products never expire.
func (p *Product) IsExpired(now time.Time) bool {
	if p.expiry == nil {
		return false
	}
	return now.After(*p.expiry)
}

// ReduceStock decrements stock by qty. Stock never goes negative: reducing by
// more than is available fails and leaves stock unchanged.
func (p *Product) ReduceStock(qty int) error {
	if qty < 0 || qty > p.stock {
		return fmt.Errorf("%w: %s", ErrInvalidQuantity, p.name)
	}
	p.stock -= qty
	return nil
}
