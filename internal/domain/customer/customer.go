package customer

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount       = errors.New("customer: amount must be zero or greater")
	ErrInsufficientBalance = errors.New("customer: insufficient balance")
)

// Customer holds a spendable balance. The balance decreases only through
// Withdraw, and only by the exact settled amount.
type Customer struct {
	name    string
	balance float64
}

func New(name string, balance float64) *Customer {
	return &Customer{name: name, balance: balance}
}

func (c *Customer) Name() string     { return c.name }
func (c *Customer) Balance() float64 { return c.balance }

// Withdraw deducts amount from the balance. It is the settlement gate: the
// balance never goes negative and is not validated anywhere else.
func (c *Customer) Withdraw(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, c.name)
	}
	if c.balance < amount {
		return fmt.Errorf("%w for %s", ErrInsufficientBalance, c.name)
	}
	c.balance -= amount
	return nil
}
