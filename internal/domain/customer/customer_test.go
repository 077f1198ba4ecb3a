package customer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithdraw(t *testing.T) {
	tests := []struct {
		name        string
		balance     float64
		amount      float64
		wantErr     error
		wantBalance float64
	}{
		{"exact balance", 100, 100, nil, 0},
		{"partial", 1000, 440, nil, 560},
		{"zero amount", 50, 0, nil, 50},
		{"over balance", 50, 50.01, ErrInsufficientBalance, 50},
		{"negative amount", 50, -1, ErrInvalidAmount, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("Bob", tt.balance)

			err := c.Withdraw(tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantBalance, c.Balance())
		})
	}
}

func TestWithdrawErrorNamesCustomer(t *testing.T) {
	c := New("Jane", 50)
	err := c.Withdraw(5060)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Contains(t, err.Error(), "Jane")
}
