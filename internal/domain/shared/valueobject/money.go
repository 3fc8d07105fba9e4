package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places money values are rounded to
const MoneyScale = 2

// Money is an immutable monetary amount in the store currency.
// Every constructor and operation rounds half away from zero to two places.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates Money from a decimal
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount.Round(MoneyScale)}
}

// NewMoneyFromString parses a decimal string
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d), nil
}

// Zero returns a zero amount
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// Amount returns the underlying decimal
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is greater than zero
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is less than zero
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns m + other
func (m Money) Add(other Money) Money {
	return NewMoney(m.amount.Add(other.amount))
}

// Sub returns m - other
func (m Money) Sub(other Money) Money {
	return NewMoney(m.amount.Sub(other.amount))
}

// MulInt returns m * n
func (m Money) MulInt(n int) Money {
	return NewMoney(m.amount.Mul(decimal.NewFromInt(int64(n))))
}

// Percent returns pct percent of m
func (m Money) Percent(pct decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(pct).Div(decimal.NewFromInt(100)))
}

// Min returns the smaller of m and other
func (m Money) Min(other Money) Money {
	if other.amount.LessThan(m.amount) {
		return other
	}
	return m
}

// NonNegative returns zero when m is negative
func (m Money) NonNegative() Money {
	if m.amount.IsNegative() {
		return Zero()
	}
	return m
}

// GreaterThanOrEqual compares amounts
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

// LessThan compares amounts
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// Equals compares amounts
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String returns the amount with exactly two decimals
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}
