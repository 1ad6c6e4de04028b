// Package types provides shared value types for the domain layer.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary amount.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoneyFromFloat creates Money from a float (use for parsing feed values only).
func NewMoneyFromFloat(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates Money from a decimal string.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates Money from a decimal string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroMoney returns a zero amount.
func ZeroMoney() Money {
	return decimal.Zero
}
