// Package money provides currency-safe amount handling for imported
// transactions using integer cents and the Fowler Money pattern.
package money

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// USD is the only currency the statement sources emit today.
const USD = "USD"

// Amount represents a signed monetary value backed by integer cents.
type Amount struct {
	m *money.Money
}

// New creates an Amount from cents (minor units).
func New(cents int64) Amount {
	return Amount{m: money.New(cents, USD)}
}

// FromDecimal creates an Amount from a decimal value.
func FromDecimal(d decimal.Decimal) Amount {
	cents := d.Mul(decimal.New(1, 2)).Round(0).IntPart()
	return New(cents)
}

// FromFloat creates an Amount from a float64, rounding to cents via decimal
// to avoid binary-float drift.
func FromFloat(v float64) Amount {
	return FromDecimal(decimal.NewFromFloat(v))
}

// Parse converts a statement amount string into an Amount. Accepts
// "$1,234.56", "-59.97", "(68.02)" and "68.02-" (trailing minus).
func Parse(raw string) (Amount, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "−", "-") // unicode minus

	negative := false
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return New(0), nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if negative {
		d = d.Neg()
	}
	return FromDecimal(d), nil
}

// Cents returns the amount in minor units.
func (a Amount) Cents() int64 {
	if a.m == nil {
		return 0
	}
	return a.m.Amount()
}

// Decimal returns the amount as a decimal value in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(a.Cents(), -2)
}

// Float64 returns the amount in major units for record emission.
func (a Amount) Float64() float64 {
	return a.Decimal().InexactFloat64()
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a.m != nil && a.m.IsNegative()
}

// IsPositive reports whether the amount is above zero.
func (a Amount) IsPositive() bool {
	return a.m != nil && a.m.IsPositive()
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.m == nil || a.m.IsZero()
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a.m == nil {
		return New(0)
	}
	return Amount{m: a.m.Absolute()}
}

// Negate returns the negated value.
func (a Amount) Negate() Amount {
	if a.m == nil {
		return New(0)
	}
	return Amount{m: a.m.Negative()}
}

// Add sums two amounts.
func (a Amount) Add(other Amount) Amount {
	return New(a.Cents() + other.Cents())
}

// Display returns an operator-facing formatted string, e.g. "-$1,234.56".
func (a Amount) Display() string {
	if a.m == nil {
		return "$0.00"
	}
	return a.m.Display()
}

// String returns the plain decimal form, e.g. "-1234.56".
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}
