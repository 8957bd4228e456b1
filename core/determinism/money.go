// Package determinism provides primitives for guaranteeing deterministic
// computation: exact money arithmetic and content hashing. All engine code
// must use these instead of float64 math or ad-hoc digests.
package determinism

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount with full precision.
// NEVER use float64 for money calculations.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates a Money from a decimal string
func NewMoney(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: d}, nil
}

// MustMoney creates a Money from a decimal string, panicking on bad literals.
// Reserved for compiled-in rate tables.
func MustMoney(amount string) Money {
	m, err := NewMoney(amount)
	if err != nil {
		panic(fmt.Sprintf("bad money literal %q: %v", amount, err))
	}
	return m
}

// NewMoneyFromDecimal creates Money from a decimal
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// FromCents creates Money from integer minor units
func FromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -2)}
}

// Zero creates zero money
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Add adds two monetary amounts
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub subtracts monetary amounts
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Mul multiplies by a scalar
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor)}
}

// MulInt multiplies by an integer count
func (m Money) MulInt(n int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(n))}
}

// Neg returns the negated amount
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg()}
}

// RoundCents canonicalizes to integer minor units (banker's-free half-up).
// Every value entering a breakdown bucket passes through this, so repeated
// computations can never drift in representation.
func (m Money) RoundCents() Money {
	return Money{amount: m.amount.Round(2)}
}

// Cents returns the amount in integer minor units after canonicalization
func (m Money) Cents() int64 {
	return m.amount.Round(2).Shift(2).IntPart()
}

// IsZero returns true if amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative returns true if amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Cmp compares two monetary amounts
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

// Equal reports exact equality of the canonicalized amounts
func (m Money) Equal(other Money) bool {
	return m.amount.Round(2).Equal(other.amount.Round(2))
}

// String returns formatted money (2 decimal places)
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// Float64 returns float64 (only for display, never for calculation)
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// MarshalJSON encodes the canonical two-decimal form
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.Round(2).StringFixed(2)), nil
}

// UnmarshalJSON decodes a JSON number or string into Money
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	m.amount = d
	return nil
}

// Percent builds a multiplier from a percentage figure: a pct of 12.5
// yields 0.125.
func Percent(pct decimal.Decimal) decimal.Decimal {
	return pct.Div(decimal.NewFromInt(100))
}

// SortSlice sorts a slice in a stable, deterministic manner
func SortSlice[T any](slice []T, less func(a, b T) bool) {
	sort.SliceStable(slice, func(i, j int) bool {
		return less(slice[i], slice[j])
	})
}
