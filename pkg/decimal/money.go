package decimal

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotNumeric is returned by ParseAmount for values that are not plain numbers.
var ErrNotNumeric = errors.New("not a numeric amount")

// Amounts are limited to a coefficient below 10^40 and an exponent between
// MinExponent and MaxExponent. Outside that window decimal arithmetic rescales
// to enormous big.Ints and effectively never returns.
const (
	MinExponent = -10
	MaxExponent = 20
)

var maxCoefficient = new(big.Int).Exp(big.NewInt(10), big.NewInt(40), nil)

var monthsPerYear = decimal.NewFromInt(12)

var hundred = decimal.NewFromInt(100)

// Money represents a monetary amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// ParseAmount parses a user supplied amount. Empty strings, NaN, infinities,
// values outside the supported range and anything else decimal.NewFromString
// refuses are rejected; nothing is coerced.
func ParseAmount(value string) (decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrNotNumeric)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, value)
	}
	if !InRange(d) {
		return decimal.Zero, fmt.Errorf("%w: %q is out of range", ErrNotNumeric, value)
	}
	return d, nil
}

// InRange reports whether d is small enough in scale and precision to compute with.
func InRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < MinExponent || exp > MaxExponent {
		return false
	}
	return d.Coefficient().CmpAbs(maxCoefficient) < 0
}

// ClampZero returns d, or zero when d is negative.
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Monthly converts an annual amount to monthly without rounding
func Monthly(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(monthsPerYear)
}

// Percent expresses part as a percentage of whole; zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// Sum adds all amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// RoundWhole rounds to whole currency units, half away from zero.
func (m Money) RoundWhole() Money {
	r := m.Decimal.Round(0)
	if r.IsZero() {
		// avoid "-0"
		r = decimal.Zero
	}
	return Money{r}
}

// Monthly converts an annual amount to monthly
func (m Money) Monthly() Money {
	return Money{Monthly(m.Decimal)}
}

// String returns the amount rounded to whole units
func (m Money) String() string {
	return m.RoundWhole().Decimal.StringFixed(0)
}
