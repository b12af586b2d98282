package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits every amount carries.
const MoneyScale = 4

// moneyUnit is the scaling factor between a decimal amount and its
// smallest-unit integer representation (10^MoneyScale).
var moneyUnit = decimal.New(1, MoneyScale)

// Money is an immutable non-negative monetary amount with exactly four
// fractional digits. Internally it holds an integer count of the smallest
// unit (1/10000), so arithmetic never touches binary floating point.
type Money struct {
	units int64
}

// Zero is the zero amount.
var Zero = Money{}

// NewMoney builds a Money from a decimal value.
// It rejects negative values and values with more than four fractional digits.
func NewMoney(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, fmt.Errorf("amount must not be negative: %s", d)
	}
	scaled := d.Mul(moneyUnit)
	if !scaled.IsInteger() {
		return Money{}, fmt.Errorf("amount %s has more than %d fractional digits", d, MoneyScale)
	}
	if !scaled.BigInt().IsInt64() {
		return Money{}, fmt.Errorf("amount %s overflows the representable range", d)
	}
	return Money{units: scaled.IntPart()}, nil
}

// ParseMoney builds a Money from its decimal string form.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return NewMoney(d)
}

// NewMoneyFromFloat builds a Money from a float64, rejecting NaN and ±Inf.
func NewMoneyFromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Money{}, fmt.Errorf("amount must be finite, got %v", f)
	}
	return NewMoney(decimal.NewFromFloat(f))
}

// MoneyFromUnits reconstructs a Money from its stored smallest-unit count.
// Used when scanning rows back from storage.
func MoneyFromUnits(units int64) (Money, error) {
	if units < 0 {
		return Money{}, fmt.Errorf("stored amount must not be negative: %d", units)
	}
	return Money{units: units}, nil
}

// Units returns the amount as an integer count of the smallest unit.
func (m Money) Units() int64 { return m.units }

// Decimal returns the amount as an exact decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.units, -MoneyScale)
}

// String renders the amount with exactly four fractional digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(MoneyScale)
}

// Add returns the sum of the two amounts, or an error if the sum exceeds
// the representable range. Without the guard two valid amounts could wrap
// into a negative value.
func (m Money) Add(other Money) (Money, error) {
	if m.units > math.MaxInt64-other.units {
		return Money{}, fmt.Errorf("sum of %s and %s overflows the representable range", m, other)
	}
	return Money{units: m.units + other.units}, nil
}

// Sub returns the difference, or an error if it would be negative.
func (m Money) Sub(other Money) (Money, error) {
	if m.units < other.units {
		return Money{}, fmt.Errorf("cannot subtract %s from %s", other, m)
	}
	return Money{units: m.units - other.units}, nil
}

// Equal reports whether both amounts are the same value.
func (m Money) Equal(other Money) bool { return m.units == other.units }

// GreaterThan reports whether m is strictly larger than other.
func (m Money) GreaterThan(other Money) bool { return m.units > other.units }

// LessThan reports whether m is strictly smaller than other.
func (m Money) LessThan(other Money) bool { return m.units < other.units }

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.units == 0 }

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.units > 0 }

// MarshalJSON renders the amount as a quoted fixed-point string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted or bare decimal with at most four
// fractional digits.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
