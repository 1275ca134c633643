package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Amount is a quantity of a single commodity.
//
// Digits is the number of decimal digits the amount was written with. It is
// not derived from Number: "1.50 EUR" and "1.5 EUR" have the same Number but
// different Digits, which matters for tolerance and rendering.
type Amount struct {
	Number    decimal.Decimal
	Commodity string
	Digits    uint
}

// NewAmount returns an Amount.
func NewAmount(number decimal.Decimal, commodity string, digits uint) Amount {
	return Amount{Number: number, Commodity: commodity, Digits: digits}
}

// A is a convenient factory for amounts, mostly for literals.
func A[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, commodity string, digits uint) Amount {
	return Amount{Number: newDecimal(value), Commodity: commodity, Digits: digits}
}

// ParseAmount parses a number as written in a ledger file, and records the
// number of decimal digits it was written with.
func ParseAmount(number, commodity string) (Amount, error) {
	number = strings.TrimSpace(number)
	n, err := decimal.NewFromString(number)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", number, err)
	}
	var digits uint
	if i := strings.IndexByte(number, '.'); i >= 0 {
		digits = uint(len(number) - i - 1)
	}
	return Amount{Number: n, Commodity: commodity, Digits: digits}, nil
}

func (a Amount) IsZero() bool     { return a.Number.IsZero() }
func (a Amount) IsNegative() bool { return a.Number.IsNegative() }
func (a Amount) IsPositive() bool { return a.Number.IsPositive() }
func (a Amount) Neg() Amount      { return Amount{Number: a.Number.Neg(), Commodity: a.Commodity, Digits: a.Digits} }

// Equal reports whether a and b hold the same number of the same commodity.
// Digits are ignored.
func (a Amount) Equal(b Amount) bool {
	return a.Commodity == b.Commodity && a.Number.Equal(b.Number)
}

// MultiCurrency returns a as a MultiCurrencyAmount, recording its digits.
func (a Amount) MultiCurrency() MultiCurrencyAmount {
	return MultiCurrencyAmount{
		amounts: map[string]decimal.Decimal{a.Commodity: a.Number},
		digits:  map[string]uint{a.Commodity: a.Digits},
	}
}

// NumberString formats the number padded to Digits.
func (a Amount) NumberString() string {
	d := int32(a.Digits)
	if a.Number.Equal(a.Number.Round(d)) {
		return a.Number.StringFixed(d)
	}
	return a.Number.String() // more digits than declared, never truncate
}

func (a Amount) String() string {
	return a.NumberString() + " " + a.Commodity
}
