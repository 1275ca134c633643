package ledger

import (
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// MultiCurrencyAmount is a sum of amounts in several commodities.
//
// Precision is tracked separately from the numbers: a commodity can have a
// recorded precision and a zero amount, or an amount and no precision at all,
// in which case it must be exactly zero to validate.
type MultiCurrencyAmount struct {
	amounts map[string]decimal.Decimal
	digits  map[string]uint
}

// Weight returns a MultiCurrencyAmount holding number of commodity without
// recording any precision for it.
func Weight(number decimal.Decimal, commodity string) MultiCurrencyAmount {
	return MultiCurrencyAmount{amounts: map[string]decimal.Decimal{commodity: number}}
}

// Tolerance returns the largest absolute value still considered zero at the given precision.
func Tolerance(digits uint) decimal.Decimal {
	return decimal.New(5, -int32(digits)-1)
}

// Add returns the sum of m and n. For commodities present in both, the highest precision is kept.
func (m MultiCurrencyAmount) Add(n MultiCurrencyAmount) MultiCurrencyAmount {
	r := MultiCurrencyAmount{
		amounts: make(map[string]decimal.Decimal, len(m.amounts)+len(n.amounts)),
		digits:  make(map[string]uint, len(m.digits)+len(n.digits)),
	}
	maps.Copy(r.amounts, m.amounts)
	maps.Copy(r.digits, m.digits)
	for c, v := range n.amounts {
		r.amounts[c] = r.amounts[c].Add(v)
	}
	for c, d := range n.digits {
		if old, ok := r.digits[c]; !ok || d > old {
			r.digits[c] = d
		}
	}
	return r
}

// Neg returns -m, precision is preserved.
func (m MultiCurrencyAmount) Neg() MultiCurrencyAmount {
	r := MultiCurrencyAmount{
		amounts: make(map[string]decimal.Decimal, len(m.amounts)),
		digits:  maps.Clone(m.digits),
	}
	for c, v := range m.amounts {
		r.amounts[c] = v.Neg()
	}
	return r
}

// Number returns the amount of commodity (zero when absent).
func (m MultiCurrencyAmount) Number(commodity string) decimal.Decimal {
	return m.amounts[commodity]
}

// Digits returns the precision recorded for commodity, if any.
func (m MultiCurrencyAmount) Digits(commodity string) (uint, bool) {
	d, ok := m.digits[commodity]
	return d, ok
}

// Commodities returns the sorted commodities holding an amount.
func (m MultiCurrencyAmount) Commodities() []string {
	return slices.Sorted(maps.Keys(m.amounts))
}

// IsZero reports whether every amount is exactly zero.
func (m MultiCurrencyAmount) IsZero() bool {
	for _, v := range m.amounts {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// tolerance returns the tolerance for commodity, zero when no precision was recorded.
func (m MultiCurrencyAmount) tolerance(commodity string) decimal.Decimal {
	d, ok := m.digits[commodity]
	if !ok {
		return decimal.Zero
	}
	return Tolerance(d)
}

// ValidateZeroWithTolerance checks that every amount is zero within the
// tolerance of its recorded precision. All offending commodities are reported.
func (m MultiCurrencyAmount) ValidateZeroWithTolerance() error {
	var issues []string
	for _, c := range m.Commodities() {
		v, tol := m.amounts[c], m.tolerance(c)
		if v.Abs().GreaterThan(tol) {
			issues = append(issues, v.String()+" "+c+" too much ("+tol.String()+" tolerance)")
		}
	}
	if len(issues) > 0 {
		return invalidf("%s", strings.Join(issues, ", "))
	}
	return nil
}

// ValidateOneAmountWithTolerance checks that m holds amount's number of
// amount's commodity, within the tolerance of the precision recorded in m for
// that commodity. Other commodities in m are ignored.
func (m MultiCurrencyAmount) ValidateOneAmountWithTolerance(amount Amount) error {
	diff := MultiCurrencyAmount{
		amounts: map[string]decimal.Decimal{amount.Commodity: amount.Number.Sub(m.amounts[amount.Commodity])},
		digits:  map[string]uint{},
	}
	if d, ok := m.digits[amount.Commodity]; ok {
		diff.digits[amount.Commodity] = d
	}
	return diff.ValidateZeroWithTolerance()
}

func (m MultiCurrencyAmount) String() string {
	parts := make([]string, 0, len(m.amounts))
	for _, c := range m.Commodities() {
		parts = append(parts, m.amounts[c].String()+" "+c)
	}
	return strings.Join(parts, ", ")
}
