package ledger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// BookingMethod selects the lots a reduction consumes when its cost does not
// single one out.
type BookingMethod int

const (
	// Strict refuses ambiguous reductions.
	Strict BookingMethod = iota
	// FIFO (First-In, First-Out) consumes the oldest matching lots first.
	FIFO
	// LIFO (Last-In, First-Out) consumes the newest matching lots first.
	LIFO
)

func (m BookingMethod) String() string {
	switch m {
	case Strict:
		return "STRICT"
	case FIFO:
		return "FIFO"
	case LIFO:
		return "LIFO"
	default:
		return "unknown"
	}
}

// ParseBookingMethod parses a string into a BookingMethod.
func ParseBookingMethod(s string) (BookingMethod, error) {
	switch strings.ToUpper(s) {
	case "STRICT", "":
		return Strict, nil
	case "FIFO":
		return FIFO, nil
	case "LIFO":
		return LIFO, nil
	default:
		return 0, fmt.Errorf("unknown booking method: %q", s)
	}
}

// Lot is a quantity of a commodity acquired at a given cost.
type Lot struct {
	Units Amount
	Cost  Cost
}

// costOf returns the cost-weighted value of n units of l.
// Lots without a cost amount are valued in their own units.
func (l Lot) costOf(n decimal.Decimal) MultiCurrencyAmount {
	if l.Cost.Amount == nil {
		return Weight(n, l.Units.Commodity)
	}
	return Weight(n.Mul(l.Cost.Amount.Number), l.Cost.Amount.Commodity)
}

func (l Lot) String() string { return l.Units.String() + " " + l.Cost.String() }

// Inventory holds the lots of an account, in insertion order.
type Inventory struct {
	lots   []Lot
	method BookingMethod
}

// NewInventory returns an empty inventory booking reductions with method.
func NewInventory(method BookingMethod) *Inventory {
	return &Inventory{method: method}
}

// Lots returns a copy of the lots, in insertion order.
func (inv *Inventory) Lots() []Lot { return slices.Clone(inv.lots) }

// Units returns the total units held per commodity.
func (inv *Inventory) Units() MultiCurrencyAmount {
	var total MultiCurrencyAmount
	for _, l := range inv.lots {
		total = total.Add(l.Units.MultiCurrency())
	}
	return total
}

func (inv *Inventory) String() string {
	if len(inv.lots) == 0 {
		return "empty"
	}
	parts := make([]string, len(inv.lots))
	for i, l := range inv.lots {
		parts[i] = l.String()
	}
	return strings.Join(parts, ", ")
}

// Book adds or removes the units of p.
//
// Adding units returns a nil effect. Reducing units returns the cost-weighted
// value of the lots consumed, with the sign of the reduction. A failed booking
// leaves the inventory untouched.
func (inv *Inventory) Book(p PostingInContext) (*MultiCurrencyAmount, error) {
	var cost Cost
	if p.Cost != nil {
		cost = *p.Cost
	}
	units := p.Amount
	if units.IsZero() {
		return nil, nil
	}
	if !inv.reduces(units) {
		inv.augment(units, cost.withDate(p.Date()))
		return nil, nil
	}
	effect, err := inv.reduce(p, units, cost)
	if err != nil {
		return nil, err
	}
	return &effect, nil
}

// reduces reports whether units has the opposite sign of the lots of the same commodity.
func (inv *Inventory) reduces(units Amount) bool {
	for _, l := range inv.lots {
		if l.Units.Commodity == units.Commodity && l.Units.Number.Sign() != units.Number.Sign() {
			return true
		}
	}
	return false
}

func (inv *Inventory) augment(units Amount, cost Cost) {
	for i, l := range inv.lots {
		if l.Units.Commodity == units.Commodity && l.Cost.Equal(cost) {
			inv.lots[i].Units.Number = l.Units.Number.Add(units.Number)
			inv.lots[i].Units.Digits = max(l.Units.Digits, units.Digits)
			return
		}
	}
	inv.lots = append(inv.lots, Lot{Units: units, Cost: cost})
}

func (inv *Inventory) reduce(p PostingInContext, units Amount, query Cost) (MultiCurrencyAmount, error) {
	var effect MultiCurrencyAmount

	// Selling everything is never ambiguous, whatever the lots.
	total := decimal.Zero
	for _, l := range inv.lots {
		if l.Units.Commodity == units.Commodity {
			total = total.Add(l.Units.Number)
		}
	}
	if total.Add(units.Number).IsZero() {
		for _, l := range inv.lots {
			if l.Units.Commodity == units.Commodity {
				effect = effect.Add(l.costOf(l.Units.Number.Neg()))
			}
		}
		inv.lots = slices.DeleteFunc(inv.lots, func(l Lot) bool { return l.Units.Commodity == units.Commodity })
		return effect, nil
	}

	var candidates []int
	available := decimal.Zero
	for i, l := range inv.lots {
		if l.Units.Commodity == units.Commodity && query.Matches(l.Cost) {
			candidates = append(candidates, i)
			available = available.Add(l.Units.Number.Abs())
		}
	}
	wanted := units.Number.Abs()

	switch {
	case len(candidates) == 0:
		return effect, inv.fail(ErrNoMatchingLot, p, nil)
	case len(candidates) == 1:
		if wanted.GreaterThan(available) {
			return effect, inv.fail(ErrLotNotBigEnough, p, candidates)
		}
	case inv.method == Strict:
		return effect, inv.fail(ErrAmbiguousBooking, p, candidates)
	case wanted.GreaterThan(available):
		return effect, inv.fail(ErrNotEnoughUnits, p, candidates)
	}

	if inv.method == LIFO {
		slices.Reverse(candidates)
	}
	remaining := units.Number
	for _, i := range candidates {
		if remaining.IsZero() {
			break
		}
		l := inv.lots[i]
		n := remaining
		if n.Abs().GreaterThan(l.Units.Number.Abs()) {
			n = l.Units.Number.Neg()
		}
		effect = effect.Add(l.costOf(n))
		inv.lots[i].Units.Number = l.Units.Number.Add(n)
		remaining = remaining.Sub(n)
	}
	inv.lots = slices.DeleteFunc(inv.lots, func(l Lot) bool { return l.Units.Number.IsZero() })
	return effect, nil
}

func (inv *Inventory) fail(kind error, p PostingInContext, candidates []int) error {
	matching := make([]Lot, len(candidates))
	for i, c := range candidates {
		matching[i] = inv.lots[c]
	}
	return &BookingError{Kind: kind, Posting: p.String(), Matching: matching, Inventory: inv.String()}
}
