package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/ledger/date"
)

// Cost describes the acquisition of a lot: its per-unit cost, the day it was
// acquired and an optional label.
//
// Any field can be nil. On a lot, nil fields are simply unknown; used as a
// reduction query they are wildcards (see Matches).
type Cost struct {
	Amount *Amount
	Date   *date.Date
	Label  *string
}

// NewCost returns a Cost, failing with ErrNegativeAmount on a negative cost amount.
func NewCost(amount *Amount, on *date.Date, label *string) (Cost, error) {
	if amount != nil && amount.IsNegative() {
		return Cost{}, fmt.Errorf("%w: %s", ErrNegativeAmount, amount)
	}
	return Cost{Amount: amount, Date: on, Label: label}, nil
}

// IsEmpty reports whether all fields are nil, i.e. c matches any cost.
func (c Cost) IsEmpty() bool { return c.Amount == nil && c.Date == nil && c.Label == nil }

// Matches reports whether every non-nil field of c equals the corresponding field of other.
func (c Cost) Matches(other Cost) bool {
	if c.Amount != nil && (other.Amount == nil || !c.Amount.Equal(*other.Amount)) {
		return false
	}
	if c.Date != nil && (other.Date == nil || *c.Date != *other.Date) {
		return false
	}
	if c.Label != nil && (other.Label == nil || *c.Label != *other.Label) {
		return false
	}
	return true
}

// Equal reports whether c and other have the same fields, nil included.
func (c Cost) Equal(other Cost) bool {
	return c.Matches(other) && other.Matches(c)
}

// withDate returns a copy of c whose date is set to on if it was nil.
func (c Cost) withDate(on date.Date) Cost {
	if c.Date == nil {
		c.Date = &on
	}
	return c
}

func (c Cost) String() string {
	var parts []string
	if c.Date != nil {
		parts = append(parts, c.Date.String())
	}
	if c.Amount != nil {
		parts = append(parts, c.Amount.String())
	}
	if c.Label != nil {
		parts = append(parts, strconv.Quote(*c.Label))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
