package ledger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/etnz/ledger/date"
)

// Account is a named bucket of postings, open between two dates.
type Account struct {
	Name      AccountName
	Commodity string // the only commodity the account accepts, "" for any.
	Booking   BookingMethod
	Opening   *date.Date
	Closing   *date.Date
	Balances  []Balance
	Metadata  Metadata
}

// NewAccount returns a STRICT account opened on opening (nil for none).
func NewAccount(name AccountName, opening *date.Date) Account {
	return Account{Name: name, Opening: opening}
}

// clone returns a copy of a that shares no mutable state with it.
func (a Account) clone() Account {
	a.Balances = slices.Clone(a.Balances)
	a.Metadata = maps.Clone(a.Metadata)
	return a
}

// IsOpen reports whether on is within [Opening, Closing).
func (a Account) IsOpen(on date.Date) bool {
	if a.Opening == nil || on.Before(*a.Opening) {
		return false
	}
	return a.Closing == nil || on.Before(*a.Closing)
}

// Validate checks the account lifecycle dates.
func (a Account) Validate() error {
	switch {
	case a.Closing != nil && a.Opening == nil:
		return invalidf("Account %s has a closing date but no opening", a.Name)
	case a.Closing != nil && a.Closing.Before(*a.Opening):
		return invalidf("Account %s was closed on %s before it was opened on %s", a.Name, a.Closing, a.Opening)
	}
	return nil
}

// ValidatePosting checks that p was posted while the account was open, in an
// allowed commodity.
func (a Account) ValidatePosting(p PostingInContext) error {
	if !a.IsOpen(p.Date()) {
		return invalidf("%s was posted while the accout %s was closed", p, a.Name)
	}
	if a.Commodity != "" && a.Commodity != p.Amount.Commodity {
		return invalidf("%s uses a wrong commodity for account %s - Only %s is allowed", p, a.Name, a.Commodity)
	}
	return nil
}

// ValidateBalance checks every balance assertion of the account against the
// postings recorded in l.
func (a Account) ValidateBalance(l *Ledger) error {
	return a.validateBalance(l.PostingsOf(a.Name))
}

func (a Account) validateBalance(postings []PostingInContext) error {
	balances := slices.Clone(a.Balances)
	slices.SortStableFunc(balances, func(x, y Balance) int { return x.Date.Compare(y.Date) })

	var errs []error
	for _, b := range balances {
		var sum MultiCurrencyAmount
		for _, p := range postings {
			if p.Amount.Commodity == b.Amount.Commodity && !p.Date().After(b.Date) {
				sum = sum.Add(p.Amount.MultiCurrency())
			}
		}
		if err := sum.ValidateOneAmountWithTolerance(b.Amount); err != nil {
			errs = append(errs, &ValidationError{Message: fmt.Sprintf("Balance failed: %s - %s", b, err), Err: err})
		}
	}
	return errors.Join(errs...)
}

// ValidateInventory replays the postings of the account recorded in l through
// a fresh inventory, and reports every booking failure.
func (a Account) ValidateInventory(l *Ledger) error {
	return a.validateInventory(l.PostingsOf(a.Name))
}

func (a Account) validateInventory(postings []PostingInContext) error {
	inv := NewInventory(a.Booking)
	var errs []error
	for _, p := range postings {
		if !p.booked() {
			continue
		}
		if _, err := inv.Book(p); err != nil {
			errs = append(errs, a.inventoryError(err))
		}
	}
	return errors.Join(errs...)
}

func (a Account) inventoryError(err error) error {
	return &ValidationError{Message: fmt.Sprintf("Inventory of %s: %s", a.Name, err), Err: err}
}

// String renders the open directive, and the close one if any. It is empty
// when the account has no opening date.
func (a Account) String() string {
	if a.Opening == nil {
		return ""
	}
	open := fmt.Sprintf("%s open %s", a.Opening, a.Name)
	if a.Commodity != "" {
		open += " " + a.Commodity
	}
	if a.Booking != Strict {
		open += " " + strconv.Quote(a.Booking.String())
	}
	lines := append([]string{open}, a.Metadata.lines("  ")...)
	if a.Closing != nil {
		lines = append(lines, fmt.Sprintf("%s close %s", a.Closing, a.Name))
	}
	return strings.Join(lines, "\n")
}
