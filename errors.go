package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// Construction errors.
var (
	ErrInvalidName           = errors.New("invalid account name")
	ErrNegativeAmount        = errors.New("cost amount cannot be negative")
	ErrPriceWithoutType      = errors.New("posting has a price but no price type")
	ErrPriceTypeWithoutPrice = errors.New("posting has a price type but no price")
	ErrSameCommodityPrice    = errors.New("price uses the same commodity as the priced commodity")
)

// Mutation errors.
var ErrAlreadyExists = errors.New("already exists")

// Validation errors.
var ErrInvalid = errors.New("invalid")

// Booking errors, returned by Inventory.Book wrapped in a *BookingError.
var (
	ErrAmbiguousBooking = errors.New("ambiguous booking")
	ErrNoMatchingLot    = errors.New("no matching lot")
	ErrLotNotBigEnough  = errors.New("lot not big enough")
	ErrNotEnoughUnits   = errors.New("not enough units")
)

// invalidf returns an ErrInvalid validation failure with a formatted message.
func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError is a single validation failure. It matches ErrInvalid, and
// the error that caused it if any.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalid}
	}
	return []error{ErrInvalid, e.Err}
}

// flatten returns the errors joined in err, nil when err is nil.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		if _, isValidation := err.(*ValidationError); !isValidation {
			return j.Unwrap()
		}
	}
	return []error{err}
}

// BookingError reports why a posting could not be booked into an inventory.
type BookingError struct {
	Kind      error  // one of the Err*Booking / Err*Lot / ErrNotEnoughUnits sentinels
	Posting   string // the reducing posting
	Matching  []Lot  // the candidate lots, in inventory order
	Inventory string // the inventory content when booking failed
}

func (e *BookingError) Error() string {
	var b strings.Builder
	switch e.Kind {
	case ErrAmbiguousBooking:
		fmt.Fprintf(&b, "Ambiguous Booking: %s, matches: ", e.Posting)
		for i, l := range e.Matching {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(l.String())
		}
		fmt.Fprintf(&b, ", inventory: %s", e.Inventory)
	case ErrNoMatchingLot:
		fmt.Fprintf(&b, "No Lot matching %s found, inventory: %s", e.Posting, e.Inventory)
	case ErrLotNotBigEnough:
		fmt.Fprintf(&b, "Lot not big enough: trying to reduce %s", e.Posting)
		if len(e.Matching) > 0 {
			fmt.Fprintf(&b, " from %s", e.Matching[0])
		}
	case ErrNotEnoughUnits:
		fmt.Fprintf(&b, "Not enough units: trying to reduce %s, inventory: %s", e.Posting, e.Inventory)
	default:
		fmt.Fprintf(&b, "booking %s failed: %v", e.Posting, e.Kind)
	}
	return b.String()
}

func (e *BookingError) Unwrap() error { return e.Kind }
