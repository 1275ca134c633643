package ledger

import (
	"fmt"
	"strings"
	"unicode"
)

// AccountType is the root category of an account.
type AccountType int

const (
	Assets AccountType = iota
	Liabilities
	Income
	Expenses
	Equity
)

// AccountTypes lists every AccountType in the canonical order.
var AccountTypes = []AccountType{Assets, Liabilities, Income, Expenses, Equity}

func (t AccountType) String() string {
	switch t {
	case Assets:
		return "Assets"
	case Liabilities:
		return "Liabilities"
	case Income:
		return "Income"
	case Expenses:
		return "Expenses"
	case Equity:
		return "Equity"
	default:
		return "unknown"
	}
}

// ParseAccountType parses the first segment of an account name.
func ParseAccountType(s string) (AccountType, error) {
	for _, t := range AccountTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown account type: %q", s)
}

// AccountSeparator separates the segments of an account name.
const AccountSeparator = ":"

// AccountName is a validated, hierarchical account identifier like "Assets:Cash:EUR".
//
// The zero value is not a valid name, use NewAccountName.
type AccountName struct {
	full string
	typ  AccountType
}

// NewAccountName validates raw and returns the corresponding AccountName.
func NewAccountName(raw string) (AccountName, error) {
	segments := strings.Split(raw, AccountSeparator)
	if len(segments) < 2 {
		return AccountName{}, fmt.Errorf("%w: %q needs at least two segments", ErrInvalidName, raw)
	}
	typ, err := ParseAccountType(segments[0])
	if err != nil {
		return AccountName{}, fmt.Errorf("%w: %q: %v", ErrInvalidName, raw, err)
	}
	for _, s := range segments {
		if s == "" {
			return AccountName{}, fmt.Errorf("%w: %q has an empty segment", ErrInvalidName, raw)
		}
		if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
			return AccountName{}, fmt.Errorf("%w: %q contains whitespace", ErrInvalidName, raw)
		}
	}
	return AccountName{full: raw, typ: typ}, nil
}

// MustAccountName is like NewAccountName but panics on error.
func MustAccountName(raw string) AccountName {
	n, err := NewAccountName(raw)
	if err != nil {
		panic(err.Error())
	}
	return n
}

// IsValid reports whether n was built by NewAccountName.
func (n AccountName) IsValid() bool { return n.full != "" }

// Type returns the account type derived from the first segment.
func (n AccountName) Type() AccountType { return n.typ }

// Segments returns the name split on the separator.
func (n AccountName) Segments() []string { return strings.Split(n.full, AccountSeparator) }

// NameItem returns the last segment.
func (n AccountName) NameItem() string {
	return n.full[strings.LastIndex(n.full, AccountSeparator)+1:]
}

func (n AccountName) String() string { return n.full }
