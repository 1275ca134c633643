package ledger

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/etnz/ledger/date"
)

// Metadata holds free-form key/value annotations of a ledger entry.
type Metadata map[string]string

// lines renders m as sorted `key: "value"` lines, each prefixed by indent.
func (m Metadata) lines(indent string) []string {
	lines := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		lines = append(lines, indent+k+": "+strconv.Quote(m[k]))
	}
	return lines
}

// Flag marks a transaction as complete or incomplete.
type Flag string

const (
	FlagComplete   Flag = "*"
	FlagIncomplete Flag = "!"
)

// PriceType tells how a posting price applies to its amount.
type PriceType int

const (
	NoPrice PriceType = iota
	PerUnit           // "@", the price of one unit
	Total             // "@@", the price of the whole amount
)

func (t PriceType) String() string {
	switch t {
	case PerUnit:
		return "@"
	case Total:
		return "@@"
	default:
		return ""
	}
}

// Posting is one leg of a Transaction.
type Posting struct {
	Account   AccountName
	Amount    Amount
	Price     *Amount
	PriceType PriceType
	Cost      *Cost
	Metadata  Metadata
}

// NewPosting returns a Posting, price and priceType must be given together.
func NewPosting(account AccountName, amount Amount, price *Amount, priceType PriceType, cost *Cost) (Posting, error) {
	if price != nil && priceType == NoPrice {
		return Posting{}, fmt.Errorf("%w: %s %s", ErrPriceWithoutType, account, amount)
	}
	if price == nil && priceType != NoPrice {
		return Posting{}, fmt.Errorf("%w: %s %s", ErrPriceTypeWithoutPrice, account, amount)
	}
	return Posting{Account: account, Amount: amount, Price: price, PriceType: priceType, Cost: cost}, nil
}

// commodities returns the commodities referenced by p: amount, price and cost.
func (p Posting) commodities() []string {
	cs := []string{p.Amount.Commodity}
	if p.Price != nil {
		cs = append(cs, p.Price.Commodity)
	}
	if p.Cost != nil && p.Cost.Amount != nil {
		cs = append(cs, p.Cost.Amount.Commodity)
	}
	return cs
}

// booked reports whether p goes through its account inventory.
func (p Posting) booked() bool { return p.Cost != nil }

// weight returns what p contributes to the balance of its transaction when no
// inventory is involved.
//
// Only amounts directly expressed in a commodity record a precision for it;
// amounts converted through a cost or a price do not.
func (p Posting) weight() MultiCurrencyAmount {
	switch {
	case p.Cost != nil && p.Cost.Amount != nil:
		return Weight(p.Amount.Number.Mul(p.Cost.Amount.Number), p.Cost.Amount.Commodity)
	case p.Price != nil && p.PriceType == Total:
		n := p.Price.Number
		if p.Amount.IsNegative() {
			n = n.Neg()
		}
		return Weight(n, p.Price.Commodity)
	case p.Price != nil:
		return Weight(p.Amount.Number.Mul(p.Price.Number), p.Price.Commodity)
	default:
		return p.Amount.MultiCurrency()
	}
}

func (p Posting) String() string {
	s := p.Account.String() + " " + p.Amount.String()
	if p.Cost != nil {
		s += " " + p.Cost.String()
	}
	if p.Price != nil {
		s += " " + p.PriceType.String() + " " + p.Price.String()
	}
	return s
}

// TransactionMetadata is everything a transaction holds besides its postings.
type TransactionMetadata struct {
	Date      date.Date
	Payee     string
	Narration string
	Flag      Flag
	Tags      []string // without the leading '#'
	Metadata  Metadata
}

func (m TransactionMetadata) String() string {
	flag := m.Flag
	if flag == "" {
		flag = FlagComplete
	}
	s := fmt.Sprintf("%s %s %s %s", m.Date, flag, strconv.Quote(m.Payee), strconv.Quote(m.Narration))
	for _, t := range m.Tags {
		s += " #" + t
	}
	return s
}

// Transaction is a dated, balanced set of postings.
type Transaction struct {
	Metadata TransactionMetadata
	Postings []Posting

	seq int // position in the owning ledger, 0 when not added yet.
}

// NewTransaction returns a Transaction holding postings.
func NewTransaction(meta TransactionMetadata, postings ...Posting) Transaction {
	return Transaction{Metadata: meta, Postings: postings}
}

// Date returns the transaction date.
func (t Transaction) Date() date.Date { return t.Metadata.Date }

// InContext pairs the i-th posting with the transaction metadata.
func (t Transaction) InContext(i int) PostingInContext {
	return PostingInContext{Posting: t.Postings[i], Transaction: t.Metadata}
}

// precedes reports whether t is booked before u: date order, then ledger order.
// A transaction that is not in a ledger comes after every same-day entry.
func (t Transaction) precedes(u Transaction) bool {
	if c := t.Date().Compare(u.Date()); c != 0 {
		return c < 0
	}
	if u.seq == 0 {
		return t.seq != 0
	}
	return t.seq != 0 && t.seq < u.seq
}

func (t Transaction) String() string {
	lines := []string{t.Metadata.String()}
	lines = append(lines, t.Metadata.Metadata.lines("  ")...)
	for _, p := range t.Postings {
		lines = append(lines, "  "+p.String())
		lines = append(lines, p.Metadata.lines("    ")...)
	}
	return strings.Join(lines, "\n")
}

// PostingInContext is a posting seen from the transaction that owns it.
//
// It is built on demand and never stored, so postings do not keep a reference
// to their transaction.
type PostingInContext struct {
	Posting
	Transaction TransactionMetadata
}

func (p PostingInContext) Date() date.Date { return p.Transaction.Date }

func (p PostingInContext) String() string {
	return p.Transaction.Date.String() + " " + p.Posting.String()
}
