package ledger

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/ledger/date"
)

// Commodity is a currency, a security or anything else that can be counted.
type Commodity struct {
	Symbol   string
	Opening  *date.Date
	Name     string
	Price    string // price source, as in the "price" metadata
	Metadata Metadata
}

// NewCommodity returns a Commodity opened on opening (nil for none).
func NewCommodity(symbol string, opening *date.Date) Commodity {
	return Commodity{Symbol: symbol, Opening: opening}
}

// IsCurrency reports whether the symbol is an ISO 4217 currency code.
func (c Commodity) IsCurrency() bool { return money.GetCurrency(c.Symbol) != nil }

// Validate checks that the commodity has an opening date.
func (c Commodity) Validate() error {
	if c.Opening == nil {
		return invalidf("Commodity %s does not have an opening date", c.Symbol)
	}
	return nil
}

// ValidateUsage checks that the commodity is not used before its opening date.
// A commodity without opening date is reported by Validate instead.
func (c Commodity) ValidateUsage(on date.Date) error {
	if c.Opening != nil && on.Before(*c.Opening) {
		return invalidf("Commodity %s used on %s before its opening date %s", c.Symbol, on, c.Opening)
	}
	return nil
}

// String renders the commodity directive, empty when it has no opening date.
func (c Commodity) String() string {
	if c.Opening == nil {
		return ""
	}
	lines := []string{fmt.Sprintf("%s commodity %s", c.Opening, c.Symbol)}
	meta := maps.Clone(c.Metadata)
	if meta == nil {
		meta = Metadata{}
	}
	if c.Name != "" {
		meta["name"] = c.Name
	}
	if c.Price != "" {
		meta["price"] = c.Price
	}
	lines = append(lines, meta.lines("  ")...)
	return strings.Join(lines, "\n")
}

// Price is the value of one unit of a commodity in another commodity on a day.
type Price struct {
	Date      date.Date
	Commodity string
	Amount    Amount
	Metadata  Metadata
}

// NewPrice returns a Price, failing with ErrSameCommodityPrice when amount is
// expressed in the priced commodity.
func NewPrice(on date.Date, commodity string, amount Amount, meta Metadata) (Price, error) {
	if commodity == amount.Commodity {
		return Price{}, fmt.Errorf("%w: %s %s", ErrSameCommodityPrice, commodity, amount)
	}
	return Price{Date: on, Commodity: commodity, Amount: amount, Metadata: meta}, nil
}

func (p Price) String() string {
	lines := []string{fmt.Sprintf("%s price %s %s", p.Date, p.Commodity, p.Amount)}
	lines = append(lines, p.Metadata.lines("  ")...)
	return strings.Join(lines, "\n")
}

// Balance asserts the amount of a commodity held by an account at the end of a day.
type Balance struct {
	Date     date.Date
	Account  AccountName
	Amount   Amount
	Metadata Metadata
}

// NewBalance returns a Balance assertion.
func NewBalance(on date.Date, account AccountName, amount Amount, meta Metadata) Balance {
	return Balance{Date: on, Account: account, Amount: amount, Metadata: meta}
}

func (b Balance) String() string {
	lines := []string{fmt.Sprintf("%s balance %s %s", b.Date, b.Account, b.Amount)}
	lines = append(lines, b.Metadata.lines("  ")...)
	return strings.Join(lines, "\n")
}

// Option is a ledger-wide setting.
type Option struct {
	Name  string
	Value string
}

func (o Option) String() string {
	return "option " + strconv.Quote(o.Name) + " " + strconv.Quote(o.Value)
}

// Event records a change of a named state, like a location.
type Event struct {
	Date     date.Date
	Name     string
	Value    string
	Metadata Metadata
}

func (e Event) String() string {
	lines := []string{fmt.Sprintf("%s event %s %s", e.Date, strconv.Quote(e.Name), strconv.Quote(e.Value))}
	lines = append(lines, e.Metadata.lines("  ")...)
	return strings.Join(lines, "\n")
}

// Custom is a dated directive the engine does not interpret.
type Custom struct {
	Date     date.Date
	Name     string
	Values   []string
	Metadata Metadata
}

func (c Custom) String() string {
	s := fmt.Sprintf("%s custom %s", c.Date, strconv.Quote(c.Name))
	for _, v := range c.Values {
		s += " " + strconv.Quote(v)
	}
	lines := append([]string{s}, c.Metadata.lines("  ")...)
	return strings.Join(lines, "\n")
}
