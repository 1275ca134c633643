package renderer

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/ledger"
	"github.com/etnz/ledger/date"
	"github.com/shopspring/decimal"
)

// Balances is the account tree with the position of every account and the
// total of every group at the end of a day.
type Balances struct {
	Date date.Date    `json:"date"`
	Rows []BalanceRow `json:"rows"`
}

// BalanceRow is a line of the balances report: a group or an account.
type BalanceRow struct {
	Depth   int    `json:"depth"`
	Name    string `json:"name"`              // last segment
	Account string `json:"account,omitempty"` // full name, empty for groups
	Balance string `json:"balance"`
}

// NewBalances creates the balances report of l on a given day.
// Account types without any account are left out.
func NewBalances(l *ledger.Ledger, on date.Date) *Balances {
	b := &Balances{Date: on}
	for _, root := range l.AccountGroups() {
		if len(root.Accounts) == 0 && len(root.Groups) == 0 {
			continue
		}
		b.addGroup(l, root, on, 0)
	}
	return b
}

// addGroup appends the rows of g and returns its total.
func (b *Balances) addGroup(l *ledger.Ledger, g *ledger.AccountGroup, on date.Date, depth int) ledger.MultiCurrencyAmount {
	i := len(b.Rows)
	b.Rows = append(b.Rows, BalanceRow{Depth: depth, Name: g.NameItem()})

	var total ledger.MultiCurrencyAmount
	for _, a := range g.Accounts {
		position := l.Position(a.Name, on)
		b.Rows = append(b.Rows, BalanceRow{
			Depth:   depth + 1,
			Name:    a.Name.NameItem(),
			Account: a.Name.String(),
			Balance: FormatPosition(position),
		})
		total = total.Add(position)
	}
	for _, sub := range g.Groups {
		total = total.Add(b.addGroup(l, sub, on, depth+1))
	}
	b.Rows[i].Balance = FormatPosition(total)
	return total
}

// FormatPosition formats the non zero amounts of m, "-" when there is none.
func FormatPosition(m ledger.MultiCurrencyAmount) string {
	var parts []string
	for _, c := range m.Commodities() {
		if n := m.Number(c); !n.IsZero() {
			parts = append(parts, FormatAmount(n, c))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// maxMinorUnits is the largest amount go-money can format, in minor units.
var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// FormatAmount formats number of commodity. ISO currencies are displayed
// with their symbol and their minor unit precision, other commodities as
// number and symbol. Currency amounts too large for go-money keep the minor
// unit precision but are displayed as number and symbol.
func FormatAmount(number decimal.Decimal, commodity string) string {
	cur := money.GetCurrency(commodity)
	if cur == nil {
		return number.String() + " " + commodity
	}
	minor := number.Shift(int32(cur.Fraction)).Round(0)
	if minor.Abs().GreaterThan(maxMinorUnits) {
		return number.StringFixed(int32(cur.Fraction)) + " " + cur.Code
	}
	return cur.Formatter().Format(minor.IntPart())
}
