package ledger

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/ledger/date"
	"github.com/rs/zerolog"
)

// Plugins with a meaning for the validation pass. Any other plugin is inert.
const (
	PluginCheckCommodity = "beancount.plugins.check_commodity"
	PluginNoUnused       = "beancount.plugins.nounused"
)

// Ledger holds every account, commodity, price and transaction of a book.
//
// Accounts and commodities are owned by the Ledger: getters return copies and
// changes go through the Add methods. A Ledger is not safe for concurrent use.
type Ledger struct {
	accounts      map[string]*Account   // index accounts by name
	commodities   map[string]*Commodity // index commodities by symbol
	prices        []Price
	transactions  []Transaction // in insertion order
	customs       []Custom
	events        []Event
	options       []Option
	plugins       []string
	parsingErrors []error

	log zerolog.Logger
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		accounts:    make(map[string]*Account),
		commodities: make(map[string]*Commodity),
		log:         zerolog.Nop(),
	}
}

// SetLogger sets the logger used to trace ledger changes, at debug level.
func (l *Ledger) SetLogger(log zerolog.Logger) { l.log = log }

// AddCommodity adds c, it fails if the symbol is already known.
func (l *Ledger) AddCommodity(c Commodity) error {
	if _, exists := l.commodities[c.Symbol]; exists {
		return fmt.Errorf("commodity %s: %w", c.Symbol, ErrAlreadyExists)
	}
	c.Metadata = maps.Clone(c.Metadata)
	l.commodities[c.Symbol] = &c
	return nil
}

// AddAccount adds a, it fails if the name is invalid or already known.
func (l *Ledger) AddAccount(a Account) error {
	if _, err := NewAccountName(a.Name.String()); err != nil {
		return err
	}
	if _, exists := l.accounts[a.Name.String()]; exists {
		return fmt.Errorf("account %s: %w", a.Name, ErrAlreadyExists)
	}
	a = a.clone()
	l.accounts[a.Name.String()] = &a
	if a.Commodity != "" {
		l.ensureCommodity(a.Commodity)
	}
	return nil
}

// AddPrice adds p, it fails if a price for the same commodity and day exists.
func (l *Ledger) AddPrice(p Price) error {
	for _, q := range l.prices {
		if q.Date == p.Date && q.Commodity == p.Commodity {
			return fmt.Errorf("price of %s on %s: %w", p.Commodity, p.Date, ErrAlreadyExists)
		}
	}
	l.ensureCommodity(p.Commodity)
	l.ensureCommodity(p.Amount.Commodity)
	l.prices = append(l.prices, p)
	return nil
}

// AddTransaction adds t, creating the accounts and commodities it references
// when they are unknown. It returns the transaction as recorded.
func (l *Ledger) AddTransaction(t Transaction) Transaction {
	for _, p := range t.Postings {
		l.ensureAccount(p.Account)
		for _, c := range p.commodities() {
			l.ensureCommodity(c)
		}
	}
	t.Postings = slices.Clone(t.Postings)
	t.seq = len(l.transactions) + 1
	l.transactions = append(l.transactions, t)
	return t
}

// AddBalance records the assertion on its account, creating the account and
// the commodity when they are unknown.
func (l *Ledger) AddBalance(b Balance) {
	a := l.ensureAccount(b.Account)
	l.ensureCommodity(b.Amount.Commodity)
	a.Balances = append(a.Balances, b)
}

func (l *Ledger) AddCustom(c Custom) { l.customs = append(l.customs, c) }
func (l *Ledger) AddEvent(e Event)   { l.events = append(l.events, e) }
func (l *Ledger) AddOption(o Option) { l.options = append(l.options, o) }

// AddPlugin enables a plugin. Unknown plugins are kept but have no effect.
func (l *Ledger) AddPlugin(name string) {
	if !slices.Contains(l.plugins, name) {
		l.plugins = append(l.plugins, name)
	}
}

// AddParsingError records an error found while reading the ledger source.
func (l *Ledger) AddParsingError(err error) { l.parsingErrors = append(l.parsingErrors, err) }

// ensureAccount returns the account named name, creating it if needed.
func (l *Ledger) ensureAccount(name AccountName) *Account {
	if a, ok := l.accounts[name.String()]; ok {
		return a
	}
	a := NewAccount(name, nil)
	l.accounts[name.String()] = &a
	l.log.Debug().Str("account", name.String()).Msg("account created")
	return &a
}

func (l *Ledger) ensureCommodity(symbol string) {
	if _, ok := l.commodities[symbol]; ok {
		return
	}
	c := NewCommodity(symbol, nil)
	l.commodities[symbol] = &c
	l.log.Debug().Str("commodity", symbol).Msg("commodity created")
}

// HasPlugin reports whether the plugin is enabled.
func (l *Ledger) HasPlugin(name string) bool { return slices.Contains(l.plugins, name) }

// Account return the account with this name.
func (l *Ledger) Account(name AccountName) (Account, bool) {
	a, ok := l.accounts[name.String()]
	if !ok {
		return Account{}, false
	}
	return a.clone(), true
}

// Accounts returns all accounts sorted by name.
func (l *Ledger) Accounts() []Account {
	accounts := make([]Account, 0, len(l.accounts))
	for _, name := range slices.Sorted(maps.Keys(l.accounts)) {
		accounts = append(accounts, l.accounts[name].clone())
	}
	return accounts
}

// Commodity returns the commodity with this symbol.
func (l *Ledger) Commodity(symbol string) (Commodity, bool) {
	c, ok := l.commodities[symbol]
	if !ok {
		return Commodity{}, false
	}
	return *c, true
}

// Commodities returns all commodities sorted by symbol.
func (l *Ledger) Commodities() []Commodity {
	commodities := make([]Commodity, 0, len(l.commodities))
	for _, symbol := range slices.Sorted(maps.Keys(l.commodities)) {
		commodities = append(commodities, *l.commodities[symbol])
	}
	return commodities
}

func (l *Ledger) Prices() []Price             { return slices.Clone(l.prices) }
func (l *Ledger) Transactions() []Transaction { return slices.Clone(l.transactions) }
func (l *Ledger) Customs() []Custom           { return slices.Clone(l.customs) }
func (l *Ledger) Events() []Event             { return slices.Clone(l.events) }
func (l *Ledger) Options() []Option           { return slices.Clone(l.options) }
func (l *Ledger) Plugins() []string           { return slices.Clone(l.plugins) }
func (l *Ledger) ParsingErrors() []error      { return slices.Clone(l.parsingErrors) }

// Tags returns the sorted tags used by transactions.
func (l *Ledger) Tags() []string {
	set := make(map[string]struct{})
	for _, t := range l.transactions {
		for _, tag := range t.Metadata.Tags {
			set[tag] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// ordered returns the transactions in booking order: by date, then insertion.
func (l *Ledger) ordered() []Transaction {
	txs := slices.Clone(l.transactions)
	slices.SortStableFunc(txs, func(a, b Transaction) int { return a.Date().Compare(b.Date()) })
	return txs
}

// PostingsOf returns the postings to the account, in booking order.
func (l *Ledger) PostingsOf(name AccountName) []PostingInContext {
	var postings []PostingInContext
	for _, t := range l.ordered() {
		for i, p := range t.Postings {
			if p.Account == name {
				postings = append(postings, t.InContext(i))
			}
		}
	}
	return postings
}

// postingsByAccount indexes all postings by account name, in booking order.
func (l *Ledger) postingsByAccount() map[string][]PostingInContext {
	index := make(map[string][]PostingInContext)
	for _, t := range l.ordered() {
		for i, p := range t.Postings {
			name := p.Account.String()
			index[name] = append(index[name], t.InContext(i))
		}
	}
	return index
}

// Position returns the units held by the account at the end of the day on.
func (l *Ledger) Position(name AccountName, on date.Date) MultiCurrencyAmount {
	var position MultiCurrencyAmount
	for _, p := range l.PostingsOf(name) {
		if p.Date().After(on) {
			break
		}
		position = position.Add(p.Amount.MultiCurrency())
	}
	return position
}

// AccountGroup is a node of the account tree: all accounts sharing a name prefix.
type AccountGroup struct {
	Name     string // full prefix, like "Assets:Bank"
	Type     AccountType
	Accounts []Account       // accounts directly under this group, sorted by name
	Groups   []*AccountGroup // sub groups, sorted by name
}

// NameItem returns the last segment of the group name.
func (g *AccountGroup) NameItem() string {
	return g.Name[strings.LastIndex(g.Name, AccountSeparator)+1:]
}

func (g *AccountGroup) group(name string) *AccountGroup {
	for _, sub := range g.Groups {
		if sub.Name == name {
			return sub
		}
	}
	sub := &AccountGroup{Name: name, Type: g.Type}
	g.Groups = append(g.Groups, sub)
	return sub
}

// AccountGroups returns the account tree, one root per AccountType in canonical order.
func (l *Ledger) AccountGroups() []*AccountGroup {
	roots := make([]*AccountGroup, len(AccountTypes))
	for i, t := range AccountTypes {
		roots[i] = &AccountGroup{Name: t.String(), Type: t}
	}
	// Accounts are sorted, so are the groups created while walking them.
	for _, a := range l.Accounts() {
		segments := a.Name.Segments()
		g := roots[a.Name.Type()]
		for i := 2; i < len(segments); i++ {
			g = g.group(strings.Join(segments[:i], AccountSeparator))
		}
		g.Accounts = append(g.Accounts, a)
	}
	return roots
}
