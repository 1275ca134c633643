package ledger

import (
	"errors"
	"fmt"
	"slices"
)

// booker books transactions through one inventory per account.
type booker struct {
	l           *Ledger
	inventories map[string]*Inventory
}

func (l *Ledger) newBooker() *booker {
	return &booker{l: l, inventories: make(map[string]*Inventory)}
}

func (b *booker) inventory(name AccountName) *Inventory {
	inv, ok := b.inventories[name.String()]
	if !ok {
		var method BookingMethod
		if a, exists := b.l.accounts[name.String()]; exists {
			method = a.Booking
		}
		inv = NewInventory(method)
		b.inventories[name.String()] = inv
	}
	return inv
}

// book books the postings of t and returns the transaction effect.
//
// Postings without cost contribute their weight. A posting that cannot be
// booked contributes its weight too, and its error is returned.
func (b *booker) book(t Transaction) (MultiCurrencyAmount, error) {
	var effect MultiCurrencyAmount
	var errs []error
	for i, p := range t.Postings {
		if !p.booked() {
			effect = effect.Add(p.weight())
			continue
		}
		realized, err := b.inventory(p.Account).Book(t.InContext(i))
		switch {
		case err != nil:
			errs = append(errs, err)
			effect = effect.Add(p.weight())
		case realized == nil:
			effect = effect.Add(p.weight())
		default:
			effect = effect.Add(*realized)
		}
	}
	return effect, errors.Join(errs...)
}

// Effect returns what t adds to the ledger, per commodity.
//
// Cost-bearing postings are booked through their account inventory, after
// every transaction of l that precedes t: reductions weigh the cost of the
// lots they consume. Booking failures are returned along with the effect.
func (t Transaction) Effect(l *Ledger) (MultiCurrencyAmount, error) {
	b := l.newBooker()
	for _, u := range l.ordered() {
		if !u.precedes(t) {
			break
		}
		b.book(u)
	}
	return b.book(t)
}

// validateShape checks that t has postings.
func (t Transaction) validateShape() error {
	if len(t.Postings) == 0 {
		return invalidf("%s has no postings", t.Metadata)
	}
	return nil
}

// validateEffect checks that the effect of t is zero within tolerance.
func (t Transaction) validateEffect(effect MultiCurrencyAmount) error {
	if err := effect.ValidateZeroWithTolerance(); err != nil {
		return &ValidationError{Message: fmt.Sprintf("%s is not balanced - %s", t.Metadata, err), Err: err}
	}
	return nil
}

// Validate checks t against l: it must have postings, each posted to an open
// account, and its effect must be zero within tolerance.
//
// Booking failures are not reported here, they belong to the account
// inventory (see Account.ValidateInventory).
func (t Transaction) Validate(l *Ledger) error {
	errs := []error{t.validateShape()}
	for i, p := range t.Postings {
		a, ok := l.accounts[p.Account.String()]
		account := NewAccount(p.Account, nil)
		if ok {
			account = *a
		}
		errs = append(errs, account.ValidatePosting(t.InContext(i)))
	}
	effect, _ := t.Effect(l)
	errs = append(errs, t.validateEffect(effect))
	return errors.Join(errs...)
}

// validateCommodityUsage checks that t does not use a commodity before its opening.
func (t Transaction) validateCommodityUsage(l *Ledger) error {
	var symbols []string
	for _, p := range t.Postings {
		for _, c := range p.commodities() {
			if !slices.Contains(symbols, c) {
				symbols = append(symbols, c)
			}
		}
	}
	var errs []error
	for _, symbol := range symbols {
		if c, ok := l.commodities[symbol]; ok {
			errs = append(errs, c.ValidateUsage(t.Date()))
		}
	}
	return errors.Join(errs...)
}

// Errors validates the whole ledger and returns every problem found, parsing
// errors first. It returns nil for a valid ledger.
//
// Validation never stops at the first problem. The rules of the plugins
// PluginCheckCommodity and PluginNoUnused only apply when they are enabled.
func (l *Ledger) Errors() []error {
	checkCommodity := l.HasPlugin(PluginCheckCommodity)
	noUnused := l.HasPlugin(PluginNoUnused)

	errs := slices.Clone(l.parsingErrors)
	report := func(err error) { errs = append(errs, flatten(err)...) }

	index := l.postingsByAccount()
	for _, a := range l.Accounts() {
		postings := index[a.Name.String()]
		report(a.Validate())
		for _, p := range postings {
			report(a.ValidatePosting(p))
		}
		report(a.validateBalance(postings))
		report(a.validateInventory(postings))
	}

	if checkCommodity {
		for _, c := range l.Commodities() {
			report(c.Validate())
		}
	}
	if noUnused {
		for _, a := range l.Accounts() {
			if len(index[a.Name.String()]) == 0 {
				report(invalidf("Account %s has no postings", a.Name))
			}
		}
	}

	b := l.newBooker()
	for _, t := range l.ordered() {
		report(t.validateShape())
		effect, _ := b.book(t)
		report(t.validateEffect(effect))
		if checkCommodity {
			report(t.validateCommodityUsage(l))
		}
	}

	l.log.Debug().
		Int("accounts", len(l.accounts)).
		Int("transactions", len(l.transactions)).
		Int("errors", len(errs)).
		Msg("ledger validated")
	if len(errs) == 0 {
		return nil
	}
	return errs
}
