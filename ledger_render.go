package ledger

import (
	"strconv"
	"strings"
)

// String renders l in the ledger text format.
//
// Sections come in a fixed order: commodities, accounts with their balances,
// transactions, prices, options, plugins, custom directives and events. They are
// separated by a blank line, empty sections are skipped.
func (l *Ledger) String() string {
	var sections []string
	add := func(entries []string) {
		var kept []string
		for _, e := range entries {
			if e != "" {
				kept = append(kept, e)
			}
		}
		if len(kept) > 0 {
			sections = append(sections, strings.Join(kept, "\n"))
		}
	}

	var entries []string
	for _, c := range l.Commodities() {
		entries = append(entries, c.String())
	}
	add(entries)

	entries = nil
	for _, a := range l.Accounts() {
		entries = append(entries, a.String())
		for _, b := range a.Balances {
			entries = append(entries, b.String())
		}
	}
	add(entries)

	entries = nil
	for _, t := range l.ordered() {
		entries = append(entries, t.String())
	}
	add(entries)

	entries = nil
	for _, p := range l.prices {
		entries = append(entries, p.String())
	}
	add(entries)

	entries = nil
	for _, o := range l.options {
		entries = append(entries, o.String())
	}
	add(entries)

	entries = nil
	for _, p := range l.plugins {
		entries = append(entries, "plugin "+strconv.Quote(p))
	}
	add(entries)

	entries = nil
	for _, c := range l.customs {
		entries = append(entries, c.String())
	}
	add(entries)

	entries = nil
	for _, e := range l.events {
		entries = append(entries, e.String())
	}
	add(entries)

	return strings.Join(sections, "\n\n")
}
