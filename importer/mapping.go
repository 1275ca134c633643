// Package importer builds ledgers from JSON exports of banks and brokers.
//
// A YAML mapping tells where the records are in the export and which jsonpath
// expressions extract their fields. Each record becomes a transaction between
// the mapped account and a counter account chosen by rules.
package importer

import (
	"fmt"
	"os"
	"regexp"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/date"
	"gopkg.in/yaml.v3"
)

// Mapping represents the import configuration of one export format.
type Mapping struct {
	Account   string   `yaml:"account"`   // the account the export is about
	Opening   string   `yaml:"opening"`   // opening date of every imported account
	Commodity string   `yaml:"commodity"` // default commodity of amounts
	Booking   string   `yaml:"booking"`   // booking method of the account
	Records   string   `yaml:"records"`   // jsonpath to the records array
	Fields    Fields   `yaml:"fields"`
	Balance   *Balance `yaml:"balance"`
	Counter   Counter  `yaml:"counter"`
	Tags      []string `yaml:"tags"`
	Plugins   []string `yaml:"plugins"`
}

// Fields holds the jsonpath expressions evaluated on each record.
type Fields struct {
	ID        string `yaml:"id"`
	Date      string `yaml:"date"`
	Amount    string `yaml:"amount"`
	Commodity string `yaml:"commodity"`
	Payee     string `yaml:"payee"`
	Narration string `yaml:"narration"`
}

// Balance holds the jsonpath expressions of a closing balance, evaluated on
// the whole export.
type Balance struct {
	Date   string `yaml:"date"`
	Amount string `yaml:"amount"`
}

// Counter selects the counter account of a record.
type Counter struct {
	Default string `yaml:"default"`
	Rules   []Rule `yaml:"rules"`
}

// Rule sends records whose payee or narration match to Account.
type Rule struct {
	Match   string `yaml:"match"`
	Account string `yaml:"account"`

	re *regexp.Regexp
}

// LoadMapping reads a YAML mapping file.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}
	return ParseMapping(data)
}

// ParseMapping parses and validates a YAML mapping.
func ParseMapping(data []byte) (*Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Mapping) validate() error {
	if m.Records == "" {
		m.Records = "$[*]"
	}
	if m.Fields.Date == "" || m.Fields.Amount == "" {
		return fmt.Errorf("invalid mapping: the date and amount fields are required")
	}
	if m.Commodity == "" && m.Fields.Commodity == "" {
		return fmt.Errorf("invalid mapping: a commodity or a commodity field is required")
	}
	if m.Balance != nil && m.Commodity == "" {
		return fmt.Errorf("invalid mapping: a balance needs the mapping commodity")
	}
	for _, name := range m.accounts() {
		if _, err := ledger.NewAccountName(name); err != nil {
			return fmt.Errorf("invalid mapping: %w", err)
		}
	}
	if _, err := ledger.ParseBookingMethod(m.Booking); err != nil {
		return fmt.Errorf("invalid mapping: %w", err)
	}
	if m.Opening != "" {
		if _, err := date.Parse(m.Opening); err != nil {
			return fmt.Errorf("invalid mapping: opening: %w", err)
		}
	}
	for i := range m.Counter.Rules {
		r := &m.Counter.Rules[i]
		re, err := regexp.Compile(r.Match)
		if err != nil {
			return fmt.Errorf("invalid mapping: rule %q: %w", r.Match, err)
		}
		r.re = re
	}
	return nil
}

// accounts returns every account named by the mapping, the main one first.
func (m *Mapping) accounts() []string {
	names := []string{m.Account, m.Counter.Default}
	for _, r := range m.Counter.Rules {
		names = append(names, r.Account)
	}
	return names
}

// counterAccount returns the counter account of a record.
func (m *Mapping) counterAccount(payee, narration string) string {
	for _, r := range m.Counter.Rules {
		if r.re.MatchString(payee) || r.re.MatchString(narration) {
			return r.Account
		}
	}
	return m.Counter.Default
}
