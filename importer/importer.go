package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/ledger"
	"github.com/etnz/ledger/date"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ImportIDKey is the transaction metadata holding the identity of the record
// it was imported from.
const ImportIDKey = "import-id"

// Importer converts exports with a Mapping.
type Importer struct {
	mapping *Mapping
	plugins []string
	log     zerolog.Logger
}

// New returns an Importer for m. It fails when m is not a valid mapping, see
// ParseMapping.
func New(m *Mapping) (*Importer, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &Importer{mapping: m, plugins: slices.Clone(m.Plugins), log: zerolog.Nop()}, nil
}

// SetLogger sets the logger of the importer and of the ledgers it builds.
func (im *Importer) SetLogger(log zerolog.Logger) { im.log = log }

// AddPlugin enables a plugin on every imported ledger.
func (im *Importer) AddPlugin(name string) { im.plugins = append(im.plugins, name) }

// Import reads a JSON export and returns a new ledger holding its records.
//
// An unreadable export is an error. Records that cannot be converted are
// recorded as parsing errors of the ledger, and records already imported
// (same import id) are skipped.
func (im *Importer) Import(r io.Reader) (*ledger.Ledger, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber() // keep the digits of amounts
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot decode export: %w", err)
	}

	l, err := im.newLedger()
	if err != nil {
		return nil, err
	}

	jrecords, err := jsonpath.Get(im.mapping.Records, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot find records at %q: %w", im.mapping.Records, err)
	}
	records, ok := jrecords.([]any)
	if !ok {
		return nil, fmt.Errorf("records at %q are not a list", im.mapping.Records)
	}

	seen := make(map[string]bool)
	for i, record := range records {
		t, err := im.transaction(record)
		if err != nil {
			l.AddParsingError(fmt.Errorf("record %d: %w", i, err))
			continue
		}
		id := t.Metadata.Metadata[ImportIDKey]
		if seen[id] {
			im.log.Debug().Int("record", i).Str(ImportIDKey, id).Msg("duplicate record skipped")
			continue
		}
		seen[id] = true
		l.AddTransaction(t)
	}

	if im.mapping.Balance != nil {
		b, err := im.balance(doc)
		if err != nil {
			l.AddParsingError(fmt.Errorf("balance: %w", err))
		} else {
			l.AddBalance(b)
		}
	}

	im.log.Info().Int("records", len(records)).Int("transactions", len(l.Transactions())).Msg("export imported")
	return l, nil
}

// newLedger returns a ledger with the mapped accounts opened.
func (im *Importer) newLedger() (*ledger.Ledger, error) {
	m := im.mapping
	l := ledger.NewLedger()
	l.SetLogger(im.log)
	for _, p := range im.plugins {
		l.AddPlugin(p)
	}

	var opening *date.Date
	if m.Opening != "" {
		on, err := date.Parse(m.Opening)
		if err != nil {
			return nil, fmt.Errorf("opening: %w", err)
		}
		opening = &on
	}
	if m.Commodity != "" {
		if err := l.AddCommodity(ledger.NewCommodity(m.Commodity, opening)); err != nil {
			return nil, err
		}
	}

	booking, err := ledger.ParseBookingMethod(m.Booking)
	if err != nil {
		return nil, err
	}
	for i, name := range m.accounts() {
		a := ledger.NewAccount(ledger.MustAccountName(name), opening)
		if i == 0 {
			a.Booking = booking
		}
		if err := l.AddAccount(a); err != nil && !errors.Is(err, ledger.ErrAlreadyExists) {
			return nil, err
		}
	}
	return l, nil
}

// transaction converts one record.
func (im *Importer) transaction(record any) (ledger.Transaction, error) {
	m := im.mapping
	var errs []error
	str := func(name, path string) string {
		if path == "" {
			return ""
		}
		s, err := text(path, record)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return s
	}

	rawDate := str("date", m.Fields.Date)
	rawAmount := str("amount", m.Fields.Amount)
	commodity := str("commodity", m.Fields.Commodity)
	payee := str("payee", m.Fields.Payee)
	narration := str("narration", m.Fields.Narration)
	id := str("id", m.Fields.ID)
	if err := errors.Join(errs...); err != nil {
		return ledger.Transaction{}, err
	}
	if commodity == "" {
		commodity = m.Commodity
	}

	on, err := date.Parse(rawDate)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("date: %w", err)
	}
	amount, err := ledger.ParseAmount(rawAmount, commodity)
	if err != nil {
		return ledger.Transaction{}, err
	}
	if id == "" {
		// without identifier, the record content is its identity.
		raw, _ := json.Marshal(record)
		id = string(raw)
	}

	meta := ledger.TransactionMetadata{
		Date:      on,
		Payee:     payee,
		Narration: narration,
		Flag:      ledger.FlagComplete,
		Tags:      slices.Clone(m.Tags),
		Metadata:  ledger.Metadata{ImportIDKey: im.importID(id)},
	}
	account := ledger.Posting{Account: ledger.MustAccountName(m.Account), Amount: amount}
	counter := ledger.Posting{Account: ledger.MustAccountName(m.counterAccount(payee, narration)), Amount: amount.Neg()}
	return ledger.NewTransaction(meta, account, counter), nil
}

// importID returns a stable identifier for the record id in the mapped account.
func (im *Importer) importID(id string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("bean:"+im.mapping.Account+"/"+id)).String()
}

func (im *Importer) balance(doc any) (ledger.Balance, error) {
	rawDate, err := text(im.mapping.Balance.Date, doc)
	if err != nil {
		return ledger.Balance{}, fmt.Errorf("date: %w", err)
	}
	rawAmount, err := text(im.mapping.Balance.Amount, doc)
	if err != nil {
		return ledger.Balance{}, fmt.Errorf("amount: %w", err)
	}
	on, err := date.Parse(rawDate)
	if err != nil {
		return ledger.Balance{}, fmt.Errorf("date: %w", err)
	}
	amount, err := ledger.ParseAmount(rawAmount, im.mapping.Commodity)
	if err != nil {
		return ledger.Balance{}, err
	}
	return ledger.NewBalance(on, ledger.MustAccountName(im.mapping.Account), amount, nil), nil
}

// text evaluates path on v and returns the result as text.
func text(path string, v any) (string, error) {
	jval, err := jsonpath.Get(path, v)
	if err != nil {
		return "", fmt.Errorf("%q: %w", path, err)
	}
	// jsonpath returns either a single value or a list of them, keep the first.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return "", fmt.Errorf("%q: no value", path)
		}
		jval = jlist[0]
	}
	switch val := jval.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case json.Number:
		return val.String(), nil
	case nil:
		return "", fmt.Errorf("%q: null value", path)
	default:
		var b bytes.Buffer
		if err := json.NewEncoder(&b).Encode(val); err != nil {
			return "", fmt.Errorf("%q: %w", path, err)
		}
		return strings.TrimSpace(b.String()), nil
	}
}
