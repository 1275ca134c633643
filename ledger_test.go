package ledger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/ledger/date"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func TestLedger_Add(t *testing.T) {
	l := NewLedger()
	cash := MustAccountName("Assets:Cash")

	if err := l.AddCommodity(NewCommodity("EUR", day("2017-01-01"))); err != nil {
		t.Fatalf("AddCommodity() unexpected error: %v", err)
	}
	if err := l.AddCommodity(NewCommodity("EUR", nil)); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("AddCommodity(duplicate) = %v, want ErrAlreadyExists", err)
	}

	if err := l.AddAccount(NewAccount(cash, day("2017-01-01"))); err != nil {
		t.Fatalf("AddAccount() unexpected error: %v", err)
	}
	if err := l.AddAccount(NewAccount(cash, nil)); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("AddAccount(duplicate) = %v, want ErrAlreadyExists", err)
	}
	if err := l.AddAccount(Account{}); !errors.Is(err, ErrInvalidName) {
		t.Errorf("AddAccount(no name) = %v, want ErrInvalidName", err)
	}

	on := date.MustParse("2017-06-08")
	price, _ := NewPrice(on, "EUR", amt("1.10", "USD"), nil)
	if err := l.AddPrice(price); err != nil {
		t.Fatalf("AddPrice() unexpected error: %v", err)
	}
	other, _ := NewPrice(on, "EUR", amt("1.20", "USD"), nil)
	if err := l.AddPrice(other); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("AddPrice(same day, other value) = %v, want ErrAlreadyExists", err)
	}
	nextDay, _ := NewPrice(on.Add(1), "EUR", amt("1.20", "USD"), nil)
	if err := l.AddPrice(nextDay); err != nil {
		t.Errorf("AddPrice(next day) unexpected error: %v", err)
	}

	var symbols []string
	for _, c := range l.Commodities() {
		symbols = append(symbols, c.Symbol)
	}
	if diff := cmp.Diff([]string{"EUR", "USD"}, symbols); diff != "" {
		t.Errorf("Commodities() mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_AddTransaction_AutoCreate(t *testing.T) {
	l := NewLedger()
	cash := MustAccountName("Assets:Cash")
	opened := NewAccount(cash, day("2017-01-01"))
	opened.Commodity = "EUR"
	if err := l.AddAccount(opened); err != nil {
		t.Fatal(err)
	}

	price := amt("1.10", "USD")
	sell := withCost(post("Assets:Broker", "-1", "STK"), costAt("2017-01-01", "5", "CAD"))
	sell.Price = &price
	sell.PriceType = PerUnit
	l.AddTransaction(tx("2017-06-08", post("Assets:Cash", "-10.00", "EUR"), post("Expenses:Food", "10.00", "EUR"), sell))
	l.AddBalance(NewBalance(date.MustParse("2017-06-09"), MustAccountName("Liabilities:Card"), amt("0", "GBP"), nil))

	a, ok := l.Account(cash)
	if !ok {
		t.Fatalf("Account(%s) not found", cash)
	}
	if a.Opening == nil || a.Opening.String() != "2017-01-01" || a.Commodity != "EUR" {
		t.Errorf("Account(%s) was overridden: %+v", cash, a)
	}

	var names []string
	for _, a := range l.Accounts() {
		names = append(names, a.Name.String())
	}
	want := []string{"Assets:Broker", "Assets:Cash", "Expenses:Food", "Liabilities:Card"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Accounts() mismatch (-want +got):\n%s", diff)
	}

	card, _ := l.Account(MustAccountName("Liabilities:Card"))
	if card.Opening != nil || len(card.Balances) != 1 {
		t.Errorf("auto created account = %+v, want no opening and one balance", card)
	}

	var symbols []string
	for _, c := range l.Commodities() {
		symbols = append(symbols, c.Symbol)
	}
	if diff := cmp.Diff([]string{"CAD", "EUR", "GBP", "STK", "USD"}, symbols); diff != "" {
		t.Errorf("Commodities() mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_Account_ReturnsCopies(t *testing.T) {
	l := NewLedger()
	cash := MustAccountName("Assets:Cash")
	l.AddBalance(NewBalance(date.MustParse("2017-06-09"), cash, amt("0", "EUR"), nil))

	a, _ := l.Account(cash)
	a.Balances[0].Amount = amt("100", "EUR")
	a.Opening = day("2017-01-01")

	b, _ := l.Account(cash)
	if b.Opening != nil || !b.Balances[0].Amount.IsZero() {
		t.Errorf("changing a returned account changed the ledger: %+v", b)
	}
}

// validLedger returns a ledger with no errors, whatever the plugins.
func validLedger(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger()
	for _, c := range []string{"EUR", "USD", "STK"} {
		if err := l.AddCommodity(NewCommodity(c, day("2017-01-01"))); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"Assets:Cash", "Assets:Broker", "Expenses:Food", "Income:Gains"} {
		if err := l.AddAccount(NewAccount(MustAccountName(name), day("2017-01-01"))); err != nil {
			t.Fatal(err)
		}
	}
	l.AddTransaction(tx("2017-06-08", post("Assets:Cash", "-10.00", "EUR"), post("Expenses:Food", "10.00", "EUR")))
	l.AddTransaction(tx("2017-06-09",
		withCost(post("Assets:Broker", "10", "STK"), &Cost{Amount: costAt("2017-01-01", "5.00", "USD").Amount}),
		post("Assets:Cash", "-50.00", "USD"),
	))
	price := amt("6.00", "USD")
	sell := withCost(post("Assets:Broker", "-4", "STK"), &Cost{})
	sell.Price = &price
	sell.PriceType = PerUnit
	l.AddTransaction(tx("2017-07-01", sell, post("Assets:Cash", "24.00", "USD"), post("Income:Gains", "-4.00", "USD")))
	l.AddBalance(NewBalance(date.MustParse("2017-07-02"), MustAccountName("Assets:Cash"), amt("-26.00", "USD"), nil))
	return l
}

func TestLedger_Errors_Valid(t *testing.T) {
	l := validLedger(t)
	l.AddPlugin(PluginCheckCommodity)
	l.AddPlugin(PluginNoUnused)
	l.AddPlugin("beancount.plugins.unknown")
	if errs := l.Errors(); errs != nil {
		t.Errorf("Errors() = %q, want none", messages(errs))
	}
}

func TestLedger_Errors(t *testing.T) {
	l := NewLedger()
	l.AddParsingError(errors.New("line 3: unexpected token"))
	if err := l.AddCommodity(NewCommodity("EUR", day("2017-07-01"))); err != nil {
		t.Fatal(err)
	}
	if err := l.AddAccount(NewAccount(MustAccountName("Assets:Cash"), day("2017-01-01"))); err != nil {
		t.Fatal(err)
	}
	savings := NewAccount(MustAccountName("Assets:Savings"), day("2017-01-01"))
	savings.Closing = day("2016-01-01")
	if err := l.AddAccount(savings); err != nil {
		t.Fatal(err)
	}
	l.AddTransaction(tx("2017-06-08", post("Assets:Cash", "-10.00", "EUR"), post("Expenses:Food", "9.99", "EUR")))

	common := []string{
		"line 3: unexpected token",
		"Account Assets:Savings was closed on 2016-01-01 before it was opened on 2017-01-01",
		"2017-06-08 Expenses:Food 9.99 EUR was posted while the accout Expenses:Food was closed",
	}
	unbalanced := `2017-06-08 * "Shop" "Lunch" is not balanced - -0.01 EUR too much (0.005 tolerance)`

	tests := []struct {
		name    string
		plugins []string
		want    []string
	}{
		{
			name:    "no plugin",
			plugins: nil,
			want:    append(common[:3:3], unbalanced),
		},
		{
			name:    "nounused",
			plugins: []string{PluginNoUnused},
			want:    append(common[:3:3], "Account Assets:Savings has no postings", unbalanced),
		},
		{
			name:    "check_commodity",
			plugins: []string{PluginCheckCommodity},
			want: append(common[:3:3],
				unbalanced,
				"Commodity EUR used on 2017-06-08 before its opening date 2017-07-01",
			),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l.plugins = nil
			for _, p := range tt.plugins {
				l.AddPlugin(p)
			}
			if diff := cmp.Diff(tt.want, messages(l.Errors())); diff != "" {
				t.Errorf("Errors() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("check_commodity price and cost", func(t *testing.T) {
		l := NewLedger()
		l.AddPlugin(PluginCheckCommodity)
		for _, c := range []Commodity{
			NewCommodity("HOOL", day("2017-01-01")),
			NewCommodity("USD", day("2018-01-01")),
			NewCommodity("CAD", day("2018-01-01")),
		} {
			if err := l.AddCommodity(c); err != nil {
				t.Fatal(err)
			}
		}
		for _, name := range []string{"Assets:Broker", "Assets:Cash"} {
			if err := l.AddAccount(NewAccount(MustAccountName(name), day("2017-01-01"))); err != nil {
				t.Fatal(err)
			}
		}
		buy := withCost(post("Assets:Broker", "10", "HOOL"), costAt("2017-06-01", "100.00", "USD"))
		price := amt("130.00", "CAD")
		buy.Price, buy.PriceType = &price, PerUnit
		l.AddTransaction(tx("2017-06-01", buy, post("Assets:Cash", "-1000.00", "USD")))

		want := []string{
			"Commodity CAD used on 2017-06-01 before its opening date 2018-01-01",
			"Commodity USD used on 2017-06-01 before its opening date 2018-01-01",
		}
		if diff := cmp.Diff(want, messages(l.Errors())); diff != "" {
			t.Errorf("Errors() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestLedger_Errors_CheckCommodityOpening(t *testing.T) {
	l := NewLedger()
	l.AddPlugin(PluginCheckCommodity)
	if err := l.AddAccount(NewAccount(MustAccountName("Assets:Cash"), day("2017-01-01"))); err != nil {
		t.Fatal(err)
	}
	l.AddBalance(NewBalance(date.MustParse("2017-06-09"), MustAccountName("Assets:Cash"), amt("0", "EUR"), nil))

	want := []string{"Commodity EUR does not have an opening date"}
	if diff := cmp.Diff(want, messages(l.Errors())); diff != "" {
		t.Errorf("Errors() mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_Errors_Booking(t *testing.T) {
	l := validLedger(t)
	l.AddTransaction(tx("2017-08-01",
		withCost(post("Assets:Broker", "-20", "STK"), &Cost{}),
		post("Assets:Cash", "100.00", "USD"),
	))

	var found bool
	for _, err := range l.Errors() {
		if errors.Is(err, ErrLotNotBigEnough) {
			found = true
			if !strings.HasPrefix(err.Error(), "Inventory of Assets:Broker: Lot not big enough: ") {
				t.Errorf("booking error = %q, want it reported on the account", err)
			}
		}
	}
	if !found {
		t.Errorf("Errors() = %q, want a lot not big enough", messages(l.Errors()))
	}
}

func TestTransaction_Effect(t *testing.T) {
	l := validLedger(t)
	txs := l.Transactions()

	for _, tr := range txs {
		effect, err := tr.Effect(l)
		if err != nil {
			t.Errorf("Effect(%s) unexpected error: %v", tr.Metadata, err)
		}
		if !effect.IsZero() {
			t.Errorf("Effect(%s) = %s, want zero", tr.Metadata, effect)
		}
		if err := tr.Validate(l); err != nil {
			t.Errorf("Validate(%s) unexpected error: %v", tr.Metadata, err)
		}
	}

	// Selling all what is left is booked after every ledger entry.
	sellAll := tx("2017-07-01", withCost(post("Assets:Broker", "-6", "STK"), &Cost{}), post("Assets:Cash", "30.00", "USD"))
	effect, err := sellAll.Effect(l)
	if err != nil {
		t.Fatalf("Effect() unexpected error: %v", err)
	}
	if got := effect.Number("USD"); !got.Equal(decimal.Zero) {
		t.Errorf("Effect() = %s, want zero", effect)
	}

	// Without the earlier buy, there is nothing to sell.
	tooEarly := tx("2017-06-01", withCost(post("Assets:Broker", "-6", "STK"), &Cost{}), post("Assets:Cash", "30.00", "USD"))
	if _, err := tooEarly.Effect(l); err != nil {
		t.Errorf("Effect() = %v, a short sale should augment the inventory", err)
	}

	empty := tx("2017-06-01")
	if err := empty.Validate(l); err == nil || !strings.Contains(err.Error(), "has no postings") {
		t.Errorf("Validate() = %v, want no postings", err)
	}
}

func TestLedger_Queries(t *testing.T) {
	l := validLedger(t)
	l.transactions[0].Metadata.Tags = []string{"lunch", "food"}
	l.AddTransaction(NewTransaction(TransactionMetadata{Date: date.MustParse("2017-06-10"), Tags: []string{"lunch"}}))

	if diff := cmp.Diff([]string{"food", "lunch"}, l.Tags()); diff != "" {
		t.Errorf("Tags() mismatch (-want +got):\n%s", diff)
	}

	cash := MustAccountName("Assets:Cash")
	var postings []string
	for _, p := range l.PostingsOf(cash) {
		postings = append(postings, p.String())
	}
	want := []string{
		"2017-06-08 Assets:Cash -10.00 EUR",
		"2017-06-09 Assets:Cash -50.00 USD",
		"2017-07-01 Assets:Cash 24.00 USD",
	}
	if diff := cmp.Diff(want, postings); diff != "" {
		t.Errorf("PostingsOf() mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		on   string
		want string
	}{
		{"2017-06-07", ""},
		{"2017-06-08", "-10 EUR"},
		{"2017-06-30", "-10 EUR, -50 USD"},
		{"2017-07-01", "-10 EUR, -26 USD"},
	}
	for _, tt := range tests {
		if got := l.Position(cash, date.MustParse(tt.on)).String(); got != tt.want {
			t.Errorf("Position(%s, %s) = %q, want %q", cash, tt.on, got, tt.want)
		}
	}
}

func TestLedger_AccountGroups(t *testing.T) {
	l := NewLedger()
	for _, name := range []string{"Assets:Cash", "Assets:Bank:Checking", "Assets:Bank:Savings", "Expenses:Food"} {
		if err := l.AddAccount(NewAccount(MustAccountName(name), nil)); err != nil {
			t.Fatal(err)
		}
	}
	roots := l.AccountGroups()

	var got []string
	var walk func(g *AccountGroup, indent string)
	walk = func(g *AccountGroup, indent string) {
		got = append(got, indent+g.NameItem()+"/")
		for _, sub := range g.Groups {
			walk(sub, indent+"  ")
		}
		for _, a := range g.Accounts {
			got = append(got, indent+"  "+a.Name.NameItem())
		}
	}
	for _, g := range roots {
		walk(g, "")
	}
	want := []string{
		"Assets/",
		"  Bank/",
		"    Checking",
		"    Savings",
		"  Cash",
		"Liabilities/",
		"Income/",
		"Expenses/",
		"  Food",
		"Equity/",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AccountGroups() mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_String(t *testing.T) {
	l := NewLedger()
	euro := NewCommodity("EUR", day("2017-01-01"))
	euro.Name = "Euro"
	if err := l.AddCommodity(euro); err != nil {
		t.Fatal(err)
	}
	cash := NewAccount(MustAccountName("Assets:Cash"), day("2017-01-01"))
	cash.Commodity = "EUR"
	food := NewAccount(MustAccountName("Expenses:Food"), day("2017-01-01"))
	food.Closing = day("2018-01-01")
	for _, a := range []Account{food, cash} {
		if err := l.AddAccount(a); err != nil {
			t.Fatal(err)
		}
	}
	lunch := tx("2017-06-08", post("Assets:Cash", "-10.00", "EUR"), post("Expenses:Food", "10.00", "EUR"))
	lunch.Metadata.Tags = []string{"food"}
	l.AddTransaction(tx("2017-06-09", post("Assets:Cash", "-5.00", "EUR"), post("Expenses:Food", "5.00", "EUR")))
	l.AddTransaction(lunch)
	l.AddBalance(NewBalance(date.MustParse("2017-06-10"), MustAccountName("Assets:Cash"), amt("-15.00", "EUR"), nil))
	price, _ := NewPrice(date.MustParse("2017-06-08"), "EUR", amt("1.10", "USD"), nil)
	if err := l.AddPrice(price); err != nil {
		t.Fatal(err)
	}
	l.AddOption(Option{Name: "title", Value: "Test"})
	l.AddPlugin(PluginNoUnused)
	l.AddCustom(Custom{Date: date.MustParse("2017-06-08"), Name: "budget", Values: []string{"monthly"}})
	l.AddEvent(Event{Date: date.MustParse("2017-06-08"), Name: "location", Value: "Paris"})

	want := `2017-01-01 commodity EUR
  name: "Euro"

2017-01-01 open Assets:Cash EUR
2017-06-10 balance Assets:Cash -15.00 EUR
2017-01-01 open Expenses:Food
2018-01-01 close Expenses:Food

2017-06-08 * "Shop" "Lunch" #food
  Assets:Cash -10.00 EUR
  Expenses:Food 10.00 EUR
2017-06-09 * "Shop" "Lunch"
  Assets:Cash -5.00 EUR
  Expenses:Food 5.00 EUR

2017-06-08 price EUR 1.10 USD

option "title" "Test"

plugin "beancount.plugins.nounused"

2017-06-08 custom "budget" "monthly"

2017-06-08 event "location" "Paris"`
	if diff := cmp.Diff(want, l.String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}

	if got := NewLedger().String(); got != "" {
		t.Errorf("String() of an empty ledger = %q, want empty", got)
	}
}

func TestLedger_SetLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLedger()
	l.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	l.AddTransaction(tx("2017-06-08", post("Assets:Cash", "-10.00", "EUR"), post("Expenses:Food", "10.00", "EUR")))
	l.Errors()

	for _, want := range []string{`"account":"Assets:Cash"`, `"commodity":"EUR"`, `"message":"ledger validated"`, `"errors":2`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log output does not contain %s:\n%s", want, buf.String())
		}
	}
}
