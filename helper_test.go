package ledger

import "github.com/etnz/ledger/date"

// amt is a helper for tests to create an amount as written in a ledger file.
func amt(number, commodity string) Amount {
	a, err := ParseAmount(number, commodity)
	if err != nil {
		panic(err)
	}
	return a
}

// day is a helper for tests to create a date pointer from a literal.
func day(s string) *date.Date { return date.Ptr(date.MustParse(s)) }

// costAt is a helper for tests to create the cost of a lot acquired on a day.
func costAt(on, number, commodity string) *Cost {
	a := amt(number, commodity)
	return &Cost{Amount: &a, Date: day(on)}
}

// post is a helper for tests to create a posting without cost nor price.
func post(account, number, commodity string) Posting {
	return Posting{Account: MustAccountName(account), Amount: amt(number, commodity)}
}

// withCost returns p with cost c.
func withCost(p Posting, c *Cost) Posting {
	p.Cost = c
	return p
}

// at puts p in the context of a transaction on a day.
func at(on string, p Posting) PostingInContext {
	return PostingInContext{Posting: p, Transaction: TransactionMetadata{Date: date.MustParse(on), Flag: FlagComplete}}
}

// tx is a helper for tests to create a transaction with a fixed payee and narration.
func tx(on string, postings ...Posting) Transaction {
	return NewTransaction(TransactionMetadata{
		Date:      date.MustParse(on),
		Payee:     "Shop",
		Narration: "Lunch",
		Flag:      FlagComplete,
	}, postings...)
}

// messages returns the error messages of errs.
func messages(errs []error) []string {
	var m []string
	for _, err := range errs {
		m = append(m, err.Error())
	}
	return m
}
