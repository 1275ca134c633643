package renderer

import "github.com/etnz/ledger"

// Check is the outcome of validating a ledger.
type Check struct {
	Accounts     int      `json:"accounts"`
	Transactions int      `json:"transactions"`
	Errors       []string `json:"errors"`
}

// NewCheck validates l and collects its errors.
func NewCheck(l *ledger.Ledger) *Check {
	c := &Check{
		Accounts:     len(l.Accounts()),
		Transactions: len(l.Transactions()),
	}
	for _, err := range l.Errors() {
		c.Errors = append(c.Errors, err.Error())
	}
	return c
}

// OK reports whether the ledger is valid.
func (c *Check) OK() bool { return len(c.Errors) == 0 }
