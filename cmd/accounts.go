package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/ledger/date"
	"github.com/etnz/ledger/renderer"
	"github.com/google/subcommands"
)

// accountsCmd holds the flags for the 'accounts' subcommand.
type accountsCmd struct {
	exportFlags
	date string
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "display the account balances on a date" }
func (*accountsCmd) Usage() string {
	return `bean accounts [-m <mapping>] [-d <date>] <export.json>

  Displays the account tree of the imported ledger, with the balance of every
  account and the total of every group at the end of the given day.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	c.exportFlags.SetFlags(f)
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the balances, in YYYY-MM-DD format.")
}

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		return exitStatus(fmt.Errorf("%w: %v", errUsage, err))
	}
	l, err := c.load(f)
	if err != nil {
		return exitStatus(err)
	}

	printMarkdown(renderer.RenderBalances(renderer.NewBalances(l, on)))
	return subcommands.ExitSuccess
}
