package cmd

import (
	"context"
	"flag"

	"github.com/etnz/ledger/renderer"
	"github.com/google/subcommands"
)

type checkCmd struct {
	exportFlags
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate the ledger of a JSON export" }
func (*checkCmd) Usage() string {
	return `bean check [-m <mapping>] <export.json>

  Imports the export and lists every error of the resulting ledger: unbalanced
  transactions, postings outside of the account lifetime, failed balance
  assertions, inventory reductions without matching lots, and the errors of
  the enabled plugins. Exits with a failure status when there is any.
`
}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := c.load(f)
	if err != nil {
		return exitStatus(err)
	}

	report := renderer.NewCheck(l)
	printMarkdown(renderer.RenderCheck(report))
	if !report.OK() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
