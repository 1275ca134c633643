package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type importCmd struct {
	exportFlags
	output string
	quiet  bool // do not report the ledger errors
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "convert a JSON export into ledger text" }
func (*importCmd) Usage() string {
	return `bean import [-m <mapping>] [-o <file>] <export.json>

  Imports the records of a bank or broker JSON export using a YAML mapping,
  and prints the resulting ledger in its canonical text form.
  Ledger errors are reported on the standard error.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	c.exportFlags.SetFlags(f)
	f.StringVar(&c.output, "o", "", "Write the ledger to this file instead of the standard output.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := c.load(f)
	if err != nil {
		return exitStatus(err)
	}

	text := l.String() + "\n"
	if c.output == "" {
		fmt.Fprint(stdout, text)
	} else if err := os.WriteFile(c.output, []byte(text), 0644); err != nil {
		return exitStatus(fmt.Errorf("cannot write ledger: %w", err))
	}

	if !c.quiet {
		for _, err := range l.Errors() {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	return subcommands.ExitSuccess
}

// printCmd is import without the error report.
type printCmd struct {
	importCmd
}

func (*printCmd) Name() string     { return "print" }
func (*printCmd) Synopsis() string { return "print the ledger of a JSON export, without validating it" }
func (*printCmd) Usage() string {
	return `bean print [-m <mapping>] [-o <file>] <export.json>

  Same as import, but the ledger errors are not reported.
`
}

func (c *printCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	c.quiet = true
	return c.importCmd.Execute(ctx, f, args...)
}
