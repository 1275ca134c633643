// Package cmd implements the bean command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/importer"
	"github.com/etnz/ledger/internal/config"
	"github.com/etnz/ledger/internal/logger"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&importCmd{}, "ledger")
	c.Register(&printCmd{}, "ledger")
	c.Register(&checkCmd{}, "ledger")

	c.Register(&accountsCmd{}, "reports")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var settings = &config.Config{Log: logger.DefaultConfig()}

// stdout receives the command outputs.
var stdout io.Writer = os.Stdout

// Configure sets the settings used as flag defaults by every subcommand.
func Configure(cfg *config.Config) { settings = cfg }

// errUsage marks errors caused by the command line itself.
var errUsage = errors.New("usage")

// exportFlags holds the flags common to the subcommands reading an export.
type exportFlags struct {
	mapping string
}

func (e *exportFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&e.mapping, "m", settings.Mapping, "Path to the YAML mapping of the export. Defaults to $BEAN_MAPPING.")
}

// load imports the export file named by the only argument.
func (e *exportFlags) load(f *flag.FlagSet) (*ledger.Ledger, error) {
	if e.mapping == "" {
		return nil, fmt.Errorf("%w: no mapping, use -m or set BEAN_MAPPING", errUsage)
	}
	if f.NArg() != 1 {
		return nil, fmt.Errorf("%w: expected one export file, got %d", errUsage, f.NArg())
	}

	log := logger.WithComponent("cmd")
	log.Debug().Str("mapping", e.mapping).Str("export", f.Arg(0)).Msg("importing")

	m, err := importer.LoadMapping(e.mapping)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		return nil, fmt.Errorf("cannot open export: %w", err)
	}
	defer file.Close()

	im, err := importer.New(m)
	if err != nil {
		return nil, err
	}
	im.SetLogger(logger.WithComponent("importer"))
	for _, p := range settings.Plugins {
		im.AddPlugin(p)
	}
	return im.Import(file)
}

// exitStatus reports err and returns the matching exit status.
func exitStatus(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, errUsage) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}
