// Command bean imports bank and broker exports into double-entry ledgers,
// checks them and reports account balances.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ledger/cmd"
	"github.com/etnz/ledger/internal/config"
	"github.com/etnz/ledger/internal/logger"
	"github.com/google/subcommands"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}
	if err := logger.Setup(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}
	cmd.Configure(cfg)

	// Answers the shell completion requests, and exits, when there is one.
	cmd.Completion().Complete("bean")

	commander := subcommands.NewCommander(flag.CommandLine, "bean")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
