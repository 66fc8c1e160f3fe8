package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"bookkeeping/internal/cli"
	"bookkeeping/internal/log"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "ledger")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander)

	flag.Parse()

	app, err := cli.NewApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitFailure))
	}
	ctx := log.NewContext(context.Background(), app.Logger)
	os.Exit(int(commander.Execute(ctx, app)))
}
