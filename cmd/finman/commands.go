package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"finman/internal/backend"
	"finman/internal/config"
	"finman/internal/console"
	"finman/internal/core"
	applog "finman/internal/log"
	"finman/internal/presenter"
	"finman/internal/services"
)

// app holds what every subcommand needs to build a ledger session.
type app struct {
	cfg    *config.Config
	logger *applog.Logger
}

// session wires a fresh ledger, its events backend and a console reading in.
// The returned close func releases the backend.
func (a *app) session(ctx context.Context, in io.Reader) (*console.Console, func(), error) {
	backendCfg, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("events backend configuration: %w", err)
	}
	result, err := backend.NewFactory(a.logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create events backend: %w", err)
	}

	svc := services.NewLedgerService(core.NewLedger(), result.Publisher, a.logger)
	closeFn := func() {
		if err := svc.Close(); err != nil {
			a.logger.Error("Ledger service close failed", "error", err)
		}
	}
	return console.New(in, os.Stdout, presenter.New(svc), a.logger), closeFn, nil
}

type shellCmd struct {
	app *app
}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "start an interactive ledger session (default)" }
func (*shellCmd) Usage() string {
	return `finman shell

  Reads commands from the terminal until quit or end of input.
`
}

func (*shellCmd) SetFlags(*flag.FlagSet) {}

func (c *shellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	con, closeFn, err := c.app.session(ctx, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	if err := con.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type runCmd struct {
	app *app
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "execute ledger commands from a file" }
func (*runCmd) Usage() string {
	return `finman run <script>

  Executes one console command per line of <script> ("-" reads stdin).
  Blank lines and lines starting with # are ignored.
`
}

func (*runCmd) SetFlags(*flag.FlagSet) {}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: run takes exactly one script argument\n")
		return subcommands.ExitUsageError
	}

	var in io.Reader = os.Stdin
	if name := f.Arg(0); name != "-" {
		file, err := os.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		in = file
	}

	con, closeFn, err := c.app.session(ctx, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	if err := con.RunScript(ctx, in); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
