package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"finman/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()

	// Stdout belongs to the user; logs go to stderr.
	logger := cli.SetupStderrLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupStderrLogger(cfg.LogLevel)

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	a := &app{cfg: cfg, logger: logger}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(&shellCmd{app: a}, "")
	commander.Register(&runCmd{app: a}, "")

	flag.Parse()
	if flag.NArg() == 0 {
		return int((&shellCmd{app: a}).Execute(ctx, flag.CommandLine))
	}
	return int(commander.Execute(ctx))
}
