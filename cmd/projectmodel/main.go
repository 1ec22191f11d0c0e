package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/willibrandon/projectmodel/cmd/projectmodel/cli"
	"github.com/willibrandon/projectmodel/cmd/projectmodel/commands"
)

// Version information (set via ldflags during build)
var (
	version = "0.0.0-dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date
	cli.BuiltBy = builtBy

	cli.SetupVersion()

	cli.AddCommand(commands.NewVersionCommand(cli.Console))
	cli.AddCommand(commands.NewSpecCommand(cli.Console))
	cli.AddCommand(commands.NewDGSpecCommand(cli.Console))
	cli.AddCommand(commands.NewAssetsCommand(cli.Console))
	cli.AddCommand(commands.NewLockCommand(cli.Console))
	cli.AddCommand(commands.NewCacheCommand(cli.Console))
	cli.AddCommand(commands.NewDoctorCommand(cli.Console))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		os.Exit(130) // 128 + SIGINT
	}()

	if err := cli.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
