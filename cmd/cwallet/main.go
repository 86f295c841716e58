// Package main is the entry point for the cwallet CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/mrz1836/cwallet/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
