// Package main is the entry point for the exchangectl operator CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dalfonso89/node-currency-converter/cmd/exchangectl/commands"
	"github.com/dalfonso89/node-currency-converter/internal/logger"
	"github.com/dalfonso89/node-currency-converter/internal/platform"
)

func main() {
	ctx, stop := platform.NewShutdownContext(context.Background())
	defer stop()

	cli := commands.New(os.Stdout, logger.New("warn", "text"))
	if err := cli.Execute(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "exchangectl: %v\n", err)
		stop()
		os.Exit(1)
	}
}
