// Package commands implements the exchangectl subcommands.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/dalfonso89/node-currency-converter/internal/logger"
)

// CLI represents the exchangectl command tree.
type CLI struct {
	out     io.Writer
	logger  *logger.Logger
	rootCmd *cobra.Command
}

// New builds the command tree writing human output to out.
func New(out io.Writer, log *logger.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "exchangectl",
		Short:         "Operate the currency converter's exchange store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	c := &CLI{
		out:     out,
		logger:  log,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newImportCmd())
	rootCmd.AddCommand(c.newExportCmd())
	rootCmd.AddCommand(c.newLoadTestCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}
