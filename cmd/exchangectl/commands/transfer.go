package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dalfonso89/node-currency-converter/internal/repository"
)

func (c *CLI) newImportCmd() *cobra.Command {
	var from, badgerPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Seed a Badger store from a JSON exchanges file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			source := repository.NewJSONFileRepository(from, c.logger)
			edges, err := source.LoadAll(cmd.Context())
			if err != nil {
				return err
			}

			store, err := repository.OpenBadger(repository.BadgerConfig{Path: badgerPath, SyncWrites: true}, c.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ReplaceAll(cmd.Context(), edges); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(c.out, "imported %d exchanges from %s into %s\n", len(edges), source.Path(), badgerPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "data/exchanges.json", "JSON exchanges file to read")
	cmd.Flags().StringVar(&badgerPath, "badger", "data/badger", "Badger database directory to write")

	return cmd
}

func (c *CLI) newExportCmd() *cobra.Command {
	var to, badgerPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a Badger store's exchanges to a JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := repository.OpenBadger(repository.BadgerConfig{Path: badgerPath}, c.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			edges, err := store.LoadAll(cmd.Context())
			if err != nil {
				return err
			}

			target := repository.NewJSONFileRepository(to, c.logger)
			if err := target.ReplaceAll(cmd.Context(), edges); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(c.out, "exported %d exchanges from %s to %s\n", len(edges), badgerPath, target.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&badgerPath, "badger", "data/badger", "Badger database directory to read")
	cmd.Flags().StringVar(&to, "to", "data/exchanges.json", "JSON exchanges file to write")

	return cmd
}
