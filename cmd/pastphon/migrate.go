package main

import (
	"fmt"

	"github.com/japaniel/pastphon/pkg/dictionary"
	"github.com/japaniel/pastphon/pkg/logging"
	"github.com/spf13/cobra"
)

func (c *cli) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema.

Migrations are idempotent and also run whenever a command opens the
database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.WithComponent("cli")
			log.Info().Str("database", c.cfg.DatabasePath).Msg("running database migrations")

			conn, err := openDatabase(c.cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Database initialized at %s\n", c.cfg.DatabasePath)
			return nil
		},
	}
	cmd.Flags().String("db", "", "SQLite database (overrides database.path)")
	return cmd
}

func (c *cli) backfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Re-transcribe stored pairs that were skipped for a missing entry",
		Long: `Load the dictionary and re-transcribe every stored verb pair whose
transcription was missing. Pairs the dictionary now covers are updated in
place, together with their phoneme features.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := openDatabase(c.cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			dict, err := loadDictionary(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}

			count, err := dictionary.NewImporter(conn, dict).ProcessUpdates()
			if err != nil {
				return fmt.Errorf("failed to backfill: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backfilled %d verb pairs.\n", count)
			return nil
		},
	}
	cmd.Flags().String("db", "", "SQLite database (overrides database.path)")
	cmd.Flags().String("dictionary", "", "pronunciation dictionary (overrides dictionary.path)")
	return cmd
}
