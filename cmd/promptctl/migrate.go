package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Apply the embedded schema to the configured database.

Every statement is idempotent, so running it against an up-to-date
database changes nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, _, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "schema applied (%s)\n", cfg.Database.Driver)
		return nil
	},
}
