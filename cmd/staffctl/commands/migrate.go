package commands

import (
	"fmt" // Error wrapping and formatting

	"staffadmin/internal/db" // Database access and error classification

	"github.com/spf13/cobra" // CLI framework
)

// newMigrateCmd creates or updates the schema
func newMigrateCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := open()
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			if err := db.Migrate(conn); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}
}
