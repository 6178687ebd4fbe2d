// Package commands implements staffctl, the operator tool for the schema and
// admin accounts.
package commands

import (
	"fmt" // Error wrapping and formatting
	"os"  // Process exit

	"staffadmin/internal/config" // Configuration
	"staffadmin/internal/db"     // Database access and error classification

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"github.com/spf13/cobra"     // CLI framework
	"gorm.io/gorm"               // GORM ORM library
)

// Opener connects to the database a command works on
type Opener func() (*gorm.DB, error)

// openFromConfig connects using the environment configuration
func openFromConfig() (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return db.Open(cfg.DSN())
}

// NewRootCmd builds the staffctl command tree on top of open
func NewRootCmd(open Opener) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "staffctl",
		Short: "Operator tool for the staff administration panel",
		Long: `staffctl prepares the database and manages admin accounts.

Admin rights cannot be granted from the web interface; use
create-admin for a new account or promote for an existing one.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(
		newMigrateCmd(open),
		newCreateAdminCmd(open),
		newSetAdminCmd(open, "promote", "Grant admin rights to an employee", true),
		newSetAdminCmd(open, "demote", "Revoke admin rights from an employee", false),
	)
	return root
}

// Execute runs staffctl against the configured database
func Execute() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := NewRootCmd(openFromConfig).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
