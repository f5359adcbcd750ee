package cmd

import (
	"fmt"
	"os"

	"github.com/lecenter/dashboard/internal/auth/app"
	"github.com/lecenter/dashboard/internal/auth/store"
	"github.com/spf13/cobra"
)

var databaseFile string

var rootCmd = &cobra.Command{
	Use:   "authctl",
	Short: "Dashboard auth administration",
	Long: `authctl manages the dashboard's LINE login whitelist and database,
and generates session signing secrets.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := os.Getenv("AUTH_DATABASE_FILE")
	if defaultDB == "" {
		defaultDB = "auth.db"
	}

	rootCmd.PersistentFlags().StringVar(&databaseFile, "db", defaultDB, "SQLite database file (also set via AUTH_DATABASE_FILE)")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(WhitelistCmd)
	rootCmd.AddCommand(secretCmd)
}

// openStore opens the database with migrations applied.
func openStore() (store.Store, error) {
	return app.OpenStore(databaseFile)
}
