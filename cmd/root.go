// Package cmd implements the CLI commands for tf2stats: parsing TF2 demos,
// listing and showing stored matches, refreshing the item schema, and
// serving the HTTP upload endpoint.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leighmacdonald/tf2stats/internal/config"
	"github.com/leighmacdonald/tf2stats/internal/report"
)

// cfg is the environment-derived configuration; cobra flags override it
// per-command.
var cfg *config.Config

// dbPath is the file path to the SQLite database, set via the --db flag.
var dbPath string

// silent suppresses verbose metric explanations when true, set via the --silent flag.
var silent bool

// rootCmd is the top-level cobra command for the tf2stats CLI.
var rootCmd = &cobra.Command{
	Use:   "tf2stats",
	Short: "TF2 demo metrics tool",
	Long:  "Parse Team Fortress 2 .dem files and compute player/round performance metrics.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		report.Verbose = !silent
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cfg = config.Load()

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "path to SQLite database")
	rootCmd.PersistentFlags().BoolVarP(&silent, "silent", "s", false, "hide metric explanations before each table")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(serveCmd)
}

// mustUserHome returns the current user's home directory, falling back to "."
// if it cannot be determined.
func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// defaultSchemaPath is the fallback schema cache location when neither
// --schema nor the TF2_SCHEMA_PATH/DEMO_TF2_SCHEMA_PATH env vars are set.
func defaultSchemaPath() string {
	return filepath.Join(mustUserHome(), ".tf2stats", "schema.json")
}
