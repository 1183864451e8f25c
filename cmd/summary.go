package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leighmacdonald/tf2stats/internal/report"
	"github.com/leighmacdonald/tf2stats/internal/storage"
)

// summaryPlayerID optionally highlights a player's scoreboard row.
var summaryPlayerID string

// summaryCmd prints a previously stored match's scoreboard by hash prefix.
var summaryCmd = &cobra.Command{
	Use:   "summary <hash-prefix>",
	Short: "Show a stored match's scoreboard by hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryPlayerID, "player", "", "highlight a player's row by SteamID")
}

func runSummary(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	sum, hash, err := db.GetSummaryByHashPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query demo: %w", err)
	}
	if sum == nil {
		fmt.Fprintf(os.Stderr, "No demo found with hash prefix %q\n", prefix)
		return nil
	}

	filename := ""
	if sum.Filename != nil {
		filename = *sum.Filename
	}

	report.PrintSummaryHeader(os.Stdout, hash, filename, *sum)
	report.PrintScoreboard(os.Stdout, *sum, summaryPlayerID)
	report.PrintWeaponTable(os.Stdout, *sum)
	return nil
}
