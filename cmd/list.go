package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leighmacdonald/tf2stats/internal/report"
	"github.com/leighmacdonald/tf2stats/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored demos",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	demos, err := db.ListDemos()
	if err != nil {
		return fmt.Errorf("list demos: %w", err)
	}
	if len(demos) == 0 {
		fmt.Fprintln(os.Stdout, "No demos stored yet. Run 'tf2stats parse <demo.dem>' to add one.")
		return nil
	}

	report.PrintDemoList(os.Stdout, demos)
	return nil
}
