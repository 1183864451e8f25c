package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leighmacdonald/tf2stats/internal/schema"
)

var updateAPIKey string

// updateCmd refreshes the on-disk item schema cache from the upstream Steam
// Web API endpoint.
var updateCmd = &cobra.Command{
	Use:   "update <path>",
	Short: "Refresh the cached item schema from the Steam Web API",
	Long: `Download the current TF2 item schema from the Steam Web API and write it
to <path>, so 'tf2stats parse' and 'tf2stats serve' can load it without
network access. Also writes to $TF2_SCHEMA_PATH when that is set, so both
locations stay in sync.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateAPIKey, "api-key", "", "Steam Web API key (overrides STEAM_API_KEY)")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	path := args[0]

	apiKey := updateAPIKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: pass --api-key or set STEAM_API_KEY")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create schema dir: %w", err)
	}

	client := schema.NewFetchClient(apiKey)
	reg, err := client.FetchAndSave("", path)
	if err != nil {
		return fmt.Errorf("fetch schema: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %d items to %s\n", reg.Len(), path)

	if cfg.SchemaPath != "" && cfg.SchemaPath != path {
		if _, err := client.FetchAndSave("", cfg.SchemaPath); err != nil {
			fmt.Fprintf(os.Stderr, "warn: also writing to %s: %v\n", cfg.SchemaPath, err)
		} else {
			fmt.Fprintf(os.Stdout, "Also refreshed %s\n", cfg.SchemaPath)
		}
	}
	return nil
}
