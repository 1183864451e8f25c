package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leighmacdonald/tf2stats/internal/analyzer"
	"github.com/leighmacdonald/tf2stats/internal/httpapi"
	"github.com/leighmacdonald/tf2stats/internal/output"
	"github.com/leighmacdonald/tf2stats/internal/report"
	"github.com/leighmacdonald/tf2stats/internal/schema"
	"github.com/leighmacdonald/tf2stats/internal/storage"
)

// parse command flags.
var (
	// parseDir is an optional directory path; all *.dem files inside are parsed.
	parseDir string
	// parseSchemaPath overrides the resolved schema JSON location.
	parseSchemaPath string
)

// parseCmd is the cobra command for parsing TF2 demo files and storing their metrics.
var parseCmd = &cobra.Command{
	Use:   "parse [<demo>...] [--dir <directory>]",
	Short: "Parse one or more TF2 demo files and store their metrics",
	Long: `Parse TF2 .dem files and store per-round, per-player, and per-weapon
metrics in the database.

Single file:
  tf2stats parse match.dem

Multiple files (shell glob):
  tf2stats parse /replays/*.dem

Whole directory:
  tf2stats parse --dir /path/to/replays

When more than one demo is provided, the full scoreboard is suppressed and a
brief status line is printed per demo instead.`,
	Args: cobra.ArbitraryArgs,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseDir, "dir", "", "directory containing .dem files to parse in bulk")
	parseCmd.Flags().StringVar(&parseSchemaPath, "schema", "", "path to a cached item schema JSON (overrides TF2_SCHEMA_PATH)")
}

func runParse(cmd *cobra.Command, args []string) error {
	paths := append([]string(nil), args...)
	if parseDir != "" {
		entries, err := os.ReadDir(parseDir)
		if err != nil {
			return fmt.Errorf("read dir: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() && filepath.Ext(e.Name()) == ".dem" {
				paths = append(paths, filepath.Join(parseDir, e.Name()))
			}
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no demo files specified; provide file args or --dir")
	}

	reg, err := loadSchemaRegistry(resolveSchemaPath(parseSchemaPath))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync() //nolint:errcheck

	var stored, failed int
	for i, path := range paths {
		tag := fmt.Sprintf("[%d/%d] %s", i+1, len(paths), filepath.Base(path))
		sum, hash, err := parseOne(reg, logger, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s  error: %v\n", tag, err)
			failed++
			continue
		}
		if err := db.SaveSummary(hash, filepath.Base(path), sum); err != nil {
			fmt.Fprintf(os.Stderr, "  %s  store error: %v\n", tag, err)
			failed++
			continue
		}
		stored++

		if len(paths) == 1 {
			report.PrintSummaryTo(hash, filepath.Base(path), sum)
		} else {
			fmt.Fprintf(os.Stdout, "  %s  stored: hash=%s rounds=%d\n", tag, hash[:12], len(sum.Rounds))
		}
	}

	if len(paths) > 1 {
		fmt.Fprintf(os.Stdout, "\nDone: %d stored, %d failed (total %d)\n", stored, failed, len(paths))
	}
	if stored == 0 {
		return fmt.Errorf("all %d demo(s) failed to parse", failed)
	}
	return nil
}

// parseOne hashes a single demo and wires up the analyzer that would consume
// it. internal/demuxer only types the decoder boundary; no Source in this repository
// reads a real TF2 bitstream, so every real file reports that plainly
// instead of silently producing an empty summary. The flag and plumbing
// exist so a real demuxer.Source can be dropped in without touching this
// command.
func parseOne(reg *schema.Registry, logger *zap.Logger, path string) (output.Summary, string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return output.Summary{}, "", fmt.Errorf("read demo: %w", err)
	}
	hash, err := httpapi.DemoHash(bytes.NewReader(body))
	if err != nil {
		return output.Summary{}, "", fmt.Errorf("hash demo: %w", err)
	}

	az := analyzer.New(reg, logger)
	az.SetFilename(filepath.Base(path))

	return output.Summary{}, hash, fmt.Errorf("no bitstream decoder wired (internal/demuxer.Source) for %s", filepath.Base(path))
}
