package cmd

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leighmacdonald/tf2stats/internal/httpapi"
	"github.com/leighmacdonald/tf2stats/internal/storage"
)

var (
	serveHost       string
	servePort       int
	serveSchemaPath string
)

// serveCmd starts the chi-based HTTP front-end: multipart demo upload,
// /healthz, /metrics, and per-IP rate limiting.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP demo-upload API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "address to bind")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to bind")
	serveCmd.Flags().StringVar(&serveSchemaPath, "schema", "", "path to a cached item schema JSON (overrides TF2_SCHEMA_PATH)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync() //nolint:errcheck

	schemaPath := resolveSchemaPath(serveSchemaPath)
	reg, err := loadSchemaRegistry(schemaPath)
	if err != nil {
		return err
	}
	logger.Info("loaded item schema", zap.String("path", schemaPath), zap.Int("items", reg.Len()))

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	limiter := httpapi.NewIPRateLimiter(httpapi.DefaultRateLimitConfig())
	defer limiter.Stop()

	// Parser is left nil: the bitstream demuxer that would decode an
	// uploaded .dem's raw bytes is out of scope. The upload
	// endpoint still accepts, hashes, and rejects files cleanly with a 501
	// until a demuxer.Source implementation is wired in here.
	srv := httpapi.New(httpapi.Config{
		Logger:         logger,
		Store:          db,
		Limiter:        limiter,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	addr := net.JoinHostPort(serveHost, strconv.Itoa(servePort))
	logger.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, srv.Router)
}
