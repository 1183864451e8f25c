package cmd

import (
	"fmt"

	"github.com/leighmacdonald/tf2stats/internal/schema"
)

// resolveSchemaPath applies the same override order config.Load documents:
// an explicit flag wins, then TF2_SCHEMA_PATH/DEMO_TF2_SCHEMA_PATH, then the
// user's cache directory.
func resolveSchemaPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.SchemaPath != "" {
		return cfg.SchemaPath
	}
	return defaultSchemaPath()
}

// loadSchemaRegistry loads the item schema from path, erroring clearly if
// it hasn't been fetched yet (`tf2stats update` populates it).
func loadSchemaRegistry(path string) (*schema.Registry, error) {
	reg, err := schema.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load schema from %s (run 'tf2stats update' first?): %w", path, err)
	}
	return reg, nil
}
