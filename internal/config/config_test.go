package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.DBPath != "tf2stats.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.WorkerCount != 4 {
		t.Fatalf("expected default worker count 4, got %d", cfg.WorkerCount)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("expected default allowed origins [*], got %v", cfg.AllowedOrigins)
	}
}

func TestLoadSchemaPathPrefersTF2SchemaPath(t *testing.T) {
	t.Setenv("TF2_SCHEMA_PATH", "/etc/tf2/schema.json")
	t.Setenv("DEMO_TF2_SCHEMA_PATH", "/etc/tf2/other.json")

	cfg := Load()
	if cfg.SchemaPath != "/etc/tf2/schema.json" {
		t.Fatalf("expected TF2_SCHEMA_PATH to win, got %q", cfg.SchemaPath)
	}
}

func TestLoadSchemaPathFallsBackToDemoPrefix(t *testing.T) {
	t.Setenv("DEMO_TF2_SCHEMA_PATH", "/etc/tf2/other.json")

	cfg := Load()
	if cfg.SchemaPath != "/etc/tf2/other.json" {
		t.Fatalf("expected DEMO_TF2_SCHEMA_PATH fallback, got %q", cfg.SchemaPath)
	}
}

func TestLoadAllowedOriginsSplitsAndTrims(t *testing.T) {
	t.Setenv("TF2STATS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,,")

	cfg := Load()
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.AllowedOrigins)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, cfg.AllowedOrigins)
		}
	}
}
