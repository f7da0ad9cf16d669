package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, body string) {
	t.Helper()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
}

func TestNew_RequiresPostgresSection(t *testing.T) {
	writeConfigFile(t, "env:\n  serviceName: waymark\nhttp:\n  port: 8080\n")

	cfg, err := New()
	if err == nil {
		t.Fatal("expected an error when the postgres section is missing")
	}
	if cfg != nil {
		t.Fatalf("expected nil config, got %+v", cfg)
	}
	if !strings.Contains(err.Error(), "postgres config is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_LoadsPostgresSection(t *testing.T) {
	writeConfigFile(t, `env:
  serviceName: waymark
http:
  port: 8080
postgres:
  master:
    host: localhost
    port: "5432"
`)

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	if cfg.Postgres == nil {
		t.Fatal("expected postgres config to be populated")
	}
}
