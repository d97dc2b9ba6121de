package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UserID != "default" || cfg.WindowDays != 30 || cfg.HTTPPort != 8080 {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.DefaultCycleLength != 28 || cfg.DefaultPeriodLength != 5 {
		t.Fatalf("engine defaults: %+v", cfg)
	}

	missing, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil || missing.UserID != "default" {
		t.Fatalf("missing file must keep defaults: %+v %v", missing, err)
	}
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := writeFile(t, `
database:
  dsn: mariadb://u:p@localhost:3306/cycles
engine:
  user_id: alice
  window_days: 45
  default_cycle_length: 30
http:
  port: 9000
log:
  verbose: true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "mariadb://u:p@localhost:3306/cycles" || cfg.UserID != "alice" || cfg.WindowDays != 45 {
		t.Fatalf("file values: %+v", cfg)
	}
	if cfg.DefaultCycleLength != 30 || cfg.DefaultPeriodLength != 5 || cfg.HTTPPort != 9000 || !cfg.Verbose {
		t.Fatalf("file values: %+v", cfg)
	}

	t.Setenv("CYCLE_INSIGHTS_USER", "bob")
	t.Setenv("HTTP_PORT", "7000")
	t.Setenv("CYCLE_INSIGHTS_WINDOW_DAYS", "not-a-number")
	t.Setenv("CYCLE_INSIGHTS_VERBOSE", "no")
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UserID != "bob" || cfg.HTTPPort != 7000 || cfg.WindowDays != 45 || cfg.Verbose {
		t.Fatalf("env overrides: %+v", cfg)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	if _, err := LoadConfig(writeFile(t, "engine: [broken")); err == nil {
		t.Fatal("expected parse error, got nil")
	}
	t.Setenv("CYCLE_INSIGHTS_WINDOW_DAYS", "-3")
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected error for negative window, got nil")
	}
}

func TestEngine(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	e := cfg.Engine("")
	if e.UserID != "default" || e.WindowDays != 30 || e.DefaultCycleLength != 28 {
		t.Fatalf("engine config: %+v", e)
	}
	if got := cfg.Engine("carol").UserID; got != "carol" {
		t.Fatalf("user override: %s", got)
	}
}
