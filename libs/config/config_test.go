package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceName != "ledger" || cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LEDGER_LOG_LEVEL", "debug")
	t.Setenv("LEDGER_ENV", "prod")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.Env != "prod" {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	if err := os.WriteFile(path, []byte("service_name: batch\nlog_format: text\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceName != "batch" || cfg.LogFormat != "text" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("LEDGER_DOTENV_PROBE=loaded\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("LEDGER_DOTENV_PROBE", "")
	os.Unsetenv("LEDGER_DOTENV_PROBE")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := os.Getenv("LEDGER_DOTENV_PROBE"); got != "loaded" {
		t.Fatalf("expected loaded, got %q", got)
	}
}
