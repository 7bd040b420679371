package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load("", Overrides{LogLevel: "debug", MetricsTextfile: "/tmp/ledger.prom"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.LogLevel != "debug" {
		t.Fatalf("expected debug, got %s", cfg.App.LogLevel)
	}
	if cfg.Metrics.Textfile != "/tmp/ledger.prom" {
		t.Fatalf("unexpected textfile %q", cfg.Metrics.Textfile)
	}
}

func TestLoadMetricsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	if err := os.WriteFile(path, []byte("metrics:\n  textfile: out.prom\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path, Overrides{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Metrics.Textfile != "out.prom" {
		t.Fatalf("expected out.prom, got %q", cfg.Metrics.Textfile)
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	if _, err := Load("", Overrides{LogLevel: "loud"}); err == nil {
		t.Fatalf("expected invalid log level error")
	}
}

func TestLoadRejectsBadFormat(t *testing.T) {
	t.Setenv("LEDGER_LOG_FORMAT", "xml")
	if _, err := Load("", Overrides{}); err == nil {
		t.Fatalf("expected invalid log format error")
	}
}
