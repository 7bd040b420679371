package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRunWritesAccounts(t *testing.T) {
	input := writeInput(t, `type, client, tx, amount
deposit, 1, 1, 1.0
deposit, 2, 2, 2.0
deposit, 1, 3, 2.0
withdrawal, 1, 4, 1.5
withdrawal, 2, 5, 3.0
`)
	metricsFile := filepath.Join(t.TempDir(), "ledger.prom")

	stdout, stderr, err := execute(t, "--metrics-file", metricsFile, input)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	expected := "client,available,held,total,locked\n" +
		"1,1.5000,0.0000,1.5000,false\n" +
		"2,2.0000,0.0000,2.0000,false\n"
	if stdout != expected {
		t.Fatalf("unexpected stdout:\n%s", stdout)
	}
	if !strings.Contains(stderr, "transaction rejected") || !strings.Contains(stderr, "run_id") {
		t.Fatalf("expected rejection log on stderr, got %s", stderr)
	}

	raw, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(raw), `ledger_transactions_total{status="rejected",type="withdrawal"} 1`) {
		t.Fatalf("unexpected metrics:\n%s", raw)
	}
}

func TestRunMissingInput(t *testing.T) {
	_, _, err := execute(t, filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil || !strings.Contains(err.Error(), "open input") {
		t.Fatalf("expected open input error, got %v", err)
	}
}

func TestRunMalformedInput(t *testing.T) {
	input := writeInput(t, "type,client,tx,amount\ndeposit,1,1,ten\n")
	stdout, _, err := execute(t, input)
	if err == nil || !strings.Contains(err.Error(), "invalid amount") {
		t.Fatalf("expected invalid amount error, got %v", err)
	}
	if stdout != "" {
		t.Fatalf("expected empty stdout, got %q", stdout)
	}
}

func TestRunRequiresOneArgument(t *testing.T) {
	if _, _, err := execute(t); err == nil {
		t.Fatalf("expected argument error")
	}
}

func TestRunRejectsBadLogLevel(t *testing.T) {
	input := writeInput(t, "type,client,tx,amount\n")
	if _, _, err := execute(t, "--log-level", "loud", input); err == nil {
		t.Fatalf("expected config error")
	}
}
