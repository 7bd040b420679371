package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	base "github.com/AfshinJalili/txledger/libs/config"
	"github.com/AfshinJalili/txledger/libs/logging"
	"github.com/AfshinJalili/txledger/libs/metrics"
	"github.com/AfshinJalili/txledger/libs/trace"
	"github.com/AfshinJalili/txledger/services/ledger/internal/config"
	"github.com/AfshinJalili/txledger/services/ledger/internal/ledger"
	"github.com/AfshinJalili/txledger/services/ledger/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type options struct {
	configPath  string
	envFile     string
	logLevel    string
	metricsFile string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ledger <transactions.csv>",
		Short: "Apply a transaction log and print the resulting client accounts",
		Long: `ledger reads a CSV log of deposits, withdrawals, disputes, resolves and
chargebacks, applies them in order and writes one CSV row per client account
to stdout.

Rejected transactions are logged to stderr and skipped. The command fails only
when the input cannot be read or parsed, or when stdout cannot be written.

Example:
  ledger transactions.csv > accounts.csv
  ledger --log-level debug --metrics-file ledger.prom transactions.csv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args[0], stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default is ./config.yaml when present)")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "env file to load before reading configuration (default is ./.env when present)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func run(ctx context.Context, opts *options, inputPath string, stdout, stderr io.Writer) error {
	if opts.envFile != "" {
		if err := base.LoadDotEnv(opts.envFile); err != nil {
			return err
		}
	}

	cfg, err := config.Load(opts.configPath, config.Overrides{
		LogLevel:        opts.logLevel,
		MetricsTextfile: opts.metricsFile,
	})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := logging.NewLogger(stderr, cfg.App.LogLevel, cfg.App.LogFormat, cfg.App.ServiceName, cfg.App.Env).
		With("run_id", uuid.NewString())

	shutdownTracer := trace.InitTracer(cfg.App.ServiceName, cfg.App.Env)
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("tracer shutdown failed", "error", err)
		}
	}()

	input, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer input.Close()

	registry := metrics.NewRegistry()
	ledgerMetrics := service.NewMetrics(registry)
	ledgerService := service.NewLedgerService(ledger.New(), logger, ledgerMetrics)

	logger.Info("ingest starting", "input", inputPath)
	if _, err := ledgerService.Process(ctx, input, stdout); err != nil {
		return err
	}

	if err := metrics.WriteTextfile(cfg.Metrics.Textfile, registry); err != nil {
		logger.Error("metrics export failed", "path", cfg.Metrics.Textfile, "error", err)
	}
	return nil
}
