package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/AfshinJalili/txledger/services/ledger/internal/consumer"
	"github.com/AfshinJalili/txledger/services/ledger/internal/csvio"
	"github.com/AfshinJalili/txledger/services/ledger/internal/ledger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"log/slog"
)

const tracerName = "github.com/AfshinJalili/txledger/services/ledger/internal/service"

type Ledger interface {
	Apply(tx ledger.Transaction) error
	Accounts() []ledger.Account
}

type LedgerService struct {
	ledger  Ledger
	logger  *slog.Logger
	metrics *Metrics
}

func NewLedgerService(l Ledger, logger *slog.Logger, metrics *Metrics) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{
		ledger:  l,
		logger:  logger,
		metrics: metrics,
	}
}

// Process reads every transaction from in, applies them in order and writes
// the resulting accounts to out. A malformed record aborts the run before any
// output is written; rejected transactions do not.
func (s *LedgerService) Process(ctx context.Context, in io.Reader, out io.Writer) (consumer.Summary, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ledger.Process")
	defer span.End()

	start := time.Now()
	txConsumer := consumer.NewTransactionConsumer(s.ledger, s.logger, s.metrics)
	summary, err := txConsumer.Consume(ctx, csvio.NewReader(in))
	s.metrics.ObserveIngest(time.Since(start))
	span.SetAttributes(
		attribute.Int("ledger.processed", summary.Processed),
		attribute.Int("ledger.applied", summary.Applied),
		attribute.Int("ledger.rejected", summary.Rejected),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ingest failed")
		s.logger.Error("ingest failed", "processed", summary.Processed, "error", err)
		return summary, err
	}

	accounts := s.ledger.Accounts()
	s.metrics.ObserveAccounts(accounts)
	span.SetAttributes(attribute.Int("ledger.accounts", len(accounts)))
	if err := csvio.WriteAccounts(out, accounts); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write accounts failed")
		s.logger.Error("write accounts failed", "error", err)
		return summary, fmt.Errorf("write accounts: %w", err)
	}

	s.logger.Info("ingest complete",
		"processed", summary.Processed,
		"applied", summary.Applied,
		"rejected", summary.Rejected,
		"accounts", len(accounts),
		"duration", time.Since(start).String(),
	)
	return summary, nil
}
