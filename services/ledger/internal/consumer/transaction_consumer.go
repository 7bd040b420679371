package consumer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/AfshinJalili/txledger/services/ledger/internal/ledger"
	"log/slog"
)

type Source interface {
	Next() (ledger.Transaction, error)
}

type Ledger interface {
	Apply(tx ledger.Transaction) error
}

type Metrics interface {
	ObserveTransaction(txType ledger.TransactionType, err error)
}

type Summary struct {
	Processed int
	Applied   int
	Rejected  int
}

// TransactionConsumer feeds decoded transactions into the ledger in source
// order. Rejected transactions are reported and skipped; only a source error
// stops the run.
type TransactionConsumer struct {
	ledger  Ledger
	logger  *slog.Logger
	metrics Metrics
}

func NewTransactionConsumer(l Ledger, logger *slog.Logger, metrics Metrics) *TransactionConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionConsumer{
		ledger:  l,
		logger:  logger,
		metrics: metrics,
	}
}

func (c *TransactionConsumer) Consume(ctx context.Context, source Source) (Summary, error) {
	var summary Summary
	if source == nil {
		return summary, fmt.Errorf("transaction source required")
	}

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		tx, err := source.Next()
		if errors.Is(err, io.EOF) {
			return summary, nil
		}
		if err != nil {
			return summary, fmt.Errorf("decode transaction: %w", err)
		}

		summary.Processed++
		if err := c.HandleTransaction(tx); err != nil {
			summary.Rejected++
			continue
		}
		summary.Applied++
	}
}

func (c *TransactionConsumer) HandleTransaction(tx ledger.Transaction) error {
	err := c.ledger.Apply(tx)
	if c.metrics != nil {
		c.metrics.ObserveTransaction(tx.Type, err)
	}
	if err != nil {
		c.logger.Warn("transaction rejected",
			"tx", tx.ID,
			"client", tx.Client,
			"type", tx.Type.String(),
			"reason", ledger.Reason(err),
			"error", err,
		)
		return err
	}
	c.logger.Debug("transaction applied", "tx", tx.ID, "client", tx.Client, "type", tx.Type.String())
	return nil
}
