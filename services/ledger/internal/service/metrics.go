package service

import (
	"time"

	"github.com/AfshinJalili/txledger/services/ledger/internal/ledger"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	TransactionsTotal *prometheus.CounterVec
	Rejections        *prometheus.CounterVec
	Accounts          prometheus.Gauge
	LockedAccounts    prometheus.Gauge
	IngestDuration    prometheus.Histogram
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		TransactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transactions_total",
				Help: "Total transactions applied to the ledger.",
			},
			[]string{"type", "status"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transaction_rejections_total",
				Help: "Total rejected transactions by reason.",
			},
			[]string{"reason"},
		),
		Accounts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledger_accounts",
				Help: "Number of client accounts held by the ledger.",
			},
		),
		LockedAccounts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledger_locked_accounts",
				Help: "Number of client accounts locked by a chargeback.",
			},
		),
		IngestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_ingest_duration_seconds",
				Help:    "Duration of a full ingest run in seconds.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	registry.MustRegister(
		m.TransactionsTotal,
		m.Rejections,
		m.Accounts,
		m.LockedAccounts,
		m.IngestDuration,
	)
	return m
}

func (m *Metrics) ObserveTransaction(txType ledger.TransactionType, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.TransactionsTotal.WithLabelValues(txType.String(), "rejected").Inc()
		m.Rejections.WithLabelValues(ledger.Reason(err)).Inc()
		return
	}
	m.TransactionsTotal.WithLabelValues(txType.String(), "applied").Inc()
}

func (m *Metrics) ObserveAccounts(accounts []ledger.Account) {
	if m == nil {
		return
	}
	locked := 0
	for _, account := range accounts {
		if account.Locked {
			locked++
		}
	}
	m.Accounts.Set(float64(len(accounts)))
	m.LockedAccounts.Set(float64(locked))
}

func (m *Metrics) ObserveIngest(duration time.Duration) {
	if m == nil {
		return
	}
	m.IngestDuration.Observe(duration.Seconds())
}
