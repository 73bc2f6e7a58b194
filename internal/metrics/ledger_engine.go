// Package metrics provides Prometheus collectors for the ledger components.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	engineMintTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tierledger",
		Subsystem: "ledger_engine",
		Name:      "mint_total",
		Help:      "Count of mint operations.",
	}, []string{"status"})

	engineMintDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tierledger",
		Subsystem: "ledger_engine",
		Name:      "mint_duration_seconds",
		Help:      "Duration of mint operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	engineTransferTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tierledger",
		Subsystem: "ledger_engine",
		Name:      "transfer_total",
		Help:      "Count of transfer-family operations.",
	}, []string{"op", "status"})

	engineTransferDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tierledger",
		Subsystem: "ledger_engine",
		Name:      "transfer_duration_seconds",
		Help:      "Duration of transfer-family operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op", "status"})

	engineTransferIO = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tierledger",
		Subsystem: "ledger_engine",
		Name:      "transfer_io_size",
		Help:      "Inputs and outputs per committed transfer.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
	}, []string{"op", "side"})
)

// LedgerEngine tracks metrics for transaction engine operations.
type LedgerEngine struct{}

// NewLedgerEngine creates a LedgerEngine metrics collector.
func NewLedgerEngine() *LedgerEngine {
	return &LedgerEngine{}
}

// ObserveMint records the outcome and duration of a mint.
func (m LedgerEngine) ObserveMint(err error, started time.Time) {
	status := statusOf(err)
	engineMintTotal.WithLabelValues(status).Inc()
	engineMintDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

// ObserveTransfer records the outcome, shape and duration of a
// transfer-family operation.
func (m LedgerEngine) ObserveTransfer(op string, err error, inputs, outputs int, started time.Time) {
	status := statusOf(err)
	engineTransferTotal.WithLabelValues(op, status).Inc()
	engineTransferDuration.WithLabelValues(op, status).Observe(time.Since(started).Seconds())
	if err == nil {
		engineTransferIO.WithLabelValues(op, "inputs").Observe(float64(inputs))
		engineTransferIO.WithLabelValues(op, "outputs").Observe(float64(outputs))
	}
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
