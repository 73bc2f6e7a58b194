package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	archiverFlushTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tierledger",
		Subsystem: "archiver",
		Name:      "flush_total",
		Help:      "Count of archive batch flushes.",
	}, []string{"table", "status"})

	archiverFlushDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tierledger",
		Subsystem: "archiver",
		Name:      "flush_duration_seconds",
		Help:      "Duration of archive batch flushes.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"table", "status"})

	archiverFlushSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tierledger",
		Subsystem: "archiver",
		Name:      "flush_size",
		Help:      "Rows per archive batch flush.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"table"})

	archiverReplayedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tierledger",
		Subsystem: "archiver",
		Name:      "replayed_total",
		Help:      "Count of transactions re-archived by replay.",
	})
)

// Archiver tracks metrics for the archive pipeline.
type Archiver struct{}

// NewArchiver creates an Archiver metrics collector.
func NewArchiver() *Archiver {
	return &Archiver{}
}

// ObserveFlush records one batch flush to an archive table.
func (m Archiver) ObserveFlush(table string, err error, size int, started time.Time) {
	status := statusOf(err)
	archiverFlushTotal.WithLabelValues(table, status).Inc()
	archiverFlushDuration.WithLabelValues(table, status).Observe(time.Since(started).Seconds())
	archiverFlushSize.WithLabelValues(table).Observe(float64(size))
}

// ObserveReplayed records transactions re-archived after a restart.
func (m Archiver) ObserveReplayed(count int) {
	archiverReplayedTotal.Add(float64(count))
}
