package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	consensusVotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tierledger",
		Subsystem: "consensus",
		Name:      "votes_total",
		Help:      "Count of vote submissions.",
	}, []string{"status"})

	consensusVoteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tierledger",
		Subsystem: "consensus",
		Name:      "vote_duration_seconds",
		Help:      "Duration of vote submissions including tally.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	consensusBlocksVerified = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tierledger",
		Subsystem: "consensus",
		Name:      "blocks_verified_total",
		Help:      "Count of blocks finalized by quorum.",
	})

	consensusActiveValidators = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tierledger",
		Subsystem: "consensus",
		Name:      "active_validators",
		Help:      "Current active validator count.",
	})
)

// ConsensusEngine tracks metrics for the voting engine and registry.
type ConsensusEngine struct{}

// NewConsensusEngine creates a ConsensusEngine metrics collector.
func NewConsensusEngine() *ConsensusEngine {
	return &ConsensusEngine{}
}

// ObserveVote records a vote submission outcome and duration.
func (m ConsensusEngine) ObserveVote(err error, started time.Time) {
	status := statusOf(err)
	consensusVotesTotal.WithLabelValues(status).Inc()
	consensusVoteDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

// ObserveVerified records one block finalization.
func (m ConsensusEngine) ObserveVerified(_ uint64) {
	consensusBlocksVerified.Inc()
}

// SetActiveValidators updates the active validator gauge.
func (m ConsensusEngine) SetActiveValidators(count int) {
	consensusActiveValidators.Set(float64(count))
}
