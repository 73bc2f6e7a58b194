package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	complianceInspectTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tierledger",
		Subsystem: "compliance_monitor",
		Name:      "inspect_total",
		Help:      "Count of inspected committed transactions.",
	}, []string{"outcome"})

	complianceCasesOpened = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tierledger",
		Subsystem: "compliance_monitor",
		Name:      "cases_opened_total",
		Help:      "Count of opened compliance cases.",
	})

	complianceInvestigateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tierledger",
		Subsystem: "compliance_monitor",
		Name:      "investigate_total",
		Help:      "Count of case investigation attempts.",
	}, []string{"status"})

	complianceInspectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tierledger",
		Subsystem: "compliance_monitor",
		Name:      "inspect_duration_seconds",
		Help:      "Duration of transaction inspection.",
		Buckets:   prometheus.DefBuckets,
	})

	complianceInvestigateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tierledger",
		Subsystem: "compliance_monitor",
		Name:      "investigate_duration_seconds",
		Help:      "Duration of case investigation attempts.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
)

// ComplianceMonitor tracks metrics for the compliance monitor.
type ComplianceMonitor struct{}

// NewComplianceMonitor creates a ComplianceMonitor metrics collector.
func NewComplianceMonitor() *ComplianceMonitor {
	return &ComplianceMonitor{}
}

// ObserveInspect records one inspection and how many cases it opened.
func (m ComplianceMonitor) ObserveInspect(flagged int, started time.Time) {
	outcome := "clean"
	if flagged > 0 {
		outcome = "flagged"
		complianceCasesOpened.Add(float64(flagged))
	}
	complianceInspectTotal.WithLabelValues(outcome).Inc()
	complianceInspectDuration.Observe(time.Since(started).Seconds())
}

// ObserveInvestigate records a case investigation attempt.
func (m ComplianceMonitor) ObserveInvestigate(err error, started time.Time) {
	status := statusOf(err)
	complianceInvestigateTotal.WithLabelValues(status).Inc()
	complianceInvestigateDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}
