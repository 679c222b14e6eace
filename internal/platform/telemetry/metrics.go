package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync outcomes used as the "outcome" label.
const (
	OutcomeSuccess   = "success"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// SyncMetrics holds the Prometheus collectors describing reconciliation and the collection.
type SyncMetrics struct {
	runs           *prometheus.CounterVec
	duration       prometheus.Histogram
	unmergedLocal  prometheus.Counter
	collectionSize prometheus.Gauge
	pushes         *prometheus.CounterVec
}

// NewSyncMetrics registers the sync collectors with reg.
// Pass prometheus.DefaultRegisterer in production so /-/metrics exposes them.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	factory := promauto.With(reg)

	return &SyncMetrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quotes",
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Reconciliation passes by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quotes",
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Duration of reconciliation passes.",
			Buckets:   prometheus.DefBuckets,
		}),
		unmergedLocal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "quotes",
			Subsystem: "sync",
			Name:      "unmerged_local_total",
			Help:      "Local quotes carried into merged collections because the remote lacked them.",
		}),
		collectionSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "quotes",
			Name:      "collection_size",
			Help:      "Number of quotes in the local collection.",
		}),
		pushes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quotes",
			Subsystem: "sync",
			Name:      "pushes_total",
			Help:      "Quotes pushed to the remote endpoint by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveRun records a finished reconciliation pass.
// A nil receiver is a no-op so callers never need to guard.
func (m *SyncMetrics) ObserveRun(outcome string, seconds float64, unmerged int) {
	if m == nil {
		return
	}

	m.runs.WithLabelValues(outcome).Inc()
	m.duration.Observe(seconds)

	if unmerged > 0 {
		m.unmergedLocal.Add(float64(unmerged))
	}
}

// ObservePush records a single push attempt.
func (m *SyncMetrics) ObservePush(outcome string) {
	if m == nil {
		return
	}

	m.pushes.WithLabelValues(outcome).Inc()
}

// SetCollectionSize updates the collection size gauge.
func (m *SyncMetrics) SetCollectionSize(n int) {
	if m == nil {
		return
	}

	m.collectionSize.Set(float64(n))
}
