package storage

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOnline   = "online"
	resultOffline  = "offline"
	resultNoData   = "no_data"
	resultRejected = "rejected"
	resultReinit   = "reinit"
	resultError    = "error"
)

// Metrics counts sync outcomes. A nil *Metrics records nothing.
type Metrics struct {
	Syncs          *prometheus.CounterVec
	UploadFailures prometheus.Counter
	SyncDuration   prometheus.Histogram
}

// NewMetrics creates the sync metrics and registers them with reg if it is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Syncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tsd",
			Subsystem: "storage",
			Name:      "syncs_total",
			Help:      "Sync calls by result.",
		}, []string{"result"}),
		UploadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tsd",
			Subsystem: "storage",
			Name:      "upload_failures_total",
			Help:      "Uploads rejected or failed after a successful fetch.",
		}),
		SyncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tsd",
			Subsystem: "storage",
			Name:      "sync_duration_seconds",
			Help:      "Duration of sync calls which reached the remote.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Syncs, m.UploadFailures, m.SyncDuration)
	}
	return m
}

func (m *Metrics) sync(result string, seconds float64) {
	if m == nil {
		return
	}
	m.Syncs.WithLabelValues(result).Inc()
	if result != resultRejected && result != resultReinit {
		m.SyncDuration.Observe(seconds)
	}
}

func (m *Metrics) uploadFailed() {
	if m == nil {
		return
	}
	m.UploadFailures.Inc()
}
