package syncqueue

import "github.com/prometheus/client_golang/prometheus"

const (
	metricsNamespace = "babybond"
	metricsSubsystem = "sync"
)

// Metrics are the queue's prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	synced        prometheus.Counter
	retried       prometheus.Counter
	evicted       prometheus.Counter
	drainDuration prometheus.Histogram
	pending       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		synced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "synced_total",
			Help:      "Number of queued mutations accepted by the remote.",
		}),
		retried: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "retried_total",
			Help:      "Number of failed deliveries kept for another attempt.",
		}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "evicted_total",
			Help:      "Number of mutations dropped after exhausting their retries.",
		}),
		drainDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "drain_duration_seconds",
			Help:      "Time spent on one drain pass.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "pending_items",
			Help:      "Mutations waiting in the local queue after the last drain.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.synced, m.retried, m.evicted, m.drainDuration, m.pending)
	}
	return m
}

func (m *Metrics) recordSynced() {
	if m != nil {
		m.synced.Inc()
	}
}

func (m *Metrics) recordRetried() {
	if m != nil {
		m.retried.Inc()
	}
}

func (m *Metrics) recordEvicted() {
	if m != nil {
		m.evicted.Inc()
	}
}

func (m *Metrics) observeDrain(seconds float64) {
	if m != nil {
		m.drainDuration.Observe(seconds)
	}
}

func (m *Metrics) setPending(n int) {
	if m != nil {
		m.pending.Set(float64(n))
	}
}
