// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collectors fed from lifecycle trace events. Metrics observe
// the core through the tracer fan-out; the core itself never depends on
// them.

package control

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-quic/api"
)

// Metrics implements api.Tracer, mapping lifecycle events onto
// Prometheus collectors.
type Metrics struct {
	sessionsCreated prometheus.Counter
	sessionsActive  prometheus.Gauge
	connsRegistered prometheus.Gauge
	shutdownsIssued prometheus.Counter
	allocFailures   prometheus.Counter
}

// NewMetrics creates and registers the collectors with reg. A nil
// registerer leaves the collectors unregistered, which tests use to
// avoid global registry collisions.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hioload_quic_sessions_created_total",
			Help: "Sessions created since process start.",
		}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hioload_quic_sessions_active",
			Help: "Sessions currently alive.",
		}),
		connsRegistered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hioload_quic_connections_registered",
			Help: "Connections currently registered with a session.",
		}),
		shutdownsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hioload_quic_shutdown_broadcasts_total",
			Help: "Shutdown broadcasts issued.",
		}),
		allocFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hioload_quic_alloc_failures_total",
			Help: "Best-effort allocations dropped.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.sessionsCreated,
			m.sessionsActive,
			m.connsRegistered,
			m.shutdownsIssued,
			m.allocFailures,
		)
	}
	return m
}

// Event implements api.Tracer.
func (m *Metrics) Event(ev api.TraceEvent, _ map[string]any) {
	switch ev {
	case api.TraceSessionCreated:
		m.sessionsCreated.Inc()
		m.sessionsActive.Inc()
	case api.TraceSessionDestroyed:
		m.sessionsActive.Dec()
	case api.TraceConnRegistered:
		m.connsRegistered.Inc()
	case api.TraceConnUnregistered:
		m.connsRegistered.Dec()
	case api.TraceSessionShutdown:
		m.shutdownsIssued.Inc()
	case api.TraceAllocFailure:
		m.allocFailures.Inc()
	}
}
