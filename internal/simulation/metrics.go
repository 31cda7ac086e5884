package simulation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the telemetry ingestion path.
type Metrics struct {
	ActiveSessions    prometheus.Gauge
	EventsTotal       *prometheus.CounterVec
	RejectedTotal     *prometheus.CounterVec
	FinalizedTotal    prometheus.Counter
	SaveFailuresTotal prometheus.Counter
}

// NewMetrics creates and registers all simulation metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ActiveSessions: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "surgsim",
				Name:      "active_sessions",
				Help:      "Number of in-progress surgery sessions",
			},
		),
		EventsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "surgsim",
				Name:      "telemetry_events_total",
				Help:      "Total telemetry events accepted into a trajectory",
			},
			[]string{"kind"},
		),
		RejectedTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "surgsim",
				Name:      "telemetry_rejected_total",
				Help:      "Total telemetry messages rejected before mutation",
			},
			[]string{"reason"}, // reason=bad_data/no_identity
		),
		FinalizedTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "surgsim",
				Name:      "sessions_finalized_total",
				Help:      "Total sessions finalized and persisted",
			},
		),
		SaveFailuresTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "surgsim",
				Name:      "session_save_failures_total",
				Help:      "Total finalize-time save failures",
			},
		),
	}
}
