// Package metrics exposes the Prometheus gauges/counters for the signals
// Titan Guardian emits: decisions, risk blocks, scoring latency, and the
// kill-switch state.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every Prometheus collector Titan Guardian exports.
type Registry struct {
	SignalsEmitted   *prometheus.CounterVec
	RiskBlocks       *prometheus.CounterVec
	ScoringLatency   prometheus.Histogram
	KillSwitchActive prometheus.Gauge
}

// NewRegistry builds and registers every collector against reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		SignalsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "titan_guardian_signals_total",
			Help: "Signals emitted, labeled by action and source.",
		}, []string{"action", "source"}),

		RiskBlocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "titan_guardian_risk_blocks_total",
			Help: "Risk-engine BlockTrade derivations, labeled by reason.",
		}, []string{"reason"}),

		ScoringLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "titan_guardian_scoring_seconds",
			Help:    "Wall-clock time spent computing indicators and the composite score.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),

		KillSwitchActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "titan_guardian_kill_switch_active",
			Help: "1 if the kill switch is currently active, 0 otherwise.",
		}),
	}

	reg.MustRegister(r.SignalsEmitted, r.RiskBlocks, r.ScoringLatency, r.KillSwitchActive)
	return r
}

// ObserveKillSwitch sets the kill-switch gauge from a bool.
func (r *Registry) ObserveKillSwitch(active bool) {
	if active {
		r.KillSwitchActive.Set(1)
		return
	}
	r.KillSwitchActive.Set(0)
}
