// Package metrics provides observability for coverage simulations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Simulations completed by confidence level
	SimulationsRun *prometheus.CounterVec

	// Interval trials executed across all simulations
	TrialsSimulated prometheus.Counter

	// Wall-clock simulation duration
	SimulationLatency prometheus.Histogram
}

// New creates a new Metrics instance with all simulation metrics registered.
func New() *Metrics {
	return &Metrics{
		SimulationsRun: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "statlab_simulations_total",
			Help: "Total coverage simulations completed by confidence level",
		}, []string{"confidence_level"}),

		TrialsSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "statlab_simulation_trials_total",
			Help: "Total interval trials executed across all simulations",
		}),

		SimulationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "statlab_simulation_duration_seconds",
			Help:    "Wall-clock duration of coverage simulations",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}
}

// ObserveSimulation records one completed simulation.
func (m *Metrics) ObserveSimulation(level string, trials int, elapsed time.Duration) {
	if m != nil {
		m.SimulationsRun.WithLabelValues(level).Inc()
		m.TrialsSimulated.Add(float64(trials))
		m.SimulationLatency.Observe(elapsed.Seconds())
	}
}
