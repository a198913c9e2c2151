package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the experiment module.
type Metrics struct {
	// Runs generated by confidence level
	RunsGenerated *prometheus.CounterVec

	// Sample generation + estimation latency
	GenerateLatency prometheus.Histogram

	// History clears
	RunsCleared prometheus.Counter
}

// New creates a new Metrics instance with all experiment module metrics registered.
func New() *Metrics {
	return &Metrics{
		RunsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "statlab_experiment_runs_generated_total",
			Help: "Total experiment runs generated by confidence level",
		}, []string{"confidence_level"}),

		GenerateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "statlab_experiment_generate_duration_seconds",
			Help:    "Duration of sample generation, estimation, and persistence",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),

		RunsCleared: promauto.NewCounter(prometheus.CounterOpts{
			Name: "statlab_experiment_runs_cleared_total",
			Help: "Total runs removed by history clears",
		}),
	}
}

// IncrementGenerated records a generated run.
func (m *Metrics) IncrementGenerated(level string) {
	if m != nil {
		m.RunsGenerated.WithLabelValues(level).Inc()
	}
}

// ObserveGenerateLatency records the full generate duration.
func (m *Metrics) ObserveGenerateLatency(d time.Duration) {
	if m != nil {
		m.GenerateLatency.Observe(d.Seconds())
	}
}

// AddCleared records runs removed by a history clear.
func (m *Metrics) AddCleared(count int) {
	if m != nil {
		m.RunsCleared.Add(float64(count))
	}
}
