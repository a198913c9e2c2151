// Package models defines the experiment-run records shared by service,
// stores, and handlers.
package models

import (
	"time"

	"statlab/internal/stats"
	"statlab/pkg/domain"
)

// Run captures one press of the frontend's "generate" button: the
// requested population, the drawn sample, and everything derived from it.
// Runs are immutable once created.
type Run struct {
	ID        domain.RunID
	Spec      stats.SampleSpec
	Level     domain.ConfidenceLevel
	Sample    []float64
	Summary   stats.Summary
	Interval  stats.Interval
	CreatedAt time.Time
}

// Covers reports whether the run's interval contains the true population
// mean it was drawn from. Drives the coverage readout in the UI.
func (r *Run) Covers() bool {
	return r.Interval.Contains(r.Spec.Mean)
}
