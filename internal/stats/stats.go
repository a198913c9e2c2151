// Package stats is the pure computation core of statlab: normal sampling,
// point estimation, confidence-interval bounds, and density curves for
// plotting. Every operation is a function of its inputs plus entropy from
// a uniform source; there is no I/O and no shared mutable state, so calls
// are independent and reentrant.
package stats

import "math"

// finite reports whether v is a usable real number. NaN slips through
// ordering guards (every comparison with NaN is false), so domain checks
// on float inputs must test finiteness explicitly.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SampleSpec describes the normal population a sample is drawn from.
// Immutable input to sampling.
type SampleSpec struct {
	Mean   float64
	StdDev float64
	Size   int
}

// Summary holds point estimates derived from a sample.
//
// StdDev is the population standard deviation (divisor n, not n-1). The
// biased estimator matches the pedagogical framing of the sampling demos;
// callers wanting the unbiased estimator must adjust externally.
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Interval is a symmetric confidence interval around a sample mean.
// Lower <= mean <= Upper holds by construction.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Contains reports whether x lies inside the interval.
func (i Interval) Contains(x float64) bool {
	return i.Lower <= x && x <= i.Upper
}

// Width returns the full interval width (twice the margin of error).
func (i Interval) Width() float64 {
	return i.Upper - i.Lower
}

// CurvePoint is one (x, density) pair of a plotted density curve.
type CurvePoint struct {
	X       float64 `json:"x"`
	Density float64 `json:"density"`
}
