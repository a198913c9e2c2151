package stats

import (
	"math"

	derrors "statlab/pkg/domain-errors"
)

// Estimate derives the sample mean and population standard deviation
// (divisor n) from a non-empty sample.
func Estimate(sample []float64) (Summary, error) {
	n := len(sample)
	if n == 0 {
		return Summary{}, derrors.New(derrors.CodeEmptyInput, "cannot estimate statistics over zero observations")
	}

	var sum float64
	for _, x := range sample {
		sum += x
	}
	mean := sum / float64(n)

	var sumSq float64
	for _, x := range sample {
		d := x - mean
		sumSq += d * d
	}

	return Summary{
		Mean:   mean,
		StdDev: math.Sqrt(sumSq / float64(n)),
	}, nil
}
