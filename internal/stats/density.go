package stats

import (
	"math"

	derrors "statlab/pkg/domain-errors"
)

// DefaultCurveIntervals is the number of steps a density curve is divided
// into when the caller does not specify one.
const DefaultCurveIntervals = 100

// curveSpan is how many standard deviations the curve extends on each
// side of the mean. Beyond four the density is visually indistinguishable
// from zero.
const curveSpan = 4.0

// DensityAt evaluates the normal probability density at x.
func DensityAt(x, mean, stdDev float64) (float64, error) {
	if math.IsNaN(x) || math.IsNaN(mean) || math.IsInf(mean, 0) {
		return 0, derrors.Newf(derrors.CodeInvalidInput, "x and mean must be finite, got x=%g mean=%g", x, mean)
	}
	if !finite(stdDev) || stdDev <= 0 {
		return 0, derrors.Newf(derrors.CodeInvalidInput, "standard deviation must be positive, got %g", stdDev)
	}
	d := x - mean
	return math.Exp(-d*d/(2*stdDev*stdDev)) / (stdDev * math.Sqrt(2*math.Pi)), nil
}

// DensityCurve samples the normal density over [mean-4sd, mean+4sd] at
// intervals+1 evenly spaced points in ascending x order.
//
// Points are positioned by index (x_i = lo + span*i/intervals) rather
// than by accumulating a floating-point step, so the terminal point lands
// exactly on mean+4sd regardless of the interval count. intervals == 0
// selects DefaultCurveIntervals.
func DensityCurve(mean, stdDev float64, intervals int) ([]CurvePoint, error) {
	if !finite(mean) {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "mean must be finite, got %g", mean)
	}
	if !finite(stdDev) || stdDev <= 0 {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "standard deviation must be positive, got %g", stdDev)
	}
	if intervals < 0 {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "interval count must not be negative, got %d", intervals)
	}
	if intervals == 0 {
		intervals = DefaultCurveIntervals
	}

	lo := mean - curveSpan*stdDev
	span := 2 * curveSpan * stdDev

	points := make([]CurvePoint, intervals+1)
	for i := 0; i <= intervals; i++ {
		x := lo + span*float64(i)/float64(intervals)
		density, err := DensityAt(x, mean, stdDev)
		if err != nil {
			return nil, err
		}
		points[i] = CurvePoint{X: x, Density: density}
	}
	return points, nil
}
