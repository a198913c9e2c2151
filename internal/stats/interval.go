package stats

import (
	"math"

	"statlab/pkg/domain"
	derrors "statlab/pkg/domain-errors"
)

// ConfidenceInterval computes the symmetric two-tailed interval around
// summary.Mean: margin = z * (sd / sqrt(n)) with z taken from the level's
// critical-value table.
//
// Unrecognized levels are rejected rather than silently falling back to
// 95%; levels are validated at parse time by domain.ParseConfidenceLevel,
// so a failure here means a caller bypassed the domain primitive.
func ConfidenceInterval(summary Summary, sampleSize int, level domain.ConfidenceLevel) (Interval, error) {
	if sampleSize < 1 {
		return Interval{}, derrors.Newf(derrors.CodeInvalidInput, "sample size must be at least 1, got %d", sampleSize)
	}
	if !level.IsValid() {
		return Interval{}, derrors.Newf(derrors.CodeInvalidInput, "unsupported confidence level %s", level)
	}

	margin := level.Critical() * summary.StdDev / math.Sqrt(float64(sampleSize))
	return Interval{
		Lower: summary.Mean - margin,
		Upper: summary.Mean + margin,
	}, nil
}
