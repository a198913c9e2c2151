package domain

import (
	"fmt"

	derrors "statlab/pkg/domain-errors"
)

// ConfidenceLevel represents a supported two-tailed confidence level.
// This is a domain primitive that enforces validity at parse time: only
// levels with a known z-critical value exist, so downstream interval math
// can never see an unrecognized level.
type ConfidenceLevel float64

// Supported confidence levels.
const (
	ConfidenceLevel90 ConfidenceLevel = 0.90
	ConfidenceLevel95 ConfidenceLevel = 0.95
	ConfidenceLevel99 ConfidenceLevel = 0.99
)

// criticalValues is the enumerated confidence-level-to-z-score table.
// Keeping the association explicit (rather than defaulting on unknown
// keys) turns a typo in a caller into a parse error instead of a quietly
// wrong interval.
var criticalValues = map[ConfidenceLevel]float64{
	ConfidenceLevel90: 1.645,
	ConfidenceLevel95: 1.96,
	ConfidenceLevel99: 2.576,
}

// ParseConfidenceLevel validates and returns a ConfidenceLevel.
// Returns an error for any level without a table entry.
func ParseConfidenceLevel(v float64) (ConfidenceLevel, error) {
	level := ConfidenceLevel(v)
	if _, ok := criticalValues[level]; !ok {
		return 0, derrors.Newf(derrors.CodeInvalidInput, "unsupported confidence level %g (supported: 0.90, 0.95, 0.99)", v)
	}
	return level, nil
}

// Critical returns the two-tailed z-critical value for the level.
// The zero value (unparsed level) yields 0, which makes misuse visible
// in any interval it produces.
func (c ConfidenceLevel) Critical() float64 {
	return criticalValues[c]
}

// IsValid reports whether the level has a table entry.
func (c ConfidenceLevel) IsValid() bool {
	_, ok := criticalValues[c]
	return ok
}

// String formats the level as a probability, e.g. "0.95".
func (c ConfidenceLevel) String() string {
	return fmt.Sprintf("%.2f", float64(c))
}

// SupportedConfidenceLevels returns all levels with table entries in
// ascending order.
func SupportedConfidenceLevels() []ConfidenceLevel {
	return []ConfidenceLevel{ConfidenceLevel90, ConfidenceLevel95, ConfidenceLevel99}
}
