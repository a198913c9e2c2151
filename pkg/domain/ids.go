package domain

import (
	"github.com/google/uuid"

	derrors "statlab/pkg/domain-errors"
)

// RunID identifies a single experiment run.
// IDs must be valid, non-nil UUIDs; parsing enforces this at trust boundaries.
type RunID uuid.UUID

// NewRunID generates a fresh run ID.
func NewRunID() RunID {
	return RunID(uuid.New())
}

// ParseRunID validates and returns a RunID.
func ParseRunID(s string) (RunID, error) {
	if s == "" {
		return RunID{}, derrors.New(derrors.CodeInvalidInput, "run ID is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return RunID{}, derrors.Wrap(err, derrors.CodeInvalidInput, "run ID must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return RunID{}, derrors.New(derrors.CodeInvalidInput, "run ID must not be the nil UUID")
	}
	return RunID(parsed), nil
}

// String returns the canonical UUID form.
func (r RunID) String() string {
	return uuid.UUID(r).String()
}

// IsNil reports whether the ID is the zero value.
func (r RunID) IsNil() bool {
	return uuid.UUID(r) == uuid.Nil
}

// MarshalText encodes the ID as its canonical UUID string.
func (r RunID) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses an ID with the same validation as ParseRunID.
func (r *RunID) UnmarshalText(text []byte) error {
	parsed, err := ParseRunID(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
