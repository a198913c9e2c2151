package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "statlab/pkg/domain-errors"
)

// TestParseRunID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseRunID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseRunID("")
		require.Error(t, err)
		assert.True(t, derrors.HasCode(err, derrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseRunID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, derrors.HasCode(err, derrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseRunID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, derrors.HasCode(err, derrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseRunID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, RunID(valid), id)
		assert.False(t, id.IsNil())
	})
}

func TestParseConfidenceLevel(t *testing.T) {
	t.Run("accepts table entries", func(t *testing.T) {
		for _, v := range []float64{0.90, 0.95, 0.99} {
			level, err := ParseConfidenceLevel(v)
			require.NoError(t, err, "level %g", v)
			assert.True(t, level.IsValid())
			assert.Greater(t, level.Critical(), 0.0)
		}
	})

	t.Run("rejects unknown levels", func(t *testing.T) {
		for _, v := range []float64{0, 0.5, 0.94, 1.0, -0.95} {
			_, err := ParseConfidenceLevel(v)
			require.Error(t, err, "level %g", v)
			assert.True(t, derrors.HasCode(err, derrors.CodeInvalidInput))
		}
	})
}

func TestConfidenceLevel_Critical(t *testing.T) {
	assert.InDelta(t, 1.645, ConfidenceLevel90.Critical(), 1e-9)
	assert.InDelta(t, 1.96, ConfidenceLevel95.Critical(), 1e-9)
	assert.InDelta(t, 2.576, ConfidenceLevel99.Critical(), 1e-9)

	// Unparsed levels have no critical value; callers must go through
	// ParseConfidenceLevel.
	assert.Zero(t, ConfidenceLevel(0.42).Critical())
}

func TestSupportedConfidenceLevels(t *testing.T) {
	levels := SupportedConfidenceLevels()
	require.Len(t, levels, 3)
	for i := 1; i < len(levels); i++ {
		assert.Less(t, float64(levels[i-1]), float64(levels[i]))
	}
}
