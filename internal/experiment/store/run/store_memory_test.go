package run

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statlab/internal/experiment/models"
	"statlab/internal/stats"
	"statlab/pkg/domain"
)

func newTestRun() *models.Run {
	return &models.Run{
		ID:        domain.NewRunID(),
		Spec:      stats.SampleSpec{Mean: 0, StdDev: 1, Size: 3},
		Level:     domain.ConfidenceLevel95,
		Sample:    []float64{-0.5, 0.1, 0.7},
		Summary:   stats.Summary{Mean: 0.1, StdDev: 0.49},
		Interval:  stats.Interval{Lower: -0.45, Upper: 0.65},
		CreatedAt: time.Now(),
	}
}

func TestInMemoryRunStore(t *testing.T) {
	store := NewInMemoryRunStore()
	ctx := context.Background()

	t.Run("FindByID for missing run returns nil", func(t *testing.T) {
		res, err := store.FindByID(ctx, domain.NewRunID())
		require.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("Save then FindByID round-trips", func(t *testing.T) {
		r := newTestRun()
		require.NoError(t, store.Save(ctx, r))

		got, err := store.FindByID(ctx, r.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, r.ID, got.ID)
		assert.Equal(t, r.Sample, got.Sample)
	})

	t.Run("List returns newest first", func(t *testing.T) {
		store := NewInMemoryRunStore()
		first := newTestRun()
		second := newTestRun()
		require.NoError(t, store.Save(ctx, first))
		require.NoError(t, store.Save(ctx, second))

		runs, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, second.ID, runs[0].ID)
		assert.Equal(t, first.ID, runs[1].ID)
	})

	t.Run("DeleteAll reports count and empties the store", func(t *testing.T) {
		store := NewInMemoryRunStore()
		require.NoError(t, store.Save(ctx, newTestRun()))
		require.NoError(t, store.Save(ctx, newTestRun()))

		deleted, err := store.DeleteAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, deleted)

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, runs)
	})
}

func TestInMemoryRunStore_Concurrent(t *testing.T) {
	store := NewInMemoryRunStore()
	ctx := context.Background()

	const goroutines = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			r := newTestRun()
			_ = store.Save(ctx, r)
			_, _ = store.FindByID(ctx, r.ID)
			_, _ = store.List(ctx)
		}()
	}
	wg.Wait()

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, goroutines, count)
}
