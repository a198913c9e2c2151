package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statlab/internal/platform/config"
	"statlab/internal/stats"
	derrors "statlab/pkg/domain-errors"
)

// mapCache is an in-memory Cache for tests.
type mapCache struct {
	entries map[string][]stats.CurvePoint
	gets    int
	sets    int
	failing bool
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]stats.CurvePoint)}
}

func (c *mapCache) key(mean, stdDev float64, points int) string {
	return fmt.Sprintf("%g:%g:%d", mean, stdDev, points)
}

func (c *mapCache) Get(_ context.Context, mean, stdDev float64, points int) ([]stats.CurvePoint, bool, error) {
	c.gets++
	if c.failing {
		return nil, false, errors.New("cache unavailable")
	}
	curve, ok := c.entries[c.key(mean, stdDev, points)]
	return curve, ok, nil
}

func (c *mapCache) Set(_ context.Context, mean, stdDev float64, points int, curve []stats.CurvePoint) error {
	c.sets++
	if c.failing {
		return errors.New("cache unavailable")
	}
	c.entries[c.key(mean, stdDev, points)] = curve
	return nil
}

func TestCurveWithoutCache(t *testing.T) {
	svc := New(config.Limits{})

	curve, err := svc.Curve(context.Background(), 0, 1, 0)
	require.NoError(t, err)
	assert.Len(t, curve, stats.DefaultCurveIntervals+1)
}

func TestCurvePopulatesAndHitsCache(t *testing.T) {
	cache := newMapCache()
	svc := New(config.Limits{}, WithCache(cache))

	first, err := svc.Curve(context.Background(), 5, 2, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Curve(context.Background(), 5, 2, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "second request should be served from cache")
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, first, second)
}

func TestCurveDistinctParametersMiss(t *testing.T) {
	cache := newMapCache()
	svc := New(config.Limits{}, WithCache(cache))

	_, err := svc.Curve(context.Background(), 0, 1, 100)
	require.NoError(t, err)
	_, err = svc.Curve(context.Background(), 0, 1, 50)
	require.NoError(t, err)

	assert.Equal(t, 2, cache.sets)
}

func TestCurveCacheFailureFallsThrough(t *testing.T) {
	cache := newMapCache()
	cache.failing = true
	svc := New(config.Limits{}, WithCache(cache))

	curve, err := svc.Curve(context.Background(), 0, 1, 0)
	require.NoError(t, err, "cache failure must not fail the request")
	assert.Len(t, curve, stats.DefaultCurveIntervals+1)
}

func TestCurveRejectsResolutionOverCap(t *testing.T) {
	svc := New(config.Limits{MaxCurvePoints: 200})

	_, err := svc.Curve(context.Background(), 0, 1, 201)
	require.Error(t, err)
	assert.True(t, derrors.HasCode(err, derrors.CodeInvalidInput))
}

func TestCurveRejectsNonPositiveStdDev(t *testing.T) {
	svc := New(config.Limits{})

	_, err := svc.Curve(context.Background(), 0, -1, 0)
	require.Error(t, err)
	assert.True(t, derrors.HasCode(err, derrors.CodeInvalidInput))
}
