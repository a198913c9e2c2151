// Package cache provides a Redis-backed curve cache so repeated plot
// requests for the same parameters skip recomputation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"statlab/internal/stats"
)

// Redis key prefix for serialized curves
const curveKeyPrefix = "statlab:curve:"

// DefaultTTL bounds staleness for cached curves. Curves are pure
// functions of their key, so the TTL only bounds memory use.
const DefaultTTL = 5 * time.Minute

type RedisCurveCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisCurveCacheOption func(*RedisCurveCache)

// WithTTL overrides the cache entry lifetime.
func WithTTL(ttl time.Duration) RedisCurveCacheOption {
	return func(c *RedisCurveCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewRedisCurveCache constructs a Redis-backed curve cache.
func NewRedisCurveCache(client *redis.Client, opts ...RedisCurveCacheOption) *RedisCurveCache {
	c := &RedisCurveCache{
		client: client,
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func curveKey(mean, stdDev float64, points int) string {
	return fmt.Sprintf("%s%g:%g:%d", curveKeyPrefix, mean, stdDev, points)
}

// Get fetches a cached curve. Returns ok=false on a miss.
func (c *RedisCurveCache) Get(ctx context.Context, mean, stdDev float64, points int) ([]stats.CurvePoint, bool, error) {
	data, err := c.client.Get(ctx, curveKey(mean, stdDev, points)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("fetching cached curve: %w", err)
	}

	var curve []stats.CurvePoint
	if err := json.Unmarshal(data, &curve); err != nil {
		return nil, false, fmt.Errorf("decoding cached curve: %w", err)
	}
	return curve, true, nil
}

// Set stores a computed curve with the configured TTL.
func (c *RedisCurveCache) Set(ctx context.Context, mean, stdDev float64, points int, curve []stats.CurvePoint) error {
	data, err := json.Marshal(curve)
	if err != nil {
		return fmt.Errorf("encoding curve: %w", err)
	}
	if err := c.client.Set(ctx, curveKey(mean, stdDev, points), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("storing curve: %w", err)
	}
	return nil
}
