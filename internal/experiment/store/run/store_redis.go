package run

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"statlab/internal/experiment/models"
	"statlab/internal/stats"
	"statlab/pkg/domain"
)

const (
	// Redis key prefix for serialized runs
	runKeyPrefix = "statlab:run:"
	// List of run IDs, newest first
	runIndexKey = "statlab:runs"
)

// RedisRunStore is a Redis-backed run store for deployments where several
// instances share history. Runs are stored as JSON values with an ID list
// as the ordering index.
type RedisRunStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisRunStoreOption configures a RedisRunStore instance.
type RedisRunStoreOption func(*RedisRunStore)

// WithRunTTL expires stored runs after ttl. Zero keeps runs until cleared.
func WithRunTTL(ttl time.Duration) RedisRunStoreOption {
	return func(s *RedisRunStore) {
		s.ttl = ttl
	}
}

// NewRedisRunStore constructs a Redis-backed run store.
func NewRedisRunStore(client *redis.Client, opts ...RedisRunStoreOption) *RedisRunStore {
	s := &RedisRunStore{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// storedRun is the JSON wire form of a run.
type storedRun struct {
	ID              string    `json:"id"`
	Mean            float64   `json:"mean"`
	StdDev          float64   `json:"std_dev"`
	SampleSize      int       `json:"sample_size"`
	ConfidenceLevel float64   `json:"confidence_level"`
	Sample          []float64 `json:"sample"`
	SampleMean      float64   `json:"sample_mean"`
	SampleStdDev    float64   `json:"sample_std_dev"`
	IntervalLower   float64   `json:"interval_lower"`
	IntervalUpper   float64   `json:"interval_upper"`
	CreatedAt       time.Time `json:"created_at"`
}

func toStored(run *models.Run) storedRun {
	return storedRun{
		ID:              run.ID.String(),
		Mean:            run.Spec.Mean,
		StdDev:          run.Spec.StdDev,
		SampleSize:      run.Spec.Size,
		ConfidenceLevel: float64(run.Level),
		Sample:          run.Sample,
		SampleMean:      run.Summary.Mean,
		SampleStdDev:    run.Summary.StdDev,
		IntervalLower:   run.Interval.Lower,
		IntervalUpper:   run.Interval.Upper,
		CreatedAt:       run.CreatedAt,
	}
}

func fromStored(sr storedRun) (*models.Run, error) {
	id, err := domain.ParseRunID(sr.ID)
	if err != nil {
		return nil, fmt.Errorf("stored run has invalid ID %q: %w", sr.ID, err)
	}
	level, err := domain.ParseConfidenceLevel(sr.ConfidenceLevel)
	if err != nil {
		return nil, fmt.Errorf("stored run %s has invalid confidence level: %w", sr.ID, err)
	}
	return &models.Run{
		ID:        id,
		Spec:      stats.SampleSpec{Mean: sr.Mean, StdDev: sr.StdDev, Size: sr.SampleSize},
		Level:     level,
		Sample:    sr.Sample,
		Summary:   stats.Summary{Mean: sr.SampleMean, StdDev: sr.SampleStdDev},
		Interval:  stats.Interval{Lower: sr.IntervalLower, Upper: sr.IntervalUpper},
		CreatedAt: sr.CreatedAt,
	}, nil
}

func (s *RedisRunStore) Save(ctx context.Context, run *models.Run) error {
	payload, err := json.Marshal(toStored(run))
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, runKeyPrefix+run.ID.String(), payload, s.ttl)
	pipe.LPush(ctx, runIndexKey, run.ID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (s *RedisRunStore) FindByID(ctx context.Context, id domain.RunID) (*models.Run, error) {
	raw, err := s.client.Get(ctx, runKeyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}

	var sr storedRun
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, fmt.Errorf("unmarshal run %s: %w", id, err)
	}
	return fromStored(sr)
}

func (s *RedisRunStore) List(ctx context.Context) ([]*models.Run, error) {
	ids, err := s.client.LRange(ctx, runIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list run index: %w", err)
	}

	runs := make([]*models.Run, 0, len(ids))
	for _, rawID := range ids {
		raw, err := s.client.Get(ctx, runKeyPrefix+rawID).Bytes()
		if errors.Is(err, redis.Nil) {
			// Run expired but its index entry survived. Prune the
			// entry, best-effort, so Count converges.
			s.client.LRem(ctx, runIndexKey, 0, rawID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list run %s: %w", rawID, err)
		}
		var sr storedRun
		if err := json.Unmarshal(raw, &sr); err != nil {
			return nil, fmt.Errorf("unmarshal run %s: %w", rawID, err)
		}
		run, err := fromStored(sr)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (s *RedisRunStore) DeleteAll(ctx context.Context) (int, error) {
	ids, err := s.client.LRange(ctx, runIndexKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("read run index: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, rawID := range ids {
		keys = append(keys, runKeyPrefix+rawID)
	}
	keys = append(keys, runIndexKey)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("delete runs: %w", err)
	}
	return len(ids), nil
}

// Count returns the index length. With a TTL configured this can briefly
// overcount: expired runs keep their index entry until the next List or
// DeleteAll removes it.
func (s *RedisRunStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.LLen(ctx, runIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return int(n), nil
}
