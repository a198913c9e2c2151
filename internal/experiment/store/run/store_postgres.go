package run

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"statlab/internal/experiment/models"
	"statlab/pkg/domain"
)

// Schema creates the runs table. Applied by deployment migrations and by
// integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    id               UUID PRIMARY KEY,
    mean             DOUBLE PRECISION NOT NULL,
    std_dev          DOUBLE PRECISION NOT NULL,
    sample_size      INTEGER NOT NULL,
    confidence_level DOUBLE PRECISION NOT NULL,
    sample           JSONB NOT NULL,
    sample_mean      DOUBLE PRECISION NOT NULL,
    sample_std_dev   DOUBLE PRECISION NOT NULL,
    interval_lower   DOUBLE PRECISION NOT NULL,
    interval_upper   DOUBLE PRECISION NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at_idx ON runs (created_at DESC);
`

// PostgresRunStore persists runs in PostgreSQL for deployments that need
// durable history.
type PostgresRunStore struct {
	db *sql.DB
}

// NewPostgresRunStore constructs a PostgreSQL-backed run store.
func NewPostgresRunStore(db *sql.DB) *PostgresRunStore {
	return &PostgresRunStore{db: db}
}

func (s *PostgresRunStore) Save(ctx context.Context, run *models.Run) error {
	sample, err := json.Marshal(run.Sample)
	if err != nil {
		return fmt.Errorf("marshal sample: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, mean, std_dev, sample_size, confidence_level,
			sample, sample_mean, sample_std_dev,
			interval_lower, interval_upper, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		run.ID.String(),
		run.Spec.Mean,
		run.Spec.StdDev,
		run.Spec.Size,
		float64(run.Level),
		sample,
		run.Summary.Mean,
		run.Summary.StdDev,
		run.Interval.Lower,
		run.Interval.Upper,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (s *PostgresRunStore) FindByID(ctx context.Context, id domain.RunID) (*models.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, mean, std_dev, sample_size, confidence_level,
		       sample, sample_mean, sample_std_dev,
		       interval_lower, interval_upper, created_at
		FROM runs WHERE id = $1`,
		id.String(),
	)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}
	return run, nil
}

func (s *PostgresRunStore) List(ctx context.Context) ([]*models.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mean, std_dev, sample_size, confidence_level,
		       sample, sample_mean, sample_std_dev,
		       interval_lower, interval_upper, created_at
		FROM runs ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func (s *PostgresRunStore) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("delete runs: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted runs: %w", err)
	}
	return int(deleted), nil
}

func (s *PostgresRunStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	var (
		rawID     string
		rawLevel  float64
		rawSample []byte
		run       models.Run
	)
	err := row.Scan(
		&rawID,
		&run.Spec.Mean,
		&run.Spec.StdDev,
		&run.Spec.Size,
		&rawLevel,
		&rawSample,
		&run.Summary.Mean,
		&run.Summary.StdDev,
		&run.Interval.Lower,
		&run.Interval.Upper,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	run.ID, err = domain.ParseRunID(rawID)
	if err != nil {
		return nil, fmt.Errorf("stored run has invalid ID %q: %w", rawID, err)
	}
	run.Level, err = domain.ParseConfidenceLevel(rawLevel)
	if err != nil {
		return nil, fmt.Errorf("stored run %s has invalid confidence level: %w", rawID, err)
	}
	if err := json.Unmarshal(rawSample, &run.Sample); err != nil {
		return nil, fmt.Errorf("unmarshal sample for run %s: %w", rawID, err)
	}
	return &run, nil
}
