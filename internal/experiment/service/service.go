// Package service implements experiment-run operations: generating a
// sample with its estimates and interval, reading history, and clearing it.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"statlab/internal/experiment/metrics"
	"statlab/internal/experiment/models"
	"statlab/internal/experiment/ports"
	"statlab/internal/platform/config"
	"statlab/internal/stats"
	"statlab/pkg/domain"
	derrors "statlab/pkg/domain-errors"
	audit "statlab/pkg/platform/audit"
	"statlab/pkg/requestcontext"
)

// Type aliases for shared interfaces.
type (
	Store          = ports.RunStore
	AuditPublisher = ports.AuditPublisher
)

type Service struct {
	store          Store
	sampler        stats.Sampler
	limits         config.Limits
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithSampler injects an entropy source; tests use seeded samplers.
func WithSampler(sampler stats.Sampler) Option {
	return func(s *Service) {
		s.sampler = sampler
	}
}

func New(store Store, limits config.Limits, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("run store is required")
	}

	svc := &Service{
		store:  store,
		limits: limits,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// GenerateRequest carries validated parameters for one run.
type GenerateRequest struct {
	Mean   float64
	StdDev float64
	Size   int
	Level  domain.ConfidenceLevel
}

// Generate draws a sample, estimates it, computes the confidence interval,
// and persists the run.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*models.Run, error) {
	start := time.Now()

	if s.limits.MaxSampleSize > 0 && req.Size > s.limits.MaxSampleSize {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "sample size %d exceeds maximum %d", req.Size, s.limits.MaxSampleSize)
	}

	spec := stats.SampleSpec{Mean: req.Mean, StdDev: req.StdDev, Size: req.Size}
	sample, err := s.sampler.Generate(spec)
	if err != nil {
		return nil, err
	}

	summary, err := stats.Estimate(sample)
	if err != nil {
		return nil, err
	}

	interval, err := stats.ConfidenceInterval(summary, spec.Size, req.Level)
	if err != nil {
		return nil, err
	}

	run := &models.Run{
		ID:        domain.NewRunID(),
		Spec:      spec,
		Level:     req.Level,
		Sample:    sample,
		Summary:   summary,
		Interval:  interval,
		CreatedAt: requestcontext.Now(ctx),
	}

	if err := s.store.Save(ctx, run); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to save run")
	}

	s.metrics.IncrementGenerated(run.Level.String())
	s.metrics.ObserveGenerateLatency(time.Since(start))

	ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventRunGenerated, run.ID, map[string]string{
		"confidence_level": run.Level.String(),
		"sample_size":      strconv.Itoa(spec.Size),
	})

	return run, nil
}

// Get returns a single run by ID.
func (s *Service) Get(ctx context.Context, id domain.RunID) (*models.Run, error) {
	run, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to load run")
	}
	if run == nil {
		return nil, derrors.Newf(derrors.CodeNotFound, "run %s not found", id)
	}
	return run, nil
}

// List returns all runs, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Run, error) {
	runs, err := s.store.List(ctx)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to list runs")
	}
	return runs, nil
}

// Clear removes all run history and reports how many runs were deleted.
func (s *Service) Clear(ctx context.Context) (int, error) {
	deleted, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, derrors.Wrap(err, derrors.CodeInternal, "failed to clear runs")
	}

	s.metrics.AddCleared(deleted)

	ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventHistoryCleared, domain.RunID{}, map[string]string{
		"deleted": strconv.Itoa(deleted),
	})

	return deleted, nil
}
