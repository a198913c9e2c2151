// Package service computes normal density curves for the plot frontend,
// with an optional cache in front of the computation.
package service

import (
	"context"
	"log/slog"

	"statlab/internal/platform/config"
	"statlab/internal/stats"
	derrors "statlab/pkg/domain-errors"
)

// Cache stores computed curves keyed by their parameters. Lookups are
// best-effort; a cache error is logged and treated as a miss.
type Cache interface {
	Get(ctx context.Context, mean, stdDev float64, points int) ([]stats.CurvePoint, bool, error)
	Set(ctx context.Context, mean, stdDev float64, points int, curve []stats.CurvePoint) error
}

type Service struct {
	limits config.Limits
	cache  Cache
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithCache puts a curve cache in front of the computation.
func WithCache(cache Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func New(limits config.Limits, opts ...Option) *Service {
	svc := &Service{limits: limits}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Curve returns density points for the normal distribution with the given
// parameters. intervals selects the curve resolution; 0 selects the
// default. Cached curves are returned when a cache is wired.
func (s *Service) Curve(ctx context.Context, mean, stdDev float64, intervals int) ([]stats.CurvePoint, error) {
	if s.limits.MaxCurvePoints > 0 && intervals > s.limits.MaxCurvePoints {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "curve resolution %d exceeds maximum %d", intervals, s.limits.MaxCurvePoints)
	}

	if s.cache != nil {
		curve, ok, err := s.cache.Get(ctx, mean, stdDev, intervals)
		if err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "curve cache lookup failed", "error", err)
		}
		if ok {
			return curve, nil
		}
	}

	curve, err := stats.DensityCurve(mean, stdDev, intervals)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, mean, stdDev, intervals, curve); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "curve cache store failed", "error", err)
		}
	}

	return curve, nil
}
