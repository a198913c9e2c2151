// Package service implements repeated-sampling coverage simulations:
// drawing many independent samples, computing an interval for each, and
// reporting how often the intervals cover the true mean.
package service

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"statlab/internal/platform/config"
	"statlab/internal/simulation/metrics"
	"statlab/internal/stats"
	"statlab/pkg/domain"
	derrors "statlab/pkg/domain-errors"
	audit "statlab/pkg/platform/audit"
	"statlab/pkg/requestcontext"
)

// AuditPublisher emits audit events. Best-effort; implementations must
// not block the request path.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

type Service struct {
	limits         config.Limits
	workers        int
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

// WithWorkers overrides the trial worker count; defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

func New(limits config.Limits, opts ...Option) *Service {
	svc := &Service{
		limits:  limits,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Request carries validated parameters for one coverage simulation.
type Request struct {
	Mean       float64
	StdDev     float64
	SampleSize int
	Trials     int
	Level      domain.ConfidenceLevel
}

// Result summarizes a completed simulation.
type Result struct {
	Trials   int
	Covered  int
	Coverage float64
	Level    domain.ConfidenceLevel
	Elapsed  time.Duration
}

// Run executes req.Trials independent sample-and-interval trials against
// the population (req.Mean, req.StdDev) and counts how many intervals
// cover the true mean. Trials are split across a worker pool; each worker
// owns its own entropy source so workers never contend on a shared one.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if math.IsNaN(req.Mean) || math.IsInf(req.Mean, 0) {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "mean must be finite, got %g", req.Mean)
	}
	if math.IsNaN(req.StdDev) || math.IsInf(req.StdDev, 0) || req.StdDev <= 0 {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "standard deviation must be positive and finite, got %g", req.StdDev)
	}
	if req.SampleSize < 1 {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "sample size must be at least 1, got %d", req.SampleSize)
	}
	if req.Trials < 1 {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "trial count must be at least 1, got %d", req.Trials)
	}
	if s.limits.MaxSampleSize > 0 && req.SampleSize > s.limits.MaxSampleSize {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "sample size %d exceeds maximum %d", req.SampleSize, s.limits.MaxSampleSize)
	}
	if s.limits.MaxTrials > 0 && req.Trials > s.limits.MaxTrials {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "trial count %d exceeds maximum %d", req.Trials, s.limits.MaxTrials)
	}
	if !req.Level.IsValid() {
		return nil, derrors.Newf(derrors.CodeInvalidInput, "unsupported confidence level %g", float64(req.Level))
	}

	start := time.Now()

	workers := s.workers
	if workers > req.Trials {
		workers = req.Trials
	}

	g, ctx := errgroup.WithContext(ctx)
	counts := make([]int, workers)

	spec := stats.SampleSpec{Mean: req.Mean, StdDev: req.StdDev, Size: req.SampleSize}
	base := req.Trials / workers
	extra := req.Trials % workers

	for w := 0; w < workers; w++ {
		trials := base
		if w < extra {
			trials++
		}
		slot := w

		g.Go(func() error {
			sampler := stats.Sampler{
				Src: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
			}
			covered, err := runTrials(ctx, sampler, spec, req.Level, trials)
			if err != nil {
				return err
			}
			counts[slot] = covered
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	covered := 0
	for _, c := range counts {
		covered += c
	}

	result := &Result{
		Trials:   req.Trials,
		Covered:  covered,
		Coverage: float64(covered) / float64(req.Trials),
		Level:    req.Level,
		Elapsed:  time.Since(start),
	}

	s.metrics.ObserveSimulation(req.Level.String(), req.Trials, result.Elapsed)

	if s.logger != nil {
		s.logger.InfoContext(ctx, "coverage simulation completed",
			"request_id", requestcontext.RequestID(ctx),
			"trials", result.Trials,
			"covered", result.Covered,
			"coverage", result.Coverage,
			"confidence_level", req.Level,
			"duration_ms", result.Elapsed.Milliseconds(),
		)
	}
	if s.auditPublisher != nil {
		s.auditPublisher.Emit(ctx, audit.Event{
			Action:    audit.EventCoverageSimulated,
			Timestamp: requestcontext.Now(ctx),
			RequestID: requestcontext.RequestID(ctx),
			Detail: map[string]string{
				"trials":           strconv.Itoa(result.Trials),
				"covered":          strconv.Itoa(result.Covered),
				"confidence_level": req.Level.String(),
			},
		})
	}

	return result, nil
}

// runTrials executes one worker's share of trials, checking for
// cancellation between trials so long simulations stop promptly.
func runTrials(ctx context.Context, sampler stats.Sampler, spec stats.SampleSpec, level domain.ConfidenceLevel, trials int) (int, error) {
	covered := 0
	for i := 0; i < trials; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		sample, err := sampler.Generate(spec)
		if err != nil {
			return 0, err
		}
		summary, err := stats.Estimate(sample)
		if err != nil {
			return 0, err
		}
		interval, err := stats.ConfidenceInterval(summary, spec.Size, level)
		if err != nil {
			return 0, err
		}
		if interval.Contains(spec.Mean) {
			covered++
		}
	}
	return covered, nil
}
