package service

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	runStore "statlab/internal/experiment/store/run"
	"statlab/internal/platform/config"
	"statlab/internal/stats"
	"statlab/pkg/domain"
	derrors "statlab/pkg/domain-errors"
	audit "statlab/pkg/platform/audit"
	"statlab/pkg/requestcontext"
)

// =============================================================================
// Experiment Service Test Suite
// =============================================================================
// The service composes sampling, estimation, interval math, persistence,
// and audit emission; unit tests over the in-memory store exercise that
// composition without container dependencies.

type capturePublisher struct {
	events []audit.Event
}

func (p *capturePublisher) Emit(_ context.Context, event audit.Event) {
	p.events = append(p.events, event)
}

type ExperimentServiceSuite struct {
	suite.Suite
	store     *runStore.InMemoryRunStore
	publisher *capturePublisher
	service   *Service
}

func TestExperimentServiceSuite(t *testing.T) {
	suite.Run(t, new(ExperimentServiceSuite))
}

func (s *ExperimentServiceSuite) SetupTest() {
	s.store = runStore.NewInMemoryRunStore()
	s.publisher = &capturePublisher{}

	var err error
	s.service, err = New(s.store,
		config.Limits{MaxSampleSize: 10_000, MaxTrials: 1000},
		WithSampler(stats.Sampler{Src: rand.New(rand.NewPCG(7, 11))}),
		WithAuditPublisher(s.publisher),
	)
	s.Require().NoError(err)
}

// =============================================================================
// Constructor Tests (Invariant Enforcement)
// =============================================================================

func (s *ExperimentServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil, config.Limits{})
		s.Error(err)
		s.Contains(err.Error(), "run store is required")
	})

	s.Run("valid store returns configured service", func() {
		svc, err := New(s.store, config.Limits{})
		s.NoError(err)
		s.NotNil(svc)
	})
}

// =============================================================================
// Generate Tests
// =============================================================================

func (s *ExperimentServiceSuite) TestGenerate() {
	ctx := context.Background()

	s.Run("produces a persisted run with interval around the mean", func() {
		run, err := s.service.Generate(ctx, GenerateRequest{
			Mean: 5, StdDev: 2, Size: 400, Level: domain.ConfidenceLevel95,
		})
		s.Require().NoError(err)

		s.Len(run.Sample, 400)
		s.InDelta(5.0, run.Summary.Mean, 0.5)
		s.LessOrEqual(run.Interval.Lower, run.Summary.Mean)
		s.GreaterOrEqual(run.Interval.Upper, run.Summary.Mean)
		// half-width 1.96*sd/20 with sd near 2 sits near 0.196
		s.InDelta(0.392, run.Interval.Width(), 0.08)
		s.False(run.ID.IsNil())

		stored, err := s.store.FindByID(ctx, run.ID)
		s.Require().NoError(err)
		s.NotNil(stored)
	})

	s.Run("uses request-scoped time for the run timestamp", func() {
		fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		run, err := s.service.Generate(requestcontext.WithTime(ctx, fixed), GenerateRequest{
			Mean: 0, StdDev: 1, Size: 10, Level: domain.ConfidenceLevel90,
		})
		s.Require().NoError(err)
		s.True(run.CreatedAt.Equal(fixed))
	})

	s.Run("emits run_generated audit event", func() {
		s.publisher.events = nil
		run, err := s.service.Generate(ctx, GenerateRequest{
			Mean: 0, StdDev: 1, Size: 10, Level: domain.ConfidenceLevel95,
		})
		s.Require().NoError(err)

		s.Require().Len(s.publisher.events, 1)
		s.Equal(audit.EventRunGenerated, s.publisher.events[0].Action)
		s.Equal(run.ID, s.publisher.events[0].RunID)
		s.Equal("10", s.publisher.events[0].Detail["sample_size"])
	})

	s.Run("rejects invalid parameters", func() {
		_, err := s.service.Generate(ctx, GenerateRequest{Mean: 0, StdDev: 0, Size: 10, Level: domain.ConfidenceLevel95})
		s.Error(err)
		s.True(derrors.HasCode(err, derrors.CodeInvalidInput))

		_, err = s.service.Generate(ctx, GenerateRequest{Mean: 0, StdDev: 1, Size: 0, Level: domain.ConfidenceLevel95})
		s.Error(err)
		s.True(derrors.HasCode(err, derrors.CodeInvalidInput))
	})

	s.Run("enforces the sample size cap", func() {
		_, err := s.service.Generate(ctx, GenerateRequest{Mean: 0, StdDev: 1, Size: 10_001, Level: domain.ConfidenceLevel95})
		s.Error(err)
		s.True(derrors.HasCode(err, derrors.CodeInvalidInput))
		s.Contains(err.Error(), "exceeds maximum")
	})
}

// =============================================================================
// Get / List / Clear Tests
// =============================================================================

func (s *ExperimentServiceSuite) TestGet() {
	ctx := context.Background()

	s.Run("missing run returns not found", func() {
		_, err := s.service.Get(ctx, domain.NewRunID())
		s.Error(err)
		s.True(derrors.HasCode(err, derrors.CodeNotFound))
	})

	s.Run("existing run is returned", func() {
		run, err := s.service.Generate(ctx, GenerateRequest{Mean: 1, StdDev: 1, Size: 5, Level: domain.ConfidenceLevel90})
		s.Require().NoError(err)

		got, err := s.service.Get(ctx, run.ID)
		s.NoError(err)
		s.Equal(run.ID, got.ID)
	})
}

func (s *ExperimentServiceSuite) TestList() {
	ctx := context.Background()

	first, err := s.service.Generate(ctx, GenerateRequest{Mean: 1, StdDev: 1, Size: 5, Level: domain.ConfidenceLevel90})
	s.Require().NoError(err)
	second, err := s.service.Generate(ctx, GenerateRequest{Mean: 2, StdDev: 1, Size: 5, Level: domain.ConfidenceLevel90})
	s.Require().NoError(err)

	runs, err := s.service.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(runs, 2)
	s.Equal(second.ID, runs[0].ID)
	s.Equal(first.ID, runs[1].ID)
}

func (s *ExperimentServiceSuite) TestClear() {
	ctx := context.Background()

	for range 3 {
		_, err := s.service.Generate(ctx, GenerateRequest{Mean: 0, StdDev: 1, Size: 5, Level: domain.ConfidenceLevel95})
		s.Require().NoError(err)
	}
	s.publisher.events = nil

	deleted, err := s.service.Clear(ctx)
	s.Require().NoError(err)
	s.Equal(3, deleted)

	runs, err := s.service.List(ctx)
	s.Require().NoError(err)
	s.Empty(runs)

	s.Require().Len(s.publisher.events, 1)
	s.Equal(audit.EventHistoryCleared, s.publisher.events[0].Action)
	s.Equal("3", s.publisher.events[0].Detail["deleted"])
}
