package service

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"statlab/internal/platform/config"
	"statlab/pkg/domain"
	derrors "statlab/pkg/domain-errors"
	audit "statlab/pkg/platform/audit"
)

// capturePublisher records emitted audit events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []audit.Event
}

func (p *capturePublisher) Emit(_ context.Context, event audit.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) Events() []audit.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]audit.Event, len(p.events))
	copy(out, p.events)
	return out
}

type ServiceSuite struct {
	suite.Suite
	publisher *capturePublisher
	service   *Service
}

func (s *ServiceSuite) SetupTest() {
	s.publisher = &capturePublisher{}
	s.service = New(config.Limits{
		MaxSampleSize: 1_000,
		MaxTrials:     20_000,
	}, WithAuditPublisher(s.publisher))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

// =============================================================================
// Validation Tests
// =============================================================================

func (s *ServiceSuite) TestRun_RejectsNonPositiveStdDev() {
	_, err := s.service.Run(context.Background(), Request{
		StdDev:     0,
		SampleSize: 10,
		Trials:     10,
		Level:      domain.ConfidenceLevel95,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), derrors.HasCode(err, derrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestRun_RejectsNonFiniteParams() {
	for _, req := range []Request{
		{Mean: math.NaN(), StdDev: 1, SampleSize: 10, Trials: 10, Level: domain.ConfidenceLevel95},
		{Mean: math.Inf(1), StdDev: 1, SampleSize: 10, Trials: 10, Level: domain.ConfidenceLevel95},
		{Mean: 0, StdDev: math.NaN(), SampleSize: 10, Trials: 10, Level: domain.ConfidenceLevel95},
		{Mean: 0, StdDev: math.Inf(1), SampleSize: 10, Trials: 10, Level: domain.ConfidenceLevel95},
	} {
		_, err := s.service.Run(context.Background(), req)
		require.Error(s.T(), err, "mean %g sd %g", req.Mean, req.StdDev)
		assert.True(s.T(), derrors.HasCode(err, derrors.CodeInvalidInput))
	}
}

func (s *ServiceSuite) TestRun_RejectsZeroTrials() {
	_, err := s.service.Run(context.Background(), Request{
		StdDev:     1,
		SampleSize: 10,
		Trials:     0,
		Level:      domain.ConfidenceLevel95,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), derrors.HasCode(err, derrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestRun_RejectsTrialsOverCap() {
	_, err := s.service.Run(context.Background(), Request{
		StdDev:     1,
		SampleSize: 10,
		Trials:     20_001,
		Level:      domain.ConfidenceLevel95,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), derrors.HasCode(err, derrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestRun_RejectsUnparsedLevel() {
	_, err := s.service.Run(context.Background(), Request{
		StdDev:     1,
		SampleSize: 10,
		Trials:     10,
		Level:      domain.ConfidenceLevel(0.80),
	})
	require.Error(s.T(), err)
	assert.True(s.T(), derrors.HasCode(err, derrors.CodeInvalidInput))
}

// =============================================================================
// Simulation Behavior Tests
// =============================================================================

func (s *ServiceSuite) TestRun_CountsAllTrials() {
	result, err := s.service.Run(context.Background(), Request{
		Mean:       0,
		StdDev:     1,
		SampleSize: 30,
		Trials:     200,
		Level:      domain.ConfidenceLevel95,
	})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 200, result.Trials)
	assert.GreaterOrEqual(s.T(), result.Covered, 0)
	assert.LessOrEqual(s.T(), result.Covered, 200)
	assert.InDelta(s.T(), float64(result.Covered)/200.0, result.Coverage, 1e-12)
}

// Long-run coverage should land near the nominal level. 5000 trials
// keeps the binomial noise well inside the asserted band.
func (s *ServiceSuite) TestRun_CoverageNearNominalLevel() {
	if testing.Short() {
		s.T().Skip("skipping statistical coverage test in short mode")
	}

	result, err := s.service.Run(context.Background(), Request{
		Mean:       50,
		StdDev:     10,
		SampleSize: 100,
		Trials:     5_000,
		Level:      domain.ConfidenceLevel95,
	})
	require.NoError(s.T(), err)

	assert.Greater(s.T(), result.Coverage, 0.90,
		"95%% intervals should cover the true mean well over 90%% of the time")
	assert.Less(s.T(), result.Coverage, 0.99,
		"coverage materially above nominal suggests intervals are too wide")
}

func (s *ServiceSuite) TestRun_SingleTrial() {
	result, err := s.service.Run(context.Background(), Request{
		Mean:       0,
		StdDev:     1,
		SampleSize: 5,
		Trials:     1,
		Level:      domain.ConfidenceLevel90,
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, result.Trials)
}

func (s *ServiceSuite) TestRun_CancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.service.Run(ctx, Request{
		Mean:       0,
		StdDev:     1,
		SampleSize: 50,
		Trials:     1_000,
		Level:      domain.ConfidenceLevel95,
	})
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, context.Canceled)
}

func (s *ServiceSuite) TestRun_EmitsAuditEvent() {
	_, err := s.service.Run(context.Background(), Request{
		Mean:       0,
		StdDev:     1,
		SampleSize: 10,
		Trials:     50,
		Level:      domain.ConfidenceLevel99,
	})
	require.NoError(s.T(), err)

	events := s.publisher.Events()
	require.Len(s.T(), events, 1)
	assert.Equal(s.T(), audit.EventCoverageSimulated, events[0].Action)
	assert.Equal(s.T(), "50", events[0].Detail["trials"])
}

func (s *ServiceSuite) TestRun_SingleWorkerMatchesTrialCount() {
	svc := New(config.Limits{MaxTrials: 1_000}, WithWorkers(1))

	result, err := svc.Run(context.Background(), Request{
		Mean:       0,
		StdDev:     1,
		SampleSize: 10,
		Trials:     100,
		Level:      domain.ConfidenceLevel95,
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 100, result.Trials)
}
