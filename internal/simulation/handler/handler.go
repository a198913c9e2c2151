// Package handler exposes coverage simulations over HTTP.
package handler

import (
	"context"
	"log/slog"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"statlab/internal/simulation/service"
	"statlab/pkg/domain"
	derrors "statlab/pkg/domain-errors"
	"statlab/pkg/platform/httputil"
	"statlab/pkg/requestcontext"
)

// Service runs coverage simulations.
type Service interface {
	Run(ctx context.Context, req service.Request) (*service.Result, error)
}

// CoverageRequest is the wire form of POST /v1/simulations/coverage.
type CoverageRequest struct {
	Mean            float64 `json:"mean"`
	StdDev          float64 `json:"std_dev"`
	SampleSize      int     `json:"sample_size"`
	Trials          int     `json:"trials"`
	ConfidenceLevel float64 `json:"confidence_level"`

	parsedLevel domain.ConfidenceLevel
}

// Validate checks field domains and parses the confidence level.
func (r *CoverageRequest) Validate() error {
	if math.IsNaN(r.Mean) || math.IsInf(r.Mean, 0) {
		return derrors.Newf(derrors.CodeInvalidInput, "mean must be finite, got %g", r.Mean)
	}
	if math.IsNaN(r.StdDev) || math.IsInf(r.StdDev, 0) || r.StdDev <= 0 {
		return derrors.Newf(derrors.CodeInvalidInput, "std_dev must be positive and finite, got %g", r.StdDev)
	}
	if r.SampleSize < 1 {
		return derrors.Newf(derrors.CodeInvalidInput, "sample_size must be at least 1, got %d", r.SampleSize)
	}
	if r.Trials < 1 {
		return derrors.Newf(derrors.CodeInvalidInput, "trials must be at least 1, got %d", r.Trials)
	}

	level, err := domain.ParseConfidenceLevel(r.ConfidenceLevel)
	if err != nil {
		return err
	}
	r.parsedLevel = level
	return nil
}

// CoverageResponse reports a completed simulation.
type CoverageResponse struct {
	Trials          int     `json:"trials"`
	Covered         int     `json:"covered"`
	Coverage        float64 `json:"coverage"`
	ConfidenceLevel float64 `json:"confidence_level"`
	ElapsedMS       int64   `json:"elapsed_ms"`
}

// Handler wires simulation endpoints to the simulation service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts simulation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/simulations/coverage", h.HandleCoverage)
}

// HandleCoverage handles POST /v1/simulations/coverage requests.
func (h *Handler) HandleCoverage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CoverageRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Run(ctx, service.Request{
		Mean:       req.Mean,
		StdDev:     req.StdDev,
		SampleSize: req.SampleSize,
		Trials:     req.Trials,
		Level:      req.parsedLevel,
	})
	if err != nil {
		logFn := h.logger.ErrorContext
		if derrors.ToHTTPStatus(derrors.CodeOf(err)) < http.StatusInternalServerError {
			logFn = h.logger.WarnContext
		}
		logFn(ctx, "coverage simulation failed",
			"request_id", requestID,
			"trials", req.Trials,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, CoverageResponse{
		Trials:          result.Trials,
		Covered:         result.Covered,
		Coverage:        result.Coverage,
		ConfidenceLevel: float64(result.Level),
		ElapsedMS:       result.Elapsed.Milliseconds(),
	})
}
