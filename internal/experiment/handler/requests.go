package handler

import (
	"math"

	"statlab/internal/experiment/service"
	"statlab/pkg/domain"
	derrors "statlab/pkg/domain-errors"
)

// GenerateRunRequest is the wire form of POST /v1/runs.
type GenerateRunRequest struct {
	Mean            float64 `json:"mean"`
	StdDev          float64 `json:"std_dev"`
	SampleSize      int     `json:"sample_size"`
	ConfidenceLevel float64 `json:"confidence_level"`

	parsedLevel domain.ConfidenceLevel
}

// Validate checks field domains and parses the confidence level.
// Called by httputil.DecodeAndPrepare before the handler sees the request.
func (r *GenerateRunRequest) Validate() error {
	if math.IsNaN(r.Mean) || math.IsInf(r.Mean, 0) {
		return derrors.Newf(derrors.CodeInvalidInput, "mean must be finite, got %g", r.Mean)
	}
	if math.IsNaN(r.StdDev) || math.IsInf(r.StdDev, 0) || r.StdDev <= 0 {
		return derrors.Newf(derrors.CodeInvalidInput, "std_dev must be positive and finite, got %g", r.StdDev)
	}
	if r.SampleSize < 1 {
		return derrors.Newf(derrors.CodeInvalidInput, "sample_size must be at least 1, got %d", r.SampleSize)
	}

	level, err := domain.ParseConfidenceLevel(r.ConfidenceLevel)
	if err != nil {
		return err
	}
	r.parsedLevel = level
	return nil
}

// ParsedLevel returns the confidence level validated by Validate.
func (r *GenerateRunRequest) ParsedLevel() domain.ConfidenceLevel {
	return r.parsedLevel
}

// ToDomain builds the service request.
func (r *GenerateRunRequest) ToDomain() service.GenerateRequest {
	return service.GenerateRequest{
		Mean:   r.Mean,
		StdDev: r.StdDev,
		Size:   r.SampleSize,
		Level:  r.parsedLevel,
	}
}
