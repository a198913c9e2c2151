// Package handler exposes normal density curves over HTTP.
package handler

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"statlab/internal/stats"
	derrors "statlab/pkg/domain-errors"
	"statlab/pkg/platform/httputil"
	"statlab/pkg/requestcontext"
)

// Service computes density curves.
type Service interface {
	Curve(ctx context.Context, mean, stdDev float64, intervals int) ([]stats.CurvePoint, error)
}

// CurveResponse is the wire form of GET /v1/density.
type CurveResponse struct {
	Mean   float64            `json:"mean"`
	StdDev float64            `json:"std_dev"`
	Points []stats.CurvePoint `json:"points"`
}

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

// Register mounts density endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/density", h.HandleCurve)
}

// HandleCurve handles GET /v1/density requests. Query parameters: mean,
// stddev (required), points (optional, defaults to the standard curve
// resolution).
func (h *Handler) HandleCurve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query()

	mean, err := parseFloatParam(query.Get("mean"), "mean")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	stdDev, err := parseFloatParam(query.Get("stddev"), "stddev")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	points := 0
	if raw := query.Get("points"); raw != "" {
		points, err = strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, derrors.Newf(derrors.CodeInvalidInput, "points must be an integer, got %q", raw))
			return
		}
	}

	curve, err := h.service.Curve(ctx, mean, stdDev, points)
	if err != nil {
		// Rejected parameters are the caller's mistake; reserve error
		// level for server-side failures.
		logFn := h.logger.ErrorContext
		if derrors.ToHTTPStatus(derrors.CodeOf(err)) < http.StatusInternalServerError {
			logFn = h.logger.WarnContext
		}
		logFn(ctx, "density curve failed",
			"request_id", requestcontext.RequestID(ctx),
			"mean", mean,
			"stddev", stdDev,
			"points", points,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, CurveResponse{
		Mean:   mean,
		StdDev: stdDev,
		Points: curve,
	})
}

func parseFloatParam(raw, name string) (float64, error) {
	if raw == "" {
		return 0, derrors.Newf(derrors.CodeInvalidInput, "%s query parameter is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, derrors.Newf(derrors.CodeInvalidInput, "%s must be a number, got %q", name, raw)
	}
	// ParseFloat accepts "NaN" and "+Inf"; neither is a usable curve
	// parameter.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, derrors.Newf(derrors.CodeInvalidInput, "%s must be a finite number, got %q", name, raw)
	}
	return v, nil
}
