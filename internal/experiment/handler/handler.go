package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"statlab/internal/experiment/models"
	"statlab/internal/experiment/service"
	"statlab/pkg/domain"
	derrors "statlab/pkg/domain-errors"
	"statlab/pkg/platform/httputil"
	"statlab/pkg/requestcontext"
)

// Service defines the interface for experiment-run operations.
type Service interface {
	Generate(ctx context.Context, req service.GenerateRequest) (*models.Run, error)
	Get(ctx context.Context, id domain.RunID) (*models.Run, error)
	List(ctx context.Context) ([]*models.Run, error)
	Clear(ctx context.Context) (int, error)
}

// Handler wires run endpoints to the experiment service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a run handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts run endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/runs", h.HandleGenerate)
	r.Get("/v1/runs", h.HandleList)
	r.Get("/v1/runs/{runID}", h.HandleGet)
	r.Delete("/v1/runs", h.HandleClear)
}

// HandleGenerate handles POST /v1/runs requests.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[GenerateRunRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	run, err := h.service.Generate(ctx, req.ToDomain())
	if err != nil {
		logFn := h.logger.ErrorContext
		if derrors.ToHTTPStatus(derrors.CodeOf(err)) < http.StatusInternalServerError {
			logFn = h.logger.WarnContext
		}
		logFn(ctx, "run generation failed",
			"request_id", requestID,
			"sample_size", req.SampleSize,
			"confidence_level", req.ConfidenceLevel,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "run generated",
		"request_id", requestID,
		"run_id", run.ID,
		"sample_size", run.Spec.Size,
		"confidence_level", run.Level,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, FromRun(run))
}

// HandleGet handles GET /v1/runs/{runID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	runID, err := domain.ParseRunID(chi.URLParam(r, "runID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	run, err := h.service.Get(ctx, runID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRun(run))
}

// HandleList handles GET /v1/runs requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	runs, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "run listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRuns(runs))
}

// HandleClear handles DELETE /v1/runs requests.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	deleted, err := h.service.Clear(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "history clear failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "history cleared",
		"request_id", requestID,
		"deleted", deleted,
	)

	httputil.WriteJSON(w, http.StatusOK, ClearRunsResponse{Deleted: deleted})
}
