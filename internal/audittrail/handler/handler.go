// Package handler exposes the audit trail for the session history view.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"statlab/pkg/domain"
	derrors "statlab/pkg/domain-errors"
	audit "statlab/pkg/platform/audit"
	"statlab/pkg/platform/httputil"
	"statlab/pkg/requestcontext"
)

// DefaultLimit caps recent-event listings when the caller does not
// specify one.
const DefaultLimit = 50

// EventsResponse is the wire form of audit listings.
type EventsResponse struct {
	Events []audit.Event `json:"events"`
}

type Handler struct {
	store  audit.Store
	logger *slog.Logger
}

func New(store audit.Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// Register mounts audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/audit", h.HandleListRecent)
	r.Get("/v1/runs/{runID}/audit", h.HandleListByRun)
}

// HandleListRecent handles GET /v1/audit requests. Optional limit query
// parameter; defaults to DefaultLimit.
func (h *Handler) HandleListRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, derrors.Newf(derrors.CodeInvalidInput, "limit must be a positive integer, got %q", raw))
			return
		}
		limit = n
	}

	events, err := h.store.ListRecent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, derrors.Wrap(err, derrors.CodeInternal, "failed to list audit events"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, EventsResponse{Events: events})
}

// HandleListByRun handles GET /v1/runs/{runID}/audit requests.
func (h *Handler) HandleListByRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	runID, err := domain.ParseRunID(chi.URLParam(r, "runID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.store.ListByRun(ctx, runID)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"run_id", runID,
			"error", err,
		)
		httputil.WriteError(w, derrors.Wrap(err, derrors.CodeInternal, "failed to list audit events"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, EventsResponse{Events: events})
}
