// Package httptransport assembles the public HTTP surface: middleware,
// module handlers, health, and metrics.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"statlab/pkg/platform/httputil"
	"statlab/pkg/platform/middleware/requestid"
	"statlab/pkg/platform/middleware/requesttime"
)

// Registrar mounts a module's endpoints on the router.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports readiness of a backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Config carries router dependencies. Handlers are Registrars so the
// router stays ignorant of module internals; nil entries are skipped.
type Config struct {
	Logger   *slog.Logger
	Handlers []Registrar

	// Named dependency health checks for /healthz.
	HealthChecks map[string]HealthChecker
}

// NewRouter builds the chi router with shared middleware and all module
// endpoints mounted.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)

	for _, h := range cfg.Handlers {
		if h != nil {
			h.Register(r)
		}
	}

	r.Get("/healthz", handleHealth(cfg))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// handleHealth pings each configured dependency with a short deadline.
// A failing dependency degrades the response to 503.
func handleHealth(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK

		if len(cfg.HealthChecks) > 0 {
			resp.Checks = make(map[string]string, len(cfg.HealthChecks))
			for name, checker := range cfg.HealthChecks {
				if checker == nil {
					continue
				}
				if err := checker.Health(ctx); err != nil {
					resp.Checks[name] = "unavailable"
					resp.Status = "degraded"
					status = http.StatusServiceUnavailable
					if cfg.Logger != nil {
						cfg.Logger.ErrorContext(ctx, "health check failed",
							"dependency", name,
							"error", err,
						)
					}
					continue
				}
				resp.Checks[name] = "ok"
			}
		}

		httputil.WriteJSON(w, status, resp)
	}
}
