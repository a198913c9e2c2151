// Package ports declares the interfaces the experiment service depends
// on, keeping service logic decoupled from store and audit wiring.
package ports

import (
	"context"
	"log/slog"

	"statlab/internal/experiment/models"
	"statlab/pkg/domain"
	audit "statlab/pkg/platform/audit"
	"statlab/pkg/requestcontext"
)

// RunStore persists experiment runs. FindByID returns (nil, nil) for
// missing runs; the service layer translates that into a not-found error.
type RunStore interface {
	Save(ctx context.Context, run *models.Run) error
	FindByID(ctx context.Context, id domain.RunID) (*models.Run, error)
	// List returns runs newest first.
	List(ctx context.Context) ([]*models.Run, error)
	// DeleteAll removes every run and reports how many were deleted.
	DeleteAll(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

// AuditPublisher emits audit events. Best-effort; implementations must
// not block the request path.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// LogAudit logs an action and forwards it to the audit publisher when one
// is wired. Shared by services so logging and auditing stay consistent.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, action audit.AuditEvent, runID domain.RunID, detail map[string]string) {
	if logger != nil {
		logger.InfoContext(ctx, string(action),
			"request_id", requestcontext.RequestID(ctx),
			"run_id", runID.String(),
		)
	}
	if publisher != nil {
		publisher.Emit(ctx, audit.Event{
			Action:    action,
			Timestamp: requestcontext.Now(ctx),
			RunID:     runID,
			RequestID: requestcontext.RequestID(ctx),
			Detail:    detail,
		})
	}
}
