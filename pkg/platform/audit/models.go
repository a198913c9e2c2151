// Package audit captures structured events for teaching-session history.
// Events flow from domain services through a buffered publisher to a
// background worker that persists them, keeping the request path free of
// storage latency.
package audit

import (
	"context"
	"time"

	id "statlab/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Action    AuditEvent `json:"action"`
	Timestamp time.Time  `json:"timestamp"`
	// RunID links the event to an experiment run when one exists.
	RunID id.RunID `json:"run_id,omitzero"`
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string `json:"request_id,omitempty"`
	// Detail carries small, action-specific values (confidence level,
	// sample size, cleared count). Values must be printable; no PII
	// exists in this system.
	Detail map[string]string `json:"detail,omitempty"`
}

// AuditEvent enumerates the actions recorded by the service.
type AuditEvent string

const (
	// Run events
	EventRunGenerated AuditEvent = "run_generated"

	// History events
	EventHistoryCleared AuditEvent = "history_cleared"

	// Simulation events
	EventCoverageSimulated AuditEvent = "coverage_simulated"
)

// Store persists audit events. Append-only; implementations must be safe
// for concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByRun(ctx context.Context, runID id.RunID) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
