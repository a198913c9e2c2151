package publisher

import (
	"context"
	"log/slog"
	"time"

	audit "statlab/pkg/platform/audit"
)

// Publisher hands audit events to the background worker over a buffered
// channel. Emission is best-effort: when the buffer is full the event is
// dropped with a warning rather than stalling the request path.
type Publisher struct {
	outbox chan audit.Event
	logger *slog.Logger
}

// DefaultBufferSize bounds in-flight audit events.
const DefaultBufferSize = 256

type Option func(*Publisher)

func WithBufferSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.outbox = make(chan audit.Event, n)
		}
	}
}

func New(logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{
		outbox: make(chan audit.Event, DefaultBufferSize),
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Events exposes the outbox for the worker to consume.
func (p *Publisher) Events() <-chan audit.Event {
	return p.outbox
}

// Emit enqueues an event, stamping the timestamp when unset.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.outbox <- event:
	default:
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit buffer full, dropping event",
				"action", event.Action,
				"request_id", event.RequestID,
			)
		}
	}
}
