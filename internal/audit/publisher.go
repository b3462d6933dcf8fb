package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"backoffice/pkg/requestcontext"
)

// Emitter is what services depend on.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Publisher stamps events with request metadata, logs them and appends them to
// the store.
type Publisher struct {
	store  Store
	logger *slog.Logger
}

func NewPublisher(store Store, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{store: store, logger: logger}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.Actor == "" {
		event.Actor = requestcontext.Actor(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.UserAgent == "" {
		event.UserAgent = requestcontext.UserAgent(ctx)
	}

	p.logger.InfoContext(ctx, string(event.Action),
		"log_type", "audit",
		"kind", event.Kind,
		"entity_id", event.EntityID,
		"actor", event.Actor,
		"request_id", event.RequestID,
	)
	if p.store == nil {
		return nil
	}
	return p.store.Append(ctx, event)
}
