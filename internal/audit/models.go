package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action is what happened to the entity.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionEnabled  Action = "enabled"
	ActionDisabled Action = "disabled"
)

// Event records one successful write. It is transport-agnostic so the same
// value is logged, stored in the outbox and published to Kafka.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Action    Action    `json:"action"`
	EntityID  int64     `json:"entityId"`
	Actor     string    `json:"actor,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	ClientIP  string    `json:"clientIp,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// Store appends events. Implementations join the transaction carried by ctx
// so that an aborted write leaves no event behind.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Outbox is the read side used by the relay.
type Outbox interface {
	// Pending returns up to limit unpublished events, oldest first.
	Pending(ctx context.Context, limit int) ([]Event, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// Sink delivers events outside the process.
type Sink interface {
	Publish(ctx context.Context, events []Event) error
}
