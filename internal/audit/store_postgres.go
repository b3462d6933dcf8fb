package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	txcontext "backoffice/pkg/platform/tx"
)

// PostgresStore implements the transactional outbox. Events are written in the
// same transaction as the entity change and relayed to Kafka later.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	_, err = txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO audit_outbox (id, kind, action, entity_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.Kind, string(event.Action), event.EntityID, payload, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// Pending locks the returned rows until the surrounding transaction ends so
// that concurrent relays never publish the same entry.
func (s *PostgresStore) Pending(ctx context.Context, limit int) ([]Event, error) {
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, `
		SELECT payload FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		var e Event
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("decode outbox entry: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *PostgresStore) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	_, err := txcontext.Executor(ctx, s.db).ExecContext(ctx,
		`UPDATE audit_outbox SET published_at = $1 WHERE id = ANY($2::uuid[])`, at, pq.Array(raw))
	if err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}
