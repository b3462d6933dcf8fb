package audit

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	event       Event
	publishedAt time.Time
}

// MemoryStore is an in-process outbox.
type MemoryStore struct {
	mu      sync.Mutex
	entries []memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, memoryEntry{event: event})
	return nil
}

func (s *MemoryStore) Pending(_ context.Context, limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, e := range s.entries {
		if len(out) == limit {
			break
		}
		if e.publishedAt.IsZero() {
			out = append(out, e.event)
		}
	}
	return out, nil
}

func (s *MemoryStore) MarkPublished(_ context.Context, ids []uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if slices.Contains(ids, s.entries[i].event.ID) {
			s.entries[i].publishedAt = at
		}
	}
	return nil
}

// Events returns every appended event in order.
func (s *MemoryStore) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.event
	}
	return out
}
