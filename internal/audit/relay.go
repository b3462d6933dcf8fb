package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"backoffice/internal/platform/metrics"
	txcontext "backoffice/pkg/platform/tx"
)

// Relay moves outbox entries to a Sink. Each batch is read, published and
// marked inside one transaction; a failed publish leaves the batch pending.
type Relay struct {
	outbox   Outbox
	sink     Sink
	tx       txcontext.Runner
	interval time.Duration
	batch    int
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type RelayOption func(*Relay)

func WithInterval(d time.Duration) RelayOption {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) RelayOption {
	return func(r *Relay) {
		if n > 0 {
			r.batch = n
		}
	}
}

func WithRelayLogger(logger *slog.Logger) RelayOption {
	return func(r *Relay) { r.logger = logger }
}

func WithRelayMetrics(m *metrics.Metrics) RelayOption {
	return func(r *Relay) { r.metrics = m }
}

func NewRelay(outbox Outbox, sink Sink, tx txcontext.Runner, opts ...RelayOption) *Relay {
	r := &Relay{
		outbox:   outbox,
		sink:     sink,
		tx:       tx,
		interval: 2 * time.Second,
		batch:    100,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run relays until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil {
				r.logger.WarnContext(ctx, "audit relay batch failed", "error", err)
			}
		}
	}
}

// RelayOnce publishes one batch and returns how many events went out.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	var published int
	err := r.tx.RunInTx(ctx, func(txCtx context.Context) error {
		events, err := r.outbox.Pending(txCtx, r.batch)
		if err != nil || len(events) == 0 {
			return err
		}
		if err := r.sink.Publish(txCtx, events); err != nil {
			r.metrics.ObserveOutbox(0, len(events))
			return err
		}
		ids := make([]uuid.UUID, len(events))
		for i, e := range events {
			ids[i] = e.ID
		}
		if err := r.outbox.MarkPublished(txCtx, ids, time.Now()); err != nil {
			return err
		}
		published = len(events)
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.metrics.ObserveOutbox(published, 0)
	return published, nil
}
