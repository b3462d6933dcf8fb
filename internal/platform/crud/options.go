package crud

import (
	"log/slog"

	"backoffice/internal/audit"
	"backoffice/internal/platform/cache"
	"backoffice/internal/platform/metrics"
	txcontext "backoffice/pkg/platform/tx"
)

type options struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   audit.Emitter
	cache   cache.Cache
	tx      txcontext.Runner
}

// Option configures the collaborators shared by every entity service.
type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithAudit(emitter audit.Emitter) Option {
	return func(o *options) { o.audit = emitter }
}

// WithCache enables read-through caching of Get by id.
func WithCache(c cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithTx sets the transaction runner. Without it writes are serialized by an
// in-process lock, which is only correct for the memory stores.
func WithTx(runner txcontext.Runner) Option {
	return func(o *options) { o.tx = runner }
}

func resolve(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.cache == nil {
		o.cache = cache.Noop{}
	}
	if o.tx == nil {
		o.tx = txcontext.NewLockRunner()
	}
	return o
}
