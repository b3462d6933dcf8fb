// Package cache is the optional read-through cache for reference data. Cache
// failures never fail a request: they are logged, counted and bypassed, and a
// circuit breaker stops calling Redis while it is unhealthy.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"backoffice/internal/platform/metrics"
	"backoffice/pkg/platform/circuit"
)

// Cache stores JSON encodable values by key.
type Cache interface {
	// Get decodes the cached value into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, value any)
	Delete(ctx context.Context, keys ...string)
}

// Noop never caches. It is used when REDIS_URL is not set.
type Noop struct{}

func (Noop) Get(context.Context, string, any) bool { return false }
func (Noop) Set(context.Context, string, any)      {}
func (Noop) Delete(context.Context, ...string)     {}

const keyPrefix = "backoffice:"

// Redis is a Cache over go-redis.
type Redis struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Redis)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Redis) { r.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Redis) { r.metrics = m }
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Redis) { r.breaker = b }
}

func NewRedis(client *redis.Client, ttl time.Duration, opts ...Option) *Redis {
	r := &Redis{
		client:  client,
		ttl:     ttl,
		breaker: circuit.New("redis-cache", circuit.WithFailureThreshold(5), circuit.WithCooldown(30*time.Second)),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) Get(ctx context.Context, key string, dst any) bool {
	if !r.breaker.Allow() {
		r.metrics.ObserveCache("bypass")
		return false
	}
	raw, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.recordSuccess()
		r.metrics.ObserveCache("miss")
		return false
	}
	if err != nil {
		r.recordFailure(ctx, "get", err)
		return false
	}
	r.recordSuccess()
	if err := json.Unmarshal(raw, dst); err != nil {
		r.logger.WarnContext(ctx, "discarding undecodable cache entry", "key", key, "error", err)
		r.Delete(ctx, key)
		return false
	}
	r.metrics.ObserveCache("hit")
	return true
}

func (r *Redis) Set(ctx context.Context, key string, value any) {
	if !r.breaker.Allow() {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		r.logger.WarnContext(ctx, "cache value not encodable", "key", key, "error", err)
		return
	}
	if err := r.client.Set(ctx, keyPrefix+key, raw, r.ttl).Err(); err != nil {
		r.recordFailure(ctx, "set", err)
		return
	}
	r.recordSuccess()
}

// Delete evicts keys. It is attempted even while the breaker is open so that
// a recovering Redis does not keep serving values changed during the outage
// for longer than necessary.
func (r *Redis) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		r.recordFailure(ctx, "delete", err)
		return
	}
	r.recordSuccess()
}

// Breaker exposes the breaker for health reporting.
func (r *Redis) Breaker() *circuit.Breaker {
	return r.breaker
}

func (r *Redis) recordFailure(ctx context.Context, op string, err error) {
	r.metrics.ObserveCache("error")
	if _, change := r.breaker.RecordFailure(); change.Opened {
		r.logger.WarnContext(ctx, "redis cache circuit opened", "op", op, "error", err)
		return
	}
	r.logger.DebugContext(ctx, "redis cache call failed", "op", op, "error", err)
}

func (r *Redis) recordSuccess() {
	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.Info("redis cache circuit closed")
	}
}

// Key builds the cache key of one record.
func Key(kind string, id int64) string {
	return kind + ":" + strconv.FormatInt(id, 10)
}
