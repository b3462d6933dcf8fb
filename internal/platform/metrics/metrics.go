package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the back-office Prometheus collectors.
type Metrics struct {
	HTTPLatency           *prometheus.HistogramVec
	EntityWrites          *prometheus.CounterVec
	ValidationFailures    *prometheus.CounterVec
	ConservationRejected  prometheus.Counter
	CacheLookups          *prometheus.CounterVec
	OutboxPublished       prometheus.Counter
	OutboxPublishFailures prometheus.Counter
}

// New creates and registers the collectors on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers on reg. Tests pass a fresh registry so that
// repeated construction does not panic on duplicate registration.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backoffice_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern, method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		EntityWrites: f.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_entity_writes_total",
			Help: "Successful entity mutations by entity and operation",
		}, []string{"entity", "operation"}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_validation_failures_total",
			Help: "Rejected writes by entity and error code",
		}, []string{"entity", "code"}),
		ConservationRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_conservation_rejections_total",
			Help: "Distribution writes rejected because they would exceed the planned quantity",
		}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_cache_lookups_total",
			Help: "Read cache lookups by result (hit, miss, error)",
		}, []string{"result"}),
		OutboxPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_audit_outbox_published_total",
			Help: "Audit outbox entries published to Kafka",
		}),
		OutboxPublishFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_audit_outbox_publish_failures_total",
			Help: "Audit outbox publish attempts that failed",
		}),
	}
}

func (m *Metrics) IncrementWrite(entity, operation string) {
	if m == nil {
		return
	}
	m.EntityWrites.WithLabelValues(entity, operation).Inc()
}

func (m *Metrics) IncrementValidationFailure(entity, code string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(entity, code).Inc()
}

func (m *Metrics) IncrementConservationRejected() {
	if m == nil {
		return
	}
	m.ConservationRejected.Inc()
}

func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveOutbox(published, failed int) {
	if m == nil {
		return
	}
	m.OutboxPublished.Add(float64(published))
	m.OutboxPublishFailures.Add(float64(failed))
}
