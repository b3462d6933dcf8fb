package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.IncrementWrite("currency", "create")
	m.IncrementWrite("currency", "create")
	m.IncrementValidationFailure("currency", "conflict")
	m.IncrementConservationRejected()
	m.ObserveOutbox(3, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EntityWrites.WithLabelValues("currency", "create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("currency", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConservationRejected))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.OutboxPublished))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxPublishFailures))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementWrite("x", "create")
		m.IncrementValidationFailure("x", "conflict")
		m.IncrementConservationRejected()
		m.ObserveCache("hit")
		m.ObserveOutbox(1, 0)
	})
}
