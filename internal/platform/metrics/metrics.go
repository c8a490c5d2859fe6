// Package metrics is the Prometheus-backed implementation of
// audit.Metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"auditengine/pkg/audit"
)

// Metrics holds the Prometheus collectors for the ingestion engine.
type Metrics struct {
	bufferSize         prometheus.Gauge
	flushTotal         *prometheus.CounterVec
	flushBatchSize     prometheus.Histogram
	flushDuration      prometheus.Histogram
	walAppendFailures  prometheus.Counter
	walDisabled        prometheus.Counter
	sweepTotal         *prometheus.CounterVec
	sweepDeleted       prometheus.Counter
	sweepDuration      prometheus.Histogram
	validationRejected prometheus.Counter
	capacityTriggered  prometheus.Counter
}

// New creates and registers all engine metrics.
func New() *Metrics {
	return &Metrics{
		bufferSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "audit_buffer_size",
			Help: "Current number of records held in the in-memory buffer.",
		}),
		flushTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_flush_total",
			Help: "Total number of flush attempts, labeled by outcome.",
		}, []string{"outcome"}),
		flushBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "audit_flush_batch_size",
			Help:    "Size of batches passed to the audit store on flush.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		flushDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "audit_flush_duration_seconds",
			Help:    "Duration of flush attempts.",
			Buckets: prometheus.DefBuckets,
		}),
		walAppendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "audit_wal_append_failures_total",
			Help: "Total number of WAL append failures.",
		}),
		walDisabled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "audit_wal_disabled_total",
			Help: "Total number of times the WAL was found disabled at startup.",
		}),
		sweepTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_sweep_total",
			Help: "Total number of retention sweeps, labeled by outcome.",
		}, []string{"outcome"}),
		sweepDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "audit_sweep_deleted_total",
			Help: "Total number of records deleted by the retention sweeper.",
		}),
		sweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "audit_sweep_duration_seconds",
			Help:    "Duration of retention sweeps.",
			Buckets: prometheus.DefBuckets,
		}),
		validationRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "audit_validation_rejected_total",
			Help: "Total number of records rejected by validation.",
		}),
		capacityTriggered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "audit_capacity_trigger_total",
			Help: "Total number of out-of-band flushes triggered by buffer capacity.",
		}),
	}
}

func (m *Metrics) SetBufferSize(n int) { m.bufferSize.Set(float64(n)) }

func (m *Metrics) ObserveFlush(count int, elapsed time.Duration, success bool) {
	m.flushTotal.WithLabelValues(outcome(success)).Inc()
	m.flushBatchSize.Observe(float64(count))
	m.flushDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveWALAppendFailure() { m.walAppendFailures.Inc() }

func (m *Metrics) ObserveWALDisabled() { m.walDisabled.Inc() }

func (m *Metrics) ObserveSweep(deleted int, elapsed time.Duration, success bool) {
	m.sweepTotal.WithLabelValues(outcome(success)).Inc()
	m.sweepDeleted.Add(float64(deleted))
	m.sweepDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveValidationRejected() { m.validationRejected.Inc() }

func (m *Metrics) ObserveCapacityTrigger() { m.capacityTriggered.Inc() }

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

var _ audit.Metrics = (*Metrics)(nil)
