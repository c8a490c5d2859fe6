package audit

import "time"

// Metrics is the observability port the engine calls into. A concrete
// Prometheus-backed implementation lives in internal/platform/metrics; a
// nil Metrics is valid everywhere below and simply means "don't record."
type Metrics interface {
	SetBufferSize(n int)
	ObserveFlush(count int, elapsed time.Duration, success bool)
	ObserveWALAppendFailure()
	ObserveWALDisabled()
	ObserveSweep(deleted int, elapsed time.Duration, success bool)
	ObserveValidationRejected()
	ObserveCapacityTrigger()
}

// noopMetrics satisfies Metrics without recording anything. It exists so
// call sites never need a nil check.
type noopMetrics struct{}

func (noopMetrics) SetBufferSize(int)                    {}
func (noopMetrics) ObserveFlush(int, time.Duration, bool) {}
func (noopMetrics) ObserveWALAppendFailure()              {}
func (noopMetrics) ObserveWALDisabled()                   {}
func (noopMetrics) ObserveSweep(int, time.Duration, bool) {}
func (noopMetrics) ObserveValidationRejected()             {}
func (noopMetrics) ObserveCapacityTrigger()                {}

var _ Metrics = noopMetrics{}
