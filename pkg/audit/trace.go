package audit

import "context"

// Tracer is the tracing port. A concrete OpenTelemetry-backed
// implementation lives in internal/platform/tracing; a nil Tracer is
// valid everywhere below and simply means "don't trace."
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, func())
}

type noopTracer struct{}

func (noopTracer) StartSpan(ctx context.Context, _ string) (context.Context, func()) {
	return ctx, func() {}
}

var _ Tracer = noopTracer{}
