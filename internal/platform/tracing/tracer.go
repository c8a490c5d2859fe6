// Package tracing wires an OpenTelemetry tracer provider for the engine's
// WAL/Flusher/Sweeper spans. Without an exporter configured this simply
// records spans in-process; a real deployment attaches an exporter by adding
// sdktrace.WithBatcher to the provider options in New, which also installs
// the provider as the global one.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Provider owns the process-wide TracerProvider lifecycle.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// New builds a TracerProvider tagged with serviceName and installs it as
// the global provider.
func New(serviceName string) *Provider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)
	otel.SetTracerProvider(tp)
	return &Provider{tp: tp}
}

// Tracer returns a named tracer for a component (wal, flusher, sweeper).
func (p *Provider) Tracer(name string) trace.Tracer {
	return p.tp.Tracer(name)
}

// Shutdown flushes and releases the tracer provider's resources.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}

// EngineTracer adapts a trace.Tracer to audit.Tracer.
type EngineTracer struct {
	tracer trace.Tracer
}

// NewEngineTracer wraps a named tracer for use as the engine's audit.Tracer.
func (p *Provider) NewEngineTracer(name string) *EngineTracer {
	return &EngineTracer{tracer: p.Tracer(name)}
}

// StartSpan starts a span named name and returns a context carrying it
// plus a function that ends it.
func (t *EngineTracer) StartSpan(ctx context.Context, name string) (context.Context, func()) {
	spanCtx, span := t.tracer.Start(ctx, name)
	return spanCtx, func() { span.End() }
}
