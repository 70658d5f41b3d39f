// Package tracing wraps the optional OpenTelemetry tracer used to
// instrument the parse pipeline's phases. When no exporter is
// configured, spans are created against the global no-op provider, so
// call sites never need a nil check.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/saferwall/dex"

// Tracer returns the named tracer for the decoder's spans.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// TracerFor returns tp's named tracer, or the global tracer (a no-op
// until a provider is installed) when tp is nil, so File never needs
// to nil-check its configured TracerProvider at each call site.
func TracerFor(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		return Tracer()
	}
	return tp.Tracer(instrumentationName)
}

// StartPhase starts a span named after a Parse phase (e.g. "header",
// "id-pools", "class-defs") against the given tracer. Callers
// should defer span.End(). Passing a nil tracer starts the span
// against the global tracer, matching Tracer()'s no-op-until-installed
// behavior.
func StartPhase(ctx context.Context, tracer trace.Tracer, phase string) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = Tracer()
	}
	return tracer.Start(ctx, phase)
}

// NewProvider builds a TracerProvider exporting via exp, tagged with
// the given service name. Passing a nil exporter returns the SDK's
// default provider, which samples but drops everything (no exporter
// attached) -- still valid, just inert.
func NewProvider(exp sdktrace.SpanExporter, serviceName string) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if exp != nil {
		opts = append(opts, sdktrace.WithBatcher(exp))
	}
	return sdktrace.NewTracerProvider(opts...), nil
}
