// Package obs provides a thin tracing layer over OpenTelemetry for provider
// calls. Exporter wiring is left to the embedding process; without a
// configured tracer provider the spans are no-ops.
package obs

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vaani-ai/vaani/obs"

// Recorder finishes a span started by StartRequest.
type Recorder struct {
	span trace.Span
}

// StartRequest opens a span around a single provider call.
func StartRequest(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Recorder) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Recorder{span: span}
}

// AddAttributes attaches attributes discovered after the span started.
func (r *Recorder) AddAttributes(attrs ...attribute.KeyValue) {
	if r == nil || r.span == nil {
		return
	}
	r.span.SetAttributes(attrs...)
}

// End closes the span, recording err if non-nil.
func (r *Recorder) End(err error) {
	if r == nil || r.span == nil {
		return
	}
	if err != nil {
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, err.Error())
	}
	r.span.End()
}
