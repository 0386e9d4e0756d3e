// Package tracing wraps each target materialization and each task run in
// OpenTelemetry spans whose start/end are also mirrored into the binary log as
// RecursiveSpanBegin/RecursiveSpanEnd events, giving the binary log format a
// real producer for those two event types. No OTLP exporter is wired: the
// span processor never leaves the process, keeping this strictly local
// instrumentation rather than distributed tracing across machines.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/jordirovira/craft/src/logging"
)

var tracer trace.Tracer

func init() {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = tp.Tracer("craft")
}

// A Span is one traced interval: one target's materialization or a single
// task's runner.
type Span struct {
	otelSpan trace.Span
	endLog   func()
}

// StartSpan begins a span named name, recording its start as a
// RecursiveSpanBegin event on log (if log is non-nil).
func StartSpan(log *logging.Logger, name string) *Span {
	_, otelSpan := tracer.Start(context.Background(), name)
	s := &Span{otelSpan: otelSpan}
	if log != nil {
		s.endLog = log.BeginSpan(name)
	}
	return s
}

// End closes the span, recording its end as a RecursiveSpanEnd event.
func (s *Span) End() {
	if s.endLog != nil {
		s.endLog()
	}
	s.otelSpan.End()
}

// Shutdown flushes the local tracer provider.
func Shutdown() {
	if tp, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); ok {
		_ = tp.Shutdown(context.Background())
	}
}
