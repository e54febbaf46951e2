package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName    = "routed"
	raiseSpanName = "routed.raise"
)

// SpanManager handles trace span lifecycle for raises.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartRaiseSpan starts a span covering one raise, route build included.
	StartRaiseSpan(ctx context.Context, event, owner, strategy string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager backed by the global tracer provider.
// Set the provider with otel.SetTracerProvider before raising events.
func NewSpanManager() SpanManager {
	return NewSpanManagerFromProvider(otel.GetTracerProvider())
}

// NewSpanManagerFromProvider returns a SpanManager using tp.
func NewSpanManagerFromProvider(tp trace.TracerProvider) SpanManager {
	return &otelSpanManager{tracer: tp.Tracer(tracerName)}
}

func (m *otelSpanManager) StartRaiseSpan(ctx context.Context, event, owner, strategy string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, raiseSpanName,
		trace.WithAttributes(
			attribute.String("event.name", event),
			attribute.String("event.owner", owner),
			attribute.String("event.strategy", strategy),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// EndSpanWithError ends span. A non-nil err is recorded as an exception
// event and sets the Error status; otherwise the status is Ok.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	defer span.End()
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddSpanEvent adds an event to the span in ctx if it is recording.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}
