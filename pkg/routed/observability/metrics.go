package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records routed event metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordRaise records one raise with its handler counts and outcome.
	RecordRaise(ctx context.Context, event, strategy string, duration time.Duration, invoked, skipped int, err error)

	// RecordRouteAcquire records a route acquisition. pooled is false when
	// the pool was empty and a new route had to be allocated.
	RecordRouteAcquire(ctx context.Context, pooled bool)
}

type otelMetrics struct {
	raises          metric.Int64Counter
	raiseLatency    metric.Float64Histogram
	raiseErrors     metric.Int64Counter
	handlersInvoked metric.Int64Counter
	handlersSkipped metric.Int64Counter
	routesAcquired  metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("routed")

	raises, err := meter.Int64Counter("routed.raises",
		metric.WithDescription("Number of routed event raises"),
	)
	if err != nil {
		return nil, err
	}

	raiseLatency, err := meter.Float64Histogram("routed.raise.latency_ms",
		metric.WithDescription("Raise latency from route build to completion in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	raiseErrors, err := meter.Int64Counter("routed.raise.errors",
		metric.WithDescription("Number of raises aborted by an error"),
	)
	if err != nil {
		return nil, err
	}

	handlersInvoked, err := meter.Int64Counter("routed.handlers.invoked",
		metric.WithDescription("Number of class and instance handlers invoked"),
	)
	if err != nil {
		return nil, err
	}

	handlersSkipped, err := meter.Int64Counter("routed.handlers.skipped",
		metric.WithDescription("Number of handlers skipped because the event was handled"),
	)
	if err != nil {
		return nil, err
	}

	routesAcquired, err := meter.Int64Counter("routed.route.acquired",
		metric.WithDescription("Number of event routes acquired"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		raises:          raises,
		raiseLatency:    raiseLatency,
		raiseErrors:     raiseErrors,
		handlersInvoked: handlersInvoked,
		handlersSkipped: handlersSkipped,
		routesAcquired:  routesAcquired,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider, so configure it first:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordRaise(ctx context.Context, event, strategy string, duration time.Duration, invoked, skipped int, err error) {
	attrs := metric.WithAttributes(
		attribute.String("event", event),
		attribute.String("strategy", strategy),
	)

	m.raises.Add(ctx, 1, attrs)
	m.raiseLatency.Record(ctx, durationMs(duration), attrs)
	if invoked > 0 {
		m.handlersInvoked.Add(ctx, int64(invoked), attrs)
	}
	if skipped > 0 {
		m.handlersSkipped.Add(ctx, int64(skipped), attrs)
	}
	if err != nil {
		m.raiseErrors.Add(ctx, 1, attrs)
	}
}

func (m *otelMetrics) RecordRouteAcquire(ctx context.Context, pooled bool) {
	m.routesAcquired.Add(ctx, 1, metric.WithAttributes(attribute.Bool("pooled", pooled)))
}
