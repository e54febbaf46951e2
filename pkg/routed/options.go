package routed

import (
	"log/slog"

	"github.com/randalmurphal/routed/pkg/routed/config"
	"github.com/randalmurphal/routed/pkg/routed/journal"
	"github.com/randalmurphal/routed/pkg/routed/observability"
	"github.com/randalmurphal/routed/pkg/routed/typeinfo"
)

// Option configures a Manager.
type Option func(*managerConfig)

type managerConfig struct {
	types          *typeinfo.Registry
	walker         TreeWalker
	validator      SignatureValidator
	poolCapacity   int
	maxRouteLength int
	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	journal        journal.Recorder
}

func defaultManagerConfig() managerConfig {
	return managerConfig{
		walker:         ParentWalker,
		validator:      DefaultSignatureValidator,
		poolCapacity:   config.DefaultRoutePoolCapacity,
		maxRouteLength: config.DefaultMaxRouteLength,
		metrics:        observability.NoopMetrics{},
		spans:          observability.NoopSpanManager{},
	}
}

// WithTypes sets the type registry used for class handlers. Without it the
// Manager creates its own, available from Manager.Types.
func WithTypes(types *typeinfo.Registry) Option {
	return func(c *managerConfig) {
		c.types = types
	}
}

// WithTreeWalker sets how routing parents are found.
// Default: ParentWalker.
func WithTreeWalker(w TreeWalker) Option {
	return func(c *managerConfig) {
		if w != nil {
			c.walker = w
		}
	}
}

// WithSignatureValidator replaces the handler shape check used for class
// handlers and by HandlerStores created with Manager.NewHandlerStore.
// Default: DefaultSignatureValidator.
func WithSignatureValidator(v SignatureValidator) Option {
	return func(c *managerConfig) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithRoutePoolCapacity sets how many idle routes are kept for reuse.
// Zero disables pooling. Default: 2.
func WithRoutePoolCapacity(n int) Option {
	return func(c *managerConfig) {
		if n >= 0 {
			c.poolCapacity = n
		}
	}
}

// WithMaxRouteLength sets the node count after which route building fails
// with ErrTreeLoop. Default: 4096.
func WithMaxRouteLength(n int) Option {
	return func(c *managerConfig) {
		if n > 0 {
			c.maxRouteLength = n
		}
	}
}

// WithLogger enables structured logging of registrations and raises.
func WithLogger(logger *slog.Logger) Option {
	return func(c *managerConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Use observability.NewMetricsRecorder() for OpenTelemetry metrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *managerConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithSpanManager sets the tracing span manager.
// Use observability.NewSpanManager() for OpenTelemetry tracing.
func WithSpanManager(s observability.SpanManager) Option {
	return func(c *managerConfig) {
		if s != nil {
			c.spans = s
		}
	}
}

// WithJournal records every raise to j. The Manager closes j in Close.
func WithJournal(j journal.Recorder) Option {
	return func(c *managerConfig) {
		c.journal = j
	}
}
