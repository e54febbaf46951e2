// Package observability provides structured logging, metrics and tracing
// for routed event dispatch.
//
// Logging uses slog from the standard library; metrics and tracing use
// OpenTelemetry and pick up the global providers. Every feature is opt-in
// and has a no-op form.
package observability

import (
	"log/slog"
	"time"
)

// RaiseInfo describes one completed raise for logging.
type RaiseInfo struct {
	Event           string
	Strategy        string
	Source          string
	RouteLength     int
	HandlersInvoked int
	HandlersSkipped int
	Handled         bool
	Duration        time.Duration
}

// EventLogger returns a logger with the event name attached.
func EventLogger(logger *slog.Logger, event, strategy string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("event", event),
		slog.String("strategy", strategy),
	)
}

// LogRaiseStart logs the start of a raise.
func LogRaiseStart(logger *slog.Logger, event, source string) {
	if logger == nil {
		return
	}
	logger.Debug("routed event raising",
		slog.String("event", event),
		slog.String("source", source),
	)
}

// LogRaiseComplete logs a raise that reached the end of its route.
func LogRaiseComplete(logger *slog.Logger, info RaiseInfo) {
	if logger == nil {
		return
	}
	logger.Debug("routed event raised",
		slog.String("event", info.Event),
		slog.String("strategy", info.Strategy),
		slog.String("source", info.Source),
		slog.Int("route_length", info.RouteLength),
		slog.Int("handlers_invoked", info.HandlersInvoked),
		slog.Int("handlers_skipped", info.HandlersSkipped),
		slog.Bool("handled", info.Handled),
		slog.Float64("duration_ms", durationMs(info.Duration)),
	)
}

// LogRaiseError logs a raise aborted by a failing handler or route build.
func LogRaiseError(logger *slog.Logger, event, source string, err error) {
	if logger == nil {
		return
	}
	logger.Error("routed event failed",
		slog.String("event", event),
		slog.String("source", source),
		slog.String("error", err.Error()),
	)
}

// LogEventRegistered logs a new routed event identity.
func LogEventRegistered(logger *slog.Logger, event, owner, strategy string, index int) {
	if logger == nil {
		return
	}
	logger.Debug("routed event registered",
		slog.String("event", event),
		slog.String("owner", owner),
		slog.String("strategy", strategy),
		slog.Int("global_index", index),
	)
}

// LogClassHandlerRegistered logs a class handler registration.
func LogClassHandlerRegistered(logger *slog.Logger, class, event string, handledEventsToo bool, updatedSubtypes int) {
	if logger == nil {
		return
	}
	logger.Debug("class handler registered",
		slog.String("class", class),
		slog.String("event", event),
		slog.Bool("handled_events_too", handledEventsToo),
		slog.Int("updated_subtypes", updatedSubtypes),
	)
}

// LogJournalError logs a journal write failure (non-fatal).
func LogJournalError(logger *slog.Logger, event string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("raise journal write failed",
		slog.String("event", event),
		slog.String("error", err.Error()),
	)
}

// ParseLevel maps a configuration level name to a slog level.
// Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
