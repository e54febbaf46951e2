package routed

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/randalmurphal/routed/pkg/routed/config"
	"github.com/randalmurphal/routed/pkg/routed/journal"
	"github.com/randalmurphal/routed/pkg/routed/observability"
)

// OptionsFromSettings converts validated settings into Manager options.
// Logs go to stderr. A configured journal is opened here and closed by
// Manager.Close.
func OptionsFromSettings(s config.Settings) ([]Option, error) {
	return optionsFromSettings(s, os.Stderr)
}

func optionsFromSettings(s config.Settings, logOut io.Writer) ([]Option, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	opts := []Option{
		WithRoutePoolCapacity(s.RoutePoolCapacity),
		WithMaxRouteLength(s.MaxRouteLength),
	}

	if s.LogLevel != "" {
		handler := slog.NewTextHandler(logOut, &slog.HandlerOptions{
			Level: observability.ParseLevel(s.LogLevel),
		})
		opts = append(opts, WithLogger(slog.New(handler)))
	}
	if s.MetricsEnabled {
		opts = append(opts, WithMetrics(observability.NewMetricsRecorder()))
	}
	if s.TracingEnabled {
		opts = append(opts, WithSpanManager(observability.NewSpanManager()))
	}

	switch s.Journal.Driver {
	case config.JournalMemory:
		j, err := journal.NewMemoryRecorder(s.Journal.Capacity)
		if err != nil {
			return nil, fmt.Errorf("open memory journal: %w", err)
		}
		opts = append(opts, WithJournal(j))
	case config.JournalSQLite:
		j, err := journal.NewSQLiteRecorder(s.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		opts = append(opts, WithJournal(j))
	}
	return opts, nil
}
