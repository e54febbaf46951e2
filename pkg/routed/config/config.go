// Package config holds the tunable settings of a routed event manager.
//
// Settings can be built in code, starting from Default(), or loaded from a
// YAML or JSON file:
//
//	route_pool_capacity: 2
//	max_route_length: 4096
//	log_level: debug
//	metrics_enabled: true
//	tracing_enabled: false
//	journal:
//	  driver: sqlite
//	  path: ./raises.db
//
// Keys missing from a file keep their default values.
package config

import (
	"errors"
	"fmt"
)

// Default values.
const (
	DefaultRoutePoolCapacity = 2
	DefaultMaxRouteLength    = 4096
	DefaultLogLevel          = "info"
	DefaultJournalCapacity   = 1024
)

// Journal drivers.
const (
	JournalNone   = ""
	JournalMemory = "memory"
	JournalSQLite = "sqlite"
)

// ErrInvalidSettings is wrapped by every Validate failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings configures a routed event manager.
type Settings struct {
	// RoutePoolCapacity bounds the number of idle routes kept for reuse.
	// Zero disables pooling.
	RoutePoolCapacity int `yaml:"route_pool_capacity" json:"route_pool_capacity"`

	// MaxRouteLength is the number of nodes after which route building
	// assumes the tree has a loop.
	MaxRouteLength int `yaml:"max_route_length" json:"max_route_length"`

	// LogLevel is one of debug, info, warn, error. Empty disables logging.
	LogLevel string `yaml:"log_level" json:"log_level"`

	MetricsEnabled bool `yaml:"metrics_enabled" json:"metrics_enabled"`
	TracingEnabled bool `yaml:"tracing_enabled" json:"tracing_enabled"`

	Journal JournalSettings `yaml:"journal" json:"journal"`
}

// JournalSettings selects the raise journal.
type JournalSettings struct {
	// Driver is "", "memory" or "sqlite".
	Driver string `yaml:"driver" json:"driver"`

	// Path is the SQLite database path; ":memory:" is allowed.
	Path string `yaml:"path" json:"path"`

	// Capacity is the ring size of the memory journal.
	Capacity int `yaml:"capacity" json:"capacity"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		RoutePoolCapacity: DefaultRoutePoolCapacity,
		MaxRouteLength:    DefaultMaxRouteLength,
		LogLevel:          DefaultLogLevel,
		Journal: JournalSettings{
			Capacity: DefaultJournalCapacity,
		},
	}
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	if s.RoutePoolCapacity < 0 {
		return fmt.Errorf("%w: route_pool_capacity must be >= 0, got %d", ErrInvalidSettings, s.RoutePoolCapacity)
	}
	if s.MaxRouteLength <= 0 {
		return fmt.Errorf("%w: max_route_length must be > 0, got %d", ErrInvalidSettings, s.MaxRouteLength)
	}

	switch s.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidSettings, s.LogLevel)
	}

	switch s.Journal.Driver {
	case JournalNone:
	case JournalMemory:
		if s.Journal.Capacity <= 0 {
			return fmt.Errorf("%w: journal.capacity must be > 0, got %d", ErrInvalidSettings, s.Journal.Capacity)
		}
	case JournalSQLite:
		if s.Journal.Path == "" {
			return fmt.Errorf("%w: journal.path is required for the sqlite driver", ErrInvalidSettings)
		}
	default:
		return fmt.Errorf("%w: unknown journal.driver %q", ErrInvalidSettings, s.Journal.Driver)
	}
	return nil
}
