package routed

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/routed/pkg/routed/config"
	"github.com/randalmurphal/routed/pkg/routed/journal"
	"github.com/randalmurphal/routed/pkg/routed/observability"
)

func TestOptionsFromSettings(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var logs bytes.Buffer
		opts, err := optionsFromSettings(config.Default(), &logs)
		require.NoError(t, err)

		m := NewManager(opts...)
		assert.Equal(t, config.DefaultRoutePoolCapacity, m.PoolStats().Capacity)
		assert.Equal(t, config.DefaultMaxRouteLength, m.maxRouteLength)
		assert.Nil(t, m.journal)
		assert.IsType(t, observability.NoopMetrics{}, m.metrics)

		m.MustRegisterRoutedEvent("Click", Bubble, UniversalHandlerType, m.Types().MustDefine("UIElement", nil))
		assert.Empty(t, logs.String(), "registration logs at debug, below the default level")
	})

	t.Run("debug logging", func(t *testing.T) {
		var logs bytes.Buffer
		s := config.Default()
		s.LogLevel = "debug"
		opts, err := optionsFromSettings(s, &logs)
		require.NoError(t, err)

		m := NewManager(opts...)
		m.MustRegisterRoutedEvent("Click", Bubble, UniversalHandlerType, m.Types().MustDefine("UIElement", nil))
		assert.Contains(t, logs.String(), "routed event registered")
		assert.Contains(t, logs.String(), "event=Click")
	})

	t.Run("logging disabled", func(t *testing.T) {
		s := config.Default()
		s.LogLevel = ""
		opts, err := optionsFromSettings(s, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Nil(t, NewManager(opts...).logger)
	})

	t.Run("pool and route limits", func(t *testing.T) {
		s := config.Default()
		s.RoutePoolCapacity = 0
		s.MaxRouteLength = 3
		opts, err := optionsFromSettings(s, &bytes.Buffer{})
		require.NoError(t, err)

		m := NewManager(opts...)
		assert.Equal(t, 0, m.PoolStats().Capacity)
		assert.Equal(t, 3, m.maxRouteLength)
	})

	t.Run("memory journal", func(t *testing.T) {
		s := config.Default()
		s.Journal.Driver = config.JournalMemory
		s.Journal.Capacity = 4
		opts, err := optionsFromSettings(s, &bytes.Buffer{})
		require.NoError(t, err)

		m := NewManager(opts...)
		t.Cleanup(func() { _ = m.Close() })
		require.IsType(t, &journal.MemoryRecorder{}, m.journal)

		element := m.Types().MustDefine("UIElement", nil)
		e := m.MustRegisterRoutedEvent("Click", Bubble, UniversalHandlerType, element)
		require.NoError(t, m.RaiseEvent(context.Background(), newTestNode("n", element, nil), NewRoutedEventArgs(e)))
		assert.Equal(t, 1, m.journal.(*journal.MemoryRecorder).Len())
	})

	t.Run("sqlite journal", func(t *testing.T) {
		s := config.Default()
		s.Journal.Driver = config.JournalSQLite
		s.Journal.Path = filepath.Join(t.TempDir(), "raises.db")
		opts, err := optionsFromSettings(s, &bytes.Buffer{})
		require.NoError(t, err)

		m := NewManager(opts...)
		t.Cleanup(func() { _ = m.Close() })
		require.IsType(t, &journal.SQLiteRecorder{}, m.journal)

		element := m.Types().MustDefine("UIElement", nil)
		e := m.MustRegisterRoutedEvent("Click", Bubble, UniversalHandlerType, element)
		require.NoError(t, m.RaiseEvent(context.Background(), newTestNode("n", element, nil), NewRoutedEventArgs(e)))

		entries, err := m.journal.List(context.Background(), journal.Query{Event: "Click"})
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("invalid settings", func(t *testing.T) {
		s := config.Default()
		s.MaxRouteLength = 0
		_, err := optionsFromSettings(s, &bytes.Buffer{})
		assert.ErrorIs(t, err, config.ErrInvalidSettings)
	})

	t.Run("unopenable sqlite path", func(t *testing.T) {
		s := config.Default()
		s.Journal.Driver = config.JournalSQLite
		s.Journal.Path = filepath.Join(t.TempDir(), "missing", "dir", "raises.db")
		_, err := optionsFromSettings(s, &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestOptionsFromSettings_Observability(t *testing.T) {
	s := config.Default()
	s.MetricsEnabled = true
	s.TracingEnabled = true
	opts, err := OptionsFromSettings(s)
	require.NoError(t, err)

	m := NewManager(opts...)
	assert.NotEqual(t, observability.NoopMetrics{}, m.metrics)
	assert.NotEqual(t, observability.NoopSpanManager{}, m.spans)
}
