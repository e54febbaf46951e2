package journal

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRecorder keeps the most recent entries in a fixed-size ring.
// Data is lost when the process exits.
type MemoryRecorder struct {
	mu      sync.RWMutex
	ring    []Entry
	next    int
	full    bool
	dropped uint64
	closed  bool
}

// NewMemoryRecorder creates a recorder holding at most capacity entries.
func NewMemoryRecorder(capacity int) (*MemoryRecorder, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &MemoryRecorder{ring: make([]Entry, capacity)}, nil
}

// Record implements Recorder. When the ring is full the oldest entry is
// overwritten.
func (m *MemoryRecorder) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrRecorderClosed
	}

	if m.full {
		m.dropped++
	}
	m.ring[m.next] = e
	m.next++
	if m.next == len(m.ring) {
		m.next = 0
		m.full = true
	}
	return nil
}

// List implements Recorder.
func (m *MemoryRecorder) List(_ context.Context, q Query) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrRecorderClosed
	}

	var out []Entry
	for _, e := range m.newestFirst() {
		if !q.matches(e) {
			continue
		}
		out = append(out, e)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// Stats implements Recorder.
func (m *MemoryRecorder) Stats(_ context.Context) ([]EventStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrRecorderClosed
	}

	type key struct{ event, owner string }
	byEvent := make(map[key]*EventStats)
	totals := make(map[key]time.Duration)
	for _, e := range m.newestFirst() {
		k := key{e.Event, e.Owner}
		s, ok := byEvent[k]
		if !ok {
			s = &EventStats{Event: e.Event, Owner: e.Owner}
			byEvent[k] = s
		}
		s.Raises++
		if e.Failed() {
			s.Errors++
		}
		if e.Handled {
			s.Handled++
		}
		totals[k] += e.Duration
	}

	out := make([]EventStats, 0, len(byEvent))
	for k, s := range byEvent {
		s.AvgDuration = totals[k] / time.Duration(s.Raises)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Event != out[j].Event {
			return out[i].Event < out[j].Event
		}
		return out[i].Owner < out[j].Owner
	})
	return out, nil
}

// Len returns the number of entries currently held.
func (m *MemoryRecorder) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.full {
		return len(m.ring)
	}
	return m.next
}

// Dropped returns how many entries were overwritten.
func (m *MemoryRecorder) Dropped() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dropped
}

// Close implements Recorder.
func (m *MemoryRecorder) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.ring = nil
	m.next = 0
	m.full = false
	return nil
}

// newestFirst must be called with the lock held.
func (m *MemoryRecorder) newestFirst() []Entry {
	n := m.next
	if m.full {
		n = len(m.ring)
	}
	out := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		idx := m.next - 1 - i
		if idx < 0 {
			idx += len(m.ring)
		}
		out = append(out, m.ring[idx])
	}
	return out
}
