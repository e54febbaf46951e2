// Package journal records completed routed event raises for diagnostics.
//
// A Recorder receives one Entry per raise, whether the raise completed or
// was aborted by a handler error. MemoryRecorder keeps a bounded ring for
// tests and interactive tools; SQLiteRecorder persists entries so they can
// be inspected later with the routedtrace command.
package journal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recorder stores raise entries.
// Implementations must be safe for concurrent use.
type Recorder interface {
	// Record stores one entry.
	Record(ctx context.Context, e Entry) error

	// List returns entries matching q, newest first.
	List(ctx context.Context, q Query) ([]Entry, error)

	// Stats aggregates entries per owner and event, ordered by event name
	// and then owner.
	Stats(ctx context.Context) ([]EventStats, error)

	// Close releases any resources. Closing twice is not an error.
	Close() error
}

// Entry describes one raise.
type Entry struct {
	ID          uuid.UUID
	Event       string
	Owner       string
	Strategy    string
	Source      string
	RouteLength int
	Invoked     int
	Skipped     int
	Handled     bool
	Err         string
	RaisedAt    time.Time
	Duration    time.Duration
}

// NewEntry returns an entry with a fresh ID and RaisedAt set to now.
func NewEntry(event, owner, strategy string) Entry {
	return Entry{
		ID:       uuid.New(),
		Event:    event,
		Owner:    owner,
		Strategy: strategy,
		RaisedAt: time.Now().UTC(),
	}
}

// Failed reports whether the raise was aborted.
func (e Entry) Failed() bool { return e.Err != "" }

// Query filters List results. Zero values match everything.
type Query struct {
	Event string
	Owner string
	Limit int
}

// ParseEventName splits "Owner.Event" into a query for that event. A name
// without a dot matches the event on every owner.
func ParseEventName(name string) Query {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return Query{Owner: name[:i], Event: name[i+1:]}
	}
	return Query{Event: name}
}

func (q Query) matches(e Entry) bool {
	return (q.Event == "" || q.Event == e.Event) && (q.Owner == "" || q.Owner == e.Owner)
}

// EventStats aggregates entries for one event of one owner.
type EventStats struct {
	Event       string
	Owner       string
	Raises      int
	Errors      int
	Handled     int
	AvgDuration time.Duration
}

// Sentinel errors for journal operations.
var (
	// ErrRecorderClosed indicates the recorder has been closed.
	ErrRecorderClosed = errors.New("journal recorder closed")

	// ErrInvalidCapacity indicates a non-positive ring capacity.
	ErrInvalidCapacity = errors.New("journal capacity must be positive")
)
