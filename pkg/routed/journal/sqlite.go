package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// timeFormat sorts lexically in time order.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// SQLiteRecorder persists entries to SQLite.
// The path is a file path or ":memory:" for testing.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteRecorder opens (or creates) a journal database.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A private in-memory database exists per connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS raises (
			id TEXT PRIMARY KEY,
			event TEXT NOT NULL,
			owner TEXT NOT NULL,
			strategy TEXT NOT NULL,
			source TEXT NOT NULL,
			route_length INTEGER NOT NULL,
			invoked INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			handled INTEGER NOT NULL,
			error TEXT NOT NULL,
			raised_at TEXT NOT NULL,
			duration_us INTEGER NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_raises_event_time
		ON raises(event, raised_at)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteRecorder{db: db}, nil
}

// Record implements Recorder.
func (s *SQLiteRecorder) Record(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrRecorderClosed
	}

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO raises (id, event, owner, strategy, source, route_length,
			invoked, skipped, handled, error, raised_at, duration_us)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID.String(), e.Event, e.Owner, e.Strategy, e.Source, e.RouteLength,
		e.Invoked, e.Skipped, e.Handled, e.Err,
		e.RaisedAt.UTC().Format(timeFormat), e.Duration.Microseconds())
	if err != nil {
		return fmt.Errorf("record raise: %w", err)
	}
	return nil
}

// List implements Recorder.
func (s *SQLiteRecorder) List(ctx context.Context, q Query) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrRecorderClosed
	}

	limit := q.Limit
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event, owner, strategy, source, route_length,
			invoked, skipped, handled, error, raised_at, duration_us
		FROM raises
		WHERE (? = '' OR event = ?) AND (? = '' OR owner = ?)
		ORDER BY raised_at DESC, rowid DESC
		LIMIT ?
	`, q.Event, q.Event, q.Owner, q.Owner, limit)
	if err != nil {
		return nil, fmt.Errorf("list raises: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			id         string
			raisedAt   string
			durationUs int64
		)
		if err := rows.Scan(&id, &e.Event, &e.Owner, &e.Strategy, &e.Source, &e.RouteLength,
			&e.Invoked, &e.Skipped, &e.Handled, &e.Err, &raisedAt, &durationUs); err != nil {
			return nil, fmt.Errorf("scan raise: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse raise id %q: %w", id, err)
		}
		e.RaisedAt, _ = time.Parse(timeFormat, raisedAt)
		e.Duration = time.Duration(durationUs) * time.Microsecond
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate raises: %w", err)
	}
	return entries, nil
}

// Stats implements Recorder.
func (s *SQLiteRecorder) Stats(ctx context.Context) ([]EventStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrRecorderClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT event, owner,
			COUNT(*),
			SUM(CASE WHEN error != '' THEN 1 ELSE 0 END),
			SUM(handled),
			AVG(duration_us)
		FROM raises
		GROUP BY event, owner
		ORDER BY event, owner
	`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats []EventStats
	for rows.Next() {
		var (
			st    EventStats
			avgUs float64
		)
		if err := rows.Scan(&st.Event, &st.Owner, &st.Raises, &st.Errors, &st.Handled, &avgUs); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		st.AvgDuration = time.Duration(avgUs * float64(time.Microsecond))
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats: %w", err)
	}
	return stats, nil
}

// Prune deletes entries raised before cutoff and returns how many were removed.
func (s *SQLiteRecorder) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrRecorderClosed
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM raises WHERE raised_at < ?
	`, cutoff.UTC().Format(timeFormat))
	if err != nil {
		return 0, fmt.Errorf("prune raises: %w", err)
	}
	return res.RowsAffected()
}

// Close implements Recorder.
func (s *SQLiteRecorder) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

var (
	_ Recorder = (*SQLiteRecorder)(nil)
	_ Recorder = (*MemoryRecorder)(nil)
)
