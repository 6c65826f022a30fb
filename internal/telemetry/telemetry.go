package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Mutajon/aMAZEn-Politics-sub006/internal/genclient"
)

// #region schema

const sessionLogSchema = `
CREATE TABLE IF NOT EXISTS session_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	day         INTEGER NOT NULL,
	action      TEXT NOT NULL,
	value       TEXT,
	comment     TEXT,
	created_at  TEXT NOT NULL
);
`

const sessionLogIndex = `
CREATE INDEX IF NOT EXISTS idx_session_log_lookup
ON session_log(session_id, day);
`

// #endregion schema

// #region sink

// Sink is the logging capability handed to gameplay components. It must
// never block or panic into the caller.
type Sink interface {
	Log(action, value, comment string)
}

// Nop is a Sink that discards everything.
type Nop struct{}

// Log implements Sink.
func (Nop) Log(string, string, string) {}

// #endregion sink

// #region entry

// Entry is one telemetry row: an action name, an optional value, and an
// optional free-form comment.
type Entry struct {
	SessionID string
	Day       int
	Action    string
	Value     string
	Comment   string
	CreatedAt time.Time
}

// #endregion entry

// #region logger

// Logger records gameplay telemetry into SQLite. Log never blocks and
// never panics into the caller: entries go through a buffered channel to a
// background writer, and are dropped (counted) when the buffer is full.
type Logger struct {
	db        *sql.DB
	sessionID string

	ch      chan Entry
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
	dropped int64

	dayFn func() int
}

// NewLogger opens (or creates) the telemetry database and starts the
// background writer. dayFn supplies the current day for each entry.
func NewLogger(dbPath string, dayFn func() int) (*Logger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open telemetry db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(sessionLogSchema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if _, err := db.Exec(sessionLogIndex); err != nil {
		return nil, fmt.Errorf("migrate index: %w", err)
	}

	l := &Logger{
		db:        db,
		sessionID: uuid.NewString(),
		ch:        make(chan Entry, 256),
		done:      make(chan struct{}),
		dayFn:     dayFn,
	}
	l.wg.Add(1)
	go l.writeLoop()
	return l, nil
}

// SessionID returns the id stamped on every entry of this run.
func (l *Logger) SessionID() string { return l.sessionID }

// Log enqueues one telemetry entry. Safe to call from any goroutine; if
// the buffer is full or the logger is closed the entry is dropped.
func (l *Logger) Log(action, value, comment string) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	day := 0
	if l.dayFn != nil {
		day = l.dayFn()
	}
	e := Entry{
		SessionID: l.sessionID,
		Day:       day,
		Action:    action,
		Value:     value,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	select {
	case l.ch <- e:
	default:
		l.dropped++
	}
	l.mu.Unlock()
}

// Dropped returns how many entries were discarded due to backpressure.
func (l *Logger) Dropped() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// Close drains pending entries and closes the database.
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	close(l.ch)
	l.wg.Wait()
	close(l.done)
	return l.db.Close()
}

func (l *Logger) writeLoop() {
	defer l.wg.Done()
	for e := range l.ch {
		_, err := l.db.Exec(
			`INSERT INTO session_log (session_id, day, action, value, comment, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			e.SessionID, e.Day, e.Action,
			nullIfEmpty(e.Value), nullIfEmpty(e.Comment),
			e.CreatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			log.Printf("[TELEM] write failed: %v", err)
		}
	}
}

// #endregion logger

// #region summary

// PostSummary sends the end-of-session summary to the remote telemetry
// endpoint. Fire-and-forget: failures are logged locally and swallowed.
func (l *Logger) PostSummary(svc genclient.Service, day int, summary string) {
	req := genclient.SummaryRequest{
		SessionID: l.sessionID,
		Day:       day,
		Summary:   summary,
	}
	go func() {
		if err := svc.LogSummary(context.Background(), req); err != nil {
			log.Printf("[TELEM] summary post failed: %v", err)
		}
	}()
}

// #endregion summary

// #region queries

// RecentEntries returns the n most recent rows, newest first. Used by the
// inspect command.
func RecentEntries(db *sql.DB, n int) ([]Entry, error) {
	rows, err := db.Query(
		`SELECT session_id, day, action, COALESCE(value, ''), COALESCE(comment, ''), created_at
		 FROM session_log ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query session_log: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.SessionID, &e.Day, &e.Action, &e.Value, &e.Comment, &created); err != nil {
			return nil, fmt.Errorf("scan session_log: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Sessions returns distinct session ids with their row counts and max day.
func Sessions(db *sql.DB) (map[string][2]int, error) {
	rows, err := db.Query(
		`SELECT session_id, COUNT(*), MAX(day) FROM session_log GROUP BY session_id`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := make(map[string][2]int)
	for rows.Next() {
		var id string
		var count, maxDay int
		if err := rows.Scan(&id, &count, &maxDay); err != nil {
			return nil, fmt.Errorf("scan sessions: %w", err)
		}
		out[id] = [2]int{count, maxDay}
	}
	return out, rows.Err()
}

// #endregion queries

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
