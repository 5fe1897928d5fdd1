// Package accesslog records served requests into sqlite for later inspection.
package accesslog

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS access_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts_ms INTEGER NOT NULL,
	method TEXT NOT NULL,
	path TEXT NOT NULL,
	status INTEGER NOT NULL,
	ip TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	latency_ms INTEGER NOT NULL DEFAULT 0,
	details TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_access_log_ts ON access_log(ts_ms);
`

const (
	insertQuery = `INSERT INTO access_log (ts_ms, method, path, status, ip, user_agent, latency_ms, details)
		VALUES (:ts_ms, :method, :path, :status, :ip, :user_agent, :latency_ms, :details)`

	// buffered entries before Record starts dropping
	queueSize = 256

	flushBatch    = 64
	flushInterval = time.Second
)

// Entry is one served request.
type Entry struct {
	ID        int64  `db:"id"`
	TS        int64  `db:"ts_ms"` // unix milliseconds
	Method    string `db:"method"`
	Path      string `db:"path"`
	Status    int    `db:"status"`
	IP        string `db:"ip"`
	UserAgent string `db:"user_agent"`
	LatencyMs int64  `db:"latency_ms"`
	Details   string `db:"details"` // JSON blob, see Details
}

// Time returns the entry timestamp.
func (e *Entry) Time() time.Time {
	return time.UnixMilli(e.TS).UTC()
}

// Details holds the optional request attributes serialized into the details column.
type Details struct {
	Query     string `json:"query,omitempty"`
	Referer   string `json:"referer,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Logger buffers entries through a channel and persists them in batches from
// a single writer goroutine, keeping the request path free of DB latency.
type Logger struct {
	db      *sqlx.DB
	entries chan *Entry
	written atomic.Int64
	dropped atomic.Int64
}

func New(database *sqlx.DB) (*Logger, error) {
	if _, err := database.Exec(schema); err != nil {
		return nil, fmt.Errorf("create access_log schema: %w", err)
	}

	return &Logger{
		db:      database,
		entries: make(chan *Entry, queueSize),
	}, nil
}

// Record queues an entry without blocking. Entries are dropped when the
// writer falls behind; page serving must never wait on the log.
func (l *Logger) Record(e *Entry) {
	select {
	case l.entries <- e:
	default:
		l.dropped.Add(1)
	}
}

// Run consumes queued entries until ctx is cancelled, then drains and flushes
// whatever is left.
func (l *Logger) Run(ctx context.Context) error {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]*Entry, 0, flushBatch)

	for {
		select {
		case e := <-l.entries:
			batch = append(batch, e)
			if len(batch) >= flushBatch {
				batch = l.flush(batch)
			}

		case <-ticker.C:
			batch = l.flush(batch)

		case <-ctx.Done():
			for {
				select {
				case e := <-l.entries:
					batch = append(batch, e)
				default:
					l.flush(batch)
					if n := l.dropped.Load(); n > 0 {
						slog.Warn("access log dropped entries", "count", n)
					}
					slog.Info("access log stopped", "written", l.written.Load())
					return nil
				}
			}
		}
	}
}

func (l *Logger) flush(batch []*Entry) []*Entry {
	if len(batch) == 0 {
		return batch
	}

	if _, err := l.db.NamedExec(insertQuery, batch); err != nil {
		slog.Error("access log flush failed", "count", len(batch), "error", err)
		return batch[:0]
	}

	l.written.Add(int64(len(batch)))
	return batch[:0]
}

// Count reports the number of persisted entries.
func (l *Logger) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := l.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM access_log"); err != nil {
		return 0, fmt.Errorf("count access_log: %w", err)
	}
	return n, nil
}

// Recent returns the latest n entries, newest first.
func (l *Logger) Recent(ctx context.Context, n int) ([]Entry, error) {
	var entries []Entry
	err := l.db.SelectContext(ctx, &entries,
		"SELECT * FROM access_log ORDER BY ts_ms DESC, id DESC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("select recent access_log: %w", err)
	}
	return entries, nil
}
