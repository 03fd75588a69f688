package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

var slowQueryMs int64
var slowQueryOnce sync.Once

// getSlowQueryThreshold returns the slow-query threshold in milliseconds.
func getSlowQueryThreshold() float64 {
	slowQueryOnce.Do(func() {
		ms := DefaultSlowQueryMs
		if v := os.Getenv("MERGINGTON_SLOW_QUERY_MS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				ms = n
			}
		}
		atomic.StoreInt64(&slowQueryMs, int64(ms))
	})
	return float64(atomic.LoadInt64(&slowQueryMs))
}

// TimedDB wraps a *sql.DB to log slow queries.
// Satisfies the SQLDB interface so it can be passed to any store constructor.
type TimedDB struct {
	db        *sql.DB
	threshold float64
}

// Compile-time check that *TimedDB satisfies SQLDB.
var _ SQLDB = (*TimedDB)(nil)

// NewTimedDB wraps a *sql.DB with timing instrumentation.
// PRE: db is a valid database connection
// POST: Returns a wrapper that warns about queries slower than the threshold
func NewTimedDB(db *sql.DB) *TimedDB {
	return &TimedDB{db: db, threshold: getSlowQueryThreshold()}
}

func (t *TimedDB) record(query string, start time.Time) {
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	if elapsed >= t.threshold {
		slog.Warn("slow_query", "query", query, "ms", elapsed)
	}
}

// ExecContext runs ExecContext on the underlying DB, timing the call.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	defer t.record(query, start)
	return t.db.ExecContext(ctx, query, args...)
}

// QueryContext runs QueryContext on the underlying DB, timing the call.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	defer t.record(query, start)
	return t.db.QueryContext(ctx, query, args...)
}

// QueryRowContext runs QueryRowContext on the underlying DB, timing the call.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	defer t.record(query, start)
	return t.db.QueryRowContext(ctx, query, args...)
}

// BeginTx starts a transaction on the underlying DB.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return t.db.BeginTx(ctx, opts)
}
