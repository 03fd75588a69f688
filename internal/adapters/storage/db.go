package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables. The activity table keeps insertion order via rowid so the
	// catalog comes back in the order it was seeded/created.
	schema := `
	CREATE TABLE IF NOT EXISTS activity (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		schedule TEXT NOT NULL DEFAULT '',
		start_time TEXT,
		end_time TEXT,
		max_participants INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS activity_day (
		activity_id TEXT NOT NULL,
		day TEXT NOT NULL,
		PRIMARY KEY (activity_id, day),
		FOREIGN KEY (activity_id) REFERENCES activity(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS activity_participant (
		activity_id TEXT NOT NULL,
		email TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (activity_id, email),
		FOREIGN KEY (activity_id) REFERENCES activity(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS student (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		grade TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS reset_token (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		used INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (account_id) REFERENCES account(id)
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
