package storage

import (
	"database/sql"
	"sort"
	"testing"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expectedTables is the sorted list of tables after initialization.
var expectedTables = []string{
	"account",
	"activity",
	"activity_day",
	"activity_participant",
	"reset_token",
	"student",
}

// TestInitDB_Fresh verifies the schema applies cleanly to an empty database.
func TestInitDB_Fresh(t *testing.T) {
	db := openTestDB(t)

	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed on fresh db: %v", err)
	}

	tables := getTableNames(t, db)
	if len(tables) != len(expectedTables) {
		t.Errorf("got %d tables, want %d\ngot:  %v\nwant: %v", len(tables), len(expectedTables), tables, expectedTables)
	}
	for i, want := range expectedTables {
		if i >= len(tables) {
			t.Errorf("missing table: %s", want)
			continue
		}
		if tables[i] != want {
			t.Errorf("table[%d] = %q, want %q", i, tables[i], want)
		}
	}
}

// TestInitDB_Idempotent verifies that running InitDB twice produces no errors.
func TestInitDB_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := InitDB(db); err != nil {
		t.Fatalf("first InitDB failed: %v", err)
	}
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}

	tables := getTableNames(t, db)
	if len(tables) != len(expectedTables) {
		t.Errorf("got %d tables after idempotent run, want %d", len(tables), len(expectedTables))
	}
}

// TestInitDB_CascadeDelete verifies activity days and participants are removed
// with their activity.
func TestInitDB_CascadeDelete(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	if _, err := db.Exec("INSERT INTO activity (id, name, description, schedule, max_participants) VALUES ('a1', 'Chess Club', 'desc', 'sched', 12)"); err != nil {
		t.Fatalf("insert activity: %v", err)
	}
	if _, err := db.Exec("INSERT INTO activity_day (activity_id, day) VALUES ('a1', 'Monday')"); err != nil {
		t.Fatalf("insert day: %v", err)
	}
	if _, err := db.Exec("INSERT INTO activity_participant (activity_id, email, position) VALUES ('a1', 'alex@mergington.edu', 1)"); err != nil {
		t.Fatalf("insert participant: %v", err)
	}

	if _, err := db.Exec("DELETE FROM activity WHERE id = 'a1'"); err != nil {
		t.Fatalf("delete activity: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM activity_day").Scan(&count); err != nil {
		t.Fatalf("count days: %v", err)
	}
	if count != 0 {
		t.Errorf("activity_day count = %d, want 0 after cascade", count)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM activity_participant").Scan(&count); err != nil {
		t.Fatalf("count participants: %v", err)
	}
	if count != 0 {
		t.Errorf("activity_participant count = %d, want 0 after cascade", count)
	}
}
