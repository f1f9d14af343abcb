package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/colesegura/HorizonFrame2-sub000/internal/testutil"
)

// createTestStore opens a store in t.TempDir() whose generated ids are
// rec-0001, rec-0002, ...
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), WithIDGenerator(testutil.NewSequentialIDs("rec")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// day is 2024-07-d at hour:00 UTC.
func day(d, hour int) time.Time {
	return time.Date(2024, time.July, d, hour, 0, 0, 0, time.UTC)
}

// column collects the first column of every row returned by query.
func column(t *testing.T, db *sql.DB, query string, args ...any) []string {
	t.Helper()
	rows, err := db.Query(query, args...)
	if err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("scan %q: %v", query, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows %q: %v", query, err)
	}
	return out
}

func tableColumns(t *testing.T, db *sql.DB, table string) []string {
	return column(t, db, "SELECT name FROM pragma_table_info(?)", table)
}

func tableIndexes(t *testing.T, db *sql.DB, table string) []string {
	return column(t, db, "SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = ?", table)
}
