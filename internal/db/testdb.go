package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// NewTestDB opens a migrated portal database in a per-test temporary
// directory, so tests run with the same pragmas as production. It is
// closed when the test ends.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	database, err := Open(filepath.Join(t.TempDir(), "milaap.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := Migrate(database); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return database
}
