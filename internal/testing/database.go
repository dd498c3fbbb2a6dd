// Package testing provides shared test helpers for kosyncd packages.
package testing

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/teranos/kosyncd/db"
)

// CreateTestDB creates a migrated SQLite test database in a temp directory.
// A file-backed database is used rather than :memory: so WAL-mode concurrency
// behaves as it does in production. Cleanup is registered via t.Cleanup().
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "kosyncd-test.db")
	database, err := db.OpenWithMigrations(path, nil)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database
}
