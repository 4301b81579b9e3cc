package testhelpers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Abdullah098765/CRM-Software/internal/database"
)

// NewTestDB returns an in-memory SQLite database opened the same way as the
// server opens its file. It is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// NewMigratedDB is NewTestDB with every migration applied.
func NewMigratedDB(t *testing.T) *sql.DB {
	t.Helper()

	db := NewTestDB(t)
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
