package testutil

import (
	"context"
	"testing"

	"github.com/pratik-mahalle/arcgate/internal/pkg/logger"
	"github.com/pratik-mahalle/arcgate/internal/repository/postgres"
	"github.com/pratik-mahalle/arcgate/migrations"
	"github.com/uptrace/bun"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test ends.
func NewTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := postgres.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { CleanupDB(db) })

	if _, err := postgres.RunMigrations(context.Background(), db, migrations.GetFS()); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	return db
}

// CleanupDB closes the test database
func CleanupDB(db *bun.DB) {
	if db != nil {
		db.Close()
	}
}

// NewTestLogger returns a logger that only reports errors
func NewTestLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json", OutputPath: "stderr"})
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
