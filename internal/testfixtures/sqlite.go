// Package testfixtures provides helpers for tests that need a real SQLite
// database.
package testfixtures

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/example/newsbot/internal/persistence/sqlite"
	"github.com/example/newsbot/internal/persistence/sqlite/migration"
	"github.com/example/newsbot/internal/persistence/sqlite/migration/migrations"
)

// NewDB opens a temporary SQLite database file for the test and returns
// the handle along with the file path. The handle is closed automatically
// when the test finishes.
func NewDB(tb testing.TB) (*sql.DB, string) {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "newsbot.db")
	db, err := sqlite.Open(sqlite.TestConfig(path))
	if err != nil {
		tb.Fatalf("failed to open test database: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })
	return db, path
}

// NewMigratedDB opens a temporary SQLite database and applies every
// registered migration to it.
func NewMigratedDB(tb testing.TB) *sql.DB {
	tb.Helper()

	db, path := NewDB(tb)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	registry, err := migration.NewRegistry(migrations.All()...)
	if err != nil {
		tb.Fatalf("failed to build registry: %v", err)
	}

	ledger := migration.NewLedger(db)
	backup := migration.NewFileBackup(path, tb.TempDir(), logger)
	runner := migration.NewRunner(db, registry, ledger, backup, logger)

	if err := runner.RunAll(context.Background(), true); err != nil {
		tb.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
