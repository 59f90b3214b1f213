package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Ledger persists which migrations have been applied. A row exists in
// applied_migrations if and only if the corresponding migration completed
// successfully; the runner inserts the row inside the same transaction as
// the migration's apply step.
type Ledger struct {
	db *sql.DB
}

// NewLedger creates a ledger backed by db.
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Ensure creates the applied_migrations table if it does not exist.
func (l *Ledger) Ensure(ctx context.Context) error {
	createTableSQL := `
		CREATE TABLE IF NOT EXISTS applied_migrations (
			migration_id TEXT PRIMARY KEY,
			migration_name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`

	if _, err := l.db.ExecContext(ctx, createTableSQL); err != nil {
		return NewMigrationError("", "ensure ledger table", err)
	}
	return nil
}

// IsApplied reports whether the migration id is recorded in the ledger.
func (l *Ledger) IsApplied(ctx context.Context, id string) (bool, error) {
	querySQL := `SELECT 1 FROM applied_migrations WHERE migration_id = ? LIMIT 1`

	var exists int
	err := l.db.QueryRowContext(ctx, querySQL, id).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, NewMigrationError(id, "check ledger", err)
	}
	return true, nil
}

// RecordApplied inserts a ledger entry for id. It runs against conn so the
// runner can make the insert part of the migration's own transaction. The
// duplicate check is defensive; the runner consults IsApplied first.
func (l *Ledger) RecordApplied(ctx context.Context, conn DBTX, id, name string) error {
	var exists int
	err := conn.QueryRowContext(ctx, `SELECT 1 FROM applied_migrations WHERE migration_id = ? LIMIT 1`, id).Scan(&exists)
	if err == nil {
		return NewMigrationError(id, "record migration", ErrDuplicateApplication)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return NewMigrationError(id, "record migration", err)
	}

	appliedAt := time.Now().UTC().Format(time.RFC3339)
	insertSQL := `INSERT INTO applied_migrations (migration_id, migration_name, applied_at) VALUES (?, ?, ?)`
	if _, err := conn.ExecContext(ctx, insertSQL, id, name, appliedAt); err != nil {
		return NewMigrationError(id, "record migration", err)
	}
	return nil
}

// ListApplied returns all ledger entries ordered by application time.
func (l *Ledger) ListApplied(ctx context.Context) ([]LedgerEntry, error) {
	querySQL := `
		SELECT migration_id, migration_name, applied_at
		FROM applied_migrations
		ORDER BY applied_at ASC, migration_id ASC
	`

	rows, err := l.db.QueryContext(ctx, querySQL)
	if err != nil {
		return nil, NewMigrationError("", "list applied migrations", err)
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var entry LedgerEntry
		var appliedAt string
		if err := rows.Scan(&entry.MigrationID, &entry.MigrationName, &appliedAt); err != nil {
			return nil, NewMigrationError("", "scan ledger entry", err)
		}
		entry.AppliedAt = parseLedgerTime(appliedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, NewMigrationError("", "iterate ledger entries", err)
	}
	return entries, nil
}

// parseLedgerTime accepts both the RFC3339 stamps the ledger writes and
// the "YYYY-MM-DD HH:MM:SS" form SQLite uses for CURRENT_TIMESTAMP.
func parseLedgerTime(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// String renders a ledger entry for operator-facing output.
func (e LedgerEntry) String() string {
	return fmt.Sprintf("%s %s (applied %s)", e.MigrationID, e.MigrationName, e.AppliedAt.Format("2006-01-02 15:04:05 UTC"))
}
