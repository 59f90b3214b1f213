package migration

import (
	"context"
	"database/sql"
	"time"
)

// Module is a single schema migration. Implementations are registered
// statically at startup; the two-digit ID defines the application order.
type Module interface {
	// ID returns the two-digit migration identifier (e.g. "00", "01").
	ID() string

	// Name returns a short human-readable slug for the migration.
	Name() string

	// Description returns free text describing what the migration does.
	Description() string

	// Destructive reports whether applying the migration can lose data.
	// Destructive migrations require explicit operator confirmation.
	Destructive() bool

	// Check probes the database and returns a descriptor for every change
	// the migration still needs to make. It must not mutate state. An
	// empty result means the schema already satisfies the migration.
	Check(ctx context.Context, db *sql.DB) ([]string, error)

	// Apply performs the schema change inside the transaction owned by
	// the runner. Statements should carry IF NOT EXISTS style guards
	// where the dialect allows; the ledger remains the idempotence
	// boundary.
	Apply(ctx context.Context, tx *sql.Tx) error
}

// DBTX is the subset of database/sql operations shared by *sql.DB and
// *sql.Tx, letting helpers run both inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// BackupStep copies the persistent store aside before a mutating
// migration runs.
type BackupStep interface {
	Backup(ctx context.Context) (BackupHandle, error)
}

// BackupHandle describes a completed backup. A zero handle (empty ID)
// means no backup was necessary because the store did not exist yet.
type BackupHandle struct {
	ID          string
	Source      string
	Destination string
	Size        int64
	CreatedAt   time.Time
}

// LedgerEntry records one successfully applied migration.
type LedgerEntry struct {
	MigrationID   string
	MigrationName string
	AppliedAt     time.Time
}

// Status reports the applied/pending state of every registered migration.
type Status struct {
	Entries []StatusEntry
}

// StatusEntry is the status of a single registered migration.
type StatusEntry struct {
	ID        string
	Name      string
	Applied   bool
	AppliedAt time.Time // zero unless Applied
}

// AppliedCount returns the number of applied migrations in the report.
func (s *Status) AppliedCount() int {
	count := 0
	for _, entry := range s.Entries {
		if entry.Applied {
			count++
		}
	}
	return count
}

// PendingCount returns the number of pending migrations in the report.
func (s *Status) PendingCount() int {
	return len(s.Entries) - s.AppliedCount()
}
