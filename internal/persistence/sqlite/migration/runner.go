package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Runner orchestrates migration execution: it lists and status-reports
// registered migrations, and applies pending ones in ascending id order,
// consulting the ledger and invoking the backup step. The runner owns the
// database connection for the duration of a run; one migration executes
// at a time, and a failure aborts the remaining queue.
type Runner struct {
	db       *sql.DB
	registry *Registry
	ledger   *Ledger
	backup   BackupStep
	logger   *slog.Logger
}

// NewRunner creates a runner over the given registry, ledger and backup
// step.
func NewRunner(db *sql.DB, registry *Registry, ledger *Ledger, backup BackupStep, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		db:       db,
		registry: registry,
		ledger:   ledger,
		backup:   backup,
		logger:   logger,
	}
}

// ListPending returns the registered migrations not yet recorded in the
// ledger, in ascending id order.
func (r *Runner) ListPending(ctx context.Context) ([]Module, error) {
	if err := r.ledger.Ensure(ctx); err != nil {
		return nil, err
	}

	applied, err := r.appliedSet(ctx)
	if err != nil {
		return nil, err
	}

	var pending []Module
	for _, mod := range r.registry.List() {
		if !applied[mod.ID()] {
			pending = append(pending, mod)
		}
	}
	return pending, nil
}

// Status reports the applied/pending state of every registered migration,
// with the application timestamp where known. It never mutates state
// beyond ensuring the ledger table exists.
func (r *Runner) Status(ctx context.Context) (*Status, error) {
	if err := r.ledger.Ensure(ctx); err != nil {
		return nil, err
	}

	entries, err := r.ledger.ListApplied(ctx)
	if err != nil {
		return nil, err
	}
	appliedAt := make(map[string]time.Time, len(entries))
	for _, entry := range entries {
		appliedAt[entry.MigrationID] = entry.AppliedAt
	}

	status := &Status{}
	for _, mod := range r.registry.List() {
		at, applied := appliedAt[mod.ID()]
		status.Entries = append(status.Entries, StatusEntry{
			ID:        mod.ID(),
			Name:      mod.Name(),
			Applied:   applied,
			AppliedAt: at,
		})
	}
	return status, nil
}

// RunAll applies every pending migration in ascending id order. The first
// failure rolls back, leaves the ledger untouched for that migration, and
// aborts the remaining queue: later migrations are assumed to depend on
// earlier ones.
func (r *Runner) RunAll(ctx context.Context, confirm bool) error {
	startTime := time.Now()

	pending, err := r.ListPending(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		r.logger.Info("no pending migrations, database is up to date")
		return nil
	}

	r.logger.Info("starting migration run", "pending", len(pending))
	for i, mod := range pending {
		r.logger.Info("executing migration",
			"id", mod.ID(),
			"name", mod.Name(),
			"progress", fmt.Sprintf("%d/%d", i+1, len(pending)))

		if err := r.runModule(ctx, mod, confirm); err != nil {
			r.logger.Error("migration run aborted", "id", mod.ID(), "error", err)
			return err
		}
	}

	r.logger.Info("all migrations completed",
		"applied", len(pending),
		"elapsed", time.Since(startTime).String())
	return nil
}

// RunOne applies the single migration registered under id. It fails with
// ErrNotFound for an unknown id, ErrAlreadyApplied when the ledger already
// records it, and ErrOutOfOrder when an earlier migration is still
// pending: out-of-order execution is rejected everywhere.
func (r *Runner) RunOne(ctx context.Context, id string, confirm bool) error {
	mod, err := r.registry.Get(id)
	if err != nil {
		return err
	}

	if err := r.ledger.Ensure(ctx); err != nil {
		return err
	}

	applied, err := r.ledger.IsApplied(ctx, id)
	if err != nil {
		return err
	}
	if applied {
		return NewMigrationError(id, "run", ErrAlreadyApplied)
	}

	appliedSet, err := r.appliedSet(ctx)
	if err != nil {
		return err
	}
	var earlier []string
	for _, prior := range r.registry.Before(id) {
		if !appliedSet[prior.ID()] {
			earlier = append(earlier, prior.ID())
		}
	}
	if len(earlier) > 0 {
		return NewMigrationError(id, "run",
			fmt.Errorf("%w: migrations %s are still pending", ErrOutOfOrder, strings.Join(earlier, ", ")))
	}

	r.logger.Info("executing migration", "id", mod.ID(), "name", mod.Name())
	return r.runModule(ctx, mod, confirm)
}

// runModule walks one migration through its states: check, then either a
// record-only skip (schema already satisfied), or backup, apply and record
// inside a single transaction.
func (r *Runner) runModule(ctx context.Context, mod Module, confirm bool) error {
	changes, err := mod.Check(ctx, r.db)
	if err != nil {
		return NewMigrationError(mod.ID(), "check", fmt.Errorf("%w: %v", ErrMigrationFailed, err))
	}

	if len(changes) == 0 {
		// The schema already satisfies this migration (e.g. columns
		// pre-existing). Record it without backing up.
		r.logger.Info("schema already satisfied, recording without apply", "id", mod.ID())
		return r.ledger.RecordApplied(ctx, r.db, mod.ID(), mod.Name())
	}

	for _, change := range changes {
		r.logger.Info("pending change", "id", mod.ID(), "change", change)
	}

	if mod.Destructive() && !confirm {
		return NewMigrationError(mod.ID(), "confirm", ErrConfirmationRequired)
	}

	if _, err := r.backup.Backup(ctx); err != nil {
		return err
	}

	startTime := time.Now()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return NewMigrationError(mod.ID(), "begin transaction", fmt.Errorf("%w: %v", ErrMigrationFailed, err))
	}

	if err := mod.Apply(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("rollback failed", "id", mod.ID(), "error", rbErr)
		}
		return NewMigrationError(mod.ID(), "apply", fmt.Errorf("%w: %v", ErrMigrationFailed, err))
	}

	if err := r.ledger.RecordApplied(ctx, tx, mod.ID(), mod.Name()); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("rollback failed", "id", mod.ID(), "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return NewMigrationError(mod.ID(), "commit", fmt.Errorf("%w: %v", ErrMigrationFailed, err))
	}

	r.logger.Info("migration applied",
		"id", mod.ID(),
		"name", mod.Name(),
		"elapsed", time.Since(startTime).String())
	return nil
}

func (r *Runner) appliedSet(ctx context.Context) (map[string]bool, error) {
	entries, err := r.ledger.ListApplied(ctx)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(entries))
	for _, entry := range entries {
		applied[entry.MigrationID] = true
	}
	return applied, nil
}
