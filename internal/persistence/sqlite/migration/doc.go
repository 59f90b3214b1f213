// Package migration provides the versioned schema migration system for the
// bot's SQLite database.
//
// Migrations are self-contained modules registered in an explicit ordered
// list at startup. Each module exposes an idempotent read-only check and a
// transactional apply. The package supports:
//
//   - Sequential execution in ascending two-digit id order
//   - An applied_migrations ledger recording each successful migration
//   - A timestamped file backup before any mutating migration
//   - A confirmation gate for migrations declaring themselves destructive
//   - Transactional apply with rollback on failure, aborting the queue
//
// The ledger row for a migration is inserted inside the same transaction
// as its apply step, so a partially applied migration never appears
// applied.
package migration
