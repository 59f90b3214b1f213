package migration

import (
	"errors"
	"fmt"
)

// Migration-specific error types for different failure scenarios
var (
	// ErrConfiguration indicates duplicate or malformed migration
	// metadata. It is fatal at startup, before any run begins.
	ErrConfiguration = errors.New("invalid migration configuration")

	// ErrMigrationFailed indicates that a migration's check or apply
	// failed; the transaction was rolled back and the run aborted.
	ErrMigrationFailed = errors.New("migration execution failed")

	// ErrBackupFailed indicates the pre-migration backup could not be
	// completed. The migration attempt is aborted with no state changed.
	ErrBackupFailed = errors.New("database backup failed")

	// ErrConfirmationRequired indicates a destructive migration was
	// requested without explicit confirmation. No state was changed.
	ErrConfirmationRequired = errors.New("destructive migration requires confirmation")

	// ErrNotFound indicates the requested migration id is not registered.
	ErrNotFound = errors.New("migration not found")

	// ErrAlreadyApplied indicates the requested migration is already
	// recorded in the ledger.
	ErrAlreadyApplied = errors.New("migration already applied")

	// ErrOutOfOrder indicates a migration was requested while an earlier
	// one is still pending. Migrations apply in ascending id order only.
	ErrOutOfOrder = errors.New("migration out of order")

	// ErrDuplicateApplication indicates an attempt to record a ledger
	// entry for an id that is already recorded.
	ErrDuplicateApplication = errors.New("duplicate ledger entry")
)

// MigrationError wraps migration failures with the failing migration's id
// and the operation that failed.
type MigrationError struct {
	ID        string // migration id that caused the error, if known
	Operation string // operation being performed (check, backup, apply, record)
	Err       error  // underlying error
}

// Error implements the error interface.
func (e *MigrationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("migration %s: %s: %v", e.ID, e.Operation, e.Err)
	}
	return fmt.Sprintf("migration error: %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *MigrationError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *MigrationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewMigrationError creates a new MigrationError with context.
func NewMigrationError(id, operation string, err error) *MigrationError {
	return &MigrationError{
		ID:        id,
		Operation: operation,
		Err:       err,
	}
}
