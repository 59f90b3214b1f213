package migration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// FileBackup copies the SQLite database file to a timestamped location
// before a mutating migration runs.
type FileBackup struct {
	databasePath string
	backupDir    string // empty means alongside the database file
	now          func() time.Time
	logger       *slog.Logger
}

// NewFileBackup creates a backup step for the database at databasePath.
// Backups land in backupDir when set, otherwise next to the database.
func NewFileBackup(databasePath, backupDir string, logger *slog.Logger) *FileBackup {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileBackup{
		databasePath: databasePath,
		backupDir:    backupDir,
		now:          time.Now,
		logger:       logger,
	}
}

// Backup copies the database file to <name>.backup.<timestamp>. A missing
// database file is not a failure: there is nothing to protect yet, and a
// zero handle is returned. Any other failure is ErrBackupFailed and the
// caller must abort the migration attempt.
func (b *FileBackup) Backup(ctx context.Context) (BackupHandle, error) {
	if err := ctx.Err(); err != nil {
		return BackupHandle{}, NewMigrationError("", "backup", fmt.Errorf("%w: %v", ErrBackupFailed, err))
	}

	info, err := os.Stat(b.databasePath)
	if os.IsNotExist(err) {
		b.logger.Info("database does not exist yet, skipping backup", "path", b.databasePath)
		return BackupHandle{}, nil
	}
	if err != nil {
		return BackupHandle{}, NewMigrationError("", "backup", fmt.Errorf("%w: %v", ErrBackupFailed, err))
	}

	createdAt := b.now().UTC()
	name := fmt.Sprintf("%s.backup.%s", filepath.Base(b.databasePath), createdAt.Format("20060102_150405"))
	dir := b.backupDir
	if dir == "" {
		dir = filepath.Dir(b.databasePath)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return BackupHandle{}, NewMigrationError("", "backup", fmt.Errorf("%w: %v", ErrBackupFailed, err))
	}
	destination := filepath.Join(dir, name)

	if err := copyFile(b.databasePath, destination); err != nil {
		return BackupHandle{}, NewMigrationError("", "backup", fmt.Errorf("%w: %v", ErrBackupFailed, err))
	}

	handle := BackupHandle{
		ID:          uuid.NewString(),
		Source:      b.databasePath,
		Destination: destination,
		Size:        info.Size(),
		CreatedAt:   createdAt,
	}

	b.logger.Info("database backed up",
		"destination", handle.Destination,
		"size", humanize.Bytes(uint64(handle.Size)))

	return handle, nil
}

func copyFile(source, destination string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(destination, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
