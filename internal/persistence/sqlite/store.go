// Package sqlite implements the persistence repositories over a SQLite
// database whose schema is managed by the migration subpackage.
package sqlite

import (
	"database/sql"
	"time"

	"github.com/example/newsbot/internal/persistence"
)

var (
	_ persistence.VolunteerRepository = (*Store)(nil)
	_ persistence.StateRepository     = (*Store)(nil)
	_ persistence.CacheRepository     = (*Store)(nil)
	_ persistence.ReportRepository    = (*Store)(nil)
)

// dateLayout is the day-precision format used for DATE columns.
const dateLayout = "2006-01-02"

// Store implements the persistence repositories over a migrated SQLite
// database.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open, migrated database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for the migration runner.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func parseDate(value string) time.Time {
	// DATE columns may round-trip with a time component attached.
	for _, layout := range []string{dateLayout, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func parseTimestamp(value string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
