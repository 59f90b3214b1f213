package persistence

import (
	"context"
	"time"
)

// VolunteerRepository manages weekly writing shifts and volunteer
// profiles.
type VolunteerRepository interface {
	// CreateShift inserts an open shift with its reminder and due dates.
	CreateShift(ctx context.Context, reminderDate, dueDate time.Time) error

	// OpenShiftDates returns up to limit open due dates strictly after
	// the given day, ascending.
	OpenShiftDates(ctx context.Context, after time.Time, limit int) ([]time.Time, error)

	// NextOpenDate returns the earliest open due date strictly after the
	// given day, or ErrNotFound.
	NextOpenDate(ctx context.Context, after time.Time) (time.Time, error)

	// ClaimShift marks the open shift on dueDate as taken by name.
	// ErrNotFound when no open shift exists on that date.
	ClaimShift(ctx context.Context, dueDate time.Time, name string) error

	// ReleaseShift releases the shift on dueDate held by name.
	// ErrNotFound when name holds no shift on that date.
	ReleaseShift(ctx context.Context, dueDate time.Time, name string) error

	// NextAssignedDate returns the earliest due date assigned to name, or
	// ErrNotFound.
	NextAssignedDate(ctx context.Context, name string) (time.Time, error)

	// SetTimezone records the timezone for every shift held by name.
	// ErrNotFound when name holds no shift.
	SetTimezone(ctx context.Context, name, timezone string) error

	// UpdateProfile applies the non-empty profile fields to every shift
	// held by name. ErrNotFound when name holds no shift.
	UpdateProfile(ctx context.Context, name string, profile VolunteerProfile) error
}

// StateRepository persists small pieces of bot runtime state by key.
type StateRepository interface {
	SetState(ctx context.Context, key, value string) error
	GetState(ctx context.Context, key string) (string, error) // ErrNotFound when absent
	DeleteState(ctx context.Context, key string) error
}

// CacheRepository stores cached upstream responses keyed by name.
type CacheRepository interface {
	PutCacheEntry(ctx context.Context, key, value, commitSHA string) error
	GetCacheEntry(ctx context.Context, key string) (CacheEntry, error) // ErrNotFound when absent
}

// ReportRepository stores weekly PR summary reports, retaining only the
// most recent few.
type ReportRepository interface {
	// Save inserts or replaces the report for its date range and prunes
	// reports beyond the retention window.
	Save(ctx context.Context, report WeeklyReport) error

	// Latest returns the most recently created report, or ErrNotFound.
	Latest(ctx context.Context) (WeeklyReport, error)

	// Count returns the number of stored reports.
	Count(ctx context.Context) (int, error)
}
