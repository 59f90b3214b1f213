package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/newsbot/internal/persistence"
)

// CreateShift inserts an open shift with its reminder and due dates.
func (s *Store) CreateShift(ctx context.Context, reminderDate, dueDate time.Time) error {
	insertSQL := `INSERT INTO volunteers (reminder_date, due_date) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, insertSQL, formatDate(reminderDate), formatDate(dueDate)); err != nil {
		return fmt.Errorf("sqlite: create shift: %w", err)
	}
	return nil
}

// OpenShiftDates returns up to limit open due dates strictly after the
// given day, ascending.
func (s *Store) OpenShiftDates(ctx context.Context, after time.Time, limit int) ([]time.Time, error) {
	querySQL := `
		SELECT due_date
		FROM volunteers
		WHERE due_date > ? AND is_taken = 0
		ORDER BY due_date ASC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, querySQL, formatDate(after), limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list open shifts: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("sqlite: scan open shift: %w", err)
		}
		dates = append(dates, parseDate(value))
	}
	return dates, rows.Err()
}

// NextOpenDate returns the earliest open due date strictly after the given
// day.
func (s *Store) NextOpenDate(ctx context.Context, after time.Time) (time.Time, error) {
	querySQL := `
		SELECT due_date
		FROM volunteers
		WHERE due_date > ? AND is_taken = 0
		ORDER BY due_date ASC
		LIMIT 1
	`

	var value string
	err := s.db.QueryRowContext(ctx, querySQL, formatDate(after)).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, persistence.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("sqlite: next open shift: %w", err)
	}
	return parseDate(value), nil
}

// ClaimShift marks the open shift on dueDate as taken by name.
func (s *Store) ClaimShift(ctx context.Context, dueDate time.Time, name string) error {
	updateSQL := `
		UPDATE volunteers
		SET is_taken = 1, name = ?
		WHERE due_date = ? AND is_taken = 0
	`

	result, err := s.db.ExecContext(ctx, updateSQL, name, formatDate(dueDate))
	if err != nil {
		return fmt.Errorf("sqlite: claim shift: %w", err)
	}
	return requireRows(result)
}

// ReleaseShift releases the shift on dueDate held by name.
func (s *Store) ReleaseShift(ctx context.Context, dueDate time.Time, name string) error {
	updateSQL := `
		UPDATE volunteers
		SET is_taken = 0
		WHERE due_date = ? AND name = ? AND is_taken = 1
	`

	result, err := s.db.ExecContext(ctx, updateSQL, formatDate(dueDate), name)
	if err != nil {
		return fmt.Errorf("sqlite: release shift: %w", err)
	}
	return requireRows(result)
}

// NextAssignedDate returns the earliest due date assigned to name.
func (s *Store) NextAssignedDate(ctx context.Context, name string) (time.Time, error) {
	querySQL := `
		SELECT due_date
		FROM volunteers
		WHERE name = ? AND is_taken = 1
		ORDER BY due_date ASC
		LIMIT 1
	`

	var value string
	err := s.db.QueryRowContext(ctx, querySQL, name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, persistence.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("sqlite: next assigned shift: %w", err)
	}
	return parseDate(value), nil
}

// SetTimezone records the timezone for every shift held by name.
func (s *Store) SetTimezone(ctx context.Context, name, timezone string) error {
	updateSQL := `
		UPDATE volunteers
		SET timezone = ?
		WHERE name = ? AND is_taken = 1
	`

	result, err := s.db.ExecContext(ctx, updateSQL, timezone, name)
	if err != nil {
		return fmt.Errorf("sqlite: set timezone: %w", err)
	}
	return requireRows(result)
}

// UpdateProfile applies the non-empty profile fields to every shift held
// by name.
func (s *Store) UpdateProfile(ctx context.Context, name string, profile persistence.VolunteerProfile) error {
	updateSQL := `
		UPDATE volunteers
		SET volunteer_name = COALESCE(NULLIF(?, ''), volunteer_name),
		    social_media_handle = COALESCE(NULLIF(?, ''), social_media_handle),
		    preferred_reminder_time = COALESCE(NULLIF(?, ''), preferred_reminder_time),
		    organization = COALESCE(NULLIF(?, ''), organization),
		    organization_link = COALESCE(NULLIF(?, ''), organization_link)
		WHERE name = ? AND is_taken = 1
	`

	result, err := s.db.ExecContext(ctx, updateSQL,
		profile.VolunteerName,
		profile.SocialMediaHandle,
		profile.PreferredReminderTime,
		profile.Organization,
		profile.OrganizationLink,
		name)
	if err != nil {
		return fmt.Errorf("sqlite: update profile: %w", err)
	}
	return requireRows(result)
}

func requireRows(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
