package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/newsbot/internal/persistence"
)

// reportRetention is how many weekly reports are kept; older ones are
// pruned on save.
const reportRetention = 3

// Save inserts or replaces the report for its date range, then prunes
// reports beyond the retention window. Both steps share one transaction.
func (s *Store) Save(ctx context.Context, report persistence.WeeklyReport) error {
	dateRange := report.DateRange
	if dateRange == "" {
		dateRange = HumanizeDateRange(report.StartDate, report.EndDate)
	}

	return WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		insertSQL := `
			INSERT OR REPLACE INTO weekly_reports
				(start_date, end_date, total_prs, first_time_contributors_count,
				 synopsis, date_range_humanized, pr_data)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.ExecContext(ctx, insertSQL,
			formatDate(report.StartDate),
			formatDate(report.EndDate),
			report.TotalPRs,
			report.FirstTimeContributors,
			report.Synopsis,
			dateRange,
			string(report.PRData))
		if err != nil {
			return fmt.Errorf("sqlite: save weekly report: %w", err)
		}

		pruneSQL := `
			DELETE FROM weekly_reports
			WHERE id NOT IN (
				SELECT id FROM weekly_reports
				ORDER BY created_at DESC, id DESC
				LIMIT ?
			)
		`
		if _, err := tx.ExecContext(ctx, pruneSQL, reportRetention); err != nil {
			return fmt.Errorf("sqlite: prune weekly reports: %w", err)
		}
		return nil
	})
}

// Latest returns the most recently created report.
func (s *Store) Latest(ctx context.Context) (persistence.WeeklyReport, error) {
	querySQL := `
		SELECT id, start_date, end_date, COALESCE(total_prs, 0),
		       COALESCE(first_time_contributors_count, 0), COALESCE(synopsis, ''),
		       COALESCE(date_range_humanized, ''), COALESCE(pr_data, 'null'), created_at
		FROM weekly_reports
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var report persistence.WeeklyReport
	var startDate, endDate, prData, createdAt string
	err := s.db.QueryRowContext(ctx, querySQL).Scan(
		&report.ID, &startDate, &endDate, &report.TotalPRs,
		&report.FirstTimeContributors, &report.Synopsis,
		&report.DateRange, &prData, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.WeeklyReport{}, persistence.ErrNotFound
		}
		return persistence.WeeklyReport{}, fmt.Errorf("sqlite: latest weekly report: %w", err)
	}

	report.StartDate = parseDate(startDate)
	report.EndDate = parseDate(endDate)
	report.PRData = []byte(prData)
	report.CreatedAt = parseTimestamp(createdAt)
	return report, nil
}

// Count returns the number of stored reports.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM weekly_reports`).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: count weekly reports: %w", err)
	}
	return count, nil
}
