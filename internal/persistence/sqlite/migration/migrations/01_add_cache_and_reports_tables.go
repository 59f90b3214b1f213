package migrations

import (
	"context"
	"database/sql"
)

// addCacheAndReportsTables adds the cache_entries table (cached upstream
// responses keyed by commit) and the weekly_reports table (stored weekly
// PR summaries with auto-cleanup handled by the report repository).
type addCacheAndReportsTables struct{}

const cacheEntriesSchema = `
	CREATE TABLE IF NOT EXISTS cache_entries (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		commit_sha TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
`

const weeklyReportsSchema = `
	CREATE TABLE IF NOT EXISTS weekly_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		total_prs INTEGER,
		first_time_contributors_count INTEGER,
		synopsis TEXT,
		date_range_humanized TEXT,
		pr_data JSON,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(start_date, end_date)
	);
`

var cacheAndReportIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_cache_entries_key ON cache_entries(key)`,
	`CREATE INDEX IF NOT EXISTS idx_weekly_reports_dates ON weekly_reports(start_date, end_date)`,
	`CREATE INDEX IF NOT EXISTS idx_weekly_reports_created ON weekly_reports(created_at)`,
}

func (addCacheAndReportsTables) ID() string   { return "01" }
func (addCacheAndReportsTables) Name() string { return "add_cache_and_reports_tables" }
func (addCacheAndReportsTables) Description() string {
	return "Add cache_entries and weekly_reports tables for better data management"
}
func (addCacheAndReportsTables) Destructive() bool { return false }

func (m addCacheAndReportsTables) Check(ctx context.Context, db *sql.DB) ([]string, error) {
	var changes []string
	for _, table := range []string{"cache_entries", "weekly_reports"} {
		exists, err := tableExists(ctx, db, table)
		if err != nil {
			return nil, err
		}
		if !exists {
			changes = append(changes, "Create "+table+" table")
		}
	}
	return changes, nil
}

func (m addCacheAndReportsTables) Apply(ctx context.Context, tx *sql.Tx) error {
	for _, schema := range []string{cacheEntriesSchema, weeklyReportsSchema} {
		if _, err := tx.ExecContext(ctx, schema); err != nil {
			return err
		}
	}
	for _, index := range cacheAndReportIndexes {
		if _, err := tx.ExecContext(ctx, index); err != nil {
			return err
		}
	}
	return nil
}
