package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/newsbot/internal/persistence"
	"github.com/example/newsbot/internal/persistence/sqlite"
)

func weekReport(start time.Time, totalPRs int) persistence.WeeklyReport {
	return persistence.WeeklyReport{
		StartDate:             start,
		EndDate:               start.AddDate(0, 0, 6),
		TotalPRs:              totalPRs,
		FirstTimeContributors: 1,
		Synopsis:              "a quiet week",
		PRData:                []byte(`[{"number": 1}]`),
	}
}

func TestSaveAndLatestReport(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	if _, err := store.Latest(ctx); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("expected ErrNotFound on empty table, got: %v", err)
	}

	start := day(2026, time.August, 17)
	if err := store.Save(ctx, weekReport(start, 12)); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	report, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !report.StartDate.Equal(start) || !report.EndDate.Equal(start.AddDate(0, 0, 6)) {
		t.Errorf("unexpected date range: %v to %v", report.StartDate, report.EndDate)
	}
	if report.TotalPRs != 12 || report.FirstTimeContributors != 1 {
		t.Errorf("unexpected counts: %d PRs, %d first-timers", report.TotalPRs, report.FirstTimeContributors)
	}
	if report.DateRange != "August 17th to August 23rd" {
		t.Errorf("unexpected humanized range: %q", report.DateRange)
	}
	if string(report.PRData) != `[{"number": 1}]` {
		t.Errorf("unexpected pr data: %s", report.PRData)
	}
	if report.CreatedAt.IsZero() {
		t.Errorf("expected created_at to be set")
	}
}

func TestSaveReplacesSameDateRange(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	start := day(2026, time.August, 17)
	if err := store.Save(ctx, weekReport(start, 12)); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}
	if err := store.Save(ctx, weekReport(start, 15)); err != nil {
		t.Fatalf("failed to resave report: %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 report after resave, got %d", count)
	}

	report, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if report.TotalPRs != 15 {
		t.Errorf("expected replaced report with 15 PRs, got %d", report.TotalPRs)
	}
}

func TestSavePrunesOldReports(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	start := day(2026, time.June, 1)
	for week := 0; week < 5; week++ {
		if err := store.Save(ctx, weekReport(start.AddDate(0, 0, 7*week), 10+week)); err != nil {
			t.Fatalf("failed to save report %d: %v", week, err)
		}
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if count != 3 {
		t.Errorf("expected retention of 3 reports, got %d", count)
	}

	report, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !report.StartDate.Equal(start.AddDate(0, 0, 28)) {
		t.Errorf("expected latest report to survive pruning, got start %v", report.StartDate)
	}
}

func TestSaveKeepsProvidedDateRange(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	report := weekReport(day(2026, time.August, 17), 3)
	report.DateRange = "the week that was"
	if err := store.Save(ctx, report); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	got, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got.DateRange != "the week that was" {
		t.Errorf("expected provided range to be kept, got %q", got.DateRange)
	}
}

func TestHumanizeDateRange(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  string
	}{
		{
			name:  "same year",
			start: day(2026, time.August, 18),
			end:   day(2026, time.August, 24),
			want:  "August 18th to August 24th",
		},
		{
			name:  "ordinal suffixes",
			start: day(2026, time.August, 1),
			end:   day(2026, time.August, 2),
			want:  "August 1st to August 2nd",
		},
		{
			name:  "year boundary",
			start: day(2025, time.December, 29),
			end:   day(2026, time.January, 4),
			want:  "December 29th, 2025 to January 4th, 2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sqlite.HumanizeDateRange(tt.start, tt.end); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
