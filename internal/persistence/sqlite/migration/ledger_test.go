package migration

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLedgerEnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(openTestDB(t))

	if err := ledger.Ensure(ctx); err != nil {
		t.Fatalf("first ensure: expected no error, got: %v", err)
	}
	if err := ledger.Ensure(ctx); err != nil {
		t.Fatalf("second ensure: expected no error, got: %v", err)
	}
}

func TestLedgerRecordAndLookup(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	ledger := NewLedger(db)

	if err := ledger.Ensure(ctx); err != nil {
		t.Fatalf("failed to ensure ledger: %v", err)
	}

	applied, err := ledger.IsApplied(ctx, "00")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if applied {
		t.Errorf("expected 00 to be unapplied")
	}

	if err := ledger.RecordApplied(ctx, db, "00", "initial_migration"); err != nil {
		t.Fatalf("failed to record migration: %v", err)
	}

	applied, err = ledger.IsApplied(ctx, "00")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !applied {
		t.Errorf("expected 00 to be applied")
	}
}

func TestLedgerRecordAppliedRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	ledger := NewLedger(db)

	if err := ledger.Ensure(ctx); err != nil {
		t.Fatalf("failed to ensure ledger: %v", err)
	}
	if err := ledger.RecordApplied(ctx, db, "00", "initial_migration"); err != nil {
		t.Fatalf("failed to record migration: %v", err)
	}

	err := ledger.RecordApplied(ctx, db, "00", "initial_migration")
	if !errors.Is(err, ErrDuplicateApplication) {
		t.Errorf("expected ErrDuplicateApplication, got: %v", err)
	}
}

func TestLedgerRecordAppliedInsideTransaction(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	ledger := NewLedger(db)

	if err := ledger.Ensure(ctx); err != nil {
		t.Fatalf("failed to ensure ledger: %v", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	if err := ledger.RecordApplied(ctx, tx, "00", "initial_migration"); err != nil {
		t.Fatalf("failed to record migration: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("failed to roll back: %v", err)
	}

	applied, err := ledger.IsApplied(ctx, "00")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if applied {
		t.Errorf("expected rolled back record to be absent")
	}
}

func TestLedgerListAppliedOrdering(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	ledger := NewLedger(db)

	if err := ledger.Ensure(ctx); err != nil {
		t.Fatalf("failed to ensure ledger: %v", err)
	}
	for _, id := range []string{"00", "01", "02"} {
		if err := ledger.RecordApplied(ctx, db, id, "migration_"+id); err != nil {
			t.Fatalf("failed to record %s: %v", id, err)
		}
	}

	entries, err := ledger.ListApplied(ctx)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, id := range []string{"00", "01", "02"} {
		if entries[i].MigrationID != id {
			t.Errorf("entries[%d]: expected %s, got %s", i, id, entries[i].MigrationID)
		}
		if entries[i].MigrationName != "migration_"+id {
			t.Errorf("entries[%d]: expected name migration_%s, got %s", i, id, entries[i].MigrationName)
		}
		if entries[i].AppliedAt.IsZero() {
			t.Errorf("entries[%d]: expected applied timestamp", i)
		}
	}
}

func TestParseLedgerTime(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{
			name:  "rfc3339",
			value: "2026-08-26T10:30:00Z",
			want:  time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "sqlite current timestamp",
			value: "2026-08-26 10:30:00",
			want:  time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseLedgerTime(tt.value)
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
