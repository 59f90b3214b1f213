package migrations

import (
	"context"
	"database/sql"
)

// initialMigration creates the base volunteers schema when absent, adds
// the profile columns introduced after the first deployment, and creates
// the volunteer lookup indexes.
type initialMigration struct{}

const volunteersSchema = `
	CREATE TABLE IF NOT EXISTS volunteers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		reminder_date DATE,
		due_date DATE NOT NULL,
		is_taken INTEGER NOT NULL DEFAULT 0,
		timezone TEXT
	);
`

// profileColumns are the columns this migration retrofits onto databases
// created before profiles existed.
var profileColumns = []struct {
	name string
	ddl  string
}{
	{"social_media_handle", `ALTER TABLE volunteers ADD COLUMN social_media_handle TEXT`},
	{"preferred_reminder_time", `ALTER TABLE volunteers ADD COLUMN preferred_reminder_time TEXT DEFAULT '09:00'`},
	{"volunteer_name", `ALTER TABLE volunteers ADD COLUMN volunteer_name TEXT`},
}

var volunteerIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_volunteers_name ON volunteers(name)`,
	`CREATE INDEX IF NOT EXISTS idx_volunteers_due_date ON volunteers(due_date)`,
	`CREATE INDEX IF NOT EXISTS idx_volunteers_is_taken ON volunteers(is_taken)`,
	`CREATE INDEX IF NOT EXISTS idx_volunteers_name_taken ON volunteers(name, is_taken)`,
}

func (initialMigration) ID() string   { return "00" }
func (initialMigration) Name() string { return "initial_migration" }
func (initialMigration) Description() string {
	return "Create the volunteers table, profile columns and performance indexes"
}
func (initialMigration) Destructive() bool { return false }

func (m initialMigration) Check(ctx context.Context, db *sql.DB) ([]string, error) {
	exists, err := tableExists(ctx, db, "volunteers")
	if err != nil {
		return nil, err
	}

	var changes []string
	if !exists {
		changes = append(changes, "Create volunteers table")
	}

	columns := map[string]bool{}
	if exists {
		columns, err = columnNames(ctx, db, "volunteers")
		if err != nil {
			return nil, err
		}
	}
	for _, column := range profileColumns {
		if !columns[column.name] {
			changes = append(changes, "Add "+column.name+" column")
		}
	}
	return changes, nil
}

func (m initialMigration) Apply(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, volunteersSchema); err != nil {
		return err
	}

	columns, err := columnNames(ctx, tx, "volunteers")
	if err != nil {
		return err
	}
	for _, column := range profileColumns {
		if columns[column.name] {
			continue
		}
		if _, err := tx.ExecContext(ctx, column.ddl); err != nil {
			return err
		}
	}

	for _, index := range volunteerIndexes {
		if _, err := tx.ExecContext(ctx, index); err != nil {
			return err
		}
	}
	return nil
}
