package migrations

import (
	"context"
	"database/sql"
)

// addOrganizationColumns adds the optional organization name and website
// columns to the volunteers table.
type addOrganizationColumns struct{}

var organizationColumns = []struct {
	name string
	ddl  string
}{
	{"organization", `ALTER TABLE volunteers ADD COLUMN organization TEXT`},
	{"organization_link", `ALTER TABLE volunteers ADD COLUMN organization_link TEXT`},
}

func (addOrganizationColumns) ID() string   { return "03" }
func (addOrganizationColumns) Name() string { return "add_organization_columns" }
func (addOrganizationColumns) Description() string {
	return "Add organization columns to volunteers table"
}
func (addOrganizationColumns) Destructive() bool { return false }

func (m addOrganizationColumns) Check(ctx context.Context, db *sql.DB) ([]string, error) {
	columns, err := columnNames(ctx, db, "volunteers")
	if err != nil {
		return nil, err
	}

	var changes []string
	for _, column := range organizationColumns {
		if !columns[column.name] {
			changes = append(changes, "Add "+column.name+" column to volunteers table")
		}
	}
	return changes, nil
}

func (m addOrganizationColumns) Apply(ctx context.Context, tx *sql.Tx) error {
	columns, err := columnNames(ctx, tx, "volunteers")
	if err != nil {
		return err
	}
	for _, column := range organizationColumns {
		if columns[column.name] {
			continue
		}
		if _, err := tx.ExecContext(ctx, column.ddl); err != nil {
			return err
		}
	}
	return nil
}
