// Package migrations holds the bot's registered schema migrations in
// ascending id order.
package migrations

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/newsbot/internal/persistence/sqlite/migration"
)

// All returns every migration module in registration order. The registry
// validates ids and re-sorts, so order here is for readability only.
func All() []migration.Module {
	return []migration.Module{
		initialMigration{},
		addCacheAndReportsTables{},
		addBotStateTable{},
		addOrganizationColumns{},
	}
}

func tableExists(ctx context.Context, conn migration.DBTX, name string) (bool, error) {
	var found string
	err := conn.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func columnNames(ctx context.Context, conn migration.DBTX, table string) (map[string]bool, error) {
	rows, err := conn.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns[name] = true
	}
	return columns, rows.Err()
}
