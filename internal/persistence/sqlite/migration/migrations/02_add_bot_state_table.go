package migrations

import (
	"context"
	"database/sql"
)

// addBotStateTable adds the bot_state key/value table used for persistent
// runtime state such as the current placeholder thread.
type addBotStateTable struct{}

const botStateSchema = `
	CREATE TABLE IF NOT EXISTS bot_state (
		key TEXT PRIMARY KEY,
		value TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
`

func (addBotStateTable) ID() string   { return "02" }
func (addBotStateTable) Name() string { return "add_bot_state_table" }
func (addBotStateTable) Description() string {
	return "Add bot_state table for tracking persistent bot state"
}
func (addBotStateTable) Destructive() bool { return false }

func (m addBotStateTable) Check(ctx context.Context, db *sql.DB) ([]string, error) {
	exists, err := tableExists(ctx, db, "bot_state")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}
	return []string{"Create bot_state table"}, nil
}

func (m addBotStateTable) Apply(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, botStateSchema)
	return err
}
