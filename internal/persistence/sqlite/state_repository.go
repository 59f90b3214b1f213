package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/newsbot/internal/persistence"
)

// SetState stores or replaces the bot_state value under key.
func (s *Store) SetState(ctx context.Context, key, value string) error {
	upsertSQL := `
		INSERT OR REPLACE INTO bot_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`
	if _, err := s.db.ExecContext(ctx, upsertSQL, key, value); err != nil {
		return fmt.Errorf("sqlite: set state %s: %w", key, err)
	}
	return nil
}

// GetState returns the bot_state value under key.
func (s *Store) GetState(ctx context.Context, key string) (string, error) {
	var value sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT value FROM bot_state WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", persistence.ErrNotFound
		}
		return "", fmt.Errorf("sqlite: get state %s: %w", key, err)
	}
	return value.String, nil
}

// DeleteState removes the bot_state entry under key. Deleting an absent
// key is not an error.
func (s *Store) DeleteState(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bot_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite: delete state %s: %w", key, err)
	}
	return nil
}

// PutCacheEntry stores or replaces the cache entry under key.
func (s *Store) PutCacheEntry(ctx context.Context, key, value, commitSHA string) error {
	upsertSQL := `
		INSERT OR REPLACE INTO cache_entries (key, value, commit_sha, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	`
	if _, err := s.db.ExecContext(ctx, upsertSQL, key, value, commitSHA); err != nil {
		return fmt.Errorf("sqlite: put cache entry %s: %w", key, err)
	}
	return nil
}

// GetCacheEntry returns the cache entry under key.
func (s *Store) GetCacheEntry(ctx context.Context, key string) (persistence.CacheEntry, error) {
	querySQL := `SELECT key, value, COALESCE(commit_sha, ''), updated_at FROM cache_entries WHERE key = ?`

	var entry persistence.CacheEntry
	var updatedAt string
	err := s.db.QueryRowContext(ctx, querySQL, key).Scan(&entry.Key, &entry.Value, &entry.CommitSHA, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.CacheEntry{}, persistence.ErrNotFound
		}
		return persistence.CacheEntry{}, fmt.Errorf("sqlite: get cache entry %s: %w", key, err)
	}
	entry.UpdatedAt = parseTimestamp(updatedAt)
	return entry, nil
}
