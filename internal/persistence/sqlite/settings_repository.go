package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/persistence"
)

// SettingsRepository implements persistence.SettingsRepository using SQLite.
type SettingsRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewSettingsRepository creates a new SQLite settings repository.
func NewSettingsRepository(pool *ConnectionPool) *SettingsRepository {
	return &SettingsRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// GetSetting returns the stored value for key, or persistence.ErrNotFound.
func (r *SettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.helper.QueryRow(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", persistence.ErrNotFound
		}
		return "", r.mapper.MapError(err)
	}
	return value, nil
}

// PutSetting stores or replaces the value for key.
func (r *SettingsRepository) PutSetting(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.helper.Exec(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	return r.mapper.MapError(err)
}

// DeleteSetting removes a key. Deleting an absent key is a no-op.
func (r *SettingsRepository) DeleteSetting(ctx context.Context, key string) error {
	_, err := r.helper.Exec(ctx, `DELETE FROM settings WHERE key = ?`, key)
	return r.mapper.MapError(err)
}

// ListSettings returns every key/value pair whose key starts with prefix. An
// empty prefix lists everything.
func (r *SettingsRepository) ListSettings(ctx context.Context, prefix string) (map[string]string, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT key, value FROM settings WHERE key LIKE ? || '%'`, prefix)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, r.mapper.MapError(err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return settings, nil
}
