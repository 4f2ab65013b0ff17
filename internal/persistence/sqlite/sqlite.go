package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Store bundles the SQLite-backed repositories behind a single handle.
type Store struct {
	pool      *ConnectionPool
	Favorites *FavoriteRepository
	Settings  *SettingsRepository
}

// Open connects to the database at dsn and prepares the repositories. The
// schema is not applied until Migrate is called.
func Open(dsn string) (*Store, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}

	return &Store{
		pool:      pool,
		Favorites: NewFavoriteRepository(pool),
		Settings:  NewSettingsRepository(pool),
	}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Migrate applies any schema statements not yet recorded in schema_version.
// Statements are versioned and applied in order inside one transaction each,
// so a partially upgraded database never occurs.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.DB().ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("failed to prepare schema_version: %w", err)
	}

	var current int
	if err := s.pool.DB().QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for i, statement := range migrations {
		version := i + 1
		if version <= current {
			continue
		}
		stmt := statement
		err := s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, execErr := tx.Exec(stmt); execErr != nil {
				return execErr
			}
			_, execErr := tx.Exec(
				`INSERT INTO schema_version (version, applied_at) VALUES (?, ?)`,
				version, time.Now().UTC().Format(time.RFC3339))
			return execErr
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", version, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE favorites (
		id TEXT PRIMARY KEY,
		route_id TEXT NOT NULL,
		route_number TEXT NOT NULL,
		route_name TEXT NOT NULL,
		stop_name TEXT NOT NULL,
		departure_point TEXT NOT NULL,
		departure_time TEXT NOT NULL,
		day_of_week INTEGER NOT NULL,
		added_at TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1 CHECK (is_active IN (0, 1))
	)`,
	`CREATE INDEX idx_favorites_active ON favorites (is_active)`,
	`CREATE TABLE settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}
