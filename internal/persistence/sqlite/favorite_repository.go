package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/persistence"
)

// FavoriteRepository implements persistence.FavoriteRepository using SQLite.
type FavoriteRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewFavoriteRepository creates a new SQLite favorite repository.
func NewFavoriteRepository(pool *ConnectionPool) *FavoriteRepository {
	return &FavoriteRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const favoriteColumns = `id, route_id, route_number, route_name, stop_name,
	departure_point, departure_time, day_of_week, added_at, is_active`

// UpsertFavorite inserts the favorite or replaces the existing row with the
// same id. Re-favoriting a departure reactivates it in place.
func (r *FavoriteRepository) UpsertFavorite(ctx context.Context, favorite persistence.FavoriteDeparture) error {
	if favorite.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO favorites (` + favoriteColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			route_number = excluded.route_number,
			route_name = excluded.route_name,
			stop_name = excluded.stop_name,
			departure_point = excluded.departure_point,
			departure_time = excluded.departure_time,
			day_of_week = excluded.day_of_week,
			is_active = excluded.is_active
	`

	_, err := r.helper.Exec(ctx, query,
		favorite.ID,
		favorite.RouteID,
		favorite.RouteNumber,
		favorite.RouteName,
		favorite.StopName,
		favorite.DeparturePoint,
		favorite.DepartureTime,
		int(favorite.DayOfWeek),
		favorite.AddedAt.UTC().Format(time.RFC3339),
		boolToInt(favorite.IsActive),
	)
	return r.mapper.MapError(err)
}

// GetFavorite retrieves a favorite by id.
func (r *FavoriteRepository) GetFavorite(ctx context.Context, id string) (persistence.FavoriteDeparture, error) {
	if id == "" {
		return persistence.FavoriteDeparture{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx,
		`SELECT `+favoriteColumns+` FROM favorites WHERE id = ?`, id)
	return scanFavorite(row.Scan)
}

// ListFavorites returns every stored favorite ordered by departure time.
func (r *FavoriteRepository) ListFavorites(ctx context.Context) ([]persistence.FavoriteDeparture, error) {
	return r.list(ctx,
		`SELECT `+favoriteColumns+` FROM favorites ORDER BY departure_time ASC, id ASC`)
}

// ListActiveFavorites returns only favorites with is_active set.
func (r *FavoriteRepository) ListActiveFavorites(ctx context.Context) ([]persistence.FavoriteDeparture, error) {
	return r.list(ctx,
		`SELECT `+favoriteColumns+` FROM favorites WHERE is_active = 1 ORDER BY departure_time ASC, id ASC`)
}

// SetFavoriteActive toggles the soft-disable flag.
func (r *FavoriteRepository) SetFavoriteActive(ctx context.Context, id string, active bool) error {
	result, err := r.helper.Exec(ctx,
		`UPDATE favorites SET is_active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return r.mapper.MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteFavorite removes a favorite by id.
func (r *FavoriteRepository) DeleteFavorite(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM favorites WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) list(ctx context.Context, query string) ([]persistence.FavoriteDeparture, error) {
	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var favorites []persistence.FavoriteDeparture
	for rows.Next() {
		favorite, err := scanFavorite(rows.Scan)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, favorite)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return favorites, nil
}

func scanFavorite(scan func(dest ...any) error) (persistence.FavoriteDeparture, error) {
	var favorite persistence.FavoriteDeparture
	var dayOfWeek, isActive int
	var addedAtStr string

	err := scan(
		&favorite.ID,
		&favorite.RouteID,
		&favorite.RouteNumber,
		&favorite.RouteName,
		&favorite.StopName,
		&favorite.DeparturePoint,
		&favorite.DepartureTime,
		&dayOfWeek,
		&addedAtStr,
		&isActive,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.FavoriteDeparture{}, persistence.ErrNotFound
		}
		return persistence.FavoriteDeparture{}, NewErrorMapper().MapError(err)
	}

	favorite.DayOfWeek = time.Weekday(dayOfWeek)
	favorite.IsActive = isActive != 0
	if favorite.AddedAt, err = time.Parse(time.RFC3339, addedAtStr); err != nil {
		return persistence.FavoriteDeparture{}, fmt.Errorf("failed to parse added_at: %w", err)
	}
	return favorite, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
