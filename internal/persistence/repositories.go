package persistence

import "context"

// FavoriteRepository stores favorited departures.
type FavoriteRepository interface {
	UpsertFavorite(ctx context.Context, favorite FavoriteDeparture) error
	GetFavorite(ctx context.Context, id string) (FavoriteDeparture, error)
	ListFavorites(ctx context.Context) ([]FavoriteDeparture, error)
	ListActiveFavorites(ctx context.Context) ([]FavoriteDeparture, error)
	SetFavoriteActive(ctx context.Context, id string, active bool) error
	DeleteFavorite(ctx context.Context, id string) error
}

// SettingsRepository is the key/value store backing notification settings.
// Key layout and value encoding are owned by the application layer.
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
	ListSettings(ctx context.Context, prefix string) (map[string]string, error)
}
