package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/persistence"
)

func sampleFavorite(id string) persistence.FavoriteDeparture {
	return persistence.FavoriteDeparture{
		ID:             id,
		RouteID:        "102",
		RouteNumber:    "102",
		RouteName:      "Славгород — Яровое",
		StopName:       "Рынок (Славгород)",
		DeparturePoint: "Рынок (Славгород)",
		DepartureTime:  "10:30",
		DayOfWeek:      time.Wednesday,
		AddedAt:        time.Date(2024, 3, 13, 8, 0, 0, 0, time.UTC),
		IsActive:       true,
	}
}

func TestFavoriteRepository_UpsertAndGet(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	favorite := sampleFavorite("102_slavgorod_rynok_10:30")
	if err := store.Favorites.UpsertFavorite(ctx, favorite); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	stored, err := store.Favorites.GetFavorite(ctx, favorite.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.RouteName != favorite.RouteName || stored.DepartureTime != "10:30" {
		t.Fatalf("stored favorite mismatch: %+v", stored)
	}
	if !stored.AddedAt.Equal(favorite.AddedAt) {
		t.Fatalf("added_at not round-tripped: %v vs %v", stored.AddedAt, favorite.AddedAt)
	}
	if stored.DayOfWeek != time.Wednesday {
		t.Fatalf("day_of_week not round-tripped: %v", stored.DayOfWeek)
	}
}

func TestFavoriteRepository_UpsertReplacesExisting(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	favorite := sampleFavorite("102_slavgorod_rynok_10:30")
	if err := store.Favorites.UpsertFavorite(ctx, favorite); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	favorite.IsActive = false
	if err := store.Favorites.UpsertFavorite(ctx, favorite); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	stored, err := store.Favorites.GetFavorite(ctx, favorite.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.IsActive {
		t.Fatal("expected upsert to replace is_active")
	}
}

func TestFavoriteRepository_GetMissing(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	_, err := store.Favorites.GetFavorite(context.Background(), "missing")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFavoriteRepository_ListActiveFiltersDisabled(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	active := sampleFavorite("102_slavgorod_rynok_10:30")
	disabled := sampleFavorite("102_slavgorod_rynok_11:00")
	disabled.DepartureTime = "11:00"
	disabled.IsActive = false

	for _, favorite := range []persistence.FavoriteDeparture{active, disabled} {
		if err := store.Favorites.UpsertFavorite(ctx, favorite); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	all, err := store.Favorites.ListFavorites(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 favorites, got %d", len(all))
	}

	activeOnly, err := store.Favorites.ListActiveFavorites(ctx)
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(activeOnly) != 1 || activeOnly[0].ID != active.ID {
		t.Fatalf("expected only the active favorite, got %+v", activeOnly)
	}
}

func TestFavoriteRepository_SetActive(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	favorite := sampleFavorite("102_slavgorod_rynok_10:30")
	if err := store.Favorites.UpsertFavorite(ctx, favorite); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if err := store.Favorites.SetFavoriteActive(ctx, favorite.ID, false); err != nil {
		t.Fatalf("set active failed: %v", err)
	}
	stored, err := store.Favorites.GetFavorite(ctx, favorite.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.IsActive {
		t.Fatal("expected favorite deactivated")
	}

	if err := store.Favorites.SetFavoriteActive(ctx, "missing", false); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestFavoriteRepository_Delete(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	favorite := sampleFavorite("102_slavgorod_rynok_10:30")
	if err := store.Favorites.UpsertFavorite(ctx, favorite); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := store.Favorites.DeleteFavorite(ctx, favorite.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Favorites.DeleteFavorite(ctx, favorite.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
