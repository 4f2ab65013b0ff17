package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/persistence"
)

var favoriteCounter uint64

// FavoriteOption configures a generated favorite fixture.
type FavoriteOption func(*persistence.FavoriteDeparture)

// NewFavoriteFixture returns a deterministic favorite for route 102 with
// optional overrides. Each call produces a distinct identifier.
func NewFavoriteFixture(opts ...FavoriteOption) persistence.FavoriteDeparture {
	idx := atomic.AddUint64(&favoriteCounter, 1)
	favorite := persistence.FavoriteDeparture{
		ID:             fmt.Sprintf("favorite-%03d", idx),
		RouteID:        "102",
		RouteNumber:    "102",
		RouteName:      "Славгород — Яровое",
		StopName:       "Рынок (Славгород)",
		DeparturePoint: "Рынок (Славгород)",
		DepartureTime:  "10:30",
		DayOfWeek:      time.Wednesday,
		AddedAt:        referenceTime.Add(time.Duration(idx) * time.Minute),
		IsActive:       true,
	}
	for _, opt := range opts {
		opt(&favorite)
	}
	return favorite
}

// WithFavoriteID overrides the generated identifier.
func WithFavoriteID(id string) FavoriteOption {
	return func(f *persistence.FavoriteDeparture) {
		f.ID = id
	}
}

// WithFavoriteRoute overrides the route identifier and number together.
func WithFavoriteRoute(routeID string) FavoriteOption {
	return func(f *persistence.FavoriteDeparture) {
		f.RouteID = routeID
		f.RouteNumber = routeID
	}
}

// WithFavoriteDepartureTime overrides the departure time of day.
func WithFavoriteDepartureTime(timeOfDay string) FavoriteOption {
	return func(f *persistence.FavoriteDeparture) {
		f.DepartureTime = timeOfDay
	}
}

// WithFavoriteInactive marks the favorite as soft-disabled.
func WithFavoriteInactive() FavoriteOption {
	return func(f *persistence.FavoriteDeparture) {
		f.IsActive = false
	}
}
