package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/persistence"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/timetable"
)

// AlarmScheduler keeps the alarm set in sync with favorite changes.
type AlarmScheduler interface {
	ScheduleOrUpdate(ctx context.Context, favorite persistence.FavoriteDeparture) error
	Cancel(favoriteID string)
}

// FavoriteService orchestrates validation, persistence and alarm upkeep for
// favorited departures.
type FavoriteService struct {
	favorites persistence.FavoriteRepository
	timetable *timetable.Provider
	scheduler AlarmScheduler
	now       func() time.Time
	logger    *slog.Logger
}

// NewFavoriteService wires dependencies for the favorite service.
func NewFavoriteService(favorites persistence.FavoriteRepository, provider *timetable.Provider, scheduler AlarmScheduler, now func() time.Time, logger *slog.Logger) *FavoriteService {
	if now == nil {
		now = time.Now
	}
	return &FavoriteService{
		favorites: favorites,
		timetable: provider,
		scheduler: scheduler,
		now:       now,
		logger:    defaultLogger(logger),
	}
}

// AddFavorite validates the input against the timetable, persists the
// favorite and schedules its alarm. Re-adding an existing favorite is an
// upsert: it reactivates and rebuilds the alarm.
func (s *FavoriteService) AddFavorite(ctx context.Context, input FavoriteInput) (persistence.FavoriteDeparture, error) {
	if s == nil {
		return persistence.FavoriteDeparture{}, fmt.Errorf("FavoriteService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "favorites", "add", "route_id", input.RouteID)

	normalized := FavoriteInput{
		RouteID:        strings.TrimSpace(input.RouteID),
		DeparturePoint: strings.TrimSpace(input.DeparturePoint),
		DepartureTime:  strings.TrimSpace(input.DepartureTime),
	}

	vErr := &ValidationError{}
	if normalized.RouteID == "" {
		vErr.add("route_id", "укажите маршрут")
	}
	if normalized.DeparturePoint == "" {
		vErr.add("departure_point", "укажите пункт отправления")
	}
	if normalized.DepartureTime == "" {
		vErr.add("departure_time", "укажите время отправления")
	}
	if vErr.HasErrors() {
		return persistence.FavoriteDeparture{}, vErr
	}

	route, ok := s.timetable.RouteByID(normalized.RouteID)
	if !ok {
		return persistence.FavoriteDeparture{}, ErrUnknownRoute
	}

	template, ok := s.findTemplate(normalized)
	if !ok {
		vErr.add("departure_time", "рейс не найден в расписании")
		return persistence.FavoriteDeparture{}, vErr
	}

	favorite := persistence.FavoriteDeparture{
		ID:             template.ID,
		RouteID:        route.ID,
		RouteNumber:    route.Number,
		RouteName:      route.Name,
		StopName:       template.StopName,
		DeparturePoint: template.DeparturePoint,
		DepartureTime:  template.TimeOfDay,
		DayOfWeek:      template.DayOfWeek,
		AddedAt:        s.now(),
		IsActive:       true,
	}

	if err := s.favorites.UpsertFavorite(ctx, favorite); err != nil {
		return persistence.FavoriteDeparture{}, fmt.Errorf("failed to store favorite: %w", err)
	}

	// The alarm is derived state: a scheduling failure here is logged and
	// repaired by the next reschedule pass, not surfaced as a lost favorite.
	if err := s.scheduler.ScheduleOrUpdate(ctx, favorite); err != nil {
		logger.Warn("failed to schedule alarm for new favorite",
			"favorite_id", favorite.ID, "error", err, "error_kind", ErrorKind(err))
	} else {
		logger.Info("favorite added", "favorite_id", favorite.ID)
	}
	return favorite, nil
}

// SetActive toggles a favorite's notification flag and syncs its alarm. An
// inactive favorite keeps its row but holds no alarm.
func (s *FavoriteService) SetActive(ctx context.Context, favoriteID string, active bool) (persistence.FavoriteDeparture, error) {
	if s == nil {
		return persistence.FavoriteDeparture{}, fmt.Errorf("FavoriteService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "favorites", "set_active", "favorite_id", favoriteID)

	if err := s.favorites.SetFavoriteActive(ctx, favoriteID, active); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.FavoriteDeparture{}, ErrNotFound
		}
		return persistence.FavoriteDeparture{}, fmt.Errorf("failed to update favorite: %w", err)
	}

	favorite, err := s.favorites.GetFavorite(ctx, favoriteID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.FavoriteDeparture{}, ErrNotFound
		}
		return persistence.FavoriteDeparture{}, fmt.Errorf("failed to reload favorite: %w", err)
	}
	favorite = s.fillRouteMetadata(favorite)

	if err := s.scheduler.ScheduleOrUpdate(ctx, favorite); err != nil {
		logger.Warn("failed to sync alarm after toggle", "error", err, "error_kind", ErrorKind(err))
	} else {
		logger.Info("favorite toggled", "active", active)
	}
	return favorite, nil
}

// RemoveFavorite deletes the favorite and cancels its alarm.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, favoriteID string) error {
	if s == nil {
		return fmt.Errorf("FavoriteService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "favorites", "remove", "favorite_id", favoriteID)

	if err := s.favorites.DeleteFavorite(ctx, favoriteID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	s.scheduler.Cancel(favoriteID)
	logger.Info("favorite removed")
	return nil
}

// ListFavorites returns every stored favorite, active or not.
func (s *FavoriteService) ListFavorites(ctx context.Context) ([]persistence.FavoriteDeparture, error) {
	if s == nil {
		return nil, fmt.Errorf("FavoriteService is nil")
	}
	favorites, err := s.favorites.ListFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	for i, favorite := range favorites {
		favorites[i] = s.fillRouteMetadata(favorite)
	}
	return favorites, nil
}

// fillRouteMetadata restores blank denormalized route fields from the
// timetable. Rows written before denormalization existed carry empty
// number/name columns; the stored values win when present.
func (s *FavoriteService) fillRouteMetadata(favorite persistence.FavoriteDeparture) persistence.FavoriteDeparture {
	if favorite.RouteNumber != "" && favorite.RouteName != "" {
		return favorite
	}
	route, ok := s.timetable.RouteByID(favorite.RouteID)
	if !ok {
		return favorite
	}
	if favorite.RouteNumber == "" {
		favorite.RouteNumber = route.Number
	}
	if favorite.RouteName == "" {
		favorite.RouteName = route.Name
	}
	return favorite
}

// findTemplate matches the input against the timetable. The departure point
// may be given as a point key or its display label.
func (s *FavoriteService) findTemplate(input FavoriteInput) (timetable.DepartureTemplate, bool) {
	for _, template := range s.timetable.Departures(input.RouteID) {
		if template.TimeOfDay != input.DepartureTime {
			continue
		}
		if template.DeparturePoint == input.DeparturePoint ||
			template.ID == timetable.TemplateID(input.RouteID, input.DeparturePoint, input.DepartureTime) {
			return template, true
		}
	}
	return timetable.DepartureTemplate{}, false
}
