package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/countdown"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/persistence"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/timetable"
)

// DepartureService builds countdown-annotated departure boards from the
// static timetable.
type DepartureService struct {
	timetable  *timetable.Provider
	favorites  persistence.FavoriteRepository
	calculator *countdown.Calculator
	now        func() time.Time
	logger     *slog.Logger
}

// NewDepartureService wires dependencies for the departure service.
func NewDepartureService(provider *timetable.Provider, favorites persistence.FavoriteRepository, calculator *countdown.Calculator, now func() time.Time, logger *slog.Logger) *DepartureService {
	if now == nil {
		now = time.Now
	}
	if calculator == nil {
		calculator = countdown.NewCalculator(nil)
	}
	return &DepartureService{
		timetable:  provider,
		favorites:  favorites,
		calculator: calculator,
		now:        now,
		logger:     defaultLogger(logger),
	}
}

// ListRoutes returns the routes of the timetable.
func (s *DepartureService) ListRoutes(ctx context.Context) []timetable.Route {
	return s.timetable.Routes()
}

// RouteBoard assembles the full departure board of a route: every departure
// point with its departures, each annotated with the countdown to its next
// occurrence, and the soonest departure of each point marked as next.
func (s *DepartureService) RouteBoard(ctx context.Context, routeID string) (RouteBoard, error) {
	if s == nil {
		return RouteBoard{}, fmt.Errorf("DepartureService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "departures", "route_board", "route_id", routeID)

	route, ok := s.timetable.RouteByID(routeID)
	if !ok {
		return RouteBoard{}, ErrUnknownRoute
	}

	favoriteIDs, err := s.favoriteIDs(ctx)
	if err != nil {
		logger.Warn("failed to load favorites for board, continuing without markers", "error", err)
		favoriteIDs = nil
	}

	reference := s.now()
	board := RouteBoard{Route: route, GeneratedAt: reference}

	for _, point := range s.timetable.DeparturePoints(routeID) {
		departures := s.timetable.DeparturesForPoint(routeID, point.Key)
		next := s.calculator.SelectNext(departures, reference)

		pointBoard := PointBoard{Key: point.Key, Label: point.Label}
		for _, template := range departures {
			view := DepartureView{
				ID:             template.ID,
				RouteID:        template.RouteID,
				DeparturePoint: template.DeparturePoint,
				StopName:       template.StopName,
				TimeOfDay:      template.TimeOfDay,
				Notes:          template.Notes,
				MinutesUntil:   -1,
				SecondsUntil:   -1,
			}

			departsAt, calcErr := s.calculator.NextOccurrence(template.TimeOfDay, reference)
			if calcErr == nil {
				minutes, seconds, _ := s.calculator.MinutesSecondsUntil(template.TimeOfDay, reference)
				view.DepartsAt = departsAt
				view.MinutesUntil = minutes
				view.SecondsUntil = seconds
			} else {
				logger.Warn("departure time is malformed, countdown unavailable",
					"template_id", template.ID, "time_of_day", template.TimeOfDay)
			}

			if next != nil && template.ID == next.ID {
				view.IsNext = true
			}
			if _, favorited := favoriteIDs[template.ID]; favorited {
				view.IsFavorite = true
			}
			pointBoard.Departures = append(pointBoard.Departures, view)
		}
		board.Points = append(board.Points, pointBoard)
	}

	return board, nil
}

// NextDeparture returns the next upcoming departure of one departure point,
// or false when the point has no parseable departures.
func (s *DepartureService) NextDeparture(ctx context.Context, routeID, pointKey string) (DepartureView, bool, error) {
	if s == nil {
		return DepartureView{}, false, fmt.Errorf("DepartureService is nil")
	}
	if _, ok := s.timetable.RouteByID(routeID); !ok {
		return DepartureView{}, false, ErrUnknownRoute
	}

	reference := s.now()
	departures := s.timetable.DeparturesForPoint(routeID, pointKey)
	next := s.calculator.SelectNext(departures, reference)
	if next == nil {
		return DepartureView{}, false, nil
	}

	minutes, seconds, err := s.calculator.MinutesSecondsUntil(next.TimeOfDay, reference)
	if err != nil {
		return DepartureView{}, false, nil
	}
	departsAt, _ := s.calculator.NextOccurrence(next.TimeOfDay, reference)

	return DepartureView{
		ID:             next.ID,
		RouteID:        next.RouteID,
		DeparturePoint: next.DeparturePoint,
		StopName:       next.StopName,
		TimeOfDay:      next.TimeOfDay,
		Notes:          next.Notes,
		DepartsAt:      departsAt,
		MinutesUntil:   minutes,
		SecondsUntil:   seconds,
		IsNext:         true,
	}, true, nil
}

func (s *DepartureService) favoriteIDs(ctx context.Context) (map[string]struct{}, error) {
	if s.favorites == nil {
		return nil, nil
	}
	favorites, err := s.favorites.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(favorites))
	for _, favorite := range favorites {
		ids[favorite.ID] = struct{}{}
	}
	return ids, nil
}
