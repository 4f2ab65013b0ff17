package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/countdown"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/timetable"
)

func newDepartureService(repo *favoriteRepoStub, now time.Time) *DepartureService {
	nowFn := func() time.Time { return now }
	provider := timetable.NewProvider(nowFn, nil)
	return NewDepartureService(provider, repo, countdown.NewCalculator(nil), nowFn, nil)
}

func TestDepartureServiceRouteBoard(t *testing.T) {
	// 09:00 on the reference Wednesday.
	svc := newDepartureService(newFavoriteRepoStub(), testNow)

	board, err := svc.RouteBoard(context.Background(), "10")
	if err != nil {
		t.Fatalf("RouteBoard returned error: %v", err)
	}

	if board.Route.ID != "10" {
		t.Fatalf("unexpected route %+v", board.Route)
	}
	if len(board.Points) != 2 {
		t.Fatalf("expected 2 departure points, got %d", len(board.Points))
	}

	// At 09:00 the 09:30 departure is the next one from the bus station.
	station := board.Points[0]
	if station.Key != "slavgorod_avtostancia" {
		t.Fatalf("unexpected first point %q", station.Key)
	}
	var next *DepartureView
	for i := range station.Departures {
		if station.Departures[i].IsNext {
			if next != nil {
				t.Fatal("exactly one departure per point may be marked next")
			}
			next = &station.Departures[i]
		}
	}
	if next == nil || next.TimeOfDay != "09:30" {
		t.Fatalf("expected 09:30 marked next, got %+v", next)
	}
	if next.MinutesUntil != 30 {
		t.Fatalf("expected 30 minutes until departure, got %d", next.MinutesUntil)
	}

	// A departure already passed today counts down to tomorrow.
	for _, view := range station.Departures {
		if view.TimeOfDay != "06:10" {
			continue
		}
		if view.MinutesUntil != 21*60+10 {
			t.Fatalf("expected rollover countdown 1270, got %d", view.MinutesUntil)
		}
	}
}

func TestDepartureServiceRouteBoardMarksFavorites(t *testing.T) {
	repo := newFavoriteRepoStub()
	scheduler := &schedulerStub{}
	favorites := newFavoriteService(repo, scheduler)

	added, err := favorites.AddFavorite(context.Background(), FavoriteInput{
		RouteID:        "10",
		DeparturePoint: "slavgorod_avtostancia",
		DepartureTime:  "09:30",
	})
	if err != nil {
		t.Fatalf("AddFavorite returned error: %v", err)
	}

	svc := newDepartureService(repo, testNow)
	board, err := svc.RouteBoard(context.Background(), "10")
	if err != nil {
		t.Fatalf("RouteBoard returned error: %v", err)
	}

	found := false
	for _, point := range board.Points {
		for _, view := range point.Departures {
			if view.ID == added.ID {
				found = true
				if !view.IsFavorite {
					t.Fatal("favorited departure must be marked")
				}
			}
		}
	}
	if !found {
		t.Fatal("favorited departure missing from board")
	}
}

func TestDepartureServiceRouteBoardUnknownRoute(t *testing.T) {
	svc := newDepartureService(newFavoriteRepoStub(), testNow)

	if _, err := svc.RouteBoard(context.Background(), "999"); !errors.Is(err, ErrUnknownRoute) {
		t.Fatalf("expected ErrUnknownRoute, got %v", err)
	}
}

func TestDepartureServiceNextDeparture(t *testing.T) {
	svc := newDepartureService(newFavoriteRepoStub(), testNow)

	view, ok, err := svc.NextDeparture(context.Background(), "10", "znamenka")
	if err != nil {
		t.Fatalf("NextDeparture returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected a next departure")
	}
	if view.TimeOfDay != "10:20" {
		t.Fatalf("expected 10:20, got %q", view.TimeOfDay)
	}
	if view.MinutesUntil != 80 {
		t.Fatalf("expected 80 minutes, got %d", view.MinutesUntil)
	}
}

func TestDepartureServiceNextDepartureUnknownPoint(t *testing.T) {
	svc := newDepartureService(newFavoriteRepoStub(), testNow)

	_, ok, err := svc.NextDeparture(context.Background(), "10", "nowhere")
	if err != nil {
		t.Fatalf("NextDeparture returned error: %v", err)
	}
	if ok {
		t.Fatal("unknown point must yield no departure")
	}
}

func TestDepartureServiceListRoutes(t *testing.T) {
	svc := newDepartureService(newFavoriteRepoStub(), testNow)

	routes := svc.ListRoutes(context.Background())
	if len(routes) != 3 {
		t.Fatalf("expected 3 routes, got %d", len(routes))
	}
}
