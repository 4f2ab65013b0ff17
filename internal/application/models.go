package application

import (
	"time"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/timetable"
)

// FavoriteInput identifies the timetable departure the user wants to favorite.
type FavoriteInput struct {
	RouteID        string
	DeparturePoint string
	DepartureTime  string
}

// DepartureView is one timetable departure annotated with countdown state.
// Countdown fields are -1 when the departure time could not be parsed.
type DepartureView struct {
	ID             string
	RouteID        string
	DeparturePoint string
	StopName       string
	TimeOfDay      string
	Notes          string
	DepartsAt      time.Time
	MinutesUntil   int
	SecondsUntil   int
	IsNext         bool
	IsFavorite     bool
}

// PointBoard groups the departures of one departure point.
type PointBoard struct {
	Key        string
	Label      string
	Departures []DepartureView
}

// RouteBoard is the full departure board of a route at one instant.
type RouteBoard struct {
	Route       timetable.Route
	GeneratedAt time.Time
	Points      []PointBoard
}

// RouteModeView describes one route's notification override.
type RouteModeView struct {
	RouteID string
	Mode    string
	Days    []int
}

// QuietView describes the quiet-mode state.
type QuietView struct {
	Kind  string
	Until time.Time
}

// SettingsView is the full notification configuration as stored.
type SettingsView struct {
	GlobalMode string
	GlobalDays []int
	Routes     []RouteModeView
	Quiet      QuietView
}
