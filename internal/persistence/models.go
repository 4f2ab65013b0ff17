package persistence

import "time"

// FavoriteDeparture is a user-favorited departure row. ID equals the
// timetable template id, so a departure can be favorited at most once.
// RouteNumber and RouteName are denormalized copies cached when the favorite
// is created.
type FavoriteDeparture struct {
	ID             string
	RouteID        string
	RouteNumber    string
	RouteName      string
	StopName       string
	DeparturePoint string
	DepartureTime  string
	DayOfWeek      time.Weekday
	AddedAt        time.Time
	IsActive       bool
}
