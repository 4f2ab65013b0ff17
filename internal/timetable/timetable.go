package timetable

import (
	"fmt"
	"time"
)

// Route describes one bus route served by the static timetable.
type Route struct {
	ID     string
	Number string
	Name   string
}

// DepartureTemplate is a single scheduled departure from a named point.
// Templates recur daily at a fixed time of day; DayOfWeek carries the weekday
// of the lookup date and is display metadata only.
type DepartureTemplate struct {
	ID             string
	RouteID        string
	DeparturePoint string
	StopName       string
	TimeOfDay      string
	DayOfWeek      time.Weekday
	Notes          string
}

// Provider exposes the compiled-in timetable. Lookups are pure; the injected
// clock is used only to stamp DayOfWeek on generated templates.
type Provider struct {
	now func() time.Time
	loc *time.Location
}

// DefaultLocation is the single timezone the timetable operates in (UTC+7).
var DefaultLocation = time.FixedZone("+07", 7*60*60)

// NewProvider constructs a Provider. A nil clock falls back to time.Now and a
// nil location to DefaultLocation.
func NewProvider(now func() time.Time, loc *time.Location) *Provider {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = DefaultLocation
	}
	return &Provider{now: now, loc: loc}
}

// Routes returns every route in the timetable in stable order.
func (p *Provider) Routes() []Route {
	routes := make([]Route, len(allRoutes))
	copy(routes, allRoutes)
	return routes
}

// RouteByID returns the route with the given id. The second return value
// reports whether the route exists.
func (p *Provider) RouteByID(id string) (Route, bool) {
	for _, route := range allRoutes {
		if route.ID == id {
			return route, true
		}
	}
	return Route{}, false
}

// Departures generates the departure templates for a route, ordered by
// departure point and then time of day. Unknown route ids yield an empty
// slice, never an error.
func (p *Provider) Departures(routeID string) []DepartureTemplate {
	points, ok := schedules[routeID]
	if !ok {
		return nil
	}

	weekday := p.now().In(p.loc).Weekday()

	templates := make([]DepartureTemplate, 0)
	for _, point := range points {
		for _, entry := range point.entries {
			templates = append(templates, DepartureTemplate{
				ID:             TemplateID(routeID, point.key, entry.time),
				RouteID:        routeID,
				DeparturePoint: point.label,
				StopName:       point.label,
				TimeOfDay:      entry.time,
				DayOfWeek:      weekday,
				Notes:          entry.note,
			})
		}
	}
	return templates
}

// DeparturesForPoint returns the templates for a single departure point of a
// route, identified by its point key.
func (p *Provider) DeparturesForPoint(routeID, pointKey string) []DepartureTemplate {
	templates := make([]DepartureTemplate, 0)
	for _, template := range p.Departures(routeID) {
		if pointKeyForLabel(routeID, template.DeparturePoint) == pointKey {
			templates = append(templates, template)
		}
	}
	return templates
}

// DeparturePoints lists the point keys and labels of a route in timetable
// order.
func (p *Provider) DeparturePoints(routeID string) []DeparturePoint {
	points, ok := schedules[routeID]
	if !ok {
		return nil
	}
	out := make([]DeparturePoint, 0, len(points))
	for _, point := range points {
		out = append(out, DeparturePoint{Key: point.key, Label: point.label})
	}
	return out
}

// DeparturePoint names one origin stop of a route.
type DeparturePoint struct {
	Key   string
	Label string
}

// TemplateID builds the stable identifier of a departure template. The id is
// unique per route, point and time and survives regeneration.
func TemplateID(routeID, pointKey, timeOfDay string) string {
	return fmt.Sprintf("%s_%s_%s", routeID, pointKey, timeOfDay)
}

func pointKeyForLabel(routeID, label string) string {
	for _, point := range schedules[routeID] {
		if point.label == label {
			return point.key
		}
	}
	return ""
}
