package countdown

import (
	"errors"
	"time"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/timetable"
)

// ErrInvalidTimeOfDay indicates a departure time string could not be parsed.
// Callers treat it as "countdown unavailable", never as a fatal condition.
var ErrInvalidTimeOfDay = errors.New("countdown: invalid time of day")

// Calculator computes time-until-departure values in a single timezone.
type Calculator struct {
	loc *time.Location
}

// NewCalculator constructs a Calculator. If loc is nil the timetable's
// default zone (UTC+7) is used.
func NewCalculator(loc *time.Location) *Calculator {
	if loc == nil {
		loc = timetable.DefaultLocation
	}
	return &Calculator{loc: loc}
}

// NextOccurrence resolves "HH:MM" to its next occurrence at or after the
// reference instant. A time that already passed today rolls to the same wall
// clock time tomorrow via calendar arithmetic, so the result stays correct
// across DST transitions.
func (c *Calculator) NextOccurrence(timeOfDay string, reference time.Time) (time.Time, error) {
	parsed, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return time.Time{}, ErrInvalidTimeOfDay
	}

	local := reference.In(c.loc)
	year, month, day := local.Date()
	candidate := time.Date(year, month, day, parsed.Hour(), parsed.Minute(), 0, 0, c.loc)
	if candidate.Before(local) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate, nil
}

// MinutesUntil returns the whole minutes until the next occurrence of the
// departure time. The result is never negative; an exact match returns 0.
func (c *Calculator) MinutesUntil(timeOfDay string, reference time.Time) (int, error) {
	candidate, err := c.NextOccurrence(timeOfDay, reference)
	if err != nil {
		return 0, err
	}
	return int(candidate.Sub(reference) / time.Minute), nil
}

// MinutesSecondsUntil decomposes the remaining interval into whole minutes
// and the remainder in seconds. The minutes component always matches
// MinutesUntil for the same inputs.
func (c *Calculator) MinutesSecondsUntil(timeOfDay string, reference time.Time) (int, int, error) {
	candidate, err := c.NextOccurrence(timeOfDay, reference)
	if err != nil {
		return 0, 0, err
	}
	remaining := candidate.Sub(reference)
	minutes := int(remaining / time.Minute)
	seconds := int((remaining % time.Minute) / time.Second)
	return minutes, seconds, nil
}

// SelectNext picks the next upcoming departure from one departure point's
// templates. Departures sharing a time of day keep input order, so the first
// listed entry wins the tie deterministically. Templates with unparseable
// times are skipped. An empty or fully unparseable input yields nil.
//
// Callers must pass a single departure point group per call; "next" is only
// meaningful within one physical stop's timetable.
func (c *Calculator) SelectNext(departures []timetable.DepartureTemplate, reference time.Time) *timetable.DepartureTemplate {
	var best *timetable.DepartureTemplate
	bestMinutes := 0

	for i := range departures {
		minutes, err := c.MinutesUntil(departures[i].TimeOfDay, reference)
		if err != nil {
			continue
		}
		if best == nil || minutes < bestMinutes {
			best = &departures[i]
			bestMinutes = minutes
		}
	}
	return best
}
