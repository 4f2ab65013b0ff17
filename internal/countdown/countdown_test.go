package countdown

import (
	"errors"
	"testing"
	"time"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/timetable"
)

var loc = timetable.DefaultLocation

func at(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2024, 3, 13, hour, minute, 0, 0, loc)
}

func TestCalculator_MinutesUntil_Upcoming(t *testing.T) {
	t.Parallel()

	c := NewCalculator(loc)
	minutes, err := c.MinutesUntil("10:30", at(t, 10, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 30 {
		t.Fatalf("expected 30 minutes, got %d", minutes)
	}
}

func TestCalculator_MinutesUntil_ExactMatchIsZero(t *testing.T) {
	t.Parallel()

	c := NewCalculator(loc)
	minutes, err := c.MinutesUntil("10:00", at(t, 10, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 0 {
		t.Fatalf("expected 0 minutes for exact match, got %d", minutes)
	}
}

func TestCalculator_MinutesUntil_DayRollover(t *testing.T) {
	t.Parallel()

	c := NewCalculator(loc)
	minutes, err := c.MinutesUntil("00:05", at(t, 23, 55))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 10 {
		t.Fatalf("expected 10 minutes across midnight, got %d", minutes)
	}
}

func TestCalculator_MinutesUntil_RangeInvariant(t *testing.T) {
	t.Parallel()

	c := NewCalculator(loc)
	references := []time.Time{at(t, 0, 0), at(t, 6, 29), at(t, 12, 1), at(t, 23, 59)}
	times := []string{"00:00", "06:30", "12:00", "23:59"}

	for _, ref := range references {
		for _, tod := range times {
			minutes, err := c.MinutesUntil(tod, ref)
			if err != nil {
				t.Fatalf("unexpected error for %s at %v: %v", tod, ref, err)
			}
			if minutes < 0 || minutes > 1439 {
				t.Fatalf("minutes out of range for %s at %v: %d", tod, ref, minutes)
			}
		}
	}
}

func TestCalculator_MinutesUntil_Malformed(t *testing.T) {
	t.Parallel()

	c := NewCalculator(loc)
	for _, bad := range []string{"", "25:00", "10:60", "abc", "10.30"} {
		if _, err := c.MinutesUntil(bad, at(t, 9, 0)); !errors.Is(err, ErrInvalidTimeOfDay) {
			t.Fatalf("expected ErrInvalidTimeOfDay for %q, got %v", bad, err)
		}
	}
}

func TestCalculator_MinutesSecondsUntil_FloorsConsistently(t *testing.T) {
	t.Parallel()

	c := NewCalculator(loc)
	ref := time.Date(2024, 3, 13, 9, 58, 30, 0, loc)

	minutes, seconds, err := c.MinutesSecondsUntil("10:00", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 1 || seconds != 30 {
		t.Fatalf("expected 1m30s, got %dm%ds", minutes, seconds)
	}

	minutesOnly, err := c.MinutesUntil("10:00", ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutesOnly != minutes {
		t.Fatalf("variants disagree: %d vs %d", minutesOnly, minutes)
	}
}

func TestCalculator_SelectNext_Empty(t *testing.T) {
	t.Parallel()

	c := NewCalculator(loc)
	if got := c.SelectNext(nil, at(t, 9, 0)); got != nil {
		t.Fatalf("expected nil for empty input, got %+v", got)
	}
}

func TestCalculator_SelectNext_SingleElement(t *testing.T) {
	t.Parallel()

	c := NewCalculator(loc)
	departures := []timetable.DepartureTemplate{{ID: "a", TimeOfDay: "08:00"}}

	got := c.SelectNext(departures, at(t, 9, 0))
	if got == nil || got.ID != "a" {
		t.Fatalf("expected the single departure even after rollover, got %+v", got)
	}
}

func TestCalculator_SelectNext_PicksSmallestCountdown(t *testing.T) {
	t.Parallel()

	c := NewCalculator(loc)
	departures := []timetable.DepartureTemplate{
		{ID: "late", TimeOfDay: "18:00"},
		{ID: "soon", TimeOfDay: "09:30"},
		{ID: "passed", TimeOfDay: "07:00"},
	}

	got := c.SelectNext(departures, at(t, 9, 0))
	if got == nil || got.ID != "soon" {
		t.Fatalf("expected 09:30 departure, got %+v", got)
	}
}

func TestCalculator_SelectNext_TieKeepsInputOrder(t *testing.T) {
	t.Parallel()

	c := NewCalculator(loc)
	departures := []timetable.DepartureTemplate{
		{ID: "first-shift", TimeOfDay: "09:00", Notes: "1 смена"},
		{ID: "second-shift", TimeOfDay: "09:00", Notes: "2 смена"},
	}

	got := c.SelectNext(departures, at(t, 8, 0))
	if got == nil || got.ID != "first-shift" {
		t.Fatalf("expected first listed departure to win the tie, got %+v", got)
	}
}

func TestCalculator_SelectNext_SkipsMalformed(t *testing.T) {
	t.Parallel()

	c := NewCalculator(loc)
	departures := []timetable.DepartureTemplate{
		{ID: "broken", TimeOfDay: "9h30"},
		{ID: "valid", TimeOfDay: "10:00"},
	}

	got := c.SelectNext(departures, at(t, 9, 0))
	if got == nil || got.ID != "valid" {
		t.Fatalf("expected malformed entry skipped, got %+v", got)
	}
}
