package timetable

import (
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestProvider_Departures_UnknownRoute(t *testing.T) {
	t.Parallel()

	p := NewProvider(nil, nil)
	if got := p.Departures("999"); len(got) != 0 {
		t.Fatalf("expected empty slice for unknown route, got %d templates", len(got))
	}
}

func TestProvider_Departures_StampsLookupWeekday(t *testing.T) {
	t.Parallel()

	// 2024-03-13 is a Wednesday.
	ref := time.Date(2024, 3, 13, 9, 0, 0, 0, DefaultLocation)
	p := NewProvider(fixedClock(ref), DefaultLocation)

	templates := p.Departures("102")
	if len(templates) == 0 {
		t.Fatal("expected departures for route 102")
	}
	for _, template := range templates {
		if template.DayOfWeek != time.Wednesday {
			t.Fatalf("template %s stamped %v, want Wednesday", template.ID, template.DayOfWeek)
		}
	}
}

func TestProvider_Departures_StableIDs(t *testing.T) {
	t.Parallel()

	p := NewProvider(nil, nil)

	first := p.Departures("1")
	second := p.Departures("1")
	if len(first) != len(second) {
		t.Fatalf("template count changed between lookups: %d vs %d", len(first), len(second))
	}

	seen := make(map[string]struct{}, len(first))
	for i, template := range first {
		if template.ID != second[i].ID {
			t.Fatalf("id not stable: %s vs %s", template.ID, second[i].ID)
		}
		if _, dup := seen[template.ID]; dup {
			t.Fatalf("duplicate template id %s", template.ID)
		}
		seen[template.ID] = struct{}{}
	}
}

func TestProvider_DeparturesForPoint(t *testing.T) {
	t.Parallel()

	p := NewProvider(nil, nil)

	templates := p.DeparturesForPoint("102", "yarovoe_rynok")
	if len(templates) == 0 {
		t.Fatal("expected departures for yarovoe_rynok")
	}
	for _, template := range templates {
		if template.DeparturePoint != "Рынок (Яровое)" {
			t.Fatalf("unexpected point %q", template.DeparturePoint)
		}
	}
}

func TestProvider_ShiftNotesSurvive(t *testing.T) {
	t.Parallel()

	p := NewProvider(nil, nil)

	var found bool
	for _, template := range p.DeparturesForPoint("1", "vokzal") {
		if template.TimeOfDay == "06:40" {
			found = true
			if template.Notes != "1 смена" {
				t.Fatalf("expected shift note on 06:40, got %q", template.Notes)
			}
		}
	}
	if !found {
		t.Fatal("expected a 06:40 departure from vokzal")
	}
}

func TestTemplateID(t *testing.T) {
	t.Parallel()

	if got := TemplateID("102", "slavgorod_rynok", "06:25"); got != "102_slavgorod_rynok_06:25" {
		t.Fatalf("unexpected template id %q", got)
	}
}
