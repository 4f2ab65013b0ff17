package policy

import (
	"errors"
	"testing"
	"time"
)

// 2024-03-11 is a Monday; offsets pick other weekdays.
func day(t *testing.T, offset int) time.Time {
	t.Helper()
	return time.Date(2024, 3, 11+offset, 0, 0, 0, 0, time.UTC)
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"all_days", "weekdays", "selected_days", "disabled"} {
		if _, err := ParseMode(valid); err != nil {
			t.Fatalf("expected %q to parse, got %v", valid, err)
		}
	}
	if _, err := ParseMode("sometimes"); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestIsEnabledOn_GlobalModes(t *testing.T) {
	t.Parallel()

	monday := day(t, 0)
	saturday := day(t, 5)

	cases := []struct {
		name string
		mode Mode
		date time.Time
		want bool
	}{
		{name: "all days on monday", mode: ModeAllDays, date: monday, want: true},
		{name: "all days on saturday", mode: ModeAllDays, date: saturday, want: true},
		{name: "weekdays on monday", mode: ModeWeekdays, date: monday, want: true},
		{name: "weekdays on saturday", mode: ModeWeekdays, date: saturday, want: false},
		{name: "disabled on monday", mode: ModeDisabled, date: monday, want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			settings := DefaultSettings()
			settings.GlobalMode = tc.mode
			if got := IsEnabledOn(settings, tc.date, "102"); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsEnabledOn_SelectedDays(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	settings.GlobalMode = ModeSelectedDays
	settings.GlobalDays = []time.Weekday{time.Monday, time.Wednesday}

	if !IsEnabledOn(settings, day(t, 0), "102") {
		t.Fatal("expected monday enabled")
	}
	if IsEnabledOn(settings, day(t, 1), "102") {
		t.Fatal("expected tuesday disabled")
	}
}

func TestIsEnabledOn_SelectedDaysEmptySetNeverFires(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	settings.GlobalMode = ModeSelectedDays
	settings.GlobalDays = nil

	for offset := 0; offset < 7; offset++ {
		if IsEnabledOn(settings, day(t, offset), "102") {
			t.Fatalf("empty day set fired on offset %d", offset)
		}
	}
}

func TestIsEnabledOn_RouteOverrideWinsOverGlobal(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	settings.GlobalMode = ModeAllDays
	settings.RouteModes = map[string]Mode{"102": ModeDisabled}

	if IsEnabledOn(settings, day(t, 0), "102") {
		t.Fatal("route override to disabled should win")
	}
	if !IsEnabledOn(settings, day(t, 0), "1") {
		t.Fatal("other routes keep the global mode")
	}
}

func TestIsEnabledOn_RouteDaysFallBackToGlobal(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	settings.GlobalMode = ModeAllDays
	settings.GlobalDays = []time.Weekday{time.Friday}
	settings.RouteModes = map[string]Mode{"102": ModeSelectedDays}

	// No per-route day set stored: the global set applies.
	if !IsEnabledOn(settings, day(t, 4), "102") {
		t.Fatal("expected friday enabled via global day set")
	}
	if IsEnabledOn(settings, day(t, 0), "102") {
		t.Fatal("expected monday disabled via global day set")
	}

	// A stored per-route set shadows the global one, even when empty.
	settings.RouteDays = map[string][]time.Weekday{"102": {}}
	if IsEnabledOn(settings, day(t, 4), "102") {
		t.Fatal("expected empty route day set to shadow the global set")
	}
}

func TestIsEnabledOn_QuietVetoesAllModes(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	settings.GlobalMode = ModeAllDays
	settings.Quiet = QuietState{Kind: QuietOn}

	if IsEnabledOn(settings, day(t, 0), "102") {
		t.Fatal("quiet mode must veto an enabled mode")
	}

	// Vetoes compose via AND: disabled mode stays false with quiet off too.
	settings = DefaultSettings()
	settings.GlobalMode = ModeDisabled
	if IsEnabledOn(settings, day(t, 0), "102") {
		t.Fatal("disabled mode must stay false regardless of quiet mode")
	}
}

func TestIsEnabledOn_QuietUntil(t *testing.T) {
	t.Parallel()

	until := day(t, 3)
	settings := DefaultSettings()
	settings.Quiet = QuietState{Kind: QuietUntil, Until: until}

	if IsEnabledOn(settings, day(t, 2), "102") {
		t.Fatal("dates before the expiry stay silenced")
	}
	if !IsEnabledOn(settings, day(t, 3), "102") {
		t.Fatal("the expiry date itself is no longer silenced")
	}
}

func TestQuietState_Expired(t *testing.T) {
	t.Parallel()

	until := day(t, 1)
	state := QuietState{Kind: QuietUntil, Until: until}

	if state.Expired(day(t, 0)) {
		t.Fatal("not yet expired")
	}
	if !state.Expired(until) {
		t.Fatal("expiry instant counts as expired")
	}
	if (QuietState{Kind: QuietOn}).Expired(day(t, 10)) {
		t.Fatal("indefinite quiet never expires")
	}
}
