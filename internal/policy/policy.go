package policy

import (
	"errors"
	"fmt"
	"time"
)

// Mode selects which calendar days a scope (global or per-route) allows
// departure notifications on.
type Mode string

const (
	// ModeAllDays enables notifications every day.
	ModeAllDays Mode = "all_days"
	// ModeWeekdays enables notifications Monday through Friday.
	ModeWeekdays Mode = "weekdays"
	// ModeSelectedDays enables notifications only on an explicit day set.
	ModeSelectedDays Mode = "selected_days"
	// ModeDisabled suppresses notifications for the scope entirely.
	ModeDisabled Mode = "disabled"
)

// ErrUnknownMode indicates a mode string outside the supported set.
var ErrUnknownMode = errors.New("policy: unknown notification mode")

// ParseMode validates a stored or user-supplied mode string.
func ParseMode(value string) (Mode, error) {
	switch Mode(value) {
	case ModeAllDays, ModeWeekdays, ModeSelectedDays, ModeDisabled:
		return Mode(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, value)
}

// QuietKind enumerates the quiet-mode states.
type QuietKind string

const (
	// QuietOff means notifications are allowed.
	QuietOff QuietKind = "off"
	// QuietOn silences all notifications indefinitely.
	QuietOn QuietKind = "on"
	// QuietUntil silences all notifications until an absolute expiry.
	QuietUntil QuietKind = "until"
)

// QuietState is the global quiet-mode override. Until is meaningful only for
// QuietUntil and holds the midnight the silence ends at.
type QuietState struct {
	Kind  QuietKind
	Until time.Time
}

// Expired reports whether a QuietUntil state has run out at the given
// instant. Other kinds never expire.
func (q QuietState) Expired(now time.Time) bool {
	return q.Kind == QuietUntil && !now.Before(q.Until)
}

// Silences reports whether the quiet state vetoes notifications on the given
// date.
func (q QuietState) Silences(date time.Time) bool {
	switch q.Kind {
	case QuietOn:
		return true
	case QuietUntil:
		return date.Before(q.Until)
	}
	return false
}

// Settings is a read-only snapshot of every input the resolver needs. The
// orchestrator refreshes it from the settings store on each reschedule
// trigger, keeping resolution pure and repeatable.
type Settings struct {
	GlobalMode Mode
	GlobalDays []time.Weekday
	RouteModes map[string]Mode
	RouteDays  map[string][]time.Weekday
	Quiet      QuietState
}

// DefaultSettings mirrors a fresh installation: all days on, nothing quiet.
func DefaultSettings() Settings {
	return Settings{GlobalMode: ModeAllDays, Quiet: QuietState{Kind: QuietOff}}
}

// EffectiveMode resolves the mode for a route: the per-route override when
// present, otherwise the global default.
func (s Settings) EffectiveMode(routeID string) Mode {
	if mode, ok := s.RouteModes[routeID]; ok {
		return mode
	}
	if s.GlobalMode == "" {
		return ModeAllDays
	}
	return s.GlobalMode
}

// EffectiveDays resolves the selected-days set for a route: the per-route set
// when stored, otherwise the global set. An empty resolved set is legal and
// simply never matches.
func (s Settings) EffectiveDays(routeID string) []time.Weekday {
	if days, ok := s.RouteDays[routeID]; ok {
		return days
	}
	return s.GlobalDays
}

// IsEnabledOn decides whether notifications for the route may fire on the
// given calendar date. The quiet-mode veto and the mode-specific day logic
// compose via AND: either one alone suppresses the notification.
func IsEnabledOn(settings Settings, date time.Time, routeID string) bool {
	if settings.Quiet.Silences(date) {
		return false
	}

	switch settings.EffectiveMode(routeID) {
	case ModeDisabled:
		return false
	case ModeAllDays:
		return true
	case ModeWeekdays:
		weekday := date.Weekday()
		return weekday >= time.Monday && weekday <= time.Friday
	case ModeSelectedDays:
		weekday := date.Weekday()
		for _, day := range settings.EffectiveDays(routeID) {
			if day == weekday {
				return true
			}
		}
		return false
	}
	return false
}
