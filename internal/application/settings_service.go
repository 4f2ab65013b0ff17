package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/persistence"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/policy"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/timetable"
)

// Settings key layout. The store is a flat key/value table; this layer owns
// the encoding.
const (
	keyGlobalMode      = "global_mode"
	keyGlobalDays      = "global_days"
	keyRouteModePrefix = "route_mode:"
	keyRouteDaysPrefix = "route_days:"
	keyQuietKind       = "quiet_kind"
	keyQuietUntil      = "quiet_until"
)

// RescheduleTrigger requests an asynchronous rebuild of the alarm set.
type RescheduleTrigger interface {
	Trigger()
}

// SettingsService reads and mutates the notification configuration. It is the
// single owner of the settings key layout and implements the settings
// snapshot the alarm scheduler resolves against.
type SettingsService struct {
	settings  persistence.SettingsRepository
	timetable *timetable.Provider
	trigger   RescheduleTrigger
	now       func() time.Time
	loc       *time.Location
	logger    *slog.Logger
}

// NewSettingsService wires dependencies for the settings service.
func NewSettingsService(settings persistence.SettingsRepository, provider *timetable.Provider, trigger RescheduleTrigger, now func() time.Time, loc *time.Location, logger *slog.Logger) *SettingsService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = timetable.DefaultLocation
	}
	return &SettingsService{
		settings:  settings,
		timetable: provider,
		trigger:   trigger,
		now:       now,
		loc:       loc,
		logger:    defaultLogger(logger),
	}
}

// SetTrigger installs the reschedule trigger after construction. The
// scheduler consumes this service as its settings source, so the trigger loop
// can only be wired once both exist.
func (s *SettingsService) SetTrigger(trigger RescheduleTrigger) {
	if s != nil {
		s.trigger = trigger
	}
}

// Snapshot loads the stored configuration into a resolver snapshot. An
// expired quiet-until window is normalised back to "off" in the store before
// the snapshot is returned, so no caller ever observes a stale silence.
// Malformed stored values are logged and replaced by defaults rather than
// failing the whole snapshot.
func (s *SettingsService) Snapshot(ctx context.Context) (policy.Settings, error) {
	if s == nil {
		return policy.Settings{}, fmt.Errorf("SettingsService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "settings", "snapshot")

	stored, err := s.settings.ListSettings(ctx, "")
	if err != nil {
		return policy.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	settings := policy.DefaultSettings()

	if raw, ok := stored[keyGlobalMode]; ok {
		if mode, parseErr := policy.ParseMode(raw); parseErr == nil {
			settings.GlobalMode = mode
		} else {
			logger.Warn("stored global mode is invalid, using default", "value", raw)
		}
	}
	if raw, ok := stored[keyGlobalDays]; ok {
		if days, parseErr := decodeDays(raw); parseErr == nil {
			settings.GlobalDays = days
		} else {
			logger.Warn("stored global day set is invalid, ignoring", "value", raw)
		}
	}

	for key, raw := range stored {
		switch {
		case strings.HasPrefix(key, keyRouteModePrefix):
			routeID := strings.TrimPrefix(key, keyRouteModePrefix)
			mode, parseErr := policy.ParseMode(raw)
			if parseErr != nil {
				logger.Warn("stored route mode is invalid, ignoring", "route_id", routeID, "value", raw)
				continue
			}
			if settings.RouteModes == nil {
				settings.RouteModes = make(map[string]policy.Mode)
			}
			settings.RouteModes[routeID] = mode
		case strings.HasPrefix(key, keyRouteDaysPrefix):
			routeID := strings.TrimPrefix(key, keyRouteDaysPrefix)
			days, parseErr := decodeDays(raw)
			if parseErr != nil {
				logger.Warn("stored route day set is invalid, ignoring", "route_id", routeID, "value", raw)
				continue
			}
			if settings.RouteDays == nil {
				settings.RouteDays = make(map[string][]time.Weekday)
			}
			settings.RouteDays[routeID] = days
		}
	}

	settings.Quiet = s.loadQuiet(ctx, logger, stored)
	return settings, nil
}

func (s *SettingsService) loadQuiet(ctx context.Context, logger *slog.Logger, stored map[string]string) policy.QuietState {
	quiet := policy.QuietState{Kind: policy.QuietOff}

	switch policy.QuietKind(stored[keyQuietKind]) {
	case policy.QuietOn:
		quiet.Kind = policy.QuietOn
	case policy.QuietUntil:
		until, err := time.Parse(time.RFC3339, stored[keyQuietUntil])
		if err != nil {
			logger.Warn("stored quiet expiry is invalid, disabling quiet mode", "value", stored[keyQuietUntil])
			s.persistQuiet(ctx, logger, policy.QuietState{Kind: policy.QuietOff})
			return quiet
		}
		quiet = policy.QuietState{Kind: policy.QuietUntil, Until: until.In(s.loc)}
	}

	if quiet.Expired(s.now()) {
		logger.Info("quiet window expired, clearing", "until", quiet.Until)
		s.persistQuiet(ctx, logger, policy.QuietState{Kind: policy.QuietOff})
		// Expiry is a settings transition like any other: alarms suppressed
		// for the whole window must be rebuilt. The trigger is non-blocking
		// and coalescing, so firing it mid-snapshot is safe.
		s.requestReschedule()
		return policy.QuietState{Kind: policy.QuietOff}
	}
	return quiet
}

// GetSettings returns the stored configuration for display.
func (s *SettingsService) GetSettings(ctx context.Context) (SettingsView, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return SettingsView{}, err
	}

	view := SettingsView{
		GlobalMode: string(snapshot.GlobalMode),
		GlobalDays: weekdaysToInts(snapshot.GlobalDays),
		Quiet: QuietView{
			Kind:  string(snapshot.Quiet.Kind),
			Until: snapshot.Quiet.Until,
		},
	}

	routeIDs := make([]string, 0, len(snapshot.RouteModes))
	for routeID := range snapshot.RouteModes {
		routeIDs = append(routeIDs, routeID)
	}
	sort.Strings(routeIDs)
	for _, routeID := range routeIDs {
		view.Routes = append(view.Routes, RouteModeView{
			RouteID: routeID,
			Mode:    string(snapshot.RouteModes[routeID]),
			Days:    weekdaysToInts(snapshot.RouteDays[routeID]),
		})
	}
	return view, nil
}

// SetGlobalMode updates the global notification mode. The day set is stored
// only for selected-days mode; switching to any other mode clears it so a
// later switch back starts from an empty set.
func (s *SettingsService) SetGlobalMode(ctx context.Context, mode string, days []int) error {
	if s == nil {
		return fmt.Errorf("SettingsService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "settings", "set_global_mode", "mode", mode)

	parsed, weekdays, err := s.validateMode(mode, days)
	if err != nil {
		return err
	}

	if err := s.settings.PutSetting(ctx, keyGlobalMode, string(parsed)); err != nil {
		return fmt.Errorf("failed to store global mode: %w", err)
	}
	if parsed == policy.ModeSelectedDays {
		if err := s.settings.PutSetting(ctx, keyGlobalDays, encodeDays(weekdays)); err != nil {
			return fmt.Errorf("failed to store global day set: %w", err)
		}
	} else if err := s.settings.DeleteSetting(ctx, keyGlobalDays); err != nil {
		return fmt.Errorf("failed to clear global day set: %w", err)
	}

	logger.Info("global mode updated")
	s.requestReschedule()
	return nil
}

// SetRouteMode stores a per-route override. The route must exist in the
// timetable.
func (s *SettingsService) SetRouteMode(ctx context.Context, routeID, mode string, days []int) error {
	if s == nil {
		return fmt.Errorf("SettingsService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "settings", "set_route_mode", "route_id", routeID, "mode", mode)

	if _, ok := s.timetable.RouteByID(routeID); !ok {
		return ErrUnknownRoute
	}

	parsed, weekdays, err := s.validateMode(mode, days)
	if err != nil {
		return err
	}

	if err := s.settings.PutSetting(ctx, keyRouteModePrefix+routeID, string(parsed)); err != nil {
		return fmt.Errorf("failed to store route mode: %w", err)
	}
	if parsed == policy.ModeSelectedDays {
		if err := s.settings.PutSetting(ctx, keyRouteDaysPrefix+routeID, encodeDays(weekdays)); err != nil {
			return fmt.Errorf("failed to store route day set: %w", err)
		}
	} else if err := s.settings.DeleteSetting(ctx, keyRouteDaysPrefix+routeID); err != nil {
		return fmt.Errorf("failed to clear route day set: %w", err)
	}

	logger.Info("route override updated")
	s.requestReschedule()
	return nil
}

// ClearRouteMode removes a per-route override so the route follows the
// global mode again. Clearing an absent override is a no-op.
func (s *SettingsService) ClearRouteMode(ctx context.Context, routeID string) error {
	if s == nil {
		return fmt.Errorf("SettingsService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "settings", "clear_route_mode", "route_id", routeID)

	if err := s.settings.DeleteSetting(ctx, keyRouteModePrefix+routeID); err != nil {
		return fmt.Errorf("failed to clear route mode: %w", err)
	}
	if err := s.settings.DeleteSetting(ctx, keyRouteDaysPrefix+routeID); err != nil {
		return fmt.Errorf("failed to clear route day set: %w", err)
	}

	logger.Info("route override cleared")
	s.requestReschedule()
	return nil
}

// SetQuietOff re-enables notifications immediately.
func (s *SettingsService) SetQuietOff(ctx context.Context) error {
	return s.setQuiet(ctx, policy.QuietState{Kind: policy.QuietOff})
}

// SetQuietOn silences all notifications until explicitly turned off.
func (s *SettingsService) SetQuietOn(ctx context.Context) error {
	return s.setQuiet(ctx, policy.QuietState{Kind: policy.QuietOn})
}

// SetQuietForDays silences all notifications for the given number of whole
// calendar days. The window ends at midnight, so notifications resume with
// the first departure of the day after it.
func (s *SettingsService) SetQuietForDays(ctx context.Context, days int) error {
	if days < 1 {
		vErr := &ValidationError{}
		vErr.add("days", "укажите не менее одного дня")
		return vErr
	}
	now := s.now().In(s.loc)
	year, month, day := now.Date()
	until := time.Date(year, month, day, 0, 0, 0, 0, s.loc).AddDate(0, 0, days)
	return s.setQuiet(ctx, policy.QuietState{Kind: policy.QuietUntil, Until: until})
}

func (s *SettingsService) setQuiet(ctx context.Context, quiet policy.QuietState) error {
	if s == nil {
		return fmt.Errorf("SettingsService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "settings", "set_quiet", "kind", string(quiet.Kind))

	if err := s.persistQuiet(ctx, logger, quiet); err != nil {
		return err
	}

	logger.Info("quiet mode updated", "until", quiet.Until)
	s.requestReschedule()
	return nil
}

func (s *SettingsService) persistQuiet(ctx context.Context, logger *slog.Logger, quiet policy.QuietState) error {
	if err := s.settings.PutSetting(ctx, keyQuietKind, string(quiet.Kind)); err != nil {
		logger.Error("failed to store quiet kind", "error", err)
		return fmt.Errorf("failed to store quiet mode: %w", err)
	}
	if quiet.Kind == policy.QuietUntil {
		if err := s.settings.PutSetting(ctx, keyQuietUntil, quiet.Until.Format(time.RFC3339)); err != nil {
			logger.Error("failed to store quiet expiry", "error", err)
			return fmt.Errorf("failed to store quiet expiry: %w", err)
		}
		return nil
	}
	if err := s.settings.DeleteSetting(ctx, keyQuietUntil); err != nil {
		logger.Error("failed to clear quiet expiry", "error", err)
		return fmt.Errorf("failed to clear quiet expiry: %w", err)
	}
	return nil
}

func (s *SettingsService) validateMode(mode string, days []int) (policy.Mode, []time.Weekday, error) {
	parsed, err := policy.ParseMode(mode)
	if err != nil {
		return "", nil, err
	}

	weekdays := make([]time.Weekday, 0, len(days))
	for _, day := range days {
		if day < int(time.Sunday) || day > int(time.Saturday) {
			vErr := &ValidationError{}
			vErr.add("days", "день недели должен быть от 0 до 6")
			return "", nil, vErr
		}
		weekdays = append(weekdays, time.Weekday(day))
	}
	return parsed, weekdays, nil
}

func (s *SettingsService) requestReschedule() {
	if s.trigger != nil {
		s.trigger.Trigger()
	}
}

func encodeDays(days []time.Weekday) string {
	parts := make([]string, 0, len(days))
	for _, day := range days {
		parts = append(parts, strconv.Itoa(int(day)))
	}
	return strings.Join(parts, ",")
}

func decodeDays(raw string) ([]time.Weekday, error) {
	if raw == "" {
		return []time.Weekday{}, nil
	}
	parts := strings.Split(raw, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid weekday %q: %w", part, err)
		}
		if value < int(time.Sunday) || value > int(time.Saturday) {
			return nil, errors.New("weekday out of range")
		}
		days = append(days, time.Weekday(value))
	}
	return days, nil
}

func weekdaysToInts(days []time.Weekday) []int {
	if days == nil {
		return nil
	}
	out := make([]int, 0, len(days))
	for _, day := range days {
		out = append(out, int(day))
	}
	return out
}
