package alarm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/persistence"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/policy"
	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/timetable"
)

var (
	// ErrRegistryClosed indicates the alarm registry no longer accepts work.
	ErrRegistryClosed = errors.New("alarm: registry closed")
	// ErrScheduleFailed wraps registry refusals so callers can treat them as
	// recoverable per-favorite failures.
	ErrScheduleFailed = errors.New("alarm: schedule request rejected")
)

const (
	// DefaultLeadTime is how long before a departure the alarm fires.
	DefaultLeadTime = 5 * time.Minute
	// DefaultScanDays bounds the forward search for a qualifying date, so an
	// empty selected-days set cannot spin forever.
	DefaultScanDays = 14
)

// SettingsSource supplies the current notification settings snapshot. The
// scheduler re-reads it on every operation so decisions always reflect the
// latest stored state.
type SettingsSource interface {
	Snapshot(ctx context.Context) (policy.Settings, error)
}

// Options tune the scheduler. Zero values select defaults.
type Options struct {
	LeadTime       time.Duration
	ScanDays       int
	Location       *time.Location
	Now            func() time.Time
	TokenGenerator func() string
	Logger         *slog.Logger
}

// Scheduler derives a concrete fire time for every active favorite and keeps
// the alarm registry in sync with it. All mutating operations serialize on a
// single mutex over the alarm set: the engine holds no other state, so each
// call recomputes its outcome from (favorite, settings, now) and converges on
// the same registry contents no matter the interleaving.
type Scheduler struct {
	mu       sync.Mutex
	registry Registry
	settings SettingsSource
	leadTime time.Duration
	scanDays int
	loc      *time.Location
	now      func() time.Time
	newToken func() string
	logger   *slog.Logger
	tracked  map[string]time.Time
}

// NewScheduler wires the orchestrator.
func NewScheduler(registry Registry, settings SettingsSource, opts Options) *Scheduler {
	if opts.LeadTime <= 0 {
		opts.LeadTime = DefaultLeadTime
	}
	if opts.ScanDays <= 0 {
		opts.ScanDays = DefaultScanDays
	}
	if opts.Location == nil {
		opts.Location = timetable.DefaultLocation
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TokenGenerator == nil {
		opts.TokenGenerator = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Scheduler{
		registry: registry,
		settings: settings,
		leadTime: opts.LeadTime,
		scanDays: opts.ScanDays,
		loc:      opts.Location,
		now:      opts.Now,
		newToken: opts.TokenGenerator,
		logger:   opts.Logger,
		tracked:  make(map[string]time.Time),
	}
}

// ScheduleOrUpdate recomputes and re-registers the alarm for one favorite.
// Inactive favorites only cancel. Finding no qualifying date within the scan
// window is a valid "nothing to schedule" outcome, not an error.
func (s *Scheduler) ScheduleOrUpdate(ctx context.Context, favorite persistence.FavoriteDeparture) error {
	if s == nil {
		return fmt.Errorf("alarm: Scheduler is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !favorite.IsActive {
		s.cancelLocked(favorite.ID)
		return nil
	}

	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings snapshot: %w", err)
	}

	return s.scheduleLocked(favorite, settings)
}

// Cancel drops any pending alarm for the favorite id. Unknown ids are a
// no-op.
func (s *Scheduler) Cancel(favoriteID string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(favoriteID)
}

// RescheduleAll rebuilds the entire alarm set from the given favorites:
// every tracked alarm is cancelled, then each active favorite is scheduled
// against one shared settings snapshot. Individual failures are logged and
// collected without aborting the pass.
func (s *Scheduler) RescheduleAll(ctx context.Context, favorites []persistence.FavoriteDeparture) error {
	if s == nil {
		return fmt.Errorf("alarm: Scheduler is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.tracked {
		if err := s.registry.Cancel(id); err != nil {
			s.logger.Warn("failed to cancel alarm during reschedule", "favorite_id", id, "error", err)
		}
		delete(s.tracked, id)
	}

	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings snapshot: %w", err)
	}

	var errs []error
	for _, favorite := range favorites {
		if !favorite.IsActive {
			continue
		}
		if err := s.scheduleLocked(favorite, settings); err != nil {
			errs = append(errs, fmt.Errorf("favorite %s: %w", favorite.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Tracked returns the favorite ids with a registered alarm, sorted.
func (s *Scheduler) Tracked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.tracked))
	for id := range s.tracked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FireTime reports the registered fire instant for a favorite id.
func (s *Scheduler) FireTime(favoriteID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.tracked[favoriteID]
	return at, ok
}

func (s *Scheduler) scheduleLocked(favorite persistence.FavoriteDeparture, settings policy.Settings) error {
	s.cancelLocked(favorite.ID)

	departureAt, fireAt, ok := s.nextFireTime(favorite, settings)
	if !ok {
		s.logger.Debug("no qualifying departure within scan window",
			"favorite_id", favorite.ID, "route_id", favorite.RouteID, "scan_days", s.scanDays)
		return nil
	}

	payload := Payload{
		Token:          s.newToken(),
		FavoriteID:     favorite.ID,
		RouteID:        favorite.RouteID,
		RouteNumber:    favorite.RouteNumber,
		RouteName:      favorite.RouteName,
		DeparturePoint: favorite.DeparturePoint,
		DepartureTime:  favorite.DepartureTime,
		DepartureAt:    departureAt,
		FireAt:         fireAt,
	}

	if err := s.registry.Schedule(favorite.ID, fireAt, payload); err != nil {
		s.logger.Error("failed to register alarm",
			"favorite_id", favorite.ID, "fire_at", fireAt, "error", err)
		return fmt.Errorf("%w: %v", ErrScheduleFailed, err)
	}

	s.tracked[favorite.ID] = fireAt
	s.logger.Info("alarm scheduled",
		"favorite_id", favorite.ID,
		"route_id", favorite.RouteID,
		"departure_at", departureAt,
		"fire_at", fireAt,
	)
	return nil
}

func (s *Scheduler) cancelLocked(favoriteID string) {
	if err := s.registry.Cancel(favoriteID); err != nil {
		s.logger.Warn("failed to cancel alarm", "favorite_id", favoriteID, "error", err)
	}
	delete(s.tracked, favoriteID)
}

// nextFireTime scans forward day by day for the first date on which the
// route's notifications are enabled and the departure minus lead time is
// still ahead of now. A malformed departure time yields no alarm (fail-soft,
// mirroring the countdown contract).
func (s *Scheduler) nextFireTime(favorite persistence.FavoriteDeparture, settings policy.Settings) (time.Time, time.Time, bool) {
	parsed, err := time.Parse("15:04", favorite.DepartureTime)
	if err != nil {
		s.logger.Warn("favorite has malformed departure time",
			"favorite_id", favorite.ID, "departure_time", favorite.DepartureTime)
		return time.Time{}, time.Time{}, false
	}

	now := s.now().In(s.loc)
	for offset := 0; offset <= s.scanDays; offset++ {
		date := now.AddDate(0, 0, offset)
		year, month, day := date.Date()

		departureAt := time.Date(year, month, day, parsed.Hour(), parsed.Minute(), 0, 0, s.loc)
		fireAt := departureAt.Add(-s.leadTime)
		if !fireAt.After(now) {
			continue
		}
		if !policy.IsEnabledOn(settings, departureAt, favorite.RouteID) {
			continue
		}
		return departureAt, fireAt, true
	}
	return time.Time{}, time.Time{}, false
}
