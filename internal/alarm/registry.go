package alarm

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Payload is delivered to the notifier when an alarm fires.
type Payload struct {
	Token          string
	FavoriteID     string
	RouteID        string
	RouteNumber    string
	RouteName      string
	DeparturePoint string
	DepartureTime  string
	DepartureAt    time.Time
	FireAt         time.Time
}

// Registry is the alarm primitive the scheduler drives: one pending alarm per
// id, best-effort delivery at or after the requested instant.
type Registry interface {
	Schedule(id string, at time.Time, payload Payload) error
	Cancel(id string) error
}

// Notifier receives fired alarm payloads for presentation.
type Notifier interface {
	Notify(payload Payload)
}

// TimerRegistry implements Registry with in-process timers. Scheduling an id
// that already has a pending timer replaces it.
type TimerRegistry struct {
	mu       sync.Mutex
	now      func() time.Time
	notifier Notifier
	logger   *slog.Logger
	timers   map[string]*time.Timer
	closed   bool
}

// NewTimerRegistry constructs a TimerRegistry. A nil clock falls back to
// time.Now; a nil logger to slog.Default.
func NewTimerRegistry(notifier Notifier, now func() time.Time, logger *slog.Logger) *TimerRegistry {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TimerRegistry{
		now:      now,
		notifier: notifier,
		logger:   logger,
		timers:   make(map[string]*time.Timer),
	}
}

// Schedule arms a timer for the payload. An already-due instant fires
// immediately on a background goroutine.
func (r *TimerRegistry) Schedule(id string, at time.Time, payload Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRegistryClosed
	}

	if existing, ok := r.timers[id]; ok {
		existing.Stop()
		delete(r.timers, id)
	}

	delay := at.Sub(r.now())
	if delay < 0 {
		delay = 0
	}

	r.timers[id] = time.AfterFunc(delay, func() { r.fire(id, payload) })
	return nil
}

// Cancel stops the pending timer for id. Cancelling an unknown id is a no-op.
func (r *TimerRegistry) Cancel(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if timer, ok := r.timers[id]; ok {
		timer.Stop()
		delete(r.timers, id)
	}
	return nil
}

// PendingIDs lists the ids with an armed timer, sorted for stable output.
func (r *TimerRegistry) PendingIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.timers))
	for id := range r.timers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close stops every pending timer and rejects further scheduling.
func (r *TimerRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, timer := range r.timers {
		timer.Stop()
		delete(r.timers, id)
	}
	r.closed = true
}

func (r *TimerRegistry) fire(id string, payload Payload) {
	r.mu.Lock()
	delete(r.timers, id)
	closed := r.closed
	r.mu.Unlock()

	if closed {
		return
	}

	r.logger.Info("alarm fired",
		"favorite_id", payload.FavoriteID,
		"route_id", payload.RouteID,
		"departure_time", payload.DepartureTime,
	)
	if r.notifier != nil {
		r.notifier.Notify(payload)
	}
}
