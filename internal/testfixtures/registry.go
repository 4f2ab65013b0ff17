package testfixtures

import (
	"sync"
	"time"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/alarm"
)

// AlarmRegistry is an in-memory recording implementation of alarm.Registry.
type AlarmRegistry struct {
	mu        sync.Mutex
	scheduled map[string]time.Time
	payloads  map[string]alarm.Payload
}

// NewAlarmRegistry constructs an empty recording registry.
func NewAlarmRegistry() *AlarmRegistry {
	return &AlarmRegistry{
		scheduled: make(map[string]time.Time),
		payloads:  make(map[string]alarm.Payload),
	}
}

// Schedule records the alarm, replacing any previous entry for id.
func (r *AlarmRegistry) Schedule(id string, at time.Time, payload alarm.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled[id] = at
	r.payloads[id] = payload
	return nil
}

// Cancel drops the recorded alarm for id.
func (r *AlarmRegistry) Cancel(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scheduled, id)
	delete(r.payloads, id)
	return nil
}

// FireTime reports the recorded fire instant for id.
func (r *AlarmRegistry) FireTime(id string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	at, ok := r.scheduled[id]
	return at, ok
}

// Payload reports the recorded payload for id.
func (r *AlarmRegistry) Payload(id string) (alarm.Payload, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payload, ok := r.payloads[id]
	return payload, ok
}

// Count returns the number of pending recorded alarms.
func (r *AlarmRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scheduled)
}
