package alarm

import (
	"context"
	"log/slog"

	"github.com/VseMirka200/lets-go-slavgorod-sub000/internal/persistence"
)

// FavoriteSource lists the favorites a reschedule pass must cover.
type FavoriteSource interface {
	ListActiveFavorites(ctx context.Context) ([]persistence.FavoriteDeparture, error)
}

// Rescheduler funnels change events (settings mutations, favorite edits,
// quiet-mode expiry) into full reschedule passes. Triggers coalesce: many
// events arriving while a pass runs produce exactly one follow-up pass,
// which is sufficient because every pass converges on the same target state.
type Rescheduler struct {
	scheduler *Scheduler
	favorites FavoriteSource
	logger    *slog.Logger
	triggers  chan struct{}
}

// NewRescheduler wires the trigger loop.
func NewRescheduler(scheduler *Scheduler, favorites FavoriteSource, logger *slog.Logger) *Rescheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rescheduler{
		scheduler: scheduler,
		favorites: favorites,
		logger:    logger,
		triggers:  make(chan struct{}, 1),
	}
}

// Trigger requests a reschedule pass. Never blocks; a pending request
// absorbs further triggers.
func (r *Rescheduler) Trigger() {
	select {
	case r.triggers <- struct{}{}:
	default:
	}
}

// Run processes triggers until the context is cancelled. Errors from a pass
// are logged and the loop keeps going; a later trigger retries from current
// state.
func (r *Rescheduler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.triggers:
			favorites, err := r.favorites.ListActiveFavorites(ctx)
			if err != nil {
				r.logger.Error("failed to list favorites for reschedule", "error", err)
				continue
			}
			if err := r.scheduler.RescheduleAll(ctx, favorites); err != nil {
				r.logger.Warn("reschedule pass completed with failures", "error", err)
			} else {
				r.logger.Info("reschedule pass completed", "favorites", len(favorites))
			}
		}
	}
}
