package alarm

import "log/slog"

// LogNotifier renders fired alarms as structured log records. It stands in
// for a user-visible notification surface, which stays outside this engine.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a LogNotifier. A nil logger uses slog.Default.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(payload Payload) {
	n.logger.Info("departure notification",
		"token", payload.Token,
		"favorite_id", payload.FavoriteID,
		"route", payload.RouteNumber,
		"route_name", payload.RouteName,
		"departure_point", payload.DeparturePoint,
		"departure_time", payload.DepartureTime,
		"departure_at", payload.DepartureAt,
	)
}
