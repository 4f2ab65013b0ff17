package http

import "context"

type contextKey string

const (
	routeIDContextKey    contextKey = "route_id"
	favoriteIDContextKey contextKey = "favorite_id"
)

// ContextWithRouteID injects the route identifier resolved from the request path.
func ContextWithRouteID(ctx context.Context, routeID string) context.Context {
	return context.WithValue(ctx, routeIDContextKey, routeID)
}

// RouteIDFromContext extracts a route identifier previously associated with the context.
func RouteIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(routeIDContextKey).(string)
	return id, ok
}

// ContextWithFavoriteID injects the favorite identifier resolved from the request path.
func ContextWithFavoriteID(ctx context.Context, favoriteID string) context.Context {
	return context.WithValue(ctx, favoriteIDContextKey, favoriteID)
}

// FavoriteIDFromContext extracts a favorite identifier previously associated with the context.
func FavoriteIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(favoriteIDContextKey).(string)
	return id, ok
}
