package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Routes     *RouteHandler
	Favorites  *FavoriteHandler
	Settings   *SettingsHandler
	AdminGuard func(http.Handler) http.Handler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Routes != nil {
		mux.HandleFunc("/routes", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Routes.List(w, r)
		})
		mux.HandleFunc("/routes/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/routes/")
			parts := strings.Split(rest, "/")
			if parts[0] == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}

			r = r.WithContext(ContextWithRouteID(r.Context(), parts[0]))
			switch {
			case len(parts) == 2 && parts[1] == "departures":
				cfg.Routes.Departures(w, r)
			case len(parts) == 4 && parts[1] == "points" && parts[3] == "next":
				cfg.Routes.NextDeparture(w, r, parts[2])
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Favorites != nil {
		mux.HandleFunc("/favorites", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Favorites.List(w, r)
			case http.MethodPost:
				cfg.Favorites.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/favorites/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/favorites/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithFavoriteID(r.Context(), id))
			switch r.Method {
			case http.MethodPut:
				cfg.Favorites.Update(w, r)
			case http.MethodDelete:
				cfg.Favorites.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Settings != nil {
		guard := cfg.AdminGuard
		if guard == nil {
			guard = func(next http.Handler) http.Handler { return next }
		}

		mux.HandleFunc("/settings", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Settings.Get(w, r)
		})
		mux.Handle("/settings/mode", guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Settings.UpdateGlobalMode(w, r)
		})))
		mux.Handle("/settings/quiet", guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Settings.UpdateQuiet(w, r)
		})))
		mux.Handle("/settings/routes/", guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/settings/routes/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithRouteID(r.Context(), id))
			switch r.Method {
			case http.MethodPut:
				cfg.Settings.UpdateRouteMode(w, r)
			case http.MethodDelete:
				cfg.Settings.ClearRouteMode(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})))
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
