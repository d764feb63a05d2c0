package http

import (
	"net/http"
	"strings"
)

// RouterConfig wires handlers and middleware into the router.
type RouterConfig struct {
	Schedules    *ScheduleHandler
	Participants *ParticipantHandler
	Suggestions  *SuggestionHandler
	Middleware   []func(http.Handler) http.Handler
}

// NewRouter builds the HTTP routing table for the meetsync API.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Schedules != nil {
		mux.HandleFunc("/schedules", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Schedules.List(w, r)
			case http.MethodPost:
				cfg.Schedules.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/schedules/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/schedules/")
			segments := strings.Split(strings.Trim(rest, "/"), "/")
			if len(segments) == 0 || segments[0] == "" {
				http.NotFound(w, r)
				return
			}

			r = r.WithContext(ContextWithScheduleID(r.Context(), segments[0]))

			switch {
			case len(segments) == 1:
				switch r.Method {
				case http.MethodGet:
					cfg.Schedules.Get(w, r)
				case http.MethodPut:
					cfg.Schedules.Update(w, r)
				case http.MethodDelete:
					cfg.Schedules.Delete(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
				}
			case segments[1] == "participants" && cfg.Participants != nil:
				routeChild(w, r, segments, cfg.Participants.Upsert, cfg.Participants.Delete)
			case segments[1] == "suggestions" && cfg.Suggestions != nil:
				routeChild(w, r, segments, cfg.Suggestions.Upsert, cfg.Suggestions.Delete)
			default:
				http.NotFound(w, r)
			}
		})
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

// routeChild dispatches the nested child routes: PUT on the collection upserts,
// DELETE on a member removes it.
func routeChild(w http.ResponseWriter, r *http.Request, segments []string, upsert http.HandlerFunc, remove func(http.ResponseWriter, *http.Request, string)) {
	switch len(segments) {
	case 2:
		if r.Method != http.MethodPut {
			methodNotAllowed(w, http.MethodPut)
			return
		}
		upsert(w, r)
	case 3:
		if r.Method != http.MethodDelete {
			methodNotAllowed(w, http.MethodDelete)
			return
		}
		remove(w, r, segments[2])
	default:
		http.NotFound(w, r)
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
