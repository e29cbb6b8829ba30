package httpapi

import (
	"net/http"
	"strings"

	"jobfeed-engine/internal/provider"
)

// NewMux wires the caller contract: search, scrape control, run status,
// provider settings, config and the SSE event stream.
func NewMux(d Deps, registry *provider.Registry) *http.ServeMux {
	mux := http.NewServeMux()

	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	jh := JobsHandler{Search: d.Search}
	mux.HandleFunc("/jobs/search", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.SearchJobs,
	}))

	sch := ScrapeHandler{Store: d.Store, Scheduler: d.Scheduler}
	mux.HandleFunc("/scrape/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.Status,
	}))
	mux.HandleFunc("/scrape/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.Run,
	}))

	ph := ProvidersHandler{Store: d.Store, Registry: registry}
	mux.HandleFunc("/providers", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.List,
	}))
	mux.HandleFunc("/providers/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/settings"):
			methodMux(map[string]http.HandlerFunc{
				http.MethodGet: ph.GetSettings,
				http.MethodPut: ph.PutSettings,
			})(w, r)
		case strings.HasSuffix(r.URL.Path, "/token"):
			methodMux(map[string]http.HandlerFunc{
				http.MethodPost:   ph.SetToken,
				http.MethodDelete: ph.DeleteToken,
			})(w, r)
		default:
			WriteError(w, r, http.StatusNotFound, "not_found", "not found")
		}
	})

	ch := ConfigHandler{CfgVal: d.CfgVal, UserCfgPath: d.UserCfgPath}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
