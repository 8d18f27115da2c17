package web

import (
	"net/http"
	"time"

	"matchday-app/internal/browse"
	"matchday-app/internal/store"

	"github.com/go-chi/chi/v5"
)

type Options struct {
	Leagues []string
}

type Server struct {
	store     store.Store
	templates *Templates
	sessions  *sessionRegistry
	leagues   []string
}

func NewServer(store store.Store, templates *Templates, fetcher browse.Fetcher, opts Options) *Server {
	return &Server{
		store:     store,
		templates: templates,
		sessions:  newSessionRegistry(store, fetcher),
		leagues:   append([]string(nil), opts.Leagues...),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Group(func(r chi.Router) {
		r.Use(WithSession)
		r.Get("/", s.handleHome)
		r.Get("/api/view", s.handleAPIView)
		r.Post("/league", s.handleLeagueSelect)
		r.Post("/season", s.handleSeasonSelect)
		r.Post("/matchdays/toggle", s.handleMatchdayToggle)
		r.Post("/simplified", s.handleSimplifiedToggle)
		r.Post("/analysis", s.handleAnalysisSelect)
		r.Post("/analysis/next", s.handleAnalysisNext)
	})

	return r
}

// PruneIdle drops sessions not touched since maxAge ago, from memory and from
// the store.
func (s *Server) PruneIdle(maxAge time.Duration) (int, error) {
	return s.sessions.prune(time.Now().Add(-maxAge))
}
