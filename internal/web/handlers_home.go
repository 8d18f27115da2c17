package web

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessions.controller(sessionID(r))
	view := s.pageView(ctrl.State(), ctrl.View())
	view.Notice = flashMessage(r.URL.Query().Get("notice"))
	if err := s.templates.Render(w, "index.html", view); err != nil {
		log.Error().Err(err).Msg("render index")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleAPIView(w http.ResponseWriter, r *http.Request) {
	ctrl := s.sessions.controller(sessionID(r))
	body, err := jsoniter.Marshal(apiView(ctrl.State(), ctrl.View()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
