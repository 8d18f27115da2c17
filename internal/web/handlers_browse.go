package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"matchday-app/internal/browse"

	"github.com/rs/zerolog/log"
)

func (s *Server) handleLeagueSelect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := sessionID(r)
	ctrl := s.sessions.controller(id)
	u, err := ctrl.SelectLeague(r.Context(), r.FormValue("league"))
	s.finish(w, r, id, ctrl, u, err)
}

func (s *Server) handleSeasonSelect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := sessionID(r)
	ctrl := s.sessions.controller(id)
	u, err := ctrl.SelectSeason(r.Context(), r.FormValue("season"))
	s.finish(w, r, id, ctrl, u, err)
}

func (s *Server) handleMatchdayToggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := sessionID(r)
	ctrl := s.sessions.controller(id)
	u, err := ctrl.ToggleMatchday(r.FormValue("key"), formBool(r, "checked"))
	if err == nil && u.Refused {
		// Repaint the checkbox list so the refused box shows unchecked again.
		u.Regions = append(u.Regions, browse.RegionMatchdays)
		u.Messages = map[browse.Region]string{browse.RegionMatchdays: flashMessage(noticeCompareLimit)}
		if isHTMX(r) {
			triggerEvent(w, "compare-refused")
		} else {
			redirectHome(w, r, noticeCompareLimit)
			return
		}
	}
	s.finish(w, r, id, ctrl, u, err)
}

func (s *Server) handleSimplifiedToggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := sessionID(r)
	ctrl := s.sessions.controller(id)
	u := ctrl.ToggleSimplified(formBool(r, "simplified"))
	s.finish(w, r, id, ctrl, u, nil)
}

func (s *Server) handleAnalysisSelect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := sessionID(r)
	ctrl := s.sessions.controller(id)
	u, err := ctrl.SelectAnalysisMatchday(r.FormValue("key"))
	s.finish(w, r, id, ctrl, u, err)
}

func (s *Server) handleAnalysisNext(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	ctrl := s.sessions.controller(id)
	u := ctrl.NextDatePage()
	s.finish(w, r, id, ctrl, u, nil)
}

// finish persists the session and answers with the repainted regions for htmx
// or a redirect to the page otherwise.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, id string, ctrl *browse.Controller, u browse.Update, err error) {
	if u.Stale {
		if isHTMX(r) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		redirectHome(w, r, "")
		return
	}

	notice := ""
	if err != nil {
		var fetchErr *browse.FetchError
		var emptyErr *browse.EmptyResultError
		switch {
		case errors.As(err, &fetchErr):
			notice = noticeFetchFailed
		case errors.As(err, &emptyErr):
			notice = noticeNoData
		case errors.Is(err, browse.ErrNoLeague):
			s.fail(w, r, http.StatusConflict, noticeNoLeague, err)
			return
		case errors.Is(err, browse.ErrUnknownMatchday):
			s.fail(w, r, http.StatusBadRequest, noticeUnknownMatchday, err)
			return
		default:
			s.fail(w, r, http.StatusInternalServerError, "", err)
			return
		}
	}

	s.sessions.persist(id, ctrl)

	if !isHTMX(r) {
		redirectHome(w, r, notice)
		return
	}
	names := regionTemplates(u)
	if len(names) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	view := s.pageView(ctrl.State(), u)
	view.OOB = true
	if err := s.templates.RenderPartials(w, names, view); err != nil {
		log.Error().Err(err).Strs("templates", names).Msg("render regions")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, notice string, err error) {
	log.Warn().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request rejected")
	if !isHTMX(r) && notice != "" {
		redirectHome(w, r, notice)
		return
	}
	message := flashMessage(notice)
	if message == "" {
		message = err.Error()
	}
	http.Error(w, message, status)
}

// regionTemplates maps the regions of an update onto the partials that paint
// them. Appended analysis pages use their own partial.
func regionTemplates(u browse.Update) []string {
	names := make([]string, 0, len(u.Regions))
	for _, region := range u.Regions {
		if region == browse.RegionAnalysis && u.AppendAnalysis {
			names = append(names, "analysis_append")
			continue
		}
		names = append(names, "region_"+string(region))
	}
	if u.ToggleBadges {
		names = append(names, "simplified_toggle")
	}
	return names
}

func redirectHome(w http.ResponseWriter, r *http.Request, notice string) {
	target := "/"
	if notice = strings.TrimSpace(notice); notice != "" {
		target += "?" + url.Values{"notice": {notice}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
