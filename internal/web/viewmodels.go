package web

import (
	"matchday-app/internal/browse"
	"matchday-app/internal/render"
)

type BaseView struct {
	Title  string
	Notice string
}

type PageView struct {
	BaseView
	Leagues    []string
	League     string
	Season     string
	Seasons    []string
	Phase      string
	Simplified bool
	// BadgesHidden reports whether comparison date badges are hidden.
	BadgesHidden bool
	CanCompare   bool
	Selected     int
	MinCompare   int
	MaxCompare   int
	Data         []render.MatchdayView
	Options      []OptionView
	Comparison   []render.MatchdayView
	Analysis     AnalysisView
	Messages     map[string]string
	OOB          bool
}

type OptionView struct {
	Key     string
	Label   string
	Checked bool
}

type AnalysisView struct {
	Key     string
	Options []render.MatchdayOption
	Matches []render.MatchView
	HasNext bool
}

// APIView is the JSON form of the current view for external renderers.
type APIView struct {
	Phase        string                  `json:"phase"`
	League       string                  `json:"league,omitempty"`
	Season       string                  `json:"season,omitempty"`
	Seasons      []string                `json:"seasons"`
	Simplified   bool                    `json:"simplified"`
	BadgesHidden bool                    `json:"badges_hidden"`
	Selected     []string                `json:"selected"`
	CanCompare   bool                    `json:"can_compare"`
	Data         []render.MatchdayView   `json:"data"`
	Matchdays    []render.MatchdayOption `json:"matchdays"`
	Comparison   []render.MatchdayView   `json:"comparison"`
	AnalysisKey  string                  `json:"analysis_key,omitempty"`
	Analysis     []render.MatchView      `json:"analysis"`
	HasNextPage  bool                    `json:"has_next_page"`
}

func (s *Server) pageView(state browse.ViewState, u browse.Update) PageView {
	options := render.MatchdayOptions(state.Dataset)
	view := PageView{
		BaseView:     BaseView{Title: "Matchdays"},
		Leagues:      s.leagues,
		League:       state.League,
		Season:       state.Season,
		Seasons:      state.Seasons,
		Phase:        state.Phase.String(),
		Simplified:   state.Simplified,
		BadgesHidden: u.BadgesHidden,
		CanCompare:   state.CanCompare(),
		Selected:     len(state.Selected),
		MinCompare:   browse.MinCompare,
		MaxCompare:   browse.MaxCompare,
		Data:         u.Data,
		Comparison:   u.Comparison,
		Analysis: AnalysisView{
			Key:     u.AnalysisKey,
			Options: options,
			Matches: u.Analysis,
			HasNext: u.HasNextPage,
		},
		Messages: map[string]string{},
	}
	if u.Seasons != nil {
		view.Seasons = u.Seasons
	}
	for _, option := range options {
		view.Options = append(view.Options, OptionView{
			Key:     option.Key,
			Label:   option.Label,
			Checked: state.IsSelected(option.Key),
		})
	}
	for region, text := range u.Messages {
		view.Messages[string(region)] = text
	}
	return view
}

func apiView(state browse.ViewState, u browse.Update) APIView {
	return APIView{
		Phase:        state.Phase.String(),
		League:       state.League,
		Season:       state.Season,
		Seasons:      nonNilStrings(state.Seasons),
		Simplified:   state.Simplified,
		BadgesHidden: u.BadgesHidden,
		Selected:     nonNilStrings(state.Selected),
		CanCompare:   state.CanCompare(),
		Data:         nonNilViews(u.Data),
		Matchdays:    render.MatchdayOptions(state.Dataset),
		Comparison:   nonNilViews(u.Comparison),
		AnalysisKey:  u.AnalysisKey,
		Analysis:     append([]render.MatchView{}, u.Analysis...),
		HasNextPage:  u.HasNextPage,
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonNilViews(views []render.MatchdayView) []render.MatchdayView {
	if views == nil {
		return []render.MatchdayView{}
	}
	return views
}
