package browse

import (
	"matchday-app/internal/model"
)

type Phase int

const (
	PhaseNoLeague Phase = iota
	PhaseLeagueSelected
	PhaseAwaitingSeason
	PhaseDataLoaded
)

func (p Phase) String() string {
	switch p {
	case PhaseNoLeague:
		return "no-league"
	case PhaseLeagueSelected:
		return "league-selected"
	case PhaseAwaitingSeason:
		return "awaiting-season"
	case PhaseDataLoaded:
		return "data-loaded"
	}
	return "unknown"
}

const (
	MinCompare = 2
	MaxCompare = 5
)

// ViewState is one session's view state. Only the Controller mutates it.
type ViewState struct {
	Phase       Phase
	League      string
	Season      string
	Seasons     []string
	Dataset     model.Dataset
	Simplified  bool
	Selected    []string
	AnalysisKey string
	DatePage    int

	dateGroups [][]model.Match
}

func (s ViewState) CanCompare() bool {
	return len(s.Selected) >= MinCompare && len(s.Selected) <= MaxCompare
}

func (s ViewState) IsSelected(key string) bool {
	return indexOf(s.Selected, key) >= 0
}

func (s ViewState) DatePages() int {
	return len(s.dateGroups)
}

func (s ViewState) clone() ViewState {
	out := s
	out.Seasons = append([]string(nil), s.Seasons...)
	out.Selected = append([]string(nil), s.Selected...)
	out.dateGroups = append([][]model.Match(nil), s.dateGroups...)
	return out
}

func indexOf(values []string, value string) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return -1
}
