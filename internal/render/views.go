package render

import "html/template"

type MatchView struct {
	Mode        Mode          `json:"mode"`
	Date        string        `json:"date,omitempty"`
	Time        string        `json:"time,omitempty"`
	HasBadge    bool          `json:"has_badge"`
	BadgeHidden bool          `json:"badge_hidden"`
	Details     template.HTML `json:"details,omitempty"`
	Text        template.HTML `json:"text"`
	Result      string        `json:"result,omitempty"`
	Round       string        `json:"round,omitempty"`
}

type SummaryView struct {
	Timing   []int  `json:"timing"`
	Question []int  `json:"question"`
	Answer   []int  `json:"answer"`
	Rounds   string `json:"rounds,omitempty"`
}

type MatchdayView struct {
	Key        string      `json:"key"`
	Title      string      `json:"title"`
	Comparison bool        `json:"comparison"`
	Simplified bool        `json:"simplified"`
	Matches    []MatchView `json:"matches"`
	Summary    SummaryView `json:"summary"`
}

func (v MatchdayView) ClassName() string {
	if !v.Comparison {
		return "matchday"
	}
	if v.Simplified {
		return "comparison-item simplified"
	}
	return "comparison-item"
}

type MatchdayOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}
