package render

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"matchday-app/internal/model"
)

type Mode int

const (
	ModeFull Mode = iota
	ModeComparisonFull
	ModeComparisonSimplified
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeComparisonFull:
		return "comparison"
	case ModeComparisonSimplified:
		return "simplified"
	}
	return "unknown"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	for _, candidate := range []Mode{ModeFull, ModeComparisonFull, ModeComparisonSimplified} {
		if candidate.String() == string(text) {
			*m = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown render mode %q", text)
}

// Format turns a decoded match into its view. All text placed in the view is
// HTML escaped here, so templates must not escape it again.
func Format(m model.Match, mode Mode) MatchView {
	view := MatchView{
		Mode:   mode,
		Result: string(m.Result),
		Round:  m.Round,
	}
	if m.HasDate {
		view.HasBadge = true
		view.Date = m.PlayedAt.Format("2006-01-02")
		view.Time = model.DefaultKickoff
		if m.HasTime {
			view.Time = m.PlayedAt.Format("15:04")
		}
		view.BadgeHidden = mode == ModeComparisonSimplified
	}

	line := m.Line()
	if mode == ModeComparisonSimplified {
		view.Text = template.HTML(escape(SimplifiedResult(line)))
		return view
	}
	view.Text = template.HTML(escape(line))
	view.Details = template.HTML(escape(details(m)))
	return view
}

// SimplifiedResult reduces a match line to its result letter: the leading run
// of H/A/D characters after the "=>" separator. Without one it falls back to
// the post-separator text stripped of bracketed odds.
func SimplifiedResult(line string) string {
	_, outcome, found := strings.Cut(line, model.ResultSeparator)
	if !found {
		return model.StripBrackets(line)
	}
	outcome = strings.TrimSpace(outcome)
	end := 0
	for end < len(outcome) && strings.IndexByte("HAD", outcome[end]) >= 0 {
		end++
	}
	if end > 0 {
		return outcome[:end]
	}
	return model.StripBrackets(outcome)
}

func details(m model.Match) string {
	if !m.Home.HasStats && !m.Away.HasStats {
		return ""
	}
	return teamDetails(m.Home) + " vs " + teamDetails(m.Away)
}

func teamDetails(t model.TeamLine) string {
	if !t.HasStats {
		return t.Name
	}
	return fmt.Sprintf("%s (%s, %d pts, %d-%d)", t.Name, ordinal(t.Position), t.Points, t.GoalsScored, t.GoalsConceded)
}

func ordinal(n int) string {
	if n <= 0 {
		return "-"
	}
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func escape(text string) string {
	return html.EscapeString(text)
}
