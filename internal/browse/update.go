package browse

import "matchday-app/internal/render"

type Region string

const (
	RegionSeasons    Region = "seasons"
	RegionData       Region = "data"
	RegionMatchdays  Region = "matchdays"
	RegionComparison Region = "comparison"
	RegionAnalysis   Region = "analysis"
)

// Update tells the UI which regions to repaint after a transition and carries
// their view models. A region listed in Regions with an empty model is cleared.
// Regions not listed are left untouched.
type Update struct {
	Regions []Region

	Seasons    []string
	Data       []render.MatchdayView
	Options    []render.MatchdayOption
	Comparison []render.MatchdayView

	Analysis       []render.MatchView
	AnalysisKey    string
	AppendAnalysis bool
	HasNextPage    bool

	// BadgesHidden applies to date badges already painted in the comparison
	// region when ToggleBadges is set.
	ToggleBadges bool
	BadgesHidden bool

	Messages   map[Region]string
	CanCompare bool
	Refused    bool
	Stale      bool
}

func (u *Update) mark(r Region) {
	for _, existing := range u.Regions {
		if existing == r {
			return
		}
	}
	u.Regions = append(u.Regions, r)
}

func (u *Update) message(r Region, text string) {
	if u.Messages == nil {
		u.Messages = map[Region]string{}
	}
	u.Messages[r] = text
	u.mark(r)
}

func (u Update) Has(r Region) bool {
	for _, existing := range u.Regions {
		if existing == r {
			return true
		}
	}
	return false
}

func (u Update) Message(r Region) string {
	return u.Messages[r]
}
