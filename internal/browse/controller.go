package browse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"matchday-app/internal/model"
	"matchday-app/internal/render"

	"github.com/rs/zerolog/log"
)

// Fetcher loads league and season documents from the data endpoint.
type Fetcher interface {
	FetchLeague(ctx context.Context, league string) (model.Document, error)
	FetchSeason(ctx context.Context, league, season string) (model.Document, error)
}

// Controller applies selection events to a ViewState and decides which
// regions must be rendered again. It is safe for concurrent use; fetches run
// outside the lock and every fetch is tagged with a generation so that a
// response overtaken by a newer selection is discarded.
type Controller struct {
	mu         sync.Mutex
	fetcher    Fetcher
	state      ViewState
	generation uint64
}

func NewController(fetcher Fetcher) *Controller {
	return &Controller{fetcher: fetcher}
}

func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Controller) CanCompare() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.CanCompare()
}

func (c *Controller) SelectLeague(ctx context.Context, name string) (Update, error) {
	name = strings.TrimSpace(name)

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.state = ViewState{League: name, Simplified: c.state.Simplified}
	if name == "" {
		c.mu.Unlock()
		var u Update
		clearAll(&u)
		return u, nil
	}
	c.state.Phase = PhaseLeagueSelected
	c.mu.Unlock()

	doc, err := c.fetcher.FetchLeague(ctx, name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		log.Debug().Str("league", name).Msg("discarding stale league response")
		return Update{Stale: true}, nil
	}

	var u Update
	clearAll(&u)
	if err != nil {
		fetchErr := &FetchError{League: name, Err: err}
		log.Warn().Err(err).Str("league", name).Msg("league fetch failed")
		u.message(RegionData, "Error loading data: "+err.Error())
		return u, fetchErr
	}
	if len(doc.Seasons) > 0 {
		c.state.Phase = PhaseAwaitingSeason
		c.state.Seasons = append([]string(nil), doc.Seasons...)
		u.Seasons = c.state.Seasons
		return u, nil
	}
	if len(doc.Dataset) == 0 {
		log.Info().Str("league", name).Msg("league has no matchdays")
		u.message(RegionData, "No data available for "+name+".")
		return u, &EmptyResultError{League: name}
	}
	c.loadDataset(doc.Dataset, &u)
	return u, nil
}

func (c *Controller) SelectSeason(ctx context.Context, season string) (Update, error) {
	season = strings.TrimSpace(season)

	c.mu.Lock()
	league := c.state.League
	if c.state.Phase == PhaseNoLeague || league == "" {
		c.mu.Unlock()
		return Update{}, ErrNoLeague
	}
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	doc, err := c.fetcher.FetchSeason(ctx, league, season)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		log.Debug().Str("league", league).Str("season", season).Msg("discarding stale season response")
		return Update{Stale: true}, nil
	}

	var u Update
	if err != nil {
		log.Warn().Err(err).Str("league", league).Str("season", season).Msg("season fetch failed")
		u.Data, _ = render.RenderFull(c.state.Dataset)
		u.message(RegionData, "Error loading data: "+err.Error())
		return u, &FetchError{League: league, Season: season, Err: err}
	}
	if len(doc.Dataset) == 0 {
		log.Info().Str("league", league).Str("season", season).Msg("season has no matchdays")
		u.Data, _ = render.RenderFull(c.state.Dataset)
		u.message(RegionData, fmt.Sprintf("No data available for %s %s.", league, season))
		return u, &EmptyResultError{League: league, Season: season}
	}

	c.state.Season = season
	if len(doc.Seasons) > 0 {
		c.state.Seasons = append([]string(nil), doc.Seasons...)
	}
	kept := make([]string, 0, len(c.state.Selected))
	for _, key := range c.state.Selected {
		if doc.Dataset.Has(key) {
			kept = append(kept, key)
		}
	}
	c.state.Selected = kept
	c.loadDataset(doc.Dataset, &u)
	return u, nil
}

// loadDataset replaces the dataset wholesale and repaints the full view, the
// matchday options and, when the surviving selection is in range, the
// comparison. Analysis state is reset.
func (c *Controller) loadDataset(ds model.Dataset, u *Update) {
	c.state.Phase = PhaseDataLoaded
	c.state.Dataset = ds
	c.clearAnalysis()

	views, err := render.RenderFull(ds)
	if err != nil {
		logIntegrity(c.state.League, err)
	}
	u.Data = views
	u.mark(RegionData)
	u.Options = render.MatchdayOptions(ds)
	u.mark(RegionMatchdays)
	c.renderComparison(u)
	u.mark(RegionAnalysis)
}

func (c *Controller) ToggleMatchday(key string, checked bool) (Update, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key = strings.TrimSpace(key)
	if !c.state.Dataset.Has(key) {
		return Update{CanCompare: c.state.CanCompare()}, fmt.Errorf("%w: %q", ErrUnknownMatchday, key)
	}
	idx := indexOf(c.state.Selected, key)
	switch {
	case checked && idx < 0:
		if len(c.state.Selected) >= MaxCompare {
			return Update{Refused: true, CanCompare: c.state.CanCompare()}, nil
		}
		c.state.Selected = append(c.state.Selected, key)
	case !checked && idx >= 0:
		c.state.Selected = append(c.state.Selected[:idx:idx], c.state.Selected[idx+1:]...)
	}

	var u Update
	c.renderComparison(&u)
	return u, nil
}

func (c *Controller) ToggleSimplified(flag bool) Update {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Simplified = flag
	u := Update{ToggleBadges: true, BadgesHidden: flag, CanCompare: c.state.CanCompare()}
	if c.state.CanCompare() {
		c.renderComparison(&u)
	}
	return u
}

// renderComparison repaints the comparison region when the selection is in
// range and clears it otherwise.
func (c *Controller) renderComparison(u *Update) {
	u.CanCompare = c.state.CanCompare()
	u.mark(RegionComparison)
	if !u.CanCompare {
		u.Comparison = nil
		return
	}
	views, err := render.RenderComparison(c.state.Dataset, c.state.Selected, c.state.Simplified)
	if err != nil {
		logIntegrity(c.state.League, err)
	}
	u.Comparison = views
}

// SelectAnalysisMatchday opens the date-by-date browser on a matchday and
// renders its first date page. An empty key closes the browser.
func (c *Controller) SelectAnalysisMatchday(key string) (Update, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var u Update
	u.mark(RegionAnalysis)
	key = strings.TrimSpace(key)
	if key == "" {
		c.clearAnalysis()
		return u, nil
	}
	md, ok := c.state.Dataset.Get(key)
	if !ok {
		return Update{}, fmt.Errorf("%w: %q", ErrUnknownMatchday, key)
	}
	c.state.AnalysisKey = key
	c.state.DatePage = 0
	c.state.dateGroups = groupMatchday(c.state.League, md)

	u.AnalysisKey = key
	if len(c.state.dateGroups) == 0 {
		u.message(RegionAnalysis, "No matches to analyse for "+md.Key.Label()+".")
		return u, nil
	}
	u.Analysis = render.RenderAnalysisPage(c.state.dateGroups[0])
	u.HasNextPage = len(c.state.dateGroups) > 1
	return u, nil
}

// NextDatePage appends the next date page of the analysis browser. At the last
// page it is a no-op and reports HasNextPage false.
func (c *Controller) NextDatePage() Update {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.AnalysisKey == "" || c.state.DatePage >= len(c.state.dateGroups)-1 {
		return Update{AnalysisKey: c.state.AnalysisKey}
	}
	c.state.DatePage++
	u := Update{
		AnalysisKey:    c.state.AnalysisKey,
		Analysis:       render.RenderAnalysisPage(c.state.dateGroups[c.state.DatePage]),
		AppendAnalysis: true,
		HasNextPage:    c.state.DatePage < len(c.state.dateGroups)-1,
	}
	u.mark(RegionAnalysis)
	return u
}

// View renders every region for the current state, as needed for a full page
// load. Analysis pages up to the current index are included.
func (c *Controller) View() Update {
	c.mu.Lock()
	defer c.mu.Unlock()

	var u Update
	u.Seasons = append([]string(nil), c.state.Seasons...)
	u.mark(RegionSeasons)
	if c.state.Phase == PhaseDataLoaded {
		views, _ := render.RenderFull(c.state.Dataset)
		u.Data = views
		u.Options = render.MatchdayOptions(c.state.Dataset)
	}
	u.mark(RegionData)
	u.mark(RegionMatchdays)
	c.renderComparison(&u)
	u.mark(RegionAnalysis)
	u.AnalysisKey = c.state.AnalysisKey
	for i := 0; i <= c.state.DatePage && i < len(c.state.dateGroups); i++ {
		u.Analysis = append(u.Analysis, render.RenderAnalysisPage(c.state.dateGroups[i])...)
	}
	u.HasNextPage = c.state.AnalysisKey != "" && c.state.DatePage < len(c.state.dateGroups)-1
	u.BadgesHidden = c.state.Simplified
	return u
}

func (c *Controller) clearAnalysis() {
	c.state.AnalysisKey = ""
	c.state.DatePage = 0
	c.state.dateGroups = nil
}

// Snapshot captures the state for the session store.
func (c *Controller) Snapshot(id string) (model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session := model.Session{
		ID:          id,
		League:      c.state.League,
		Season:      c.state.Season,
		Seasons:     append([]string(nil), c.state.Seasons...),
		Simplified:  c.state.Simplified,
		Selected:    append([]string(nil), c.state.Selected...),
		AnalysisKey: c.state.AnalysisKey,
		DatePage:    c.state.DatePage,
		UpdatedAt:   time.Now().UTC(),
	}
	if c.state.Dataset != nil {
		body, err := model.EncodeDataset(c.state.Dataset)
		if err != nil {
			return model.Session{}, fmt.Errorf("encode dataset: %w", err)
		}
		session.Dataset = body
	}
	return session, nil
}

// Restore rebuilds the state from a stored session. Selected keys and the
// analysis matchday that are no longer in the dataset are dropped.
func (c *Controller) Restore(session model.Session) error {
	state := ViewState{
		League:     session.League,
		Season:     session.Season,
		Seasons:    append([]string(nil), session.Seasons...),
		Simplified: session.Simplified,
	}
	switch {
	case len(session.Dataset) > 0:
		doc, _, err := model.DecodeDocument(session.Dataset)
		if err != nil {
			return fmt.Errorf("decode stored dataset: %w", err)
		}
		state.Dataset = doc.Dataset
		state.Phase = PhaseDataLoaded
	case len(state.Seasons) > 0:
		state.Phase = PhaseAwaitingSeason
	case state.League != "":
		state.Phase = PhaseLeagueSelected
	}
	for _, key := range session.Selected {
		if state.Dataset.Has(key) && len(state.Selected) < MaxCompare && indexOf(state.Selected, key) < 0 {
			state.Selected = append(state.Selected, key)
		}
	}
	if md, ok := state.Dataset.Get(session.AnalysisKey); ok {
		state.AnalysisKey = session.AnalysisKey
		state.dateGroups = groupMatchday(state.League, md)
		state.DatePage = session.DatePage
		if state.DatePage >= len(state.dateGroups) {
			state.DatePage = len(state.dateGroups) - 1
		}
		if state.DatePage < 0 {
			state.DatePage = 0
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.state = state
	return nil
}

func groupMatchday(league string, md model.Matchday) [][]model.Match {
	groups, err := render.Group(md.Matches, md.Summary.Timing)
	if err != nil {
		var integrity *render.IntegrityError
		if errors.As(err, &integrity) && integrity.Matchday == "" {
			integrity.Matchday = md.Key.String()
		}
		logIntegrity(league, err)
	}
	return groups
}

func clearAll(u *Update) {
	for _, r := range []Region{RegionSeasons, RegionData, RegionMatchdays, RegionComparison, RegionAnalysis} {
		u.mark(r)
	}
}

func logIntegrity(league string, err error) {
	log.Warn().Err(err).Str("league", league).Msg("dataset integrity problem")
}
