package render

import (
	"errors"
	"fmt"
	"html/template"
	"testing"

	"matchday-app/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(raw ...string) []model.Match {
	matches := make([]model.Match, 0, len(raw))
	for _, line := range raw {
		matches = append(matches, model.ParseLine(line))
	}
	return matches
}

func testDataset() model.Dataset {
	ds := model.Dataset{}
	for n := 1; n <= 3; n++ {
		key := model.MatchdayKey{Number: n}
		ds[key.String()] = model.Matchday{
			Key: key,
			Matches: lines(
				fmt.Sprintf("{2024-08-%02d 12:30} Team%dA vs Team%dB => H [2.10, 3.00, 3.50]", 10+n, n, n),
				fmt.Sprintf("{2024-08-%02d} Team%dC vs Team%dD => D [2.50, 3.10, 2.90]", 10+n, n, n),
				fmt.Sprintf("{2024-08-%02d 16:00} Team%dE vs Team%dF => A [1.90, 3.60, 4.00]", 11+n, n, n),
			),
			Summary: model.Summary{Timing: []int{2, 1}, Question: []int{1, 0, 1}, Out: []int{1, 1, 1}},
		}
	}
	return ds
}

func TestFormatSimplifiedResultLetter(t *testing.T) {
	view := Format(model.ParseLine("Arsenal vs Chelsea => H [2.1, 3.0, 3.5]"), ModeComparisonSimplified)
	assert.Equal(t, template.HTML("H"), view.Text)
	assert.Equal(t, "H", SimplifiedResult("... => H [2.1, 3.0, 3.5]"))
}

func TestSimplifiedResultFallbacks(t *testing.T) {
	assert.Equal(t, "postponed", SimplifiedResult("X vs Y => postponed [1.00, 1.00, 1.00]"))
	assert.Equal(t, "X vs Y", SimplifiedResult("X vs Y [1.00, 2.00, 3.00]"))
	assert.Equal(t, "", SimplifiedResult("X vs Y =>"))
}

func TestFormatEscapesMarkup(t *testing.T) {
	m := model.ParseLine("<script>alert(1)</script> vs Chelsea => H [2.10, 3.00, 3.50]")
	view := Format(m, ModeFull)
	assert.Contains(t, string(view.Text), "&lt;script&gt;")
	assert.NotContains(t, string(view.Text), "<script>")
}

func TestFormatEscapesPreviousResultTags(t *testing.T) {
	view := Format(model.ParseLine("<H W> Arsenal vs <A D> Chelsea => H [2.10, 3.00, 3.50]"), ModeComparisonFull)
	assert.Equal(t, template.HTML("&lt;H W&gt; Arsenal vs &lt;A D&gt; Chelsea =&gt; H [2.10, 3.00, 3.50]"), view.Text)
}

func TestFormatDateBadge(t *testing.T) {
	m := model.ParseLine("{2024-08-17} Leeds vs Hull => D [2.00, 3.00, 4.00]")

	full := Format(m, ModeFull)
	assert.True(t, full.HasBadge)
	assert.False(t, full.BadgeHidden)
	assert.Equal(t, "2024-08-17", full.Date)
	assert.Equal(t, "15:00", full.Time)
	assert.Equal(t, template.HTML("Leeds vs Hull =&gt; D [2.00, 3.00, 4.00]"), full.Text)

	simplified := Format(m, ModeComparisonSimplified)
	assert.True(t, simplified.HasBadge)
	assert.True(t, simplified.BadgeHidden)
	assert.Equal(t, "2024-08-17", simplified.Date)

	none := Format(model.ParseLine("Leeds vs Hull => D"), ModeFull)
	assert.False(t, none.HasBadge)
}

func TestFormatDetailsFromRecord(t *testing.T) {
	m := model.Match{
		Home:   model.TeamLine{Name: "Leeds", Position: 1, Points: 9, GoalsScored: 7, GoalsConceded: 1, HasStats: true},
		Away:   model.TeamLine{Name: "Hull", Position: 12, Points: 3, GoalsScored: 2, GoalsConceded: 5, HasStats: true},
		Result: model.ResultHome,
	}
	view := Format(m, ModeFull)
	assert.Equal(t, template.HTML("Leeds (1st, 9 pts, 7-1) vs Hull (12th, 3 pts, 2-5)"), view.Details)
	assert.Equal(t, template.HTML("Leeds vs Hull =&gt; H"), view.Text)
}

func TestFormatMalformedInput(t *testing.T) {
	assert.NotPanics(t, func() {
		for _, mode := range []Mode{ModeFull, ModeComparisonFull, ModeComparisonSimplified} {
			Format(model.Match{}, mode)
			Format(model.ParseLine("=>"), mode)
			Format(model.ParseLine("{2024-13-45 99:99} ???"), mode)
		}
	})
}

func TestGroupConcatenatesToInput(t *testing.T) {
	matches := lines("A vs B => H", "C vs D => D", "E vs F => A", "G vs H => H", "I vs J => A", "K vs L => D")
	for _, timing := range [][]int{{6}, {1, 1, 1, 1, 1, 1}, {2, 3, 1}, {1, 5}} {
		groups, err := Group(matches, timing)
		require.NoError(t, err)
		require.Len(t, groups, len(timing))

		flat := []model.Match{}
		for i, group := range groups {
			assert.Len(t, group, timing[i])
			flat = append(flat, group...)
		}
		assert.Equal(t, matches, flat)
	}
}

func TestGroupReportsMismatch(t *testing.T) {
	matches := lines("A vs B => H", "C vs D => D", "E vs F => A")

	groups, err := Group(matches, []int{2, 2})
	var integrity *IntegrityError
	require.True(t, errors.As(err, &integrity))
	require.Len(t, groups, 2)
	assert.Len(t, groups[1], 1)

	groups, err = Group(matches, []int{1})
	require.Error(t, err)
	assert.Len(t, groups, 1)

	groups, err = Group(matches, []int{1, 0, 2})
	require.Error(t, err)
	assert.Len(t, groups, 1)

	groups, err = Group(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestRenderFullSortsByMatchday(t *testing.T) {
	ds := testDataset()
	extra := model.MatchdayKey{Number: 10}
	ds[extra.String()] = model.Matchday{Key: extra, Matches: lines("A vs B => H"), Summary: model.Summary{Timing: []int{1}}}

	views, err := RenderFull(ds)
	require.NoError(t, err)
	keys := []string{}
	for _, v := range views {
		keys = append(keys, v.Key)
		assert.False(t, v.Comparison)
		assert.Equal(t, "matchday", v.ClassName())
	}
	assert.Equal(t, []string{"Matchday 1", "Matchday 2", "Matchday 3", "Matchday 10"}, keys)
	assert.Equal(t, []int{1, 1, 1}, views[0].Summary.Answer)
}

func TestRenderFullReportsBadSummaryButRenders(t *testing.T) {
	ds := testDataset()
	md := ds["Matchday 2"]
	md.Summary.Timing = []int{1}
	md.Summary.Out = []int{1}
	ds["Matchday 2"] = md

	views, err := RenderFull(ds)
	assert.Len(t, views, 3)
	var integrity *IntegrityError
	require.True(t, errors.As(err, &integrity))
	assert.Equal(t, "Matchday 2", integrity.Matchday)
	assert.Len(t, views[1].Matches, 3)
}

func TestRenderComparisonSelectionOrder(t *testing.T) {
	ds := testDataset()

	views, err := RenderComparison(ds, []string{"Matchday 2", "Matchday 1"}, false)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Matchday 2", views[0].Key)
	assert.Equal(t, "Matchday 1", views[1].Key)
	for i, key := range []string{"Matchday 2", "Matchday 1"} {
		md := ds[key]
		require.Len(t, views[i].Matches, len(md.Matches))
		for j, m := range md.Matches {
			assert.Equal(t, Format(m, ModeComparisonFull), views[i].Matches[j])
		}
	}
	assert.Equal(t, "comparison-item", views[0].ClassName())
}

func TestRenderComparisonSimplifiedAndMissingKeys(t *testing.T) {
	ds := testDataset()
	views, err := RenderComparison(ds, []string{"Matchday 3", "Matchday 9", "Matchday 1"}, true)
	require.Len(t, views, 2)
	var integrity *IntegrityError
	require.True(t, errors.As(err, &integrity))
	assert.Equal(t, "Matchday 9", integrity.Matchday)

	assert.Equal(t, "comparison-item simplified", views[0].ClassName())
	assert.Equal(t, template.HTML("H"), views[0].Matches[0].Text)
	assert.Equal(t, template.HTML("D"), views[0].Matches[1].Text)
	assert.Equal(t, template.HTML("A"), views[0].Matches[2].Text)
}

func TestRenderAnalysisPage(t *testing.T) {
	ds := testDataset()
	md := ds["Matchday 1"]
	groups, err := Group(md.Matches, md.Summary.Timing)
	require.NoError(t, err)

	page := RenderAnalysisPage(groups[0])
	require.Len(t, page, 2)
	assert.Equal(t, ModeFull, page[0].Mode)
	assert.Equal(t, "2024-08-11", page[0].Date)
	assert.Equal(t, "12:30", page[0].Time)
}

func TestMatchdayOptions(t *testing.T) {
	options := MatchdayOptions(testDataset())
	require.Len(t, options, 3)
	assert.Equal(t, MatchdayOption{Key: "Matchday 1", Label: "Matchday 1"}, options[0])
}
