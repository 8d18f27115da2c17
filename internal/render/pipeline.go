package render

import (
	"errors"
	"fmt"

	"matchday-app/internal/model"
)

// RenderFull renders every matchday of the dataset in display order. Integrity
// problems are returned joined; the views are complete regardless.
func RenderFull(ds model.Dataset) ([]MatchdayView, error) {
	views := make([]MatchdayView, 0, len(ds))
	var errs []error
	for _, key := range ds.Keys() {
		md, _ := ds.Get(key.String())
		views = append(views, matchdayView(md, ModeFull))
		errs = append(errs, checkSummary(md)...)
	}
	return views, errors.Join(errs...)
}

// RenderComparison renders the selected matchdays in selection order. Keys
// missing from the dataset are skipped and reported.
func RenderComparison(ds model.Dataset, keys []string, simplified bool) ([]MatchdayView, error) {
	mode := ModeComparisonFull
	if simplified {
		mode = ModeComparisonSimplified
	}
	views := make([]MatchdayView, 0, len(keys))
	var errs []error
	for _, key := range keys {
		md, ok := ds.Get(key)
		if !ok {
			errs = append(errs, &IntegrityError{Matchday: key, Reason: "selected matchday is not in the dataset"})
			continue
		}
		views = append(views, matchdayView(md, mode))
	}
	return views, errors.Join(errs...)
}

func RenderAnalysisPage(group []model.Match) []MatchView {
	views := make([]MatchView, 0, len(group))
	for _, m := range group {
		views = append(views, Format(m, ModeFull))
	}
	return views
}

// MatchdayOptions lists the dataset's matchdays for the comparison checkboxes,
// in the same order as RenderFull.
func MatchdayOptions(ds model.Dataset) []MatchdayOption {
	keys := ds.Keys()
	options := make([]MatchdayOption, 0, len(keys))
	for _, key := range keys {
		options = append(options, MatchdayOption{Key: key.String(), Label: key.Label()})
	}
	return options
}

func matchdayView(md model.Matchday, mode Mode) MatchdayView {
	view := MatchdayView{
		Key:        md.Key.String(),
		Title:      md.Key.Label(),
		Comparison: mode != ModeFull,
		Simplified: mode == ModeComparisonSimplified,
		Matches:    make([]MatchView, 0, len(md.Matches)),
		Summary: SummaryView{
			Timing:   md.Summary.Timing,
			Question: md.Summary.Question,
			Answer:   md.Summary.Out,
			Rounds:   md.Summary.Rounds,
		},
	}
	for _, m := range md.Matches {
		view.Matches = append(view.Matches, Format(m, mode))
	}
	return view
}

func checkSummary(md model.Matchday) []error {
	var errs []error
	key := md.Key.String()
	if total := md.Summary.TimingTotal(); total != len(md.Matches) {
		errs = append(errs, &IntegrityError{Matchday: key, Reason: fmt.Sprintf("timing sums to %d, matchday has %d matches", total, len(md.Matches))})
	}
	if len(md.Summary.Question) != len(md.Summary.Out) {
		errs = append(errs, &IntegrityError{Matchday: key, Reason: fmt.Sprintf("question has %d entries, out has %d", len(md.Summary.Question), len(md.Summary.Out))})
	}
	return errs
}
