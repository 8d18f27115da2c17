package render

import (
	"fmt"

	"matchday-app/internal/model"
)

// Group splits a matchday's matches into one group per calendar date, taking
// timing[i] matches from the front for group i without reordering. When the
// timing vector does not add up to len(matches) it stops at the shorter of the
// two and returns the groups built so far together with an *IntegrityError.
func Group(matches []model.Match, timing []int) ([][]model.Match, error) {
	groups := make([][]model.Match, 0, len(timing))
	offset := 0
	for i, count := range timing {
		if count <= 0 {
			return groups, &IntegrityError{Reason: fmt.Sprintf("timing[%d] = %d is not positive", i, count)}
		}
		if offset >= len(matches) {
			return groups, &IntegrityError{Reason: fmt.Sprintf("timing sums past %d matches", len(matches))}
		}
		end := offset + count
		if end > len(matches) {
			groups = append(groups, matches[offset:])
			return groups, &IntegrityError{Reason: fmt.Sprintf("timing sums past %d matches", len(matches))}
		}
		groups = append(groups, matches[offset:end])
		offset = end
	}
	if offset != len(matches) {
		return groups, &IntegrityError{Reason: fmt.Sprintf("timing covers %d of %d matches", offset, len(matches))}
	}
	return groups, nil
}
