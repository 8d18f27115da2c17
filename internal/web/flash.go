package web

import "strings"

const (
	noticeFetchFailed     = "fetch_failed"
	noticeNoData          = "no_data"
	noticeNoLeague        = "no_league"
	noticeCompareLimit    = "compare_limit"
	noticeUnknownMatchday = "unknown_matchday"
)

func flashMessage(notice string) string {
	switch strings.TrimSpace(notice) {
	case noticeFetchFailed:
		return "Error loading data. Please try again."
	case noticeNoData:
		return "No data available for this selection."
	case noticeNoLeague:
		return "Select a league first."
	case noticeCompareLimit:
		return "You can compare at most 5 matchdays."
	case noticeUnknownMatchday:
		return "That matchday is not part of the loaded data."
	}
	return ""
}
