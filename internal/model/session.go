package model

import "time"

// Session is the persisted snapshot of one browser session's view state.
type Session struct {
	ID          string
	League      string
	Season      string
	Seasons     []string
	Simplified  bool
	Selected    []string
	AnalysisKey string
	DatePage    int
	Dataset     []byte
	UpdatedAt   time.Time
}
