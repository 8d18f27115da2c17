package model

import (
	"fmt"
	"strings"
	"time"
)

type League string
type Season string

type Result string

const (
	ResultHome Result = "H"
	ResultDraw Result = "D"
	ResultAway Result = "A"
)

func (r Result) Valid() bool {
	return r == ResultHome || r == ResultDraw || r == ResultAway
}

func (r Result) Label() string {
	switch r {
	case ResultHome:
		return "Home"
	case ResultDraw:
		return "Draw"
	case ResultAway:
		return "Away"
	}
	return ""
}

// ParseResult accepts the single letter or the long form ("Home", "draw", ...).
func ParseResult(value string) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	switch strings.ToUpper(value[:1]) {
	case "H":
		return ResultHome
	case "D":
		return ResultDraw
	case "A":
		return ResultAway
	}
	return ""
}

type PrevResult struct {
	Result   string `json:"result"`
	Location string `json:"location"`
}

func (p PrevResult) Empty() bool {
	return p.Result == "" || p.Location == ""
}

func (p PrevResult) String() string {
	if p.Empty() {
		return ""
	}
	return "<" + p.Location + " " + p.Result + ">"
}

type Odds struct {
	Home float64
	Draw float64
	Away float64
}

func (o Odds) String() string {
	return fmt.Sprintf("[%.2f, %.2f, %.2f]", o.Home, o.Draw, o.Away)
}

type TeamLine struct {
	Name          string
	Position      int
	Points        int
	GoalsScored   int
	GoalsConceded int
	HasStats      bool
	Prev          PrevResult
}

type Match struct {
	Home     TeamLine
	Away     TeamLine
	Result   Result
	Odds     Odds
	HasOdds  bool
	PlayedAt time.Time
	HasDate  bool
	HasTime  bool
	Round    string
	// Raw is the wire line the match was decoded from; empty for object records.
	Raw string
}

// Line returns the wire line without its date tag.
func (m Match) Line() string {
	if m.Raw != "" {
		return StripDateTag(m.Raw)
	}
	var b strings.Builder
	if prev := m.Home.Prev.String(); prev != "" {
		b.WriteString(prev)
		b.WriteString(" ")
	}
	b.WriteString(m.Home.Name)
	b.WriteString(" vs ")
	if prev := m.Away.Prev.String(); prev != "" {
		b.WriteString(prev)
		b.WriteString(" ")
	}
	b.WriteString(m.Away.Name)
	b.WriteString(" => ")
	b.WriteString(string(m.Result))
	if m.HasOdds {
		b.WriteString(" ")
		b.WriteString(m.Odds.String())
	}
	return strings.TrimSpace(b.String())
}

type Summary struct {
	Timing   []int  `json:"timing"`
	Question []int  `json:"question"`
	Out      []int  `json:"out"`
	Rounds   string `json:"rounds,omitempty"`
}

// TimingTotal is the number of matches the timing vector accounts for.
func (s Summary) TimingTotal() int {
	total := 0
	for _, n := range s.Timing {
		total += n
	}
	return total
}

type Matchday struct {
	Key     MatchdayKey
	Matches []Match
	Summary Summary
}

// Dataset maps MatchdayKey.String() to its matchday. It is replaced wholesale on
// every fetch and never merged.
type Dataset map[string]Matchday

func (d Dataset) Get(key string) (Matchday, bool) {
	if d == nil {
		return Matchday{}, false
	}
	md, ok := d[key]
	return md, ok
}

func (d Dataset) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Keys returns the matchday keys in display order: season descending, then
// matchday number ascending.
func (d Dataset) Keys() []MatchdayKey {
	keys := make([]MatchdayKey, 0, len(d))
	for _, md := range d {
		keys = append(keys, md.Key)
	}
	SortKeys(keys)
	return keys
}

type Document struct {
	Seasons []string
	Dataset Dataset
}
