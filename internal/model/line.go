package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	ResultSeparator = "=>"
	DefaultKickoff  = "15:00"
)

var (
	dateTagPattern = regexp.MustCompile(`\{\s*(\d{4}-\d{2}-\d{2})(?:[ T](\d{1,2}:\d{2}))?\s*\}`)
	prevPattern    = regexp.MustCompile(`^<\s*([HA])\s+([WDL])\s*>\s*`)
	oddsPattern    = regexp.MustCompile(`\[\s*([0-9.]+)\s*,\s*([0-9.]+)\s*,\s*([0-9.]+)\s*\]`)
	bracketPattern = regexp.MustCompile(`\[[^\]]*\]`)
)

// DateTag extracts the "{YYYY-MM-DD HH:MM}" tag embedded in a match line. The
// time part defaults to 15:00 when the tag carries only a date.
func DateTag(line string) (date string, kickoff string, ok bool) {
	m := dateTagPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	kickoff = m[2]
	if kickoff == "" {
		kickoff = DefaultKickoff
	}
	return m[1], kickoff, true
}

func StripDateTag(line string) string {
	return strings.TrimSpace(dateTagPattern.ReplaceAllString(line, ""))
}

// StripBrackets removes "[...]" odds annotations.
func StripBrackets(text string) string {
	return strings.Join(strings.Fields(bracketPattern.ReplaceAllString(text, "")), " ")
}

// ParseLine decodes an encoded match line. It never fails: fields it cannot
// find are left zero and Raw always keeps the input.
func ParseLine(line string) Match {
	m := Match{Raw: line}
	if date, kickoff, ok := DateTag(line); ok {
		if t, err := time.Parse("2006-01-02 15:04", date+" "+kickoff); err == nil {
			m.PlayedAt = t
			m.HasDate = true
			m.HasTime = true
		}
	}
	body := StripDateTag(line)
	fixture, outcome, found := strings.Cut(body, ResultSeparator)
	if found {
		outcome = strings.TrimSpace(outcome)
		if outcome != "" {
			m.Result = ParseResult(outcome[:1])
		}
		if om := oddsPattern.FindStringSubmatch(outcome); om != nil {
			m.Odds = Odds{Home: parseFloat(om[1]), Draw: parseFloat(om[2]), Away: parseFloat(om[3])}
			m.HasOdds = true
		}
	}
	home, away, ok := strings.Cut(fixture, " vs ")
	if !ok {
		m.Home.Name = strings.TrimSpace(fixture)
		return m
	}
	m.Home.Name, m.Home.Prev = splitPrev(home)
	m.Away.Name, m.Away.Prev = splitPrev(away)
	return m
}

func splitPrev(side string) (string, PrevResult) {
	side = strings.TrimSpace(side)
	pm := prevPattern.FindStringSubmatch(side)
	if pm == nil {
		return side, PrevResult{}
	}
	return strings.TrimSpace(side[len(pm[0]):]), PrevResult{Location: pm[1], Result: pm[2]}
}

func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
