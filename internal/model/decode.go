package model

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// ServerError is an {"error": "..."} payload returned by the data endpoint.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

type matchRecord struct {
	Home         string      `json:"home"`
	Away         string      `json:"away"`
	HomePosition *int        `json:"home_position,omitempty"`
	HomePoints   *int        `json:"home_points,omitempty"`
	HomeScored   *int        `json:"home_scored,omitempty"`
	HomeConceded *int        `json:"home_conceded,omitempty"`
	AwayPosition *int        `json:"away_position,omitempty"`
	AwayPoints   *int        `json:"away_points,omitempty"`
	AwayScored   *int        `json:"away_scored,omitempty"`
	AwayConceded *int        `json:"away_conceded,omitempty"`
	Result       string      `json:"result"`
	Odds         []float64   `json:"odds,omitempty"`
	DateTime     string      `json:"datetime,omitempty"`
	Round        string      `json:"round,omitempty"`
	HomePrev     *PrevResult `json:"home_prev,omitempty"`
	AwayPrev     *PrevResult `json:"away_prev,omitempty"`
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

func (m *Match) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var line string
		if err := jsoniter.Unmarshal(data, &line); err != nil {
			return err
		}
		*m = ParseLine(line)
		return nil
	}
	var rec matchRecord
	if err := jsoniter.Unmarshal(data, &rec); err != nil {
		return err
	}
	*m = rec.match()
	return nil
}

func (m Match) MarshalJSON() ([]byte, error) {
	if m.Raw != "" {
		return jsoniter.Marshal(m.Raw)
	}
	rec := matchRecord{
		Home:   m.Home.Name,
		Away:   m.Away.Name,
		Result: string(m.Result),
		Round:  m.Round,
	}
	if m.Home.HasStats {
		rec.HomePosition, rec.HomePoints = intPtr(m.Home.Position), intPtr(m.Home.Points)
		rec.HomeScored, rec.HomeConceded = intPtr(m.Home.GoalsScored), intPtr(m.Home.GoalsConceded)
	}
	if m.Away.HasStats {
		rec.AwayPosition, rec.AwayPoints = intPtr(m.Away.Position), intPtr(m.Away.Points)
		rec.AwayScored, rec.AwayConceded = intPtr(m.Away.GoalsScored), intPtr(m.Away.GoalsConceded)
	}
	if m.HasOdds {
		rec.Odds = []float64{m.Odds.Home, m.Odds.Draw, m.Odds.Away}
	}
	if m.HasDate {
		rec.DateTime = m.PlayedAt.Format("2006-01-02T15:04:05")
		if !m.HasTime {
			rec.DateTime = m.PlayedAt.Format("2006-01-02")
		}
	}
	if !m.Home.Prev.Empty() {
		prev := m.Home.Prev
		rec.HomePrev = &prev
	}
	if !m.Away.Prev.Empty() {
		prev := m.Away.Prev
		rec.AwayPrev = &prev
	}
	return jsoniter.Marshal(rec)
}

func (rec matchRecord) match() Match {
	m := Match{
		Home:   TeamLine{Name: strings.TrimSpace(rec.Home)},
		Away:   TeamLine{Name: strings.TrimSpace(rec.Away)},
		Result: ParseResult(rec.Result),
		Round:  strings.TrimSpace(rec.Round),
	}
	if rec.HomePosition != nil || rec.HomePoints != nil || rec.HomeScored != nil || rec.HomeConceded != nil {
		m.Home.HasStats = true
		m.Home.Position, m.Home.Points = intVal(rec.HomePosition), intVal(rec.HomePoints)
		m.Home.GoalsScored, m.Home.GoalsConceded = intVal(rec.HomeScored), intVal(rec.HomeConceded)
	}
	if rec.AwayPosition != nil || rec.AwayPoints != nil || rec.AwayScored != nil || rec.AwayConceded != nil {
		m.Away.HasStats = true
		m.Away.Position, m.Away.Points = intVal(rec.AwayPosition), intVal(rec.AwayPoints)
		m.Away.GoalsScored, m.Away.GoalsConceded = intVal(rec.AwayScored), intVal(rec.AwayConceded)
	}
	if len(rec.Odds) == 3 {
		m.Odds = Odds{Home: nonNegative(rec.Odds[0]), Draw: nonNegative(rec.Odds[1]), Away: nonNegative(rec.Odds[2])}
		m.HasOdds = true
	}
	if rec.HomePrev != nil {
		m.Home.Prev = *rec.HomePrev
	}
	if rec.AwayPrev != nil {
		m.Away.Prev = *rec.AwayPrev
	}
	if value := strings.TrimSpace(rec.DateTime); value != "" {
		for _, layout := range dateTimeLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				m.PlayedAt, m.HasDate, m.HasTime = t, true, true
				break
			}
		}
		if !m.HasDate {
			if t, err := time.Parse("2006-01-02", value); err == nil {
				m.PlayedAt, m.HasDate = t, true
			}
		}
	}
	return m
}

type matchdayRecord struct {
	Matches *[]Match `json:"matches"`
	Summary Summary  `json:"summary"`
}

func (md Matchday) MarshalJSON() ([]byte, error) {
	matches := md.Matches
	if matches == nil {
		matches = []Match{}
	}
	return jsoniter.Marshal(matchdayRecord{Matches: &matches, Summary: md.Summary})
}

// DecodeDocument decodes a data endpoint payload. Three shapes are accepted: an
// {"error": ...} object, an envelope {"data": {...}, "seasons": [...]}, and a bare
// matchday mapping. A data mapping may nest matchdays under season names; those
// are flattened with season-composite keys. Entries that cannot be decoded are
// skipped and listed in the returned Skipped slice.
func DecodeDocument(body []byte) (Document, []string, error) {
	var top map[string]jsoniter.RawMessage
	if err := jsoniter.Unmarshal(body, &top); err != nil {
		return Document{}, nil, fmt.Errorf("decode payload: %w", err)
	}
	if raw, ok := top["error"]; ok {
		var message string
		if err := jsoniter.Unmarshal(raw, &message); err != nil || strings.TrimSpace(message) == "" {
			message = strings.TrimSpace(string(raw))
		}
		return Document{}, nil, &ServerError{Message: message}
	}

	doc := Document{Dataset: Dataset{}}
	entries := top
	if raw, ok := top["data"]; ok {
		if seasons, ok := top["seasons"]; ok {
			if err := jsoniter.Unmarshal(seasons, &doc.Seasons); err != nil {
				return Document{}, nil, fmt.Errorf("decode seasons: %w", err)
			}
		}
		entries = nil
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			if err := jsoniter.Unmarshal(raw, &entries); err != nil {
				return Document{}, nil, fmt.Errorf("decode data: %w", err)
			}
		}
	}
	skipped := decodeMatchdays(entries, "", doc.Dataset, true)
	return doc, skipped, nil
}

func decodeMatchdays(entries map[string]jsoniter.RawMessage, season string, ds Dataset, allowNesting bool) []string {
	skipped := []string{}
	for _, name := range entryOrder(entries) {
		var fields map[string]jsoniter.RawMessage
		if err := jsoniter.Unmarshal(entries[name], &fields); err != nil || fields == nil {
			skipped = append(skipped, fmt.Sprintf("entry %q is not a matchday", name))
			continue
		}
		if _, ok := fields["matches"]; !ok {
			if allowNesting && len(fields) > 0 {
				skipped = append(skipped, decodeMatchdays(fields, strings.TrimSpace(name), ds, false)...)
				continue
			}
			skipped = append(skipped, fmt.Sprintf("entry %q is not a matchday", name))
			continue
		}

		key, err := ParseMatchdayKey(name)
		if err != nil {
			skipped = append(skipped, err.Error())
			continue
		}
		if season != "" {
			key.Season = season
		}
		if ds.Has(key.String()) {
			skipped = append(skipped, fmt.Sprintf("entry %q duplicates matchday %q", name, key.String()))
			continue
		}
		md, reasons := decodeMatchday(key, fields)
		ds[key.String()] = md
		skipped = append(skipped, reasons...)
	}
	return skipped
}

// entryOrder sorts entry names so that names already in canonical form claim
// their key before aliases such as a bare "1".
func entryOrder(entries map[string]jsoniter.RawMessage) []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	canonical := func(name string) bool {
		key, err := ParseMatchdayKey(name)
		return err == nil && key.String() == strings.TrimSpace(name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := canonical(names[i]), canonical(names[j])
		if ci != cj {
			return ci
		}
		return names[i] < names[j]
	})
	return names
}

// decodeMatchday keeps every match and summary field that decodes and reports
// the rest.
func decodeMatchday(key MatchdayKey, fields map[string]jsoniter.RawMessage) (Matchday, []string) {
	md := Matchday{Key: key, Matches: []Match{}}
	var reasons []string
	label := key.String()

	var elements []jsoniter.RawMessage
	if err := jsoniter.Unmarshal(fields["matches"], &elements); err != nil {
		reasons = append(reasons, fmt.Sprintf("matchday %q: matches is not a list", label))
	}
	for i, raw := range elements {
		var m Match
		if isNull(raw) {
			reasons = append(reasons, fmt.Sprintf("matchday %q: match %d is empty", label, i))
			continue
		}
		if err := m.UnmarshalJSON(raw); err != nil {
			reasons = append(reasons, fmt.Sprintf("matchday %q: match %d is not a match: %v", label, i, err))
			continue
		}
		md.Matches = append(md.Matches, m)
	}

	raw, ok := fields["summary"]
	if !ok || isNull(raw) {
		return md, reasons
	}
	var summary map[string]jsoniter.RawMessage
	if err := jsoniter.Unmarshal(raw, &summary); err != nil {
		return md, append(reasons, fmt.Sprintf("matchday %q: summary is not an object", label))
	}
	for field, dst := range map[string]*[]int{"timing": &md.Summary.Timing, "question": &md.Summary.Question, "out": &md.Summary.Out} {
		value, ok := summary[field]
		if !ok || isNull(value) {
			continue
		}
		if err := jsoniter.Unmarshal(value, dst); err != nil {
			*dst = nil
			reasons = append(reasons, fmt.Sprintf("matchday %q: summary %s is not a list of numbers", label, field))
		}
	}
	if value, ok := summary["rounds"]; ok && !isNull(value) {
		if err := jsoniter.Unmarshal(value, &md.Summary.Rounds); err != nil {
			reasons = append(reasons, fmt.Sprintf("matchday %q: summary rounds is not text", label))
		}
	}
	sort.Strings(reasons)
	return md, reasons
}

func isNull(raw jsoniter.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// EncodeDataset renders a dataset back into the bare mapping shape understood by
// DecodeDocument.
func EncodeDataset(ds Dataset) ([]byte, error) {
	if ds == nil {
		return nil, errors.New("nil dataset")
	}
	return jsoniter.Marshal(map[string]Matchday(ds))
}

func intPtr(v int) *int { return &v }

func intVal(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
