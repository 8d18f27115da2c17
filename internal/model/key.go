package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type MatchdayKey struct {
	Season string
	Number int
}

func (k MatchdayKey) String() string {
	if k.Season == "" {
		return fmt.Sprintf("Matchday %d", k.Number)
	}
	return fmt.Sprintf("%s-%d", k.Season, k.Number)
}

func (k MatchdayKey) Label() string {
	if k.Season == "" {
		return fmt.Sprintf("Matchday %d", k.Number)
	}
	return fmt.Sprintf("%s · Matchday %d", k.Season, k.Number)
}

// ParseMatchdayKey accepts "Matchday N", a bare "N" and the season composite "season-N".
func ParseMatchdayKey(value string) (MatchdayKey, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return MatchdayKey{}, fmt.Errorf("empty matchday key")
	}
	if rest, ok := cutPrefixFold(value, "matchday"); ok {
		n, err := parseMatchdayNumber(rest)
		if err != nil {
			return MatchdayKey{}, fmt.Errorf("matchday key %q: %w", value, err)
		}
		return MatchdayKey{Number: n}, nil
	}
	if n, err := parseMatchdayNumber(value); err == nil {
		return MatchdayKey{Number: n}, nil
	}
	idx := strings.LastIndex(value, "-")
	if idx <= 0 {
		return MatchdayKey{}, fmt.Errorf("matchday key %q: unrecognised format", value)
	}
	n, err := parseMatchdayNumber(value[idx+1:])
	if err != nil {
		return MatchdayKey{}, fmt.Errorf("matchday key %q: %w", value, err)
	}
	return MatchdayKey{Season: strings.TrimSpace(value[:idx]), Number: n}, nil
}

func parseMatchdayNumber(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid matchday number")
	}
	if n < 1 {
		return 0, fmt.Errorf("matchday number must be positive")
	}
	return n, nil
}

func cutPrefixFold(value, prefix string) (string, bool) {
	if len(value) < len(prefix) || !strings.EqualFold(value[:len(prefix)], prefix) {
		return "", false
	}
	return value[len(prefix):], true
}

func SortKeys(keys []MatchdayKey) {
	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].Season != keys[j].Season {
			return keys[i].Season > keys[j].Season
		}
		return keys[i].Number < keys[j].Number
	})
}
