package browse

import (
	"errors"
	"fmt"
)

var (
	ErrNoLeague        = errors.New("no league selected")
	ErrUnknownMatchday = errors.New("unknown matchday")
)

// FetchError wraps a failed league or season fetch: transport failure, non-2xx
// status or an {"error": ...} payload.
type FetchError struct {
	League string
	Season string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Season != "" {
		return fmt.Sprintf("fetch %s/%s: %v", e.League, e.Season, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.League, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// EmptyResultError is a successful fetch that carried zero matchdays.
type EmptyResultError struct {
	League string
	Season string
}

func (e *EmptyResultError) Error() string {
	if e.Season != "" {
		return fmt.Sprintf("no matchdays for %s %s", e.League, e.Season)
	}
	return fmt.Sprintf("no matchdays for %s", e.League)
}
