package store

import (
	"errors"
	"time"

	"matchday-app/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

// Store keeps view state snapshots so a session survives process restarts
// and Lambda cold starts.
type Store interface {
	GetSession(id string) (model.Session, bool)
	SaveSession(session model.Session) error
	DeleteSession(id string) error
	// PruneSessions removes sessions last saved before the cutoff.
	PruneSessions(before time.Time) (int, error)
}
