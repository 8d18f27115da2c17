package web

import (
	"sync"
	"time"

	"matchday-app/internal/browse"
	"matchday-app/internal/store"

	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	controller *browse.Controller
	lastSeen   time.Time
	// saveMu orders snapshot and save so the newest state is stored last.
	saveMu sync.Mutex
}

// sessionRegistry keeps one Controller per browser session. A miss restores
// the controller from the store.
type sessionRegistry struct {
	mu      sync.Mutex
	store   store.Store
	fetcher browse.Fetcher
	entries map[string]*sessionEntry
	now     func() time.Time
}

func newSessionRegistry(store store.Store, fetcher browse.Fetcher) *sessionRegistry {
	return &sessionRegistry{
		store:   store,
		fetcher: fetcher,
		entries: make(map[string]*sessionEntry),
		now:     time.Now,
	}
}

func (r *sessionRegistry) controller(id string) *browse.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[id]; ok {
		entry.lastSeen = r.now()
		return entry.controller
	}
	ctrl := browse.NewController(r.fetcher)
	if saved, ok := r.store.GetSession(id); ok {
		if err := ctrl.Restore(saved); err != nil {
			log.Warn().Err(err).Str("session", id).Msg("could not restore session, starting fresh")
			if err := r.store.DeleteSession(id); err != nil {
				log.Error().Err(err).Str("session", id).Msg("delete unreadable session")
			}
			ctrl = browse.NewController(r.fetcher)
		}
	}
	r.entries[id] = &sessionEntry{controller: ctrl, lastSeen: r.now()}
	return ctrl
}

func (r *sessionRegistry) persist(id string, ctrl *browse.Controller) {
	r.mu.Lock()
	entry, ok := r.entries[id]
	if !ok {
		// Pruned while the request was in flight.
		entry = &sessionEntry{controller: ctrl, lastSeen: r.now()}
		r.entries[id] = entry
	}
	r.mu.Unlock()

	entry.saveMu.Lock()
	defer entry.saveMu.Unlock()
	session, err := ctrl.Snapshot(id)
	if err != nil {
		log.Error().Err(err).Str("session", id).Msg("snapshot session")
		return
	}
	if err := r.store.SaveSession(session); err != nil {
		log.Error().Err(err).Str("session", id).Msg("save session")
	}
}

func (r *sessionRegistry) prune(before time.Time) (int, error) {
	r.mu.Lock()
	for id, entry := range r.entries {
		if entry.lastSeen.Before(before) {
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()
	return r.store.PruneSessions(before)
}
