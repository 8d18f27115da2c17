package web

import (
	"sync"
	"testing"
	"time"

	"matchday-app/internal/browse"
	"matchday-app/internal/model"
	"matchday-app/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowSaveStore holds the first SaveSession until release is closed.
type slowSaveStore struct {
	*store.MemoryStore
	mu      sync.Mutex
	saves   int
	entered chan struct{}
	release chan struct{}
}

func (s *slowSaveStore) SaveSession(session model.Session) error {
	s.mu.Lock()
	s.saves++
	first := s.saves == 1
	s.mu.Unlock()
	if first {
		close(s.entered)
		<-s.release
	}
	return s.MemoryStore.SaveSession(session)
}

func (s *slowSaveStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func TestPersistStoresNewestSnapshotLast(t *testing.T) {
	st := &slowSaveStore{
		MemoryStore: store.NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	reg := newSessionRegistry(st, nil)
	ctrl := reg.controller("s1")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		reg.persist("s1", ctrl)
	}()
	<-st.entered

	ctrl.ToggleSimplified(true)
	go func() {
		defer wg.Done()
		reg.persist("s1", ctrl)
	}()
	assert.Never(t, func() bool { return st.saveCount() > 1 }, 50*time.Millisecond, 5*time.Millisecond)

	close(st.release)
	wg.Wait()

	saved, ok := st.GetSession("s1")
	require.True(t, ok)
	assert.True(t, saved.Simplified)
	assert.Equal(t, 2, st.saveCount())
}

func TestUnreadableSessionIsDeleted(t *testing.T) {
	st := store.NewMemoryStore()
	require.NoError(t, st.SaveSession(model.Session{
		ID:         "s1",
		League:     "English Premier League",
		Simplified: true,
		Dataset:    []byte("not json"),
	}))
	reg := newSessionRegistry(st, nil)

	ctrl := reg.controller("s1")
	state := ctrl.State()
	assert.Equal(t, browse.PhaseNoLeague, state.Phase)
	assert.Empty(t, state.League)
	assert.False(t, state.Simplified)

	_, ok := st.GetSession("s1")
	assert.False(t, ok)
}

func TestPersistAfterPruneKeepsSession(t *testing.T) {
	st := store.NewMemoryStore()
	reg := newSessionRegistry(st, nil)
	ctrl := reg.controller("s1")

	_, err := reg.prune(time.Now().Add(time.Minute))
	require.NoError(t, err)
	ctrl.ToggleSimplified(true)
	reg.persist("s1", ctrl)

	assert.Same(t, ctrl, reg.controller("s1"))
	saved, ok := st.GetSession("s1")
	require.True(t, ok)
	assert.True(t, saved.Simplified)
}
