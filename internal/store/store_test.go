package store

import (
	"path/filepath"
	"testing"
	"time"

	"matchday-app/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"), SQLiteOptions{
		MigrationsDir: filepath.Join("..", "..", "migrations"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleSession(id string) model.Session {
	return model.Session{
		ID:          id,
		League:      "Italian Serie A",
		Season:      "2023-24",
		Seasons:     []string{"2024-25", "2023-24"},
		Simplified:  true,
		Selected:    []string{"Matchday 3", "Matchday 1"},
		AnalysisKey: "Matchday 3",
		DatePage:    2,
		Dataset:     []byte(`{"Matchday 1":{"matches":[],"summary":{"timing":[],"question":[],"out":[]}}}`),
		UpdatedAt:   time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStores(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newSQLite(t),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			_, ok := s.GetSession("missing")
			assert.False(t, ok)

			want := sampleSession("abc")
			require.NoError(t, s.SaveSession(want))
			got, ok := s.GetSession("abc")
			require.True(t, ok)
			assert.Equal(t, want.League, got.League)
			assert.Equal(t, want.Season, got.Season)
			assert.Equal(t, want.Seasons, got.Seasons)
			assert.Equal(t, want.Selected, got.Selected)
			assert.Equal(t, want.AnalysisKey, got.AnalysisKey)
			assert.Equal(t, want.DatePage, got.DatePage)
			assert.True(t, got.Simplified)
			assert.Equal(t, want.Dataset, got.Dataset)
			assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt))

			want.Selected = nil
			want.Simplified = false
			require.NoError(t, s.SaveSession(want))
			got, ok = s.GetSession("abc")
			require.True(t, ok)
			assert.Empty(t, got.Selected)
			assert.False(t, got.Simplified)

			require.NoError(t, s.DeleteSession("abc"))
			assert.ErrorIs(t, s.DeleteSession("abc"), ErrSessionNotFound)
			_, ok = s.GetSession("abc")
			assert.False(t, ok)

			assert.Error(t, s.SaveSession(model.Session{}))
		})
	}
}

func TestPruneSessions(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newSQLite(t),
	}
	cutoff := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			old := sampleSession("old")
			old.UpdatedAt = cutoff.Add(-time.Hour)
			fresh := sampleSession("fresh")
			fresh.UpdatedAt = cutoff.Add(time.Minute)
			require.NoError(t, s.SaveSession(old))
			require.NoError(t, s.SaveSession(fresh))

			removed, err := s.PruneSessions(cutoff)
			require.NoError(t, err)
			assert.Equal(t, 1, removed)
			_, ok := s.GetSession("fresh")
			assert.True(t, ok)
			_, ok = s.GetSession("old")
			assert.False(t, ok)
		})
	}
}

func TestMemoryStoreCopiesSlices(t *testing.T) {
	s := NewMemoryStore()
	session := sampleSession("abc")
	require.NoError(t, s.SaveSession(session))
	session.Selected[0] = "changed"

	got, _ := s.GetSession("abc")
	assert.Equal(t, "Matchday 3", got.Selected[0])
}

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	opts := SQLiteOptions{MigrationsDir: filepath.Join("..", "..", "migrations")}
	first, err := NewSQLiteStore(path, opts)
	require.NoError(t, err)
	require.NoError(t, first.SaveSession(sampleSession("keep")))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path, opts)
	require.NoError(t, err)
	defer second.Close()
	_, ok := second.GetSession("keep")
	assert.True(t, ok)
}
