package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"matchday-app/internal/model"

	_ "modernc.org/sqlite"
)

// Fixed width so updated_at compares correctly as text.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteStore struct {
	db *sql.DB
}

type SQLiteOptions struct {
	MigrationsDir string
}

func NewSQLiteStore(path string, opts SQLiteOptions) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	migrationsDir := strings.TrimSpace(opts.MigrationsDir)
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := applyMigrations(db, migrationsDir, sqliteDialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetSession(id string) (model.Session, bool) {
	var session model.Session
	var seasonsJSON, selectedJSON sql.NullString
	var updatedAt sql.NullString
	err := s.db.QueryRow(`SELECT id, league, season, seasons, simplified, selected, analysis_key, date_page, dataset, updated_at FROM sessions WHERE id = ?`, id).
		Scan(&session.ID, &session.League, &session.Season, &seasonsJSON, &session.Simplified, &selectedJSON, &session.AnalysisKey, &session.DatePage, &session.Dataset, &updatedAt)
	if err != nil {
		return model.Session{}, false
	}
	if seasonsJSON.Valid {
		session.Seasons = fromJSONList([]byte(seasonsJSON.String))
	}
	if selectedJSON.Valid {
		session.Selected = fromJSONList([]byte(selectedJSON.String))
	}
	if updatedAt.Valid {
		if parsed, ok := parseTimeString(updatedAt.String); ok {
			session.UpdatedAt = parsed
		}
	}
	return session, true
}

func (s *SQLiteStore) SaveSession(session model.Session) error {
	if strings.TrimSpace(session.ID) == "" {
		return errors.New("session id is required")
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO sessions (id, league, season, seasons, simplified, selected, analysis_key, date_page, dataset, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET league = excluded.league, season = excluded.season, seasons = excluded.seasons,
  simplified = excluded.simplified, selected = excluded.selected, analysis_key = excluded.analysis_key,
  date_page = excluded.date_page, dataset = excluded.dataset, updated_at = excluded.updated_at`,
		session.ID, session.League, session.Season, string(toJSON(session.Seasons)), session.Simplified,
		string(toJSON(session.Selected)), session.AnalysisKey, session.DatePage, session.Dataset, timeValueString(session.UpdatedAt),
	)
	return err
}

func (s *SQLiteStore) DeleteSession(id string) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *SQLiteStore) PruneSessions(before time.Time) (int, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE updated_at < ?`, timeValueString(before))
	if err != nil {
		return 0, err
	}
	rows, _ := res.RowsAffected()
	return int(rows), nil
}

func timeValueString(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(sqliteTimeFormat)
}

func parseTimeString(value string) (time.Time, bool) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}
