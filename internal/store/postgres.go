package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"matchday-app/internal/model"

	_ "github.com/jackc/pgx/v5/stdlib"
	jsoniter "github.com/json-iterator/go"
)

type PostgresStore struct {
	db *sql.DB
}

type PostgresOptions struct {
	MigrationsDir string
}

func NewPostgresStore(dsn string, opts PostgresOptions) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	migrationsDir := strings.TrimSpace(opts.MigrationsDir)
	if migrationsDir == "" {
		migrationsDir = "migrations/postgres"
	}
	if err := applyMigrations(db, migrationsDir, postgresDialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) GetSession(id string) (model.Session, bool) {
	var session model.Session
	var seasonsJSON, selectedJSON []byte
	var updatedAt sql.NullTime
	err := s.db.QueryRow(`SELECT id, league, season, seasons, simplified, selected, analysis_key, date_page, dataset, updated_at FROM sessions WHERE id = $1`, id).
		Scan(&session.ID, &session.League, &session.Season, &seasonsJSON, &session.Simplified, &selectedJSON, &session.AnalysisKey, &session.DatePage, &session.Dataset, &updatedAt)
	if err != nil {
		return model.Session{}, false
	}
	session.Seasons = fromJSONList(seasonsJSON)
	session.Selected = fromJSONList(selectedJSON)
	if updatedAt.Valid {
		session.UpdatedAt = updatedAt.Time
	}
	return session, true
}

func (s *PostgresStore) SaveSession(session model.Session) error {
	if strings.TrimSpace(session.ID) == "" {
		return errors.New("session id is required")
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO sessions (id, league, season, seasons, simplified, selected, analysis_key, date_page, dataset, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET league = EXCLUDED.league, season = EXCLUDED.season, seasons = EXCLUDED.seasons,
  simplified = EXCLUDED.simplified, selected = EXCLUDED.selected, analysis_key = EXCLUDED.analysis_key,
  date_page = EXCLUDED.date_page, dataset = EXCLUDED.dataset, updated_at = EXCLUDED.updated_at`,
		session.ID, session.League, session.Season, toJSON(session.Seasons), session.Simplified,
		toJSON(session.Selected), session.AnalysisKey, session.DatePage, session.Dataset, timeValuePtr(session.UpdatedAt),
	)
	return err
}

func (s *PostgresStore) DeleteSession(id string) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *PostgresStore) PruneSessions(before time.Time) (int, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE updated_at < $1`, before)
	if err != nil {
		return 0, err
	}
	rows, _ := res.RowsAffected()
	return int(rows), nil
}

func timeValuePtr(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func toJSON(v []string) []byte {
	if v == nil {
		return []byte("[]")
	}
	data, err := jsoniter.Marshal(v)
	if err != nil {
		return []byte("[]")
	}
	return data
}

func fromJSONList(data []byte) []string {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	var out []string
	if err := jsoniter.Unmarshal(data, &out); err != nil || len(out) == 0 {
		return nil
	}
	return out
}
