package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go driver registered as "sqlite"

	"github.com/inovacc/repomirror/internal/model"
)

// fixed width so that text columns sort chronologically
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLite is the SQLite store
type SQLite struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLite opens or creates the database at path and applies migrations.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := NewMigrator(db).MigrateUp(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Ping() error {
	return s.db.Ping()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

const profileColumns = `id, name, token, base_url, kind, username, gitlab_mode, last_sync_at, created_at`

func (s *SQLite) SaveProfile(profile *model.Profile) error {
	if err := validateProfile(profile); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var owner string

	err := s.db.QueryRow(`SELECT id FROM profiles WHERE name = ?`, profile.Name).Scan(&owner)

	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	case owner != profile.ID:
		return fmt.Errorf("%w: %s", ErrProfileExists, profile.Name)
	}

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}

	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}

	_, err = s.db.Exec(`
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			token = excluded.token,
			base_url = excluded.base_url,
			kind = excluded.kind,
			username = excluded.username,
			gitlab_mode = excluded.gitlab_mode,
			last_sync_at = excluded.last_sync_at
	`,
		profile.ID, profile.Name, profile.Token, profile.BaseURL, string(profile.Kind),
		profile.Username, string(profile.GitLabMode), formatNullTime(profile.LastSyncAt),
		formatTime(profile.CreatedAt),
	)

	return err
}

func (s *SQLite) GetProfile(nameOrID string) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lookup(nameOrID)
}

func (s *SQLite) ListProfiles() ([]model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT ` + profileColumns + ` FROM profiles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Profile

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *p)
	}

	return out, rows.Err()
}

func (s *SQLite) DeleteProfile(nameOrID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.lookup(nameOrID)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM runs WHERE profile_id = ?`, p.ID); err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.Exec(`DELETE FROM profiles WHERE id = ?`, p.ID); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (s *SQLite) UpdateLastSync(profileID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE profiles SET last_sync_at = ? WHERE id = ?`, formatTime(at), profileID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, profileID)
	}

	return nil
}

func (s *SQLite) RecordRun(run *model.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO runs (id, profile_id, profile_name, started_at, finished_at,
			total, cloned, updated, unchanged, failed, warning, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.ProfileID, run.ProfileName, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.Total, run.Cloned, run.Updated, run.Unchanged, run.Failed, run.Warning, run.Error,
	)

	return err
}

// ListRuns returns runs newest first. An empty profileID lists every run; a
// limit of zero or less means no limit.
func (s *SQLite) ListRuns(profileID string, limit int) ([]model.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(`
		SELECT id, profile_id, profile_name, started_at, finished_at,
			total, cloned, updated, unchanged, failed, warning, error
		FROM runs
		WHERE ? = '' OR profile_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, profileID, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Run

	for rows.Next() {
		var (
			r                 model.Run
			started, finished string
		)

		if err := rows.Scan(&r.ID, &r.ProfileID, &r.ProfileName, &started, &finished,
			&r.Total, &r.Cloned, &r.Updated, &r.Unchanged, &r.Failed, &r.Warning, &r.Error); err != nil {
			return nil, err
		}

		if r.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}

		if r.FinishedAt, err = parseTime(finished); err != nil {
			return nil, err
		}

		out = append(out, r)
	}

	return out, rows.Err()
}

func (s *SQLite) lookup(nameOrID string) (*model.Profile, error) {
	row := s.db.QueryRow(`
		SELECT `+profileColumns+` FROM profiles
		WHERE name = ? OR id = ?
		ORDER BY name = ? DESC
		LIMIT 1
	`, nameOrID, nameOrID, nameOrID)

	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, nameOrID)
	}

	return p, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*model.Profile, error) {
	var (
		p            model.Profile
		kind, mode   string
		lastSync     sql.NullString
		createdAtRaw string
	)

	if err := row.Scan(&p.ID, &p.Name, &p.Token, &p.BaseURL, &kind, &p.Username, &mode, &lastSync, &createdAtRaw); err != nil {
		return nil, err
	}

	p.Kind = model.ProviderKind(kind)
	p.GitLabMode = model.GitLabMode(mode)

	createdAt, err := parseTime(createdAtRaw)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = createdAt

	if lastSync.Valid {
		at, err := parseTime(lastSync.String)
		if err != nil {
			return nil, err
		}

		p.LastSyncAt = &at
	}

	return &p, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored time %q: %w", s, err)
	}

	return t, nil
}
