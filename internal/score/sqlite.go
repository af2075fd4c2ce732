package score

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const createHighScoresTableSQL = `
CREATE TABLE IF NOT EXISTS HighScores (
    Profile TEXT PRIMARY KEY,
    Score INTEGER NOT NULL DEFAULT 0,
    UpdatedAt TIMESTAMP NOT NULL
);
`

const createHighScoresIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_highscores_score ON HighScores (Score DESC);
`

// Only ever raises a stored score.
const upsertHighScoreSQL = `
INSERT INTO HighScores (Profile, Score, UpdatedAt) VALUES (?, ?, ?)
ON CONFLICT(Profile) DO UPDATE SET Score = excluded.Score, UpdatedAt = excluded.UpdatedAt
WHERE excluded.Score > HighScores.Score;
`

// SQLiteStore keeps per-profile high scores in a SQLite database. It is safe
// for concurrent use by many sessions.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path. Use ":memory:"
// for a throwaway database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open high score db %q: %w", path, err)
	}
	// One connection serialises writers and keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	for _, stmt := range []string{createHighScoresTableSQL, createHighScoresIndexSQL} {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("initialize high score db: %w", err)
		}
	}
	return nil
}

// Path returns the database path given to OpenSQLite.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the high score for profile, or 0 if none is stored.
func (s *SQLiteStore) Get(ctx context.Context, profile string) (int, error) {
	var score int
	err := s.db.QueryRowContext(ctx, "SELECT Score FROM HighScores WHERE Profile = ?", profile).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load high score for %q: %w", profile, err)
	}
	return score, nil
}

// Put raises the stored high score for profile to score.
func (s *SQLiteStore) Put(ctx context.Context, profile string, score int) error {
	if score < 0 {
		return ErrNegativeScore
	}
	if _, err := s.db.ExecContext(ctx, upsertHighScoreSQL, profile, score, time.Now().UTC()); err != nil {
		return fmt.Errorf("save high score for %q: %w", profile, err)
	}
	return nil
}

// Top returns up to n entries ordered by score, best first.
func (s *SQLiteStore) Top(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT Profile, Score, UpdatedAt FROM HighScores ORDER BY Score DESC, UpdatedAt ASC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Profile, &e.Score, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	return entries, nil
}

// Profile binds the store to one player's high score.
func (s *SQLiteStore) Profile(name string) Store {
	return profileStore{db: s, name: NormalizeProfile(name)}
}

type profileStore struct {
	db   *SQLiteStore
	name string
}

func (p profileStore) Load(ctx context.Context) (int, error) {
	return p.db.Get(ctx, p.name)
}

func (p profileStore) Save(ctx context.Context, score int) error {
	return p.db.Put(ctx, p.name, score)
}
