package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a read-through cache of raw match-detail JSON keyed by match ID.
// Match records are immutable once played, so cached bodies never go stale;
// a hit skips both the network call and the pacing delay that exists only to
// protect the remote API.
type Store struct {
	db *sql.DB
}

// Open creates or opens the cache database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS matches (
			match_id   TEXT PRIMARY KEY,
			fetched_at TEXT NOT NULL,
			body       BLOB NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create matches table: %w", err)
	}
	return nil
}

// Get returns the cached body for a match ID. The second return is false on
// a miss.
func (s *Store) Get(matchID string) ([]byte, bool, error) {
	var body []byte
	err := s.db.QueryRow("SELECT body FROM matches WHERE match_id = ?", matchID).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}
	return body, true, nil
}

// Put stores a match body, replacing any previous entry for the ID.
func (s *Store) Put(matchID string, body []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO matches (match_id, fetched_at, body) VALUES (?, ?, ?)
		ON CONFLICT(match_id) DO UPDATE SET fetched_at = excluded.fetched_at, body = excluded.body
	`, matchID, time.Now().UTC().Format(time.RFC3339), body)
	if err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Count returns the number of cached matches.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM matches").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
