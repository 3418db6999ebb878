// Package cache persists fetched repository metadata in SQLite so repeated
// regenerations within the TTL skip the GitHub API entirely. The cache is a
// pure read-through layer: a miss, an expired entry, or a corrupt payload
// all fall back to a fresh fetch.
package cache

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/plugdex/internal/github"
	"github.com/harrison/plugdex/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// Store is a TTL cache of repository details keyed by "owner/name".
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// NewStore opens (creating if needed) the cache database at dbPath. A
// non-positive ttl means entries never expire.
func NewStore(dbPath string, ttl time.Duration) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &Store{db: db, ttl: ttl}, nil
}

// Get returns the cached details for key, or ok=false on a miss, an expired
// entry, or an undecodable payload.
func (s *Store) Get(key models.RepoKey) (*github.Details, bool, error) {
	var payload string
	var fetchedAt int64

	row := s.db.QueryRow("SELECT payload, fetched_at FROM repo_details WHERE repo_key = ?", key.String())
	if err := row.Scan(&payload, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry %s: %w", key, err)
	}

	if s.ttl > 0 && time.Since(time.Unix(0, fetchedAt)) > s.ttl {
		return nil, false, nil
	}

	var details github.Details
	if err := json.Unmarshal([]byte(payload), &details); err != nil {
		// Treat a corrupt payload as a miss so it gets refetched and
		// overwritten.
		return nil, false, nil
	}

	return &details, true, nil
}

// Put stores details for key, replacing any previous entry.
func (s *Store) Put(key models.RepoKey, details *github.Details) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO repo_details (repo_key, payload, fetched_at) VALUES (?, ?, ?)",
		key.String(), string(payload), time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("write cache entry %s: %w", key, err)
	}

	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
