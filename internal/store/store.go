// Package store handles SQLite persistence for learner progress and events.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite connection and provides access to repositories.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs migrations.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ProgressRepo returns a ProgressRepo backed by this store.
func (s *Store) ProgressRepo() ProgressRepo {
	return &progressRepo{db: s.db}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db}
}

// SRSRepo returns an SRSRepo backed by this store.
func (s *Store) SRSRepo() SRSRepo {
	return &srsRepo{db: s.db}
}

// DifficultyRepo returns a DifficultyRepo backed by this store.
func (s *Store) DifficultyRepo() DifficultyRepo {
	return &difficultyRepo{db: s.db}
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS mastery_items (
			module TEXT NOT NULL,
			item_id TEXT NOT NULL,
			mastered_at TEXT NOT NULL,
			PRIMARY KEY (module, item_id)
		);`,
		`CREATE TABLE IF NOT EXISTS confusion_items (
			module TEXT NOT NULL,
			item_id TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (module, item_id)
		);`,
		`CREATE TABLE IF NOT EXISTS confusion_pairs (
			module TEXT NOT NULL,
			pair TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (module, pair)
		);`,
		`CREATE TABLE IF NOT EXISTS srs_reviews (
			module TEXT NOT NULL,
			item_id TEXT NOT NULL,
			stage INTEGER NOT NULL,
			consecutive_hits INTEGER NOT NULL,
			graduated INTEGER NOT NULL,
			last_review TEXT NOT NULL,
			next_review TEXT NOT NULL,
			PRIMARY KEY (module, item_id)
		);`,
		`CREATE TABLE IF NOT EXISTS difficulty_levels (
			module TEXT PRIMARY KEY,
			level INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS xp_events (
			id INTEGER PRIMARY KEY,
			module TEXT NOT NULL,
			amount INTEGER NOT NULL,
			reason TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS activity_events (
			id INTEGER PRIMARY KEY,
			module TEXT NOT NULL,
			event TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_activity_module_event ON activity_events(module, event);`,
		`CREATE INDEX IF NOT EXISTS idx_xp_module ON xp_events(module);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. RHYTHMIZ_DB environment variable
// 2. $XDG_DATA_HOME/rhythmiz/rhythmiz.db
// 3. ~/.local/share/rhythmiz/rhythmiz.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("RHYTHMIZ_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "rhythmiz", "rhythmiz.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
