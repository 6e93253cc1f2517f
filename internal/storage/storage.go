// Package storage is the durable boundary under the feed store. The saved
// collection is persisted wholesale as a single JSON record under a fixed
// key; the transient collection deliberately has no binding here.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/hawky-ai/hawkd/internal/config"
	"github.com/hawky-ai/hawkd/internal/item"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// savedKey is the fixed key the saved collection lives under.
const savedKey = "saved_posts"

// Store wraps the durable key-value handle. It owns the handle exclusively;
// no other component reads or writes it directly.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Init opens the SQLite database at baseDir/hawkd.db, creating it and running
// migrations as needed. The baseDir parameter allows tests to use t.TempDir()
// instead of ~/.hawkd.
func Init(baseDir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	dbPath := filepath.Join(baseDir, "hawkd.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return &Store{db: db, log: log.With().Str("component", "storage").Logger()}, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func (s *Store) ConfigurePool(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		s.db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		s.db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadSaved returns the persisted saved collection, newest-first. Missing or
// malformed state yields an empty collection: a corrupt store must not crash
// startup.
func (s *Store) LoadSaved() []item.Item {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, savedKey).Scan(&value)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read saved posts, starting empty")
		return nil
	}

	var items []item.Item
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		s.log.Warn().Err(err).Msg("stored saved posts are malformed, starting empty")
		return nil
	}
	return items
}

// WriteSaved persists the saved collection wholesale. Failures are logged and
// swallowed: the in-memory state stays authoritative for the rest of the
// process lifetime.
func (s *Store) WriteSaved(items []item.Item) {
	value, err := json.Marshal(items)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to serialize saved posts")
		return
	}

	_, err = s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, unixepoch())
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		savedKey, string(value))
	if err != nil {
		s.log.Error().Err(err).Int("items", len(items)).Msg("failed to persist saved posts")
		return
	}

	s.log.Debug().Int("items", len(items)).Msg("saved posts persisted")
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := getUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS kv (
		  key        TEXT PRIMARY KEY,
		  value      TEXT NOT NULL,
		  updated_at INTEGER NOT NULL
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// getUserVersion returns the current schema version (user_version pragma).
func getUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// setUserVersion sets the schema version (user_version pragma).
func setUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
