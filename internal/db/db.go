package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hansvb/planboard/internal/config"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Init initializes the SQLite database at baseDir/planboard.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.planboard.
func Init(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	// Open database with pragmas in connection string (applies to all connections)
	dbPath := filepath.Join(baseDir, "planboard.db")
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

	return db, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1). One table per entity
	// namespace: ideas, features, experiments, token sessions,
	// marketing KPI days. Only locally created entities are stored;
	// the remote snapshot lives in memory and is never persisted.
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS ideas (
		  id          TEXT PRIMARY KEY,
		  title       TEXT NOT NULL,
		  description TEXT NOT NULL,
		  category    TEXT NOT NULL,
		  impact      INTEGER NOT NULL,
		  confidence  INTEGER NOT NULL,
		  ease        INTEGER NOT NULL,
		  ice_total   REAL NOT NULL,
		  token_cost  INTEGER NOT NULL,
		  status      TEXT NOT NULL,
		  promoted    INTEGER NOT NULL DEFAULT 0,
		  created_at  INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_ideas_created
		ON ideas(created_at DESC);

		CREATE TABLE IF NOT EXISTS features (
		  id          TEXT PRIMARY KEY,
		  title       TEXT NOT NULL,
		  description TEXT NOT NULL,
		  type        TEXT NOT NULL,
		  impact      INTEGER NOT NULL,
		  confidence  INTEGER NOT NULL,
		  ease        INTEGER NOT NULL,
		  ice_total   REAL NOT NULL,
		  complexity  INTEGER NOT NULL,
		  priority    REAL NOT NULL,
		  token_cost  INTEGER NOT NULL,
		  status      TEXT NOT NULL,
		  progress    INTEGER NOT NULL DEFAULT 0,
		  created_at  INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_features_created
		ON features(created_at DESC);

		CREATE TABLE IF NOT EXISTS experiments (
		  id            TEXT PRIMARY KEY,
		  title         TEXT NOT NULL,
		  hypothesis    TEXT NOT NULL,
		  type          TEXT NOT NULL,
		  impact        INTEGER NOT NULL,
		  confidence    INTEGER NOT NULL,
		  ease          INTEGER NOT NULL,
		  ice_total     REAL NOT NULL,
		  token_cost    INTEGER NOT NULL,
		  status        TEXT NOT NULL,
		  duration_days INTEGER NOT NULL,
		  lift          REAL,
		  sample_size   INTEGER,
		  created_at    INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_experiments_created
		ON experiments(created_at DESC);

		CREATE TABLE IF NOT EXISTS token_sessions (
		  id            TEXT PRIMARY KEY,
		  date          TEXT NOT NULL,
		  model         TEXT NOT NULL,
		  input_tokens  INTEGER NOT NULL,
		  output_tokens INTEGER NOT NULL,
		  total_tokens  INTEGER NOT NULL,
		  cost          REAL NOT NULL,
		  tasks         TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_token_sessions_date
		ON token_sessions(date DESC);

		CREATE TABLE IF NOT EXISTS marketing_days (
		  id       TEXT PRIMARY KEY,
		  date     TEXT NOT NULL,
		  spend    REAL NOT NULL,
		  revenue  REAL NOT NULL,
		  orders   INTEGER NOT NULL,
		  sessions INTEGER NOT NULL,
		  ctr      REAL NOT NULL,
		  cpa      REAL NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_marketing_days_date
		ON marketing_days(date DESC);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
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

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
