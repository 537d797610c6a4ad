// Package state provides the SQLite-backed execution history store. Each
// workspace gets a history.db recording every task execution across runs,
// which survives workflow re-execution and feedback cycles.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps an SQLite connection with history-store operations.
type DB struct {
	conn *sql.DB
	path string
	mu   sync.RWMutex
}

// HistoryDBPath returns the path to a workspace's history database.
func HistoryDBPath(workspaceDir string) string {
	return filepath.Join(workspaceDir, "history.db")
}

// Open opens the SQLite database at path, creating parent directories as
// needed. WAL mode is enabled for concurrent reads.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &DB{conn: conn, path: path}, nil
}

// OpenWorkspace opens the history database for a workspace and applies
// pending migrations.
func OpenWorkspace(workspaceDir string) (*DB, error) {
	db, err := Open(HistoryDBPath(workspaceDir))
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.conn.Close()
}

// Path returns the path to the database file.
func (db *DB) Path() string {
	return db.path
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := db.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1TaskHistory},
		{2, migrationV2Feedback},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}

	return nil
}

const migrationV1TaskHistory = `
CREATE TABLE IF NOT EXISTS task_history (
	id TEXT PRIMARY KEY,
	workflow_id TEXT NOT NULL,
	task_id TEXT NOT NULL,
	agent TEXT NOT NULL,
	timestamp DATETIME NOT NULL,
	status TEXT NOT NULL,
	message TEXT
);

CREATE INDEX IF NOT EXISTS idx_task_history_workflow ON task_history(workflow_id);
CREATE INDEX IF NOT EXISTS idx_task_history_status ON task_history(status);
`

const migrationV2Feedback = `
CREATE TABLE IF NOT EXISTS feedback_history (
	id TEXT PRIMARY KEY,
	workflow_id TEXT NOT NULL,
	feedback TEXT NOT NULL,
	analysis TEXT,
	timestamp DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_feedback_history_workflow ON feedback_history(workflow_id);
`

// formatTime formats a time.Time for SQLite storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses a time string from SQLite.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
