// Package sqlite provides a run store backed by an SQLite file, so finished
// runs survive a restart.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/flight-search/flexible-date-search/internal/domain"
)

// Store keeps one row per run with the run encoded as JSON.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens (or creates) the database at path and runs migrations.
// Use ":memory:" for a throwaway database.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Store{db: db, logger: logger.With().Str("component", "sqlite_store").Logger()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	s.logger.Info().Str("path", path).Msg("run store opened")
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// schemaVersion returns the applied schema version, 0 for a fresh database.
func (s *Store) schemaVersion() (int, error) {
	var tables int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'",
	).Scan(&tables)
	if err != nil {
		return 0, fmt.Errorf("query schema tables: %w", err)
	}
	if tables == 0 {
		return 0, nil
	}

	var version int
	err = s.db.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query schema version: %w", err)
	}
	return version, nil
}

func (s *Store) migrate() error {
	version, err := s.schemaVersion()
	if err != nil {
		return err
	}

	if version < 1 {
		_, err := s.db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS runs (
				id         TEXT PRIMARY KEY,
				status     TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				payload    TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		s.logger.Debug().Msg("applied migration v1")
	}

	return nil
}

// Save implements domain.RunStore.
func (s *Store) Save(ctx context.Context, run *domain.Run) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encoding run %s: %w", run.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, status, created_at, updated_at, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status     = excluded.status,
			updated_at = excluded.updated_at,
			payload    = excluded.payload`,
		run.ID,
		string(run.Status),
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.UpdatedAt.UTC().Format(time.RFC3339Nano),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

// Get implements domain.RunStore.
func (s *Store) Get(ctx context.Context, id string) (*domain.Run, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM runs WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}

	var run domain.Run
	if err := json.Unmarshal([]byte(payload), &run); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", id, err)
	}
	return &run, nil
}

var _ domain.RunStore = (*Store)(nil)
