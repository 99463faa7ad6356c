// Package sqlite keeps an append-only history of review runs. The store
// is write-only during a run: review decisions never depend on it, so a
// fresh CI runner with no database behaves identically to one with
// months of history.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/prbot/prreview/internal/domain"
)

// Store records review runs in a SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
	-- One row per review run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL,
		repository TEXT NOT NULL,
		pr_number INTEGER NOT NULL,
		head_sha TEXT NOT NULL,
		outcome TEXT NOT NULL,
		comments_posted INTEGER NOT NULL DEFAULT 0,
		comments_dropped INTEGER NOT NULL DEFAULT 0,
		model TEXT,
		cost REAL NOT NULL DEFAULT 0.0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_repo_pr ON runs(repository, pr_number);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordRun appends one run to the history.
func (s *Store) RecordRun(ctx context.Context, repository string, prNumber int, headSHA string, result domain.RunResult) error {
	query := `
		INSERT INTO runs (created_at, repository, pr_number, head_sha, outcome, comments_posted, comments_dropped, model, cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		time.Now().Unix(),
		repository,
		prNumber,
		headSHA,
		string(result.Outcome),
		result.CommentsPosted,
		result.CommentsDropped,
		result.Model,
		result.Cost,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
