// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists ScoreResults in SQLite so a later classify pass
// can rework decisions (possibly from hand-edited scores) without
// re-invoking the model.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/biotools-annotate/pkg/types"
)

// ErrNotFound is returned when no score exists for a candidate ID.
var ErrNotFound = errors.New("score not found")

// Store manages the score database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the score database at path, creating the schema
// and parent directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening score database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS scores (
		id TEXT PRIMARY KEY,
		tool_name TEXT,
		decision TEXT NOT NULL,
		result TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Put upserts the score and decision for one candidate.
func (s *Store) Put(ctx context.Context, result *types.ScoreResult, decision types.Decision) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling score for %s: %w", result.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scores (id, tool_name, decision, result, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			tool_name = excluded.tool_name,
			decision = excluded.decision,
			result = excluded.result,
			updated_at = excluded.updated_at`,
		result.ID, result.ToolName, string(decision), string(data),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("storing score for %s: %w", result.ID, err)
	}
	return nil
}

// Get loads the score and stored decision for a candidate ID.
func (s *Store) Get(ctx context.Context, id string) (*types.ScoreResult, types.Decision, error) {
	var decision, data string
	err := s.db.QueryRowContext(ctx,
		`SELECT decision, result FROM scores WHERE id = ?`, id,
	).Scan(&decision, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("loading score for %s: %w", id, err)
	}

	var result types.ScoreResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, "", fmt.Errorf("parsing stored score for %s: %w", id, err)
	}
	return &result, types.Decision(decision), nil
}

// List returns every stored score in candidate-ID order.
func (s *Store) List(ctx context.Context) ([]*types.ScoreResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT result FROM scores ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing scores: %w", err)
	}
	defer rows.Close()

	var results []*types.ScoreResult
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning score row: %w", err)
		}
		var result types.ScoreResult
		if err := json.Unmarshal([]byte(data), &result); err != nil {
			return nil, fmt.Errorf("parsing stored score: %w", err)
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}
