// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest persists conversion run history in a SQLite database.
// The files table doubles as the change index for skip-unchanged.
package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/svgpress/pkg/types"
)

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the manifest database at path, creating the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating manifest directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
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
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			input_dir TEXT,
			output_dir TEXT,
			files INTEGER NOT NULL DEFAULT 0,
			variants_done INTEGER NOT NULL DEFAULT 0,
			variants_failed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			path TEXT NOT NULL,
			mod_time TEXT,
			background TEXT,
			centered TEXT,
			stretched TEXT,
			cropped TEXT,
			created_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_path ON files(path)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun inserts a new run record and returns its ID.
func (s *Store) BeginRun(ctx context.Context, cfg types.PressConfig) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, input_dir, output_dir) VALUES (?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), cfg.InputDir, cfg.OutputDir)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// RecordFile persists the outcome of one input file under the given run.
func (s *Store) RecordFile(ctx context.Context, runID int64, r types.FileResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO files (run_id, path, mod_time, background, centered, stretched, cropped, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		r.Source,
		r.ModTime.Format(time.RFC3339),
		string(r.Background),
		string(r.Status(types.VariantCentered)),
		string(r.Status(types.VariantStretched)),
		string(r.Status(types.VariantCropped)),
		r.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", r.Source, err)
	}
	return nil
}

// FinishRun stores the final counters on a run record.
func (s *Store) FinishRun(ctx context.Context, runID int64, files, done, failed int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET files = ?, variants_done = ?, variants_failed = ? WHERE id = ?`,
		files, done, failed, runID)
	if err != nil {
		return fmt.Errorf("finishing run %d: %w", runID, err)
	}
	return nil
}

// Unchanged reports whether the most recent record for path has the same
// modification time and all three variants done.
func (s *Store) Unchanged(ctx context.Context, path string, modTime time.Time) (bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT mod_time, centered, stretched, cropped FROM files
		 WHERE path = ? ORDER BY rowid DESC LIMIT 1`, path)

	var mod, centered, stretched, cropped string
	if err := row.Scan(&mod, &centered, &stretched, &cropped); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("querying %s: %w", path, err)
	}

	if mod != modTime.Format(time.RFC3339) {
		return false, nil
	}
	done := string(types.VariantDone)
	return centered == done && stretched == done && cropped == done, nil
}

// Run summarizes one conversion run for history listings.
type Run struct {
	ID             int64     `json:"id"`
	StartedAt      time.Time `json:"started_at"`
	InputDir       string    `json:"input_dir"`
	OutputDir      string    `json:"output_dir"`
	Files          int       `json:"files"`
	VariantsDone   int       `json:"variants_done"`
	VariantsFailed int       `json:"variants_failed"`
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, input_dir, output_dir, files, variants_done, variants_failed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.InputDir, &r.OutputDir,
			&r.Files, &r.VariantsDone, &r.VariantsFailed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, started); parseErr == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
