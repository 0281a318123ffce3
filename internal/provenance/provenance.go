// Package provenance keeps a local run log: one row per method
// invocation, recording the parameters, the exact vsearch command line,
// and the output artifacts produced. The log is best-effort context for
// "where did this table come from", not a lockstep audit trail.
package provenance

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Artifact identifies one output file of a run
type Artifact struct {
	Name string `json:"name"`
	Path string `json:"path"`
	UUID string `json:"uuid"`
}

// Run is one recorded method invocation
type Run struct {
	ID         string
	Method     string
	Parameters map[string]string
	Argv       []string
	ExitCode   int
	Duration   time.Duration
	Outputs    []Artifact
	StartedAt  time.Time
}

// NewRun creates a run record with a fresh UUID and start time
func NewRun(method string) *Run {
	return &Run{
		ID:         uuid.New().String(),
		Method:     method,
		Parameters: make(map[string]string),
		StartedAt:  time.Now().UTC(),
	}
}

// NewArtifact tags an output file with a fresh UUID
func NewArtifact(name, path string) Artifact {
	return Artifact{Name: name, Path: path, UUID: uuid.New().String()}
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	method      TEXT NOT NULL,
	parameters  TEXT NOT NULL,
	argv        TEXT NOT NULL,
	exit_code   INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	outputs     TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Store is a sqlite-backed run log
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the run log at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping run log: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize run log schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts one run
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		return fmt.Errorf("run ID is required")
	}
	if run.Method == "" {
		return fmt.Errorf("run method is required")
	}
	params, err := json.Marshal(run.Parameters)
	if err != nil {
		return fmt.Errorf("failed to marshal parameters: %w", err)
	}
	argv, err := json.Marshal(run.Argv)
	if err != nil {
		return fmt.Errorf("failed to marshal argv: %w", err)
	}
	outputs, err := json.Marshal(run.Outputs)
	if err != nil {
		return fmt.Errorf("failed to marshal outputs: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, method, parameters, argv, exit_code, duration_ms, outputs, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Method, string(params), string(argv), run.ExitCode,
		run.Duration.Milliseconds(), string(outputs), run.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, method, parameters, argv, exit_code, duration_ms, outputs, started_at
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var params, argv, outputs string
		var durationMS int64
		if err := rows.Scan(&run.ID, &run.Method, &params, &argv, &run.ExitCode,
			&durationMS, &outputs, &run.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		if err := json.Unmarshal([]byte(params), &run.Parameters); err != nil {
			return nil, fmt.Errorf("failed to unmarshal parameters for run %s: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(argv), &run.Argv); err != nil {
			return nil, fmt.Errorf("failed to unmarshal argv for run %s: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(outputs), &run.Outputs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal outputs for run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}
