// Package history keeps a log of ranking runs in a local SQLite database so
// repeated runs over the same input can be compared.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// ErrNotFound is returned by Get when no run has the requested id.
var ErrNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    input       TEXT NOT NULL,
    mode        TEXT NOT NULL,
    teleport    REAL NOT NULL,
    tolerance   REAL NOT NULL DEFAULT 0,
    steps       INTEGER NOT NULL DEFAULT 0,
    iterations  INTEGER NOT NULL,
    distance    REAL NOT NULL,
    converged   INTEGER NOT NULL,
    nodes       INTEGER NOT NULL,
    edges       INTEGER NOT NULL,
    top_node    TEXT NOT NULL DEFAULT '',
    top_score   REAL NOT NULL DEFAULT 0,
    started_at  TEXT NOT NULL,
    finished_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS runs_started ON runs(started_at);
`

// Run is one recorded ranking run.
type Run struct {
	ID         string
	Input      string
	Mode       string
	Teleport   float64
	Tolerance  float64
	Steps      int
	Iterations int
	Distance   float64
	Converged  bool
	Nodes      int
	Edges      int
	TopNode    string
	TopScore   float64
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration is the wall time between start and finish.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store is a run log backed by SQLite in WAL mode.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and creates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	// SQLite has a single writer; one pooled connection keeps PRAGMAs in effect.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts r. Recording the same id twice replaces the earlier row.
func (s *Store) Record(ctx context.Context, r Run) error {
	const q = `
		INSERT OR REPLACE INTO runs (
			id, input, mode, teleport, tolerance, steps, iterations, distance,
			converged, nodes, edges, top_node, top_score, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		r.ID, r.Input, r.Mode, r.Teleport, r.Tolerance, r.Steps, r.Iterations, r.Distance,
		r.Converged, r.Nodes, r.Edges, r.TopNode, r.TopScore,
		formatTimestamp(r.StartedAt), formatTimestamp(r.FinishedAt))
	if err != nil {
		return fmt.Errorf("history: record run %q: %w", r.ID, err)
	}
	return nil
}

const selectRuns = `SELECT id, input, mode, teleport, tolerance, steps, iterations, distance,
	converged, nodes, edges, top_node, top_score, started_at, finished_at FROM runs`

// Recent returns up to limit runs, newest first. A limit <= 0 returns all runs.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	q := selectRuns + " ORDER BY started_at DESC, id"
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+" WHERE id = ?", id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var started, finished string
	err := sc.Scan(&r.ID, &r.Input, &r.Mode, &r.Teleport, &r.Tolerance, &r.Steps, &r.Iterations,
		&r.Distance, &r.Converged, &r.Nodes, &r.Edges, &r.TopNode, &r.TopScore, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("history: scan run: %w", err)
	}
	if r.StartedAt, err = parseTimestamp(started); err != nil {
		return Run{}, fmt.Errorf("history: parse started_at: %w", err)
	}
	if r.FinishedAt, err = parseTimestamp(finished); err != nil {
		return Run{}, fmt.Errorf("history: parse finished_at: %w", err)
	}
	return r, nil
}

// timestampLayout is fixed width so stored values sort chronologically as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

var timestampFormats = []string{
	timestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp tries each known SQLite timestamp layout in turn.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}
