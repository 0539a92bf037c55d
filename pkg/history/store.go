package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"themelab-hq/triton/pkg/runner"
)

// Run is one stored validation run.
type Run struct {
	// ID is the run's UUID.
	ID string `json:"id"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Profile names the validation profile used.
	Profile string `json:"profile"`

	// Summary carries the run's aggregate counts.
	Summary runner.Summary `json:"summary"`
}

// Store persists run summaries in SQLite.
type Store struct {
	db        *sql.DB
	mu        sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enabling WAL mode: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	started_at     INTEGER NOT NULL,
	profile        TEXT NOT NULL,
	files_scanned  INTEGER NOT NULL,
	critical_count INTEGER NOT NULL,
	error_count    INTEGER NOT NULL,
	warning_count  INTEGER NOT NULL,
	info_count     INTEGER NOT NULL,
	elapsed_ms     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initializing history schema: %w", err)
	}
	return nil
}

// Record stores one run and returns its generated UUID.
func (s *Store) Record(ctx context.Context, startedAt time.Time, report *runner.Report) (string, error) {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, started_at, profile, files_scanned, critical_count,
	error_count, warning_count, info_count, elapsed_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, startedAt.Unix(), report.Profile,
		report.Summary.FilesScanned, report.Summary.CriticalCount,
		report.Summary.ErrorCount, report.Summary.WarningCount,
		report.Summary.InfoCount, report.Summary.ElapsedMS,
	)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return id, nil
}

// Query returns runs started within [from, to), newest first, up to
// limit. A zero limit returns everything in range.
func (s *Store) Query(ctx context.Context, from, to time.Time, limit int) ([]Run, error) {
	q := `
SELECT id, started_at, profile, files_scanned, critical_count,
	error_count, warning_count, info_count, elapsed_ms
FROM runs
WHERE started_at >= ? AND started_at < ?
ORDER BY started_at DESC`
	args := []any{from.Unix(), to.Unix()}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started int64
		if err := rows.Scan(&r.ID, &started, &r.Profile,
			&r.Summary.FilesScanned, &r.Summary.CriticalCount,
			&r.Summary.ErrorCount, &r.Summary.WarningCount,
			&r.Summary.InfoCount, &r.Summary.ElapsedMS); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt = time.Unix(started, 0).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Latest returns the most recent runs, newest first.
func (s *Store) Latest(ctx context.Context, limit int) ([]Run, error) {
	return s.Query(ctx, time.Unix(0, 0), time.Now().Add(time.Hour), limit)
}

// Count returns the number of stored runs.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n)
	return n, err
}

// Close closes the database.
func (s *Store) Close() error {
	s.closeOnce.Do(func() { s.closeErr = s.db.Close() })
	return s.closeErr
}
