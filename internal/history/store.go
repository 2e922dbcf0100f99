// Package history persists readiness run results to a local SQLite database
// so past runs can be reviewed without rerunning the checks.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/releasegate/internal/checks"
)

//go:embed schema.sql
var schemaSQL string

// Run is one recorded readiness run.
type Run struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Ready     bool
	Checks    []CheckRecord
}

// CheckRecord is one check's outcome within a run.
type CheckRecord struct {
	Name          string
	Passed        bool
	Informational bool
	Details       string
}

// Store manages the run-history database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the history database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout first so later statements wait on locks instead of
	// failing outright.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores a completed gate report and returns the new run's id.
func (s *Store) RecordRun(ctx context.Context, report *checks.Report) (string, error) {
	runID := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ms, ready) VALUES (?, ?, ?, ?)`,
		runID, report.StartedAt.UTC(), report.Duration.Milliseconds(), report.Ready())
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, res := range report.Results {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO check_results (run_id, name, passed, informational, details)
			 VALUES (?, ?, ?, ?, ?)`,
			runID, res.Name, res.Passed, res.Informational,
			strings.Join(res.Details, "\n"))
		if err != nil {
			return "", fmt.Errorf("insert check result %q: %w", res.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}

// RecentRuns returns up to limit runs, newest first, each with its check
// outcomes.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, ready FROM runs
		 ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var durationMs int64
		if err := rows.Scan(&run.ID, &run.StartedAt, &durationMs, &run.Ready); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range runs {
		records, err := s.runChecks(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Checks = records
	}
	return runs, nil
}

// runChecks loads the check outcomes for one run in insertion order.
func (s *Store) runChecks(ctx context.Context, runID string) ([]CheckRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, passed, informational, details FROM check_results
		 WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query check results: %w", err)
	}
	defer rows.Close()

	var records []CheckRecord
	for rows.Next() {
		var rec CheckRecord
		if err := rows.Scan(&rec.Name, &rec.Passed, &rec.Informational, &rec.Details); err != nil {
			return nil, fmt.Errorf("scan check result: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
