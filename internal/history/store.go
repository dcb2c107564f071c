package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"starcut/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS export_jobs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    token TEXT NOT NULL UNIQUE,
    plan_id TEXT NOT NULL,
    status TEXT NOT NULL,
    format TEXT NOT NULL DEFAULT '',
    output_path TEXT NOT NULL DEFAULT '',
    duration_ms INTEGER NOT NULL DEFAULT 0,
    size_bytes INTEGER NOT NULL DEFAULT 0,
    progress_phase TEXT NOT NULL DEFAULT '',
    progress_current INTEGER NOT NULL DEFAULT 0,
    progress_total INTEGER NOT NULL DEFAULT 0,
    progress_message TEXT NOT NULL DEFAULT '',
    error_message TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_export_jobs_plan ON export_jobs(plan_id);
`

// Store manages export job persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.BaseDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// NewJob inserts a running job for the given export invocation.
func (s *Store) NewJob(ctx context.Context, token, planID, format string, totalSteps int) (*Job, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO export_jobs (token, plan_id, status, format, progress_total, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		token, planID, StatusRunning, format, totalSteps, timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// UpdateProgress stores the latest phase counters for a running job.
func (s *Store) UpdateProgress(ctx context.Context, token, phase string, current, total int, message string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE export_jobs
         SET progress_phase = ?, progress_current = ?, progress_total = ?, progress_message = ?, updated_at = ?
         WHERE token = ?`,
		phase, current, total, message, timestamp, token,
	)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

// MarkCompleted stamps the terminal success state and artifact details.
func (s *Store) MarkCompleted(ctx context.Context, token, outputPath string, durationMS, sizeBytes int64) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE export_jobs
         SET status = ?, output_path = ?, duration_ms = ?, size_bytes = ?, updated_at = ?
         WHERE token = ?`,
		StatusCompleted, outputPath, durationMS, sizeBytes, timestamp, token,
	)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

// MarkFailed stamps the terminal failure state with the reported error.
func (s *Store) MarkFailed(ctx context.Context, token, message string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE export_jobs SET status = ?, error_message = ?, updated_at = ? WHERE token = ?`,
		StatusFailed, message, timestamp, token,
	)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

// GetByID fetches a job by row identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	return scanJob(row)
}

// GetByToken fetches a job by its export invocation token.
func (s *Store) GetByToken(ctx context.Context, token string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE token = ?`, token)
	return scanJob(row)
}

// List returns jobs newest-first, capped by limit when positive.
func (s *Store) List(ctx context.Context, limit int) ([]*Job, error) {
	query := selectColumns + ` ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

const selectColumns = `SELECT id, token, plan_id, status, format, output_path, duration_ms, size_bytes,
    progress_phase, progress_current, progress_total, progress_message, error_message, created_at, updated_at
    FROM export_jobs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var job Job
	var status, createdAt, updatedAt string
	err := row.Scan(
		&job.ID, &job.Token, &job.PlanID, &status, &job.Format, &job.OutputPath,
		&job.DurationMS, &job.SizeBytes, &job.ProgressPhase, &job.ProgressCurrent,
		&job.ProgressTotal, &job.ProgressMessage, &job.ErrorMessage, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}
	job.Status = Status(status)
	if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
		job.CreatedAt = ts
	}
	if ts, parseErr := time.Parse(time.RFC3339Nano, updatedAt); parseErr == nil {
		job.UpdatedAt = ts
	}
	return &job, nil
}
