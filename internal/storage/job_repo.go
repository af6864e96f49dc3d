package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_job_store.go -package=mocks sage-ai/internal/storage JobStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// JobStore defines the interface for ingestion job queue operations.
// Jobs are stored in a table and consumed by a polling worker, so the queue
// survives restarts.
type JobStore interface {
	// Insert enqueues a new job. The record ID must be set before calling.
	Insert(ctx context.Context, job *JobRecord) error
	// Claim atomically picks the next due queued job, marks it running and
	// increments its attempt counter. Returns ErrNotFound when nothing is due.
	Claim(ctx context.Context, now time.Time) (*JobRecord, error)
	// Complete marks a job as successfully completed.
	Complete(ctx context.Context, id string) error
	// Fail records a failed attempt. When terminal is false the job is
	// re-queued to run at retryAt; otherwise it is marked failed for good.
	Fail(ctx context.Context, id string, lastError string, retryAt time.Time, terminal bool) error
	// GetByID gets a job by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*JobRecord, error)
}

// JobRepo provides methods for ingestion job operations.
// It implements the JobStore interface.
type JobRepo struct {
	db *sql.DB
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{db: db}
}

// Insert enqueues a new job.
func (r *JobRepo) Insert(ctx context.Context, job *JobRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ingest_jobs (id, paper_id, status, attempts, max_attempts, next_run_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.PaperID, job.Status, job.Attempts, job.MaxAttempts,
		job.NextRunAt, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// Claim atomically picks the next due queued job and marks it running.
func (r *JobRepo) Claim(ctx context.Context, now time.Time) (*JobRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(ctx,
		`SELECT id, paper_id, status, attempts, max_attempts, next_run_at, last_error, created_at, updated_at
		 FROM ingest_jobs WHERE status = ? AND next_run_at <= ?
		 ORDER BY next_run_at LIMIT 1`, JobStatusQueued, now)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query due job: %w", err)
	}

	job.Status = JobStatusRunning
	job.Attempts++
	job.UpdatedAt = now
	_, err = tx.ExecContext(ctx,
		"UPDATE ingest_jobs SET status = ?, attempts = ?, updated_at = ? WHERE id = ?",
		job.Status, job.Attempts, job.UpdatedAt, job.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}
	return job, nil
}

// Complete marks a job as successfully completed.
func (r *JobRepo) Complete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE ingest_jobs SET status = ?, updated_at = ? WHERE id = ?",
		JobStatusCompleted, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}
	return nil
}

// Fail records a failed attempt, either re-queueing or terminally failing the job.
func (r *JobRepo) Fail(ctx context.Context, id string, lastError string, retryAt time.Time, terminal bool) error {
	status := JobStatusQueued
	if terminal {
		status = JobStatusFailed
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE ingest_jobs SET status = ?, last_error = ?, next_run_at = ?, updated_at = ? WHERE id = ?",
		status, lastError, retryAt, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to record job failure: %w", err)
	}
	return nil
}

// GetByID gets a job by its ID. Returns ErrNotFound if not found.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*JobRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, paper_id, status, attempts, max_attempts, next_run_at, last_error, created_at, updated_at
		 FROM ingest_jobs WHERE id = ?`, id)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query job: %w", err)
	}
	return job, nil
}

func scanJob(row rowScanner) (*JobRecord, error) {
	var job JobRecord
	var lastError sql.NullString
	err := row.Scan(&job.ID, &job.PaperID, &job.Status, &job.Attempts, &job.MaxAttempts,
		&job.NextRunAt, &lastError, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	job.LastError = lastError.String
	return &job, nil
}
