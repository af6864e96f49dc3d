package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sage-ai/internal/storage"
)

const (
	// DefaultMaxAttempts bounds retries per job.
	DefaultMaxAttempts = 3
	// backoffBase is the delay before the first retry; it doubles per attempt.
	backoffBase = time.Second

	defaultPollInterval = time.Second
)

// Enqueue creates a queued ingestion job for a paper, due immediately.
func Enqueue(ctx context.Context, jobs storage.JobStore, paperID string) (*storage.JobRecord, error) {
	now := time.Now().UTC()
	job := &storage.JobRecord{
		ID:          uuid.New().String(),
		PaperID:     paperID,
		Status:      storage.JobStatusQueued,
		MaxAttempts: DefaultMaxAttempts,
		NextRunAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := jobs.Insert(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Worker polls the job table and runs the pipeline for each due job.
// Decoupled from request handling: upload only enqueues, the worker owns
// retries and backoff.
type Worker struct {
	jobs         storage.JobStore
	pipeline     *Pipeline
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewWorker creates a Worker with the default poll interval.
func NewWorker(jobs storage.JobStore, pipeline *Pipeline) *Worker {
	return &Worker{
		jobs:         jobs,
		pipeline:     pipeline,
		pollInterval: defaultPollInterval,
		logger:       slog.Default(),
	}
}

// Run polls for due jobs until the context is cancelled, draining all due
// jobs on each tick.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.InfoContext(ctx, "ingest worker started", "poll_interval", w.pollInterval)

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "ingest worker stopped")
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain claims and processes due jobs until none remain.
func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.jobs.Claim(ctx, time.Now().UTC())
		if errors.Is(err, storage.ErrNotFound) {
			return
		}
		if err != nil {
			w.logger.ErrorContext(ctx, "failed to claim ingest job", "error", err)
			return
		}

		w.process(ctx, job)
	}
}

// process runs one attempt for a claimed job and records the outcome. A
// failed attempt is re-queued with exponential backoff until the attempt cap,
// after which the job is terminal and the paper stays in its extracted state.
func (w *Worker) process(ctx context.Context, job *storage.JobRecord) {
	err := w.pipeline.IndexPaper(ctx, job.PaperID)
	if err == nil {
		if err := w.jobs.Complete(ctx, job.ID); err != nil {
			w.logger.ErrorContext(ctx, "failed to complete ingest job",
				"job_id", job.ID, "error", err)
		}
		w.logger.InfoContext(ctx, "ingest job completed",
			"job_id", job.ID, "paper_id", job.PaperID, "attempt", job.Attempts)
		return
	}

	terminal := job.Attempts >= job.MaxAttempts
	retryAt := time.Now().UTC().Add(backoffDelay(job.Attempts))
	if failErr := w.jobs.Fail(ctx, job.ID, err.Error(), retryAt, terminal); failErr != nil {
		w.logger.ErrorContext(ctx, "failed to record ingest job failure",
			"job_id", job.ID, "error", failErr)
	}

	if terminal {
		w.logger.ErrorContext(ctx, "ingest job failed permanently",
			"job_id", job.ID, "paper_id", job.PaperID, "attempts", job.Attempts, "error", err)
	} else {
		w.logger.WarnContext(ctx, "ingest job attempt failed, will retry",
			"job_id", job.ID, "paper_id", job.PaperID, "attempt", job.Attempts,
			"retry_at", retryAt, "error", err)
	}
}

// backoffDelay returns the delay before the next attempt: 1s after the first
// failure, doubling per subsequent attempt.
func backoffDelay(attempt int) time.Duration {
	delay := backoffBase
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}
