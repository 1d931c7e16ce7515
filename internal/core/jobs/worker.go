package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// DefaultPollInterval is how long the worker sleeps when the queue is empty.
const DefaultPollInterval = 5 * time.Second

// Handler processes one job payload.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Worker drains the queue, dispatching each claimed job to the handler
// registered for its type. One worker processes jobs serially; run more
// worker processes for parallelism. Claims use row locks, so concurrent
// workers never double-process a job.
type Worker struct {
	repo     JobRepository
	handlers map[string]Handler
	interval time.Duration
}

// NewWorker creates a new queue worker
func NewWorker(repo JobRepository, pollInterval time.Duration) *Worker {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Worker{
		repo:     repo,
		handlers: make(map[string]Handler),
		interval: pollInterval,
	}
}

// Register binds a handler to a job type. Must be called before Run.
func (w *Worker) Register(jobType string, h Handler) {
	w.handlers[jobType] = h
}

// Run polls the queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	slog.Info("worker started", "poll_interval", w.interval)
	for {
		job, err := w.repo.ClaimNext(ctx)
		switch {
		case errors.Is(err, ErrNoPendingJobs):
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.interval):
			}
			continue
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Error("claim failed", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.interval):
			}
			continue
		}

		w.process(ctx, job)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (w *Worker) process(ctx context.Context, job *Job) {
	h, ok := w.handlers[job.Type]
	if !ok {
		slog.Error("no handler for job", "job_id", job.ID, "type", job.Type)
		if err := w.repo.MarkFailed(ctx, job.ID, ErrUnknownJobType.Error()); err != nil {
			slog.Error("mark failed errored", "job_id", job.ID, "error", err)
		}
		return
	}

	start := time.Now()
	if err := h(ctx, job.Payload); err != nil {
		slog.Error("job failed", "job_id", job.ID, "type", job.Type, "error", err)
		if markErr := w.repo.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			slog.Error("mark failed errored", "job_id", job.ID, "error", markErr)
		}
		return
	}

	slog.Info("job done", "job_id", job.ID, "type", job.Type, "duration", time.Since(start))
	if err := w.repo.MarkDone(ctx, job.ID); err != nil {
		slog.Error("mark done errored", "job_id", job.ID, "error", err)
	}
}
