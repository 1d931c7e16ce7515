package jobs

import (
	"context"

	"github.com/google/uuid"
)

// JobRepository defines the interface for queue persistence.
type JobRepository interface {
	// Enqueue inserts a pending job.
	Enqueue(ctx context.Context, job *Job) error

	// ClaimNext atomically claims the oldest pending job and marks it
	// running. Returns ErrNoPendingJobs when the queue is empty.
	ClaimNext(ctx context.Context) (*Job, error)

	// MarkDone records successful completion.
	MarkDone(ctx context.Context, id uuid.UUID) error

	// MarkFailed records a failure with its error message.
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}
