package postgres

import (
	"Hangar/internal/core/jobs"
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresJobRepo struct {
	db *sql.DB
}

// NewJobRepository creates a new PostgreSQL job repository
func NewJobRepository(db *sql.DB) jobs.JobRepository {
	return &postgresJobRepo{db: db}
}

// Enqueue inserts a pending job
func (r *postgresJobRepo) Enqueue(ctx context.Context, job *jobs.Job) error {
	query := `
		INSERT INTO jobs (id, type, payload, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		job.ID, job.Type, []byte(job.Payload), job.Status).
		Scan(&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// ClaimNext claims the oldest pending job using a skip-locked select, so
// concurrent workers never hand out the same job twice.
func (r *postgresJobRepo) ClaimNext(ctx context.Context) (*jobs.Job, error) {
	query := `
		UPDATE jobs
		SET status = $1, attempts = attempts + 1, updated_at = NOW()
		WHERE id = (
			SELECT id FROM jobs
			WHERE status = $2
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING id, type, payload, status, attempts, COALESCE(last_error, ''),
		          created_at, updated_at`

	job := &jobs.Job{}
	err := r.db.QueryRowContext(ctx, query, jobs.StatusRunning, jobs.StatusPending).
		Scan(&job.ID, &job.Type, &job.Payload, &job.Status, &job.Attempts,
			&job.LastError, &job.CreatedAt, &job.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, jobs.ErrNoPendingJobs
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}

	return job, nil
}

// MarkDone records successful completion
func (r *postgresJobRepo) MarkDone(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, jobs.StatusDone, "")
}

// MarkFailed records a failure with its error message
func (r *postgresJobRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	return r.setStatus(ctx, id, jobs.StatusFailed, errMsg)
}

func (r *postgresJobRepo) setStatus(ctx context.Context, id uuid.UUID, status, errMsg string) error {
	query := `
		UPDATE jobs
		SET status = $2, last_error = NULLIF($3, ''), updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status, errMsg)
	if err != nil {
		return fmt.Errorf("failed to mark job %s: %w", status, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check job update: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("job %s not found", id)
	}

	return nil
}
