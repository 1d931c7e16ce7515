package jobs

import (
	"context"
	"fmt"
	"log/slog"
)

// Service is the enqueue side of the queue, used by the web process.
type Service struct {
	repo JobRepository
}

// NewService creates a new job service
func NewService(repo JobRepository) *Service {
	return &Service{repo: repo}
}

// EnqueueSnapshotRefresh queues a full snapshot refresh for one character.
func (s *Service) EnqueueSnapshotRefresh(ctx context.Context, characterID int64) (*Job, error) {
	job, err := NewJob(TypeSnapshotRefresh, SnapshotRefreshPayload{CharacterID: characterID})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Enqueue(ctx, job); err != nil {
		return nil, fmt.Errorf("enqueue %s: %w", job.Type, err)
	}
	slog.Info("job enqueued", "job_id", job.ID, "type", job.Type, "character_id", characterID)
	return job, nil
}
