package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockJobRepository is a mock implementation of JobRepository
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Enqueue(ctx context.Context, job *Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) ClaimNext(ctx context.Context) (*Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Job), args.Error(1)
}

func (m *MockJobRepository) MarkDone(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	args := m.Called(ctx, id, errMsg)
	return args.Error(0)
}

func TestNewJob(t *testing.T) {
	job, err := NewJob(TypeSnapshotRefresh, SnapshotRefreshPayload{CharacterID: 91000001})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, TypeSnapshotRefresh, job.Type)
	assert.Equal(t, StatusPending, job.Status)

	var payload SnapshotRefreshPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, int64(91000001), payload.CharacterID)
}

func TestEnqueueSnapshotRefresh(t *testing.T) {
	repo := new(MockJobRepository)
	service := NewService(repo)

	repo.On("Enqueue", mock.Anything, mock.MatchedBy(func(j *Job) bool {
		return j.Type == TypeSnapshotRefresh && j.Status == StatusPending
	})).Return(nil)

	job, err := service.EnqueueSnapshotRefresh(context.Background(), 91000001)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, job.ID)
	repo.AssertExpectations(t)
}

func TestWorkerProcess(t *testing.T) {
	newJob := func(t *testing.T) *Job {
		t.Helper()
		job, err := NewJob(TypeSnapshotRefresh, SnapshotRefreshPayload{CharacterID: 91000001})
		require.NoError(t, err)
		return job
	}

	t.Run("successful job is marked done", func(t *testing.T) {
		repo := new(MockJobRepository)
		worker := NewWorker(repo, time.Millisecond)
		job := newJob(t)

		handled := false
		worker.Register(TypeSnapshotRefresh, func(ctx context.Context, payload json.RawMessage) error {
			handled = true
			var p SnapshotRefreshPayload
			require.NoError(t, json.Unmarshal(payload, &p))
			assert.Equal(t, int64(91000001), p.CharacterID)
			return nil
		})

		repo.On("MarkDone", mock.Anything, job.ID).Return(nil)

		worker.process(context.Background(), job)

		assert.True(t, handled)
		repo.AssertExpectations(t)
	})

	t.Run("failing job records the error", func(t *testing.T) {
		repo := new(MockJobRepository)
		worker := NewWorker(repo, time.Millisecond)
		job := newJob(t)

		worker.Register(TypeSnapshotRefresh, func(ctx context.Context, payload json.RawMessage) error {
			return errors.New("esi unavailable")
		})

		repo.On("MarkFailed", mock.Anything, job.ID, "esi unavailable").Return(nil)

		worker.process(context.Background(), job)
		repo.AssertExpectations(t)
	})

	t.Run("unknown job type is failed, not dropped", func(t *testing.T) {
		repo := new(MockJobRepository)
		worker := NewWorker(repo, time.Millisecond)
		job := newJob(t)
		job.Type = "unregistered.type"

		repo.On("MarkFailed", mock.Anything, job.ID, ErrUnknownJobType.Error()).Return(nil)

		worker.process(context.Background(), job)
		repo.AssertExpectations(t)
	})
}

func TestWorkerRunStopsOnCancel(t *testing.T) {
	repo := new(MockJobRepository)
	worker := NewWorker(repo, time.Millisecond)

	repo.On("ClaimNext", mock.Anything).Return(nil, ErrNoPendingJobs)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := worker.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
