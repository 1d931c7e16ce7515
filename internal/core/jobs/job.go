// Package jobs is a small Postgres-backed background job queue. Jobs are
// enqueued by the web process and claimed by the worker binary.
package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Job statuses.
const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// TypeSnapshotRefresh refreshes all stored snapshots for one character.
const TypeSnapshotRefresh = "snapshot.refresh"

// SnapshotRefreshPayload is the payload for TypeSnapshotRefresh jobs.
type SnapshotRefreshPayload struct {
	CharacterID int64 `json:"character_id"`
}

// Job is one unit of background work.
type Job struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Type      string          `json:"type" db:"type"`
	Payload   json.RawMessage `json:"payload" db:"payload"`
	Status    string          `json:"status" db:"status"`
	Attempts  int             `json:"attempts" db:"attempts"`
	LastError string          `json:"lastError,omitempty" db:"last_error"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// NewJob builds a pending job with a fresh ID and a JSON-encoded payload.
func NewJob(jobType string, payload interface{}) (*Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", jobType, err)
	}
	return &Job{
		ID:      uuid.New(),
		Type:    jobType,
		Payload: raw,
		Status:  StatusPending,
	}, nil
}
