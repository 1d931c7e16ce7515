package jobs

import "errors"

// ErrNoPendingJobs signals an empty queue to the worker poll loop.
var ErrNoPendingJobs = errors.New("no pending jobs")

// ErrUnknownJobType is recorded against jobs whose type has no registered
// handler.
var ErrUnknownJobType = errors.New("unknown job type")
