package snapshots

import "errors"

// ErrStatusNotFound is returned when no status snapshot exists for the
// character yet.
var ErrStatusNotFound = errors.New("status snapshot not found")
