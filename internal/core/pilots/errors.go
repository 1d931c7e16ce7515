package pilots

import "errors"

// ErrPilotNotFound is returned when a pilot lookup finds no matching record
var ErrPilotNotFound = errors.New("pilot not found")
