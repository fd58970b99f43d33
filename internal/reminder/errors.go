package reminder

import "errors"

// ErrInvalidSchedule is returned for out-of-range schedule settings.
var ErrInvalidSchedule = errors.New("invalid reminder schedule")
