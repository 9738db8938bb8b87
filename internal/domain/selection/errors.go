package selection

import "errors"

// Sentinel errors for path building.
var (
	ErrNoCandidates  = errors.New("no candidates match filters")
	ErrInvalidFilter = errors.New("invalid path filter")
)
