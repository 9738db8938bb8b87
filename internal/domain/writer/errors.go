package writer

import "errors"

// Sentinel errors for candidate writes.
var (
	ErrNotFound    = errors.New("candidate not found")
	ErrWriteFailed = errors.New("row write failed")
)
