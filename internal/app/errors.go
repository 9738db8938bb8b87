package service

import "errors"

// Sentinel kinds for service errors. Domain sentinels are wrapped alongside
// these so callers can match either.
var (
	ErrTable        = errors.New("table access failed")
	ErrStore        = errors.New("store access failed")
	ErrInvalidIndex = errors.New("invalid candidate index")
)
