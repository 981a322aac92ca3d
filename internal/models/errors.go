package models

import "errors"

// Custom errors
var (
	ErrDegenerateField = errors.New("event has no participants")
	ErrInvalidEvent    = errors.New("invalid event")
	ErrNotFound        = errors.New("record not found")
)
