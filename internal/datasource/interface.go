// Package datasource loads event fields for scoring.
package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/race-ev/internal/models"
)

// Source defines the interface for loading events to score
type Source interface {
	// Load returns every event the source currently holds
	Load(ctx context.Context) ([]EventInput, error)

	// Name returns the name of the data source
	Name() string
}

// EventInput is one event with its participant records, ready for the engine
type EventInput struct {
	Event        models.EventContext
	Participants []models.ParticipantRecord
}

// SourceError represents errors from data source operations
type SourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "invalid_data")
	Message string
	Err     error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (%v)", e.Source, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Code, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeNotFound    = "not_found"
	ErrCodeUnreadable  = "unreadable"
	ErrCodeInvalidData = "invalid_data"
)

// Sentinel errors carried by SourceError
var (
	ErrNotFound    = errors.New("data not found")
	ErrInvalidData = errors.New("invalid data format")
)

// NewSourceError creates a new data source error
func NewSourceError(source, code, message string, err error) *SourceError {
	return &SourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
