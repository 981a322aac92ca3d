// Package repository persists scoring results.
package repository

import (
	"context"

	"github.com/yourusername/race-ev/internal/service"
)

// ResultRepository stores scored events and reads them back by event ID
type ResultRepository interface {
	service.ResultSink
	GetByEventID(ctx context.Context, eventID string) (*service.EventResult, error)
}
