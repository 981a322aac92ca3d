package database

import (
	"context"
	"fmt"

	"github.com/yourusername/race-ev/internal/config"
)

// Schema holds the result table. One row per event, replaced on every run.
const Schema = `
CREATE TABLE IF NOT EXISTS scoring_results (
	event_id     TEXT PRIMARY KEY,
	fingerprint  UUID NOT NULL,
	event_name   TEXT NOT NULL,
	event_date   TEXT,
	degenerate   BOOLEAN NOT NULL DEFAULT FALSE,
	payload      JSONB NOT NULL,
	scored_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}
