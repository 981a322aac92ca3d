package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/race-ev/internal/database"
	"github.com/yourusername/race-ev/internal/engine"
	"github.com/yourusername/race-ev/internal/models"
	"github.com/yourusername/race-ev/internal/service"
)

const upsertResultQuery = `
	INSERT INTO scoring_results (event_id, fingerprint, event_name, event_date, degenerate, payload, scored_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	ON CONFLICT (event_id) DO UPDATE SET
		fingerprint = EXCLUDED.fingerprint,
		event_name  = EXCLUDED.event_name,
		event_date  = EXCLUDED.event_date,
		degenerate  = EXCLUDED.degenerate,
		payload     = EXCLUDED.payload,
		scored_at   = EXCLUDED.scored_at
`

// PostgresResultRepository implements ResultRepository for PostgreSQL
type PostgresResultRepository struct {
	db *database.DB
}

// NewPostgresResultRepository creates a new result repository
func NewPostgresResultRepository(db *database.DB) *PostgresResultRepository {
	return &PostgresResultRepository{db: db}
}

// Name returns the sink name
func (r *PostgresResultRepository) Name() string {
	return "postgres"
}

// Save upserts one row per event inside a single transaction
func (r *PostgresResultRepository) Save(ctx context.Context, results []service.EventResult) error {
	rows, err := resultRows(results)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, row := range rows {
			batch.Queue(upsertResultQuery, row...)
		}
		br := tx.SendBatch(ctx, batch)
		for range rows {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("failed to upsert result: %w", err)
			}
		}
		return br.Close()
	})
}

// GetByEventID retrieves the latest result for an event
func (r *PostgresResultRepository) GetByEventID(ctx context.Context, eventID string) (*service.EventResult, error) {
	query := `SELECT fingerprint, degenerate, payload FROM scoring_results WHERE event_id = $1`

	var (
		fingerprint uuid.UUID
		degenerate  bool
		payload     []byte
	)
	err := r.db.GetPool().QueryRow(ctx, query, eventID).Scan(&fingerprint, &degenerate, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	result := &engine.Result{}
	if err := json.Unmarshal(payload, result); err != nil {
		return nil, fmt.Errorf("failed to decode result payload: %w", err)
	}
	return &service.EventResult{
		Fingerprint: fingerprint.String(),
		Degenerate:  degenerate,
		Result:      result,
	}, nil
}

// resultRows converts results into upsert arguments
func resultRows(results []service.EventResult) ([][]any, error) {
	rows := make([][]any, 0, len(results))
	for _, res := range results {
		if res.Result == nil {
			continue
		}
		fingerprint, err := uuid.Parse(res.Fingerprint)
		if err != nil {
			return nil, fmt.Errorf("event %s has invalid fingerprint: %w", res.Result.Event.ID, err)
		}
		payload, err := json.Marshal(res.Result)
		if err != nil {
			return nil, fmt.Errorf("failed to encode event %s: %w", res.Result.Event.ID, err)
		}
		ev := res.Result.Event
		rows = append(rows, []any{ev.ID, fingerprint, ev.Name, ev.Date, res.Degenerate, payload})
	}
	return rows, nil
}
