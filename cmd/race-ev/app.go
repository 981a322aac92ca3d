package main

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/race-ev/internal/database"
	"github.com/yourusername/race-ev/internal/datasource"
	"github.com/yourusername/race-ev/internal/engine"
	"github.com/yourusername/race-ev/internal/portfolio"
	"github.com/yourusername/race-ev/internal/repository"
	"github.com/yourusername/race-ev/internal/scoring"
	"github.com/yourusername/race-ev/internal/service"
)

// app holds the wired dependencies shared by every subcommand
type app struct {
	pipeline *service.Pipeline
	db       *database.DB
}

func newApp(ctx context.Context) (*app, error) {
	sp, err := scoring.FromConfig(&cfg.Scoring)
	if err != nil {
		return nil, fmt.Errorf("invalid scoring configuration: %w", err)
	}
	pp, err := portfolio.FromConfig(&cfg.Portfolio)
	if err != nil {
		return nil, fmt.Errorf("invalid portfolio configuration: %w", err)
	}
	eng, err := engine.New(sp, pp)
	if err != nil {
		return nil, err
	}

	var cache *service.ResultCache
	if cfg.Batch.CacheTTLSeconds > 0 {
		cache = service.NewResultCache(time.Duration(cfg.Batch.CacheTTLSeconds)*time.Second, cfg.Batch.CacheMaxSize)
	}
	scorer := service.NewScoringService(eng, cache, cfg.Batch.Workers, log)

	fileRepo, err := repository.NewFileResultRepository(cfg.Output.Path, cfg.Output.Format, cfg.Output.Pretty)
	if err != nil {
		return nil, err
	}
	sinks := []service.ResultSink{fileRepo}

	a := &app{}
	if cfg.Database.Enabled {
		a.db, err = database.Initialize(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		sinks = append(sinks, repository.NewPostgresResultRepository(a.db))
	}

	source := datasource.NewFileSource(cfg.Input.Path)
	a.pipeline = service.NewPipeline(source, scorer, log, sinks...)
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}
