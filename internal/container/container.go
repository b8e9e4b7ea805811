package container

import (
	"context"
	"fmt"

	"puckcast/adapters/nhl"
	"puckcast/adapters/poisson"
	"puckcast/adapters/stan"
	"puckcast/adapters/store"
	"puckcast/app"
	"puckcast/internal"
	"puckcast/internal/config"
	"puckcast/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle.
// It is built once at startup and passed by handle into request processing;
// nothing in the pipeline reaches for ambient globals.
type Container struct {
	Config *config.Config
	Log    *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Feeds and engine
	Feeds  *nhl.Client
	Engine ports.Engine

	// Repositories (data access layer)
	Contests    ports.ContestRepository
	Predictions ports.PredictionRepository
	Params      ports.ParameterRepository

	// Services
	Prediction *app.PredictionService
	Season     *app.SeasonService
	Ingest     *app.IngestService
}

// New creates a container with everything that does not need the database.
func New(cfg *config.Config, log *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	c := &Container{
		Config: cfg,
		Log:    log,
		Feeds:  nhl.NewClient(cfg.Feeds.BaseURL, cfg.Feeds.Timeout),
	}

	switch cfg.Engine.Kind {
	case "stan":
		c.Engine = stan.NewInvoker(cfg.Engine.StanCmd, cfg.Engine.Timeout)
	case "poisson":
		c.Engine = poisson.NewEngine(cfg.Engine.Draws, cfg.Engine.Seed)
	default:
		return nil, fmt.Errorf("unknown engine kind %q", cfg.Engine.Kind)
	}
	return c, nil
}

// InitWithDatabase connects repositories and services to the store.
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}
	c.DB = db

	c.Contests = store.NewContestRepository(db)
	c.Predictions = store.NewPredictionRepository(db)
	c.Params = store.NewParameterRepository(db)

	c.Prediction = app.NewPredictionService(
		c.Contests, c.Predictions, c.Params,
		c.Feeds, c.Feeds, c.Engine,
		c.Config.Engine.Draws, c.Log,
	)
	c.Season = app.NewSeasonService(
		c.Feeds, c.Feeds, c.Contests, c.Engine,
		c.Prediction, c.Config.Engine.Draws, c.Config.Engine.Seed, c.Log,
	)
	c.Ingest = app.NewIngestService(c.Feeds, c.Contests, c.Config.Ingest.Concurrency, c.Log)
	return nil
}

// Close releases held resources.
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
