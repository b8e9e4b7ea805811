package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Open connects to the persisted store. driver is "sqlite" or "postgres";
// queries in this package are written with ? bindvars and rebound per driver.
func Open(driver, url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}
	return db, nil
}

// Migrator handles store schema migrations
type Migrator struct{}

// NewMigrator creates a new migrator
func NewMigrator() *Migrator {
	return &Migrator{}
}

// Run creates the three logical tables: completed contests (append-only),
// cached predictions and team parameter snapshots (full-replace per build).
func (m *Migrator) Run(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS goal_data (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			away_team TEXT NOT NULL,
			home_team TEXT NOT NULL,
			home_goals INTEGER NOT NULL,
			away_goals INTEGER NOT NULL,
			winning_team TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_goal_data_date ON goal_data (date)`,
		`CREATE TABLE IF NOT EXISTS predictions (
			date TEXT NOT NULL,
			game_id TEXT NOT NULL DEFAULT '',
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			outcomes TEXT NOT NULL,
			home_win_prob REAL NOT NULL,
			PRIMARY KEY (date, home_team, away_team)
		)`,
		`CREATE TABLE IF NOT EXISTS team_parameters (
			team TEXT NOT NULL,
			team_id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			p5 REAL NOT NULL,
			p50 REAL NOT NULL,
			p95 REAL NOT NULL,
			PRIMARY KEY (team, kind)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
