package ports

import (
	"context"

	"puckcast/domain/core"
	"puckcast/domain/league"
	"puckcast/domain/posterior"
)

// ContestRepository is the append-only store of completed contests.
type ContestRepository interface {
	// InsertBatch appends completed contests. Re-inserting an existing
	// contest id replaces that row (idempotent ingestion).
	InsertBatch(ctx context.Context, contests []league.Contest) error

	// ReplaceAll drops the table contents and writes the given contests.
	ReplaceAll(ctx context.Context, contests []league.Contest) error

	// SelectWindow returns contests whose id carries the season tag and whose
	// date is on or before cutoff, ordered by contest id ascending.
	SelectWindow(ctx context.Context, season string, cutoff core.Day) ([]league.Contest, error)

	// SelectSeason returns a full season's contests in id order.
	SelectSeason(ctx context.Context, season string) ([]league.Contest, error)

	// LatestDate returns the most recent stored contest date, or "" when the
	// table is empty.
	LatestDate(ctx context.Context) (core.Day, error)
}

// CachedPrediction is one persisted prediction row: the outcome table and
// home-win probability for a (date, home, away) triple. Entries are immutable
// once written; the build job fully replaces them, never patches.
type CachedPrediction struct {
	Date        core.Day               `json:"date"`
	GameID      string                 `json:"game_id"`
	HomeTeam    string                 `json:"home_team"`
	AwayTeam    string                 `json:"away_team"`
	Table       posterior.OutcomeTable `json:"table"`
	HomeWinProb float64                `json:"home_win_prob"`
}

// PredictionRepository caches computed predictions keyed by (date, home, away).
type PredictionRepository interface {
	// Get returns the cached prediction for the triple, or (nil, nil) on a
	// miss. A miss is not an error; the caller falls through to a full fit.
	Get(ctx context.Context, date core.Day, home, away string) (*CachedPrediction, error)

	// ReplaceForDates transactionally deletes all rows for the given dates
	// and writes the new entries.
	ReplaceForDates(ctx context.Context, dates []core.Day, entries []CachedPrediction) error
}

// ParameterRepository stores the latest team latent-parameter snapshot.
type ParameterRepository interface {
	// ReplaceAll transactionally swaps the whole parameter table.
	ReplaceAll(ctx context.Context, params []posterior.TeamParameter) error

	// ListAll returns the stored snapshot sorted by team, then kind.
	ListAll(ctx context.Context) ([]posterior.TeamParameter, error)
}
