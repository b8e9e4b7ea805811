package store

import (
	"context"
	"fmt"

	"puckcast/domain/core"
	"puckcast/domain/league"
	"puckcast/ports"

	"github.com/jmoiron/sqlx"
)

// ContestRepositoryImpl implements ports.ContestRepository over sqlx.
type ContestRepositoryImpl struct {
	db *sqlx.DB
}

// NewContestRepository creates a contest repository
func NewContestRepository(db *sqlx.DB) ports.ContestRepository {
	return &ContestRepositoryImpl{db: db}
}

const insertContest = `
	INSERT INTO goal_data (id, date, away_team, home_team, home_goals, away_goals, winning_team)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		date = excluded.date,
		away_team = excluded.away_team,
		home_team = excluded.home_team,
		home_goals = excluded.home_goals,
		away_goals = excluded.away_goals,
		winning_team = excluded.winning_team`

// InsertBatch appends completed contests; an existing contest id is replaced.
func (r *ContestRepositoryImpl) InsertBatch(ctx context.Context, contests []league.Contest) error {
	if len(contests) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin contest insert: %w", err)
	}
	defer tx.Rollback()

	query := r.db.Rebind(insertContest)
	for _, c := range contests {
		if _, err := tx.ExecContext(ctx, query,
			c.ID, c.Date, c.AwayTeam, c.HomeTeam, c.HomeGoals, c.AwayGoals, c.WinningTeam); err != nil {
			return fmt.Errorf("failed to insert contest %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// ReplaceAll rewrites the whole contests table inside one transaction.
func (r *ContestRepositoryImpl) ReplaceAll(ctx context.Context, contests []league.Contest) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin contest replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM goal_data`); err != nil {
		return fmt.Errorf("failed to clear contests: %w", err)
	}
	query := r.db.Rebind(insertContest)
	for _, c := range contests {
		if _, err := tx.ExecContext(ctx, query,
			c.ID, c.Date, c.AwayTeam, c.HomeTeam, c.HomeGoals, c.AwayGoals, c.WinningTeam); err != nil {
			return fmt.Errorf("failed to insert contest %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// SelectWindow returns the completed contests whose id carries the season tag
// and whose date is on or before cutoff, ordered by contest id ascending.
func (r *ContestRepositoryImpl) SelectWindow(ctx context.Context, season string, cutoff core.Day) ([]league.Contest, error) {
	query := r.db.Rebind(`
		SELECT id, date, away_team, home_team, home_goals, away_goals, winning_team
		FROM goal_data
		WHERE substr(id, 1, 4) = ? AND date <= ?
		ORDER BY id`)
	var out []league.Contest
	if err := r.db.SelectContext(ctx, &out, query, season, cutoff); err != nil {
		return nil, fmt.Errorf("failed to select training window: %w", err)
	}
	return out, nil
}

// SelectSeason returns a full season's contests in id order.
func (r *ContestRepositoryImpl) SelectSeason(ctx context.Context, season string) ([]league.Contest, error) {
	query := r.db.Rebind(`
		SELECT id, date, away_team, home_team, home_goals, away_goals, winning_team
		FROM goal_data
		WHERE substr(id, 1, 4) = ?
		ORDER BY id`)
	var out []league.Contest
	if err := r.db.SelectContext(ctx, &out, query, season); err != nil {
		return nil, fmt.Errorf("failed to select season %s: %w", season, err)
	}
	return out, nil
}

// LatestDate returns the most recent stored contest date, "" when empty.
func (r *ContestRepositoryImpl) LatestDate(ctx context.Context) (core.Day, error) {
	var date string
	query := `SELECT COALESCE(MAX(date), '') FROM goal_data`
	if err := r.db.GetContext(ctx, &date, query); err != nil {
		return "", fmt.Errorf("failed to read latest contest date: %w", err)
	}
	return core.Day(date), nil
}
