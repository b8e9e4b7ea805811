package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"puckcast/domain/core"
	"puckcast/domain/posterior"
	"puckcast/ports"

	"github.com/jmoiron/sqlx"
)

// PredictionRepositoryImpl implements ports.PredictionRepository over sqlx.
// Outcome tables are stored as JSON in a text column.
type PredictionRepositoryImpl struct {
	db *sqlx.DB
}

// NewPredictionRepository creates a prediction cache repository
func NewPredictionRepository(db *sqlx.DB) ports.PredictionRepository {
	return &PredictionRepositoryImpl{db: db}
}

// Get returns the cached prediction for (date, home, away), or (nil, nil) on
// a miss. A miss is not an error.
func (r *PredictionRepositoryImpl) Get(ctx context.Context, date core.Day, home, away string) (*ports.CachedPrediction, error) {
	query := r.db.Rebind(`
		SELECT date, game_id, home_team, away_team, outcomes, home_win_prob
		FROM predictions
		WHERE date = ? AND home_team = ? AND away_team = ?`)

	var row struct {
		Date        string  `db:"date"`
		GameID      string  `db:"game_id"`
		HomeTeam    string  `db:"home_team"`
		AwayTeam    string  `db:"away_team"`
		Outcomes    []byte  `db:"outcomes"`
		HomeWinProb float64 `db:"home_win_prob"`
	}
	err := r.db.GetContext(ctx, &row, query, date, home, away)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached prediction: %w", err)
	}

	var table posterior.OutcomeTable
	if err := json.Unmarshal(row.Outcomes, &table); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached outcome table: %w", err)
	}
	return &ports.CachedPrediction{
		Date:        core.Day(row.Date),
		GameID:      row.GameID,
		HomeTeam:    row.HomeTeam,
		AwayTeam:    row.AwayTeam,
		Table:       table,
		HomeWinProb: row.HomeWinProb,
	}, nil
}

// ReplaceForDates deletes all prediction rows for the given dates and writes
// the new entries in one transaction, so a concurrent read never observes a
// half-replaced slate.
func (r *PredictionRepositoryImpl) ReplaceForDates(ctx context.Context, dates []core.Day, entries []ports.CachedPrediction) error {
	if len(dates) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin prediction replace: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sqlx.In(`DELETE FROM predictions WHERE date IN (?)`, dates)
	if err != nil {
		return fmt.Errorf("failed to build prediction delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to clear prediction rows: %w", err)
	}

	insert := r.db.Rebind(`
		INSERT INTO predictions (date, game_id, home_team, away_team, outcomes, home_win_prob)
		VALUES (?, ?, ?, ?, ?, ?)`)
	for _, e := range entries {
		outcomes, err := json.Marshal(e.Table)
		if err != nil {
			return fmt.Errorf("failed to marshal outcome table for %s: %w", e.GameID, err)
		}
		if _, err := tx.ExecContext(ctx, insert,
			e.Date, e.GameID, e.HomeTeam, e.AwayTeam, outcomes, e.HomeWinProb); err != nil {
			return fmt.Errorf("failed to insert prediction for %s: %w", e.GameID, err)
		}
	}
	return tx.Commit()
}
