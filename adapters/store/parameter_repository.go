package store

import (
	"context"
	"fmt"

	"puckcast/domain/posterior"
	"puckcast/ports"

	"github.com/jmoiron/sqlx"
)

// ParameterRepositoryImpl implements ports.ParameterRepository over sqlx.
type ParameterRepositoryImpl struct {
	db *sqlx.DB
}

// NewParameterRepository creates a team parameter repository
func NewParameterRepository(db *sqlx.DB) ports.ParameterRepository {
	return &ParameterRepositoryImpl{db: db}
}

// ReplaceAll swaps the whole team parameter table in one transaction.
func (r *ParameterRepositoryImpl) ReplaceAll(ctx context.Context, params []posterior.TeamParameter) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin parameter replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM team_parameters`); err != nil {
		return fmt.Errorf("failed to clear team parameters: %w", err)
	}
	insert := r.db.Rebind(`
		INSERT INTO team_parameters (team, team_id, kind, p5, p50, p95)
		VALUES (?, ?, ?, ?, ?, ?)`)
	for _, p := range params {
		if _, err := tx.ExecContext(ctx, insert,
			p.Team, p.TeamID, p.Kind, p.P5, p.P50, p.P95); err != nil {
			return fmt.Errorf("failed to insert parameter %s/%s: %w", p.Team, p.Kind, err)
		}
	}
	return tx.Commit()
}

// ListAll returns the stored snapshot sorted by team, then kind.
func (r *ParameterRepositoryImpl) ListAll(ctx context.Context) ([]posterior.TeamParameter, error) {
	var out []posterior.TeamParameter
	query := `
		SELECT team, team_id, kind, p5, p50, p95
		FROM team_parameters
		ORDER BY team, kind`
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to list team parameters: %w", err)
	}
	return out, nil
}
