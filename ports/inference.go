package ports

import (
	"context"
	"fmt"

	"puckcast/domain/posterior"
)

// FitRequest is the fixed-schema request handed to the inference engine:
// parallel training arrays indexed by observation, plus one or more queried
// (home id, away id) pairs to predict. All ids are dense snapshot ids.
type FitRequest struct {
	NGames       int   `json:"n_games"`
	NTeams       int   `json:"n_teams"`
	HomeIDs      []int `json:"home_teams"`
	AwayIDs      []int `json:"away_teams"`
	HomeGoals    []int `json:"home_goals"`
	AwayGoals    []int `json:"away_goals"`
	QueryHomeIDs []int `json:"home_new"`
	QueryAwayIDs []int `json:"away_new"`
	NQueries     int   `json:"n_new"`
	Draws        int   `json:"n_draws"`
}

// Validate checks array alignment and id resolution before the request leaves
// the process. A zero id means a team failed to join against the snapshot.
func (r FitRequest) Validate() error {
	if r.NGames == 0 {
		return fmt.Errorf("empty training set")
	}
	if len(r.HomeIDs) != r.NGames || len(r.AwayIDs) != r.NGames ||
		len(r.HomeGoals) != r.NGames || len(r.AwayGoals) != r.NGames {
		return fmt.Errorf("training arrays misaligned with n_games=%d", r.NGames)
	}
	if r.NQueries == 0 || len(r.QueryHomeIDs) != r.NQueries || len(r.QueryAwayIDs) != r.NQueries {
		return fmt.Errorf("query arrays misaligned with n_new=%d", r.NQueries)
	}
	for i := 0; i < r.NGames; i++ {
		if r.HomeIDs[i] < 1 || r.HomeIDs[i] > r.NTeams || r.AwayIDs[i] < 1 || r.AwayIDs[i] > r.NTeams {
			return fmt.Errorf("observation %d references an unresolved team id", i)
		}
	}
	for i := 0; i < r.NQueries; i++ {
		if r.QueryHomeIDs[i] < 1 || r.QueryHomeIDs[i] > r.NTeams || r.QueryAwayIDs[i] < 1 || r.QueryAwayIDs[i] > r.NTeams {
			return fmt.Errorf("query %d references an unresolved team id", i)
		}
	}
	return nil
}

// FitResult is the engine's response: posterior predictive draws per query,
// index-aligned with the request's query arrays, and a 5/50/95 percentile
// summary row for every declared per-team latent parameter.
type FitResult struct {
	Queries []posterior.Draws       `json:"queries"`
	Params  []posterior.ParamSummary `json:"params"`
}

// Engine is the capability boundary around the external inference engine:
// fit a model on the training data and return posterior draws for the queries.
// The call is synchronous and is not retried on failure; implementations must
// honor ctx cancellation and surface engine errors as core.ErrInferenceFailure.
type Engine interface {
	FitPredict(ctx context.Context, req FitRequest) (*FitResult, error)
}
