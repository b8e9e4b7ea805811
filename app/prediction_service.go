package app

import (
	"context"
	"fmt"

	"puckcast/domain/core"
	"puckcast/domain/league"
	"puckcast/domain/posterior"
	"puckcast/internal"
	"puckcast/ports"

	"github.com/google/uuid"
)

// GamePrediction is the outcome of one prediction request: the score
// distribution, the scalar home-win probability, and the league's latent
// parameter snapshot as of the fit.
type GamePrediction struct {
	Date        core.Day                  `json:"date"`
	GameID      string                    `json:"game_id,omitempty"`
	HomeTeam    string                    `json:"home_team"`
	AwayTeam    string                    `json:"away_team"`
	Table       posterior.OutcomeTable    `json:"table_of_pred"`
	HomeWinProb float64                   `json:"prob_home_team_win"`
	Params      []posterior.TeamParameter `json:"team_params,omitempty"`
	Cached      bool                      `json:"cached"`
}

// PredictionService runs the prediction pipeline: one registry snapshot per
// invocation, training window assembly, a single engine call, aggregation,
// and the prediction cache in front of it all. It is constructed once and
// passed by handle into each request's processing context.
type PredictionService struct {
	contests    ports.ContestRepository
	predictions ports.PredictionRepository
	params      ports.ParameterRepository
	standings   ports.StandingsFeed
	schedule    ports.ScheduleFeed
	engine      ports.Engine
	draws       int
	log         *internal.Logger
}

// NewPredictionService creates the prediction pipeline service.
func NewPredictionService(
	contests ports.ContestRepository,
	predictions ports.PredictionRepository,
	params ports.ParameterRepository,
	standings ports.StandingsFeed,
	schedule ports.ScheduleFeed,
	engine ports.Engine,
	draws int,
	log *internal.Logger,
) *PredictionService {
	return &PredictionService{
		contests:    contests,
		predictions: predictions,
		params:      params,
		standings:   standings,
		schedule:    schedule,
		engine:      engine,
		draws:       draws,
		log:         log,
	}
}

// Predict returns the outcome table and home-win probability for the matchup
// on the given date. A cached entry for (date, home, away) short-circuits the
// entire fit pipeline; a miss falls through to a full fit without persisting.
func (s *PredictionService) Predict(ctx context.Context, date core.Day, home, away string) (*GamePrediction, error) {
	cached, err := s.predictions.Get(ctx, date, home, away)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		s.log.Debug("cache hit for %s %s@%s", date, away, home)
		stored, err := s.params.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return &GamePrediction{
			Date:        date,
			GameID:      cached.GameID,
			HomeTeam:    home,
			AwayTeam:    away,
			Table:       cached.Table,
			HomeWinProb: cached.HomeWinProb,
			Params:      stored,
			Cached:      true,
		}, nil
	}
	s.log.Debug("cache miss for %s %s@%s, running fit pipeline", date, away, home)
	return s.predictFresh(ctx, date, home, away)
}

func (s *PredictionService) predictFresh(ctx context.Context, date core.Day, home, away string) (*GamePrediction, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	homeID, err := snap.ID(home)
	if err != nil {
		return nil, err
	}
	awayID, err := snap.ID(away)
	if err != nil {
		return nil, err
	}

	slate, err := s.schedule.Games(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(slate) == 0 {
		return nil, fmt.Errorf("%w: no games scheduled on %s", core.ErrDataUnavailable, date)
	}
	season := slate[0].Season
	gameID := ""
	for _, g := range slate {
		if g.HomeTeam == home && g.AwayTeam == away {
			gameID = g.ID
			break
		}
	}

	window, err := AssembleWindow(ctx, s.contests, snap, season, date.AddDays(-1))
	if err != nil {
		return nil, err
	}
	req, err := fitRequest(window, [][2]int{{homeID, awayID}}, s.draws)
	if err != nil {
		return nil, err
	}

	s.log.Info("fitting model: season=%s cutoff=%s n_games=%d query=%s@%s",
		season, window.Cutoff, req.NGames, away, home)
	result, err := s.engine.FitPredict(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(result.Queries) != 1 {
		return nil, core.NewInferenceError(fmt.Errorf("expected 1 draw set, got %d", len(result.Queries)))
	}

	table, prob, err := posterior.Aggregate(result.Queries[0])
	if err != nil {
		return nil, core.NewInferenceError(err)
	}
	return &GamePrediction{
		Date:        date,
		GameID:      gameID,
		HomeTeam:    home,
		AwayTeam:    away,
		Table:       table,
		HomeWinProb: prob,
		Params:      posterior.SummarizeParams(result.Params, snap),
	}, nil
}

// BuildNearTerm is the periodic build/update pass: it predicts only the
// near-term slate (today and tomorrow) to bound per-run inference cost, then
// replaces the cached prediction rows for those dates and the whole team
// parameter table. Returns the number of predictions persisted.
func (s *PredictionService) BuildNearTerm(ctx context.Context, today core.Day) (int, error) {
	runID := uuid.NewString()[:8]
	tomorrow := today.AddDays(1)
	dates := []core.Day{today, tomorrow}

	var slate []league.ScheduledGame
	for _, d := range dates {
		games, err := s.schedule.Games(ctx, d)
		if err != nil {
			return 0, err
		}
		slate = append(slate, games...)
	}
	if len(slate) == 0 {
		s.log.Info("build %s: no near-term games, clearing cached rows", runID)
		return 0, s.predictions.ReplaceForDates(ctx, dates, nil)
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	window, err := AssembleWindow(ctx, s.contests, snap, slate[0].Season, today.AddDays(-1))
	if err != nil {
		return 0, err
	}

	queries := make([][2]int, 0, len(slate))
	for _, g := range slate {
		homeID, err := snap.ID(g.HomeTeam)
		if err != nil {
			return 0, fmt.Errorf("game %s: %w", g.ID, err)
		}
		awayID, err := snap.ID(g.AwayTeam)
		if err != nil {
			return 0, fmt.Errorf("game %s: %w", g.ID, err)
		}
		queries = append(queries, [2]int{homeID, awayID})
	}
	req, err := fitRequest(window, queries, s.draws)
	if err != nil {
		return 0, err
	}

	s.log.Info("build %s: fitting model for %d near-term games, n_games=%d", runID, len(slate), req.NGames)
	result, err := s.engine.FitPredict(ctx, req)
	if err != nil {
		return 0, err
	}
	if len(result.Queries) != len(slate) {
		return 0, core.NewInferenceError(fmt.Errorf("expected %d draw sets, got %d", len(slate), len(result.Queries)))
	}

	entries := make([]ports.CachedPrediction, 0, len(slate))
	for i, g := range slate {
		table, prob, err := posterior.Aggregate(result.Queries[i])
		if err != nil {
			return 0, core.NewInferenceError(fmt.Errorf("game %s: %w", g.ID, err))
		}
		entries = append(entries, ports.CachedPrediction{
			Date:        g.Date,
			GameID:      g.ID,
			HomeTeam:    g.HomeTeam,
			AwayTeam:    g.AwayTeam,
			Table:       table,
			HomeWinProb: prob,
		})
	}

	if err := s.predictions.ReplaceForDates(ctx, dates, entries); err != nil {
		return 0, err
	}
	if err := s.params.ReplaceAll(ctx, posterior.SummarizeParams(result.Params, snap)); err != nil {
		return 0, err
	}
	s.log.Info("build %s: persisted %d predictions and the parameter snapshot", runID, len(entries))
	return len(entries), nil
}

// StoredParams returns the persisted team parameter snapshot.
func (s *PredictionService) StoredParams(ctx context.Context) ([]posterior.TeamParameter, error) {
	return s.params.ListAll(ctx)
}

// snapshot takes the one registry snapshot a pipeline run resolves all of its
// team ids against. It is never refetched mid-run.
func (s *PredictionService) snapshot(ctx context.Context) (league.Snapshot, error) {
	snap, _, err := TakeSnapshot(ctx, s.standings)
	return snap, err
}
