package app

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"puckcast/domain/core"
	"puckcast/domain/posterior"
	"puckcast/internal"
	"puckcast/ports"

	"github.com/montanaflynn/stats"
)

const defaultSeriesPaths = 10000

// SeasonService projects season-long standings by Monte Carlo simulation of
// all remaining scheduled games, and derives playoff series odds from the
// same posterior machinery.
type SeasonService struct {
	schedule  ports.ScheduleFeed
	standings ports.StandingsFeed
	contests  ports.ContestRepository
	engine    ports.Engine
	pred      *PredictionService
	draws     int
	seed      int64
	log       *internal.Logger
}

// NewSeasonService creates the season simulation service. pred is used by the
// log-loss evaluation, which scores cached predictions game by game.
func NewSeasonService(
	schedule ports.ScheduleFeed,
	standings ports.StandingsFeed,
	contests ports.ContestRepository,
	engine ports.Engine,
	pred *PredictionService,
	draws int,
	seed int64,
	log *internal.Logger,
) *SeasonService {
	return &SeasonService{
		schedule:  schedule,
		standings: standings,
		contests:  contests,
		engine:    engine,
		pred:      pred,
		draws:     draws,
		seed:      seed,
		log:       log,
	}
}

// Project simulates final standings points for every team. One engine call
// covers all remaining games between today and seasonEnd as simultaneous
// queries; each Monte Carlo draw then plays out the remainder of the season
// independently on top of the current actual point totals. The full per-team
// distribution is returned; no summary statistic is computed here.
func (s *SeasonService) Project(ctx context.Context, today, seasonEnd core.Day) (posterior.SeasonProjection, error) {
	snap, rows, err := TakeSnapshot(ctx, s.standings)
	if err != nil {
		return nil, err
	}
	current := make(map[string]int, len(rows))
	for _, r := range rows {
		current[r.Team] = r.Points
	}

	remaining, err := s.schedule.GamesBetween(ctx, today, seasonEnd)
	if err != nil {
		return nil, err
	}
	if len(remaining) == 0 {
		// Season over: the projection degenerates to the current table.
		s.log.Info("no remaining games between %s and %s", today, seasonEnd)
		projection := make(posterior.SeasonProjection, len(current))
		for team, pts := range current {
			projection[team] = []int{pts}
		}
		return projection, nil
	}

	window, err := AssembleWindow(ctx, s.contests, snap, remaining[0].Season, today.AddDays(-1))
	if err != nil {
		return nil, err
	}
	queries := make([][2]int, 0, len(remaining))
	for _, g := range remaining {
		homeID, err := snap.ID(g.HomeTeam)
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", g.ID, err)
		}
		awayID, err := snap.ID(g.AwayTeam)
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", g.ID, err)
		}
		queries = append(queries, [2]int{homeID, awayID})
	}
	req, err := fitRequest(window, queries, s.draws)
	if err != nil {
		return nil, err
	}

	s.log.Info("season projection: %d remaining games, n_games=%d", len(remaining), req.NGames)
	result, err := s.engine.FitPredict(ctx, req)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(s.seed))
	return posterior.ProjectStandings(remaining, result.Queries, current, rng)
}

// SeriesOdds estimates a best-of-7 playoff series between higher (home-ice
// advantage) and lower, fitting on the season's completed games as of date.
// One engine call answers both venue orientations of the matchup.
func (s *SeasonService) SeriesOdds(ctx context.Context, date core.Day, higher, lower string) ([]posterior.SeriesOutcome, error) {
	snap, _, err := TakeSnapshot(ctx, s.standings)
	if err != nil {
		return nil, err
	}
	higherID, err := snap.ID(higher)
	if err != nil {
		return nil, err
	}
	lowerID, err := snap.ID(lower)
	if err != nil {
		return nil, err
	}

	window, err := AssembleWindow(ctx, s.contests, snap, core.SeasonForDay(date), date.AddDays(-1))
	if err != nil {
		return nil, err
	}
	req, err := fitRequest(window, [][2]int{{higherID, lowerID}, {lowerID, higherID}}, s.draws)
	if err != nil {
		return nil, err
	}
	result, err := s.engine.FitPredict(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(result.Queries) != 2 {
		return nil, core.NewInferenceError(fmt.Errorf("expected 2 draw sets, got %d", len(result.Queries)))
	}

	rng := rand.New(rand.NewSource(s.seed))
	return posterior.SimulateSeries(higher, lower, result.Queries[0], result.Queries[1], defaultSeriesPaths, rng)
}

// SeasonLogLoss scores the pipeline's home-win probabilities against realized
// winners over a completed season's games in id order. The first game is
// skipped; there is no training data before it.
func (s *SeasonService) SeasonLogLoss(ctx context.Context, season string) (float64, error) {
	games, err := s.contests.SelectSeason(ctx, season)
	if err != nil {
		return 0, err
	}
	if len(games) < 2 {
		return 0, fmt.Errorf("%w: season %s has %d completed games", core.ErrDataUnavailable, season, len(games))
	}

	losses := make([]float64, 0, len(games)-1)
	for _, g := range games[1:] {
		pred, err := s.pred.Predict(ctx, g.Date, g.HomeTeam, g.AwayTeam)
		if err != nil {
			return 0, fmt.Errorf("scoring game %s: %w", g.ID, err)
		}
		p := clampProb(pred.HomeWinProb)
		if g.WinningTeam == g.HomeTeam {
			losses = append(losses, -math.Log(p))
		} else {
			losses = append(losses, -math.Log(1-p))
		}
	}
	return stats.Mean(losses)
}

func clampProb(p float64) float64 {
	const eps = 1e-9
	return math.Min(1-eps, math.Max(eps, p))
}
