package posterior

import (
	"fmt"
	"math/rand"

	"puckcast/domain/league"
)

// Standings points mapping: regulation win 2, regulation loss 0, overtime
// win 2, overtime loss 1.
const (
	PointsWin    = 2
	PointsOTLoss = 1
)

// SeasonProjection maps each team to its simulated final point totals, one
// value per Monte Carlo draw. The full distribution is the contract; no
// summary statistic is computed here.
type SeasonProjection map[string][]int

// ProjectStandings runs the Monte Carlo standings projection. games and draws
// are index-aligned: draws[g] holds the posterior samples for games[g]. For
// each posterior draw, every remaining game is classified as a regulation home
// win, regulation away win, or overtime (equal goals); overtime is resolved by
// an independent coin flip against that draw's overtime-home-win probability.
// Each team's points earned across the draw are added to its current actual
// standings points.
func ProjectStandings(games []league.ScheduledGame, draws []Draws, current map[string]int, rng *rand.Rand) (SeasonProjection, error) {
	if len(games) != len(draws) {
		return nil, fmt.Errorf("games/draws misaligned: %d games, %d draw sets", len(games), len(draws))
	}
	nDraws := 0
	for g, d := range draws {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("draws for game %s: %w", games[g].ID, err)
		}
		if g == 0 {
			nDraws = d.Len()
		} else if d.Len() != nDraws {
			return nil, fmt.Errorf("draw count mismatch: game %s has %d draws, expected %d", games[g].ID, d.Len(), nDraws)
		}
	}
	if len(games) > 0 && nDraws == 0 {
		return nil, ErrNoDraws
	}

	projection := make(SeasonProjection, len(current))
	for team, pts := range current {
		totals := make([]int, max(nDraws, 1))
		for i := range totals {
			totals[i] = pts
		}
		projection[team] = totals
	}
	ensure := func(team string) []int {
		if _, ok := projection[team]; !ok {
			projection[team] = make([]int, max(nDraws, 1))
		}
		return projection[team]
	}

	for i := 0; i < nDraws; i++ {
		for g, game := range games {
			home := ensure(game.HomeTeam)
			away := ensure(game.AwayTeam)
			d := draws[g]
			switch {
			case d.HomeGoals[i] > d.AwayGoals[i]:
				home[i] += PointsWin
			case d.HomeGoals[i] < d.AwayGoals[i]:
				away[i] += PointsWin
			case rng.Float64() < d.OTHomeWinProb[i]:
				home[i] += PointsWin
				away[i] += PointsOTLoss
			default:
				away[i] += PointsWin
				home[i] += PointsOTLoss
			}
		}
	}
	return projection, nil
}
