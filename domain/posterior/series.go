package posterior

import (
	"fmt"
	"math/rand"
	"sort"
)

// seriesVenues is the best-of-7 home-ice pattern for the higher seed:
// games 1, 2, 5 and 7 at home, games 3, 4 and 6 on the road.
var seriesVenues = [7]bool{true, true, false, false, true, false, true}

// SeriesOutcome is one cell of a playoff series distribution: the probability
// that Winner takes the series in exactly Games games.
type SeriesOutcome struct {
	Winner string  `json:"winner"`
	Games  int     `json:"games"`
	Prob   float64 `json:"prob"`
}

// SimulateSeries estimates the winner-in-N distribution of a best-of-7 series
// between higher (home-ice advantage) and lower. homeIce holds posterior draws
// for the matchup hosted by higher, roadIce for the venue-swapped matchup
// hosted by lower. Each simulated series samples one posterior draw per game
// from the hosting side's draw set and resolves ties by a coin flip against
// that draw's overtime-home-win probability.
func SimulateSeries(higher, lower string, homeIce, roadIce Draws, paths int, rng *rand.Rand) ([]SeriesOutcome, error) {
	if err := homeIce.Validate(); err != nil {
		return nil, err
	}
	if err := roadIce.Validate(); err != nil {
		return nil, err
	}
	if homeIce.Len() == 0 || roadIce.Len() == 0 {
		return nil, ErrNoDraws
	}
	if paths <= 0 {
		return nil, fmt.Errorf("series paths must be positive, got %d", paths)
	}

	type cell struct {
		winner string
		games  int
	}
	counts := make(map[cell]int)

	for p := 0; p < paths; p++ {
		higherWins, lowerWins, games := 0, 0, 0
		for g := 0; higherWins < 4 && lowerWins < 4; g++ {
			games++
			atHome := seriesVenues[g]
			d := homeIce
			if !atHome {
				d = roadIce
			}
			i := rng.Intn(d.Len())
			hostWins := false
			switch {
			case d.HomeGoals[i] > d.AwayGoals[i]:
				hostWins = true
			case d.HomeGoals[i] == d.AwayGoals[i]:
				hostWins = rng.Float64() < d.OTHomeWinProb[i]
			}
			if hostWins == atHome {
				higherWins++
			} else {
				lowerWins++
			}
		}
		winner := higher
		if lowerWins == 4 {
			winner = lower
		}
		counts[cell{winner, games}]++
	}

	out := make([]SeriesOutcome, 0, len(counts))
	for c, n := range counts {
		out = append(out, SeriesOutcome{
			Winner: c.winner,
			Games:  c.games,
			Prob:   float64(n) / float64(paths),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Winner != out[j].Winner {
			// Higher seed sorts first.
			return out[i].Winner == higher
		}
		return out[i].Games < out[j].Games
	})
	return out, nil
}
