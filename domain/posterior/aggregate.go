package posterior

import (
	"errors"
	"sort"
)

// ErrNoDraws is returned when aggregation is asked to work on an empty draw set.
var ErrNoDraws = errors.New("empty posterior draw set")

// Outcome is one row of an outcome table: a distinct final score pair and the
// share of posterior draws that landed on it.
type Outcome struct {
	HomeGoals int     `json:"home"`
	AwayGoals int     `json:"away"`
	Count     int     `json:"count"`
	Percent   float64 `json:"percent"`
}

// OutcomeTable is the distribution over score pairs for one queried contest,
// sorted by (home goals, away goals) ascending. Percentages sum to 100 over a
// non-empty draw set.
type OutcomeTable []Outcome

// TotalPercent sums the table's percentages.
func (t OutcomeTable) TotalPercent() float64 {
	var sum float64
	for _, o := range t {
		sum += o.Percent
	}
	return sum
}

// Aggregate turns the posterior draws for one queried contest into an outcome
// table and a scalar home-win probability.
//
// The home-win indicator per draw is 1 when home goals exceed away goals, 0
// when they trail, and on a tie the draw's own overtime-home-win probability
// thresholded at 0.5 stands in for the realized overtime result. The threshold
// reuses the probability draw directly instead of sampling an independent
// Bernoulli trial; see DESIGN.md.
func Aggregate(d Draws) (OutcomeTable, float64, error) {
	if err := d.Validate(); err != nil {
		return nil, 0, err
	}
	n := d.Len()
	if n == 0 {
		return nil, 0, ErrNoDraws
	}

	type scoreline struct{ home, away int }
	counts := make(map[scoreline]int)
	wins := 0
	for i := 0; i < n; i++ {
		counts[scoreline{d.HomeGoals[i], d.AwayGoals[i]}]++
		switch {
		case d.HomeGoals[i] > d.AwayGoals[i]:
			wins++
		case d.HomeGoals[i] < d.AwayGoals[i]:
			// regulation loss, indicator 0
		case d.OTHomeWinProb[i] > 0.5:
			wins++
		}
	}

	table := make(OutcomeTable, 0, len(counts))
	for s, c := range counts {
		table = append(table, Outcome{
			HomeGoals: s.home,
			AwayGoals: s.away,
			Count:     c,
			Percent:   float64(c) / float64(n) * 100,
		})
	}
	sort.Slice(table, func(i, j int) bool {
		if table[i].HomeGoals != table[j].HomeGoals {
			return table[i].HomeGoals < table[j].HomeGoals
		}
		return table[i].AwayGoals < table[j].AwayGoals
	})

	return table, float64(wins) / float64(n), nil
}
