package posterior

import "fmt"

// Draws holds the posterior predictive samples for one queried contest:
// three parallel, index-aligned sequences with one entry per posterior sample.
// Draw i across the three slices describes the same hypothetical game.
type Draws struct {
	HomeGoals     []int     `json:"home_goals"`
	AwayGoals     []int     `json:"away_goals"`
	OTHomeWinProb []float64 `json:"ot_home_win_prob"`
}

// Len returns the number of posterior samples.
func (d Draws) Len() int {
	return len(d.HomeGoals)
}

// Validate checks the parallel-sequence invariant: equal lengths, non-negative
// goal counts, overtime probabilities in [0,1].
func (d Draws) Validate() error {
	n := len(d.HomeGoals)
	if len(d.AwayGoals) != n || len(d.OTHomeWinProb) != n {
		return fmt.Errorf("misaligned draw sequences: home=%d away=%d ot=%d",
			len(d.HomeGoals), len(d.AwayGoals), len(d.OTHomeWinProb))
	}
	for i := 0; i < n; i++ {
		if d.HomeGoals[i] < 0 || d.AwayGoals[i] < 0 {
			return fmt.Errorf("negative goal count at draw %d", i)
		}
		if p := d.OTHomeWinProb[i]; p < 0 || p > 1 {
			return fmt.Errorf("overtime probability %f out of [0,1] at draw %d", p, i)
		}
	}
	return nil
}

// ParamSummary is one row of the engine's parameter summary table. Names
// follow the engine's labeling: att[i] and def[i] with i the dense team id.
type ParamSummary struct {
	Name string  `json:"name"`
	P5   float64 `json:"p5"`
	P50  float64 `json:"p50"`
	P95  float64 `json:"p95"`
}
