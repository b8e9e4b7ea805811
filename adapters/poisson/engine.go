// Package poisson is an in-process stand-in for the external inference
// engine. It fits per-team attack/defense rates by moment matching instead of
// MCMC, then produces posterior-style predictive draws from seeded Poisson
// sampling. Deterministic for a given seed, it backs tests and demo setups
// where the real sampler is not installed.
package poisson

import (
	"context"
	"fmt"
	"math"

	"puckcast/domain/core"
	"puckcast/domain/posterior"
	"puckcast/ports"

	"github.com/montanaflynn/stats"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	defaultDraws  = 4000
	homeAdvantage = 0.1
	otJitterSigma = 0.05
)

// Engine implements ports.Engine without leaving the process.
type Engine struct {
	draws int
	seed  uint64
}

// NewEngine creates a deterministic engine. draws <= 0 selects the default
// draw count.
func NewEngine(draws int, seed int64) *Engine {
	if draws <= 0 {
		draws = defaultDraws
	}
	return &Engine{draws: draws, seed: uint64(seed)}
}

type teamRates struct {
	attack  []float64 // log rate vs league mean, indexed by dense id
	defense []float64
	games   []int
	mu      float64 // league mean goals per side per game
}

// FitPredict fits rates on the training arrays and samples score draws for
// every query. The response shape matches the external sampler's contract
// exactly, including att[i]/def[i] parameter labels.
func (e *Engine) FitPredict(ctx context.Context, req ports.FitRequest) (*ports.FitResult, error) {
	if err := req.Validate(); err != nil {
		return nil, core.NewInferenceError(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, core.NewInferenceError(err)
	}

	rates := fitRates(req)
	src := rand.NewSource(e.seed)
	rng := rand.New(src)

	draws := req.Draws
	if draws <= 0 {
		draws = e.draws
	}

	result := &ports.FitResult{Queries: make([]posterior.Draws, req.NQueries)}
	for q := 0; q < req.NQueries; q++ {
		if err := ctx.Err(); err != nil {
			return nil, core.NewInferenceError(err)
		}
		home, away := req.QueryHomeIDs[q], req.QueryAwayIDs[q]
		lambdaHome := rates.mu * math.Exp(rates.attack[home]+rates.defense[away]+homeAdvantage)
		lambdaAway := rates.mu * math.Exp(rates.attack[away]+rates.defense[home])
		otBase := logistic(strength(rates, home) - strength(rates, away) + homeAdvantage)

		homePoisson := distuv.Poisson{Lambda: lambdaHome, Src: src}
		awayPoisson := distuv.Poisson{Lambda: lambdaAway, Src: src}
		otJitter := distuv.Normal{Mu: 0, Sigma: otJitterSigma, Src: src}

		d := posterior.Draws{
			HomeGoals:     make([]int, draws),
			AwayGoals:     make([]int, draws),
			OTHomeWinProb: make([]float64, draws),
		}
		for i := 0; i < draws; i++ {
			d.HomeGoals[i] = int(homePoisson.Rand())
			d.AwayGoals[i] = int(awayPoisson.Rand())
			d.OTHomeWinProb[i] = clamp(otBase+otJitter.Rand(), 0.01, 0.99)
		}
		result.Queries[q] = d
	}

	params, err := summarize(rates, req.NTeams, draws, rng)
	if err != nil {
		return nil, core.NewInferenceError(err)
	}
	result.Params = params
	return result, nil
}

// fitRates moment-matches log attack/defense rates against the league mean,
// smoothed with one prior game at league average so thin early-season data
// stays finite.
func fitRates(req ports.FitRequest) teamRates {
	n := req.NTeams
	r := teamRates{
		attack:  make([]float64, n+1),
		defense: make([]float64, n+1),
		games:   make([]int, n+1),
	}
	goalsFor := make([]float64, n+1)
	goalsAgainst := make([]float64, n+1)
	var total float64
	for i := 0; i < req.NGames; i++ {
		h, a := req.HomeIDs[i], req.AwayIDs[i]
		hg, ag := float64(req.HomeGoals[i]), float64(req.AwayGoals[i])
		goalsFor[h] += hg
		goalsAgainst[h] += ag
		goalsFor[a] += ag
		goalsAgainst[a] += hg
		r.games[h]++
		r.games[a]++
		total += hg + ag
	}
	r.mu = total / float64(2*req.NGames)
	if r.mu <= 0 {
		r.mu = 1
	}
	for t := 1; t <= n; t++ {
		g := float64(r.games[t])
		r.attack[t] = math.Log((goalsFor[t] + r.mu) / (g + 1) / r.mu)
		r.defense[t] = math.Log((goalsAgainst[t] + r.mu) / (g + 1) / r.mu)
	}
	return r
}

// summarize emits 5/50/95 percentile rows for every att[i]/def[i] parameter.
// Uncertainty shrinks with the number of games a team has played.
func summarize(rates teamRates, nTeams, draws int, rng *rand.Rand) ([]posterior.ParamSummary, error) {
	out := make([]posterior.ParamSummary, 0, 2*nTeams)
	sample := make([]float64, draws)
	emit := func(name string, center, sd float64) error {
		for i := range sample {
			sample[i] = center + rng.NormFloat64()*sd
		}
		p5, err := stats.Percentile(sample, 5)
		if err != nil {
			return err
		}
		p50, err := stats.Percentile(sample, 50)
		if err != nil {
			return err
		}
		p95, err := stats.Percentile(sample, 95)
		if err != nil {
			return err
		}
		out = append(out, posterior.ParamSummary{Name: name, P5: p5, P50: p50, P95: p95})
		return nil
	}
	for t := 1; t <= nTeams; t++ {
		sd := 0.5 / math.Sqrt(float64(1+rates.games[t]))
		if err := emit(fmt.Sprintf("att[%d]", t), rates.attack[t], sd); err != nil {
			return nil, err
		}
		if err := emit(fmt.Sprintf("def[%d]", t), rates.defense[t], sd); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func strength(r teamRates, id int) float64 {
	return r.attack[id] - r.defense[id]
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}
