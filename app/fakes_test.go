package app

import (
	"context"
	"sort"
	"sync"

	"puckcast/domain/core"
	"puckcast/domain/league"
	"puckcast/domain/posterior"
	"puckcast/internal"
	"puckcast/ports"
)

func testLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

// fakeContests is an in-memory ContestRepository keyed by contest id.
type fakeContests struct {
	rows map[string]league.Contest
}

func newFakeContests(contests ...league.Contest) *fakeContests {
	f := &fakeContests{rows: make(map[string]league.Contest)}
	for _, c := range contests {
		f.rows[c.ID] = c
	}
	return f
}

func (f *fakeContests) InsertBatch(_ context.Context, contests []league.Contest) error {
	for _, c := range contests {
		f.rows[c.ID] = c
	}
	return nil
}

func (f *fakeContests) ReplaceAll(_ context.Context, contests []league.Contest) error {
	f.rows = make(map[string]league.Contest, len(contests))
	for _, c := range contests {
		f.rows[c.ID] = c
	}
	return nil
}

func (f *fakeContests) SelectWindow(_ context.Context, season string, cutoff core.Day) ([]league.Contest, error) {
	var out []league.Contest
	for _, c := range f.rows {
		if c.SeasonTag() == season && !c.Date.After(cutoff) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeContests) SelectSeason(_ context.Context, season string) ([]league.Contest, error) {
	var out []league.Contest
	for _, c := range f.rows {
		if c.SeasonTag() == season {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeContests) LatestDate(_ context.Context) (core.Day, error) {
	var latest core.Day
	for _, c := range f.rows {
		if c.Date.After(latest) {
			latest = c.Date
		}
	}
	return latest, nil
}

// fakePredictions is an in-memory PredictionRepository.
type fakePredictions struct {
	rows map[string]ports.CachedPrediction
}

func newFakePredictions() *fakePredictions {
	return &fakePredictions{rows: make(map[string]ports.CachedPrediction)}
}

func predKey(date core.Day, home, away string) string {
	return string(date) + "|" + home + "|" + away
}

func (f *fakePredictions) Get(_ context.Context, date core.Day, home, away string) (*ports.CachedPrediction, error) {
	p, ok := f.rows[predKey(date, home, away)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakePredictions) ReplaceForDates(_ context.Context, dates []core.Day, entries []ports.CachedPrediction) error {
	for key, p := range f.rows {
		for _, d := range dates {
			if p.Date == d {
				delete(f.rows, key)
			}
		}
	}
	for _, e := range entries {
		f.rows[predKey(e.Date, e.HomeTeam, e.AwayTeam)] = e
	}
	return nil
}

// fakeParams is an in-memory ParameterRepository.
type fakeParams struct {
	stored []posterior.TeamParameter
}

func (f *fakeParams) ReplaceAll(_ context.Context, params []posterior.TeamParameter) error {
	f.stored = append([]posterior.TeamParameter(nil), params...)
	return nil
}

func (f *fakeParams) ListAll(_ context.Context) ([]posterior.TeamParameter, error) {
	return append([]posterior.TeamParameter(nil), f.stored...), nil
}

// fakeStandings serves a fixed league table.
type fakeStandings struct {
	rows []league.StandingsRow
	err  error
}

func (f *fakeStandings) Standings(context.Context) ([]league.StandingsRow, error) {
	return f.rows, f.err
}

func (f *fakeStandings) StandingsAt(context.Context, core.Day) ([]league.StandingsRow, error) {
	return f.rows, f.err
}

// fakeSchedule serves fixtures from a per-date map.
type fakeSchedule struct {
	byDay map[core.Day][]league.ScheduledGame
}

func (f *fakeSchedule) Games(_ context.Context, day core.Day) ([]league.ScheduledGame, error) {
	return f.byDay[day], nil
}

func (f *fakeSchedule) GamesBetween(_ context.Context, from, to core.Day) ([]league.ScheduledGame, error) {
	var out []league.ScheduledGame
	for d := from; !d.After(to); d = d.AddDays(1) {
		out = append(out, f.byDay[d]...)
	}
	return out, nil
}

// fakeResults serves completed games from a per-date map. Fetches may run
// concurrently, so the call counter is guarded.
type fakeResults struct {
	byDay map[core.Day][]league.Contest

	mu    sync.Mutex
	calls int
}

func (f *fakeResults) CompletedGames(_ context.Context, day core.Day) ([]league.Contest, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.byDay[day], nil
}

// countingEngine counts FitPredict invocations around a real engine.
type countingEngine struct {
	inner ports.Engine
	calls int
}

func (e *countingEngine) FitPredict(ctx context.Context, req ports.FitRequest) (*ports.FitResult, error) {
	e.calls++
	return e.inner.FitPredict(ctx, req)
}
