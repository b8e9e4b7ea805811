package app

import (
	"context"
	"fmt"

	"puckcast/domain/core"
	"puckcast/domain/league"
	"puckcast/ports"
)

// AssembleWindow builds the completed-contest training set for a season up to
// a cutoff date, resolved against the registry snapshot taken for this run.
// Contests whose season tag or date fall outside the window are dropped even
// if the store hands them back; output is ordered by contest id ascending.
// Returns core.ErrDataUnavailable when the window is empty.
func AssembleWindow(ctx context.Context, contests ports.ContestRepository, snap league.Snapshot, season string, cutoff core.Day) (*league.TrainingWindow, error) {
	rows, err := contests.SelectWindow(ctx, season, cutoff)
	if err != nil {
		return nil, fmt.Errorf("assembling training window: %w", err)
	}

	w := &league.TrainingWindow{Season: season, Cutoff: cutoff, Snapshot: snap}
	for _, c := range rows {
		if c.SeasonTag() != season || c.Date.After(cutoff) {
			continue
		}
		// Left-join semantics: an abbreviation absent from the snapshot
		// resolves to id 0 and is rejected before the engine is invoked.
		homeID, _ := snap.ID(c.HomeTeam)
		awayID, _ := snap.ID(c.AwayTeam)
		w.Contests = append(w.Contests, c)
		w.HomeIDs = append(w.HomeIDs, homeID)
		w.AwayIDs = append(w.AwayIDs, awayID)
	}
	if len(w.Contests) == 0 {
		return nil, core.NewDataUnavailableError(season, cutoff)
	}
	w.SortByID()
	return w, nil
}

// fitRequest packages a training window plus queried matchups into the
// engine's fixed-schema request. Unresolved team ids in the window are
// rejected here, never handed to the engine.
func fitRequest(w *league.TrainingWindow, queries [][2]int, draws int) (ports.FitRequest, error) {
	req := ports.FitRequest{
		NGames:    len(w.Contests),
		NTeams:    w.Snapshot.Size(),
		HomeIDs:   w.HomeIDs,
		AwayIDs:   w.AwayIDs,
		HomeGoals: make([]int, len(w.Contests)),
		AwayGoals: make([]int, len(w.Contests)),
		NQueries:  len(queries),
		Draws:     draws,
	}
	for i, c := range w.Contests {
		if w.HomeIDs[i] == 0 {
			return ports.FitRequest{}, fmt.Errorf("contest %s: %w", c.ID, core.NewTeamNotFoundError(c.HomeTeam))
		}
		if w.AwayIDs[i] == 0 {
			return ports.FitRequest{}, fmt.Errorf("contest %s: %w", c.ID, core.NewTeamNotFoundError(c.AwayTeam))
		}
		req.HomeGoals[i] = c.HomeGoals
		req.AwayGoals[i] = c.AwayGoals
	}
	for _, q := range queries {
		req.QueryHomeIDs = append(req.QueryHomeIDs, q[0])
		req.QueryAwayIDs = append(req.QueryAwayIDs, q[1])
	}
	return req, nil
}
