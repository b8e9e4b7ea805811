package app

import (
	"context"
	"errors"
	"fmt"

	"puckcast/domain/core"
	"puckcast/domain/league"
	"puckcast/ports"
)

// TakeSnapshot fetches the current standings and freezes them into the
// registry snapshot for one pipeline run: dense ids 1..N in feed order.
// Returns the raw standings rows alongside, since the season simulation also
// needs current point totals.
func TakeSnapshot(ctx context.Context, feed ports.StandingsFeed) (league.Snapshot, []league.StandingsRow, error) {
	rows, err := feed.Standings(ctx)
	if err != nil {
		if errors.Is(err, core.ErrRosterUnavailable) {
			return league.Snapshot{}, nil, err
		}
		return league.Snapshot{}, nil, fmt.Errorf("%w: %v", core.ErrRosterUnavailable, err)
	}
	abbrevs := make([]string, len(rows))
	for i, r := range rows {
		abbrevs[i] = r.Team
	}
	return league.NewSnapshot(abbrevs), rows, nil
}
