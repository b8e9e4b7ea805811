package ports

import (
	"context"

	"puckcast/domain/core"
	"puckcast/domain/league"
)

// ResultsFeed provides completed regulation-time results by date.
// Games with no goals recorded come back as 0-0.
type ResultsFeed interface {
	CompletedGames(ctx context.Context, day core.Day) ([]league.Contest, error)
}

// ScheduleFeed provides scheduled regular-season fixtures.
type ScheduleFeed interface {
	// Games returns the slate for a single date.
	Games(ctx context.Context, day core.Day) ([]league.ScheduledGame, error)

	// GamesBetween returns all fixtures in [from, to], inclusive, date order.
	GamesBetween(ctx context.Context, from, to core.Day) ([]league.ScheduledGame, error)
}

// StandingsFeed provides the league table used for registry assignment and as
// the season simulation's starting point totals.
type StandingsFeed interface {
	// Standings returns the table as of now.
	Standings(ctx context.Context) ([]league.StandingsRow, error)

	// StandingsAt returns the table as of a given date.
	StandingsAt(ctx context.Context, day core.Day) ([]league.StandingsRow, error)
}
