package store

import (
	"context"
	"testing"

	"puckcast/domain/core"
	"puckcast/domain/league"
	"puckcast/domain/posterior"
	"puckcast/ports"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, NewMigrator().Run(context.Background(), db))
	return db
}

func TestContestRepositoryUpsert(t *testing.T) {
	db := testDB(t)
	repo := NewContestRepository(db)
	ctx := context.Background()

	first := league.Contest{
		ID: "2024020001", Date: "2024-10-10",
		AwayTeam: "TOR", HomeTeam: "BOS", HomeGoals: 2, AwayGoals: 2,
	}
	require.NoError(t, repo.InsertBatch(ctx, []league.Contest{first}))

	// Re-inserting the id replaces the row, this is how a mid-slate ingest heals.
	first.HomeGoals, first.AwayGoals, first.WinningTeam = 4, 2, "BOS"
	require.NoError(t, repo.InsertBatch(ctx, []league.Contest{first}))

	rows, err := repo.SelectSeason(ctx, "2024")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 4, rows[0].HomeGoals)
	require.Equal(t, "BOS", rows[0].WinningTeam)
}

func TestContestRepositorySelectWindow(t *testing.T) {
	db := testDB(t)
	repo := NewContestRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.InsertBatch(ctx, []league.Contest{
		{ID: "2024020200", Date: "2024-11-01", AwayTeam: "BOS", HomeTeam: "TOR", HomeGoals: 2, AwayGoals: 3},
		{ID: "2024020100", Date: "2024-10-15", AwayTeam: "MTL", HomeTeam: "BOS", HomeGoals: 4, AwayGoals: 1},
		{ID: "2024020900", Date: "2025-01-10", AwayTeam: "TOR", HomeTeam: "MTL", HomeGoals: 1, AwayGoals: 2},
		{ID: "2023020100", Date: "2023-10-15", AwayTeam: "TOR", HomeTeam: "BOS", HomeGoals: 3, AwayGoals: 3},
	}))

	rows, err := repo.SelectWindow(ctx, "2024", "2024-12-31")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Ordered by contest id ascending, other seasons and later dates excluded.
	require.Equal(t, "2024020100", rows[0].ID)
	require.Equal(t, "2024020200", rows[1].ID)
}

func TestContestRepositoryReplaceAllAndLatestDate(t *testing.T) {
	db := testDB(t)
	repo := NewContestRepository(db)
	ctx := context.Background()

	latest, err := repo.LatestDate(ctx)
	require.NoError(t, err)
	require.Equal(t, core.Day(""), latest)

	require.NoError(t, repo.InsertBatch(ctx, []league.Contest{
		{ID: "2023020001", Date: "2023-10-10", AwayTeam: "TOR", HomeTeam: "BOS"},
	}))
	require.NoError(t, repo.ReplaceAll(ctx, []league.Contest{
		{ID: "2024020001", Date: "2024-10-10", AwayTeam: "TOR", HomeTeam: "BOS"},
		{ID: "2024020002", Date: "2024-10-12", AwayTeam: "MTL", HomeTeam: "TOR"},
	}))

	old, err := repo.SelectSeason(ctx, "2023")
	require.NoError(t, err)
	require.Empty(t, old, "replace must drop prior contents")

	latest, err = repo.LatestDate(ctx)
	require.NoError(t, err)
	require.Equal(t, core.Day("2024-10-12"), latest)
}

func TestPredictionRepositoryRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewPredictionRepository(db)
	ctx := context.Background()

	miss, err := repo.Get(ctx, "2024-10-20", "BOS", "MTL")
	require.NoError(t, err)
	require.Nil(t, miss, "a cache miss is not an error")

	entry := ports.CachedPrediction{
		Date: "2024-10-20", GameID: "2024020050", HomeTeam: "BOS", AwayTeam: "MTL",
		Table: posterior.OutcomeTable{
			{HomeGoals: 2, AwayGoals: 1, Count: 60, Percent: 60},
			{HomeGoals: 1, AwayGoals: 3, Count: 40, Percent: 40},
		},
		HomeWinProb: 0.62,
	}
	require.NoError(t, repo.ReplaceForDates(ctx, []core.Day{"2024-10-20"}, []ports.CachedPrediction{entry}))

	got, err := repo.Get(ctx, "2024-10-20", "BOS", "MTL")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, entry, *got)
}

func TestPredictionRepositoryReplaceClearsDates(t *testing.T) {
	db := testDB(t)
	repo := NewPredictionRepository(db)
	ctx := context.Background()

	seed := []ports.CachedPrediction{
		{Date: "2024-10-20", HomeTeam: "BOS", AwayTeam: "MTL", Table: posterior.OutcomeTable{}, HomeWinProb: 0.6},
		{Date: "2024-10-21", HomeTeam: "TOR", AwayTeam: "BOS", Table: posterior.OutcomeTable{}, HomeWinProb: 0.4},
	}
	require.NoError(t, repo.ReplaceForDates(ctx, []core.Day{"2024-10-20", "2024-10-21"}, seed))

	// Replacing both dates with a single fresh entry clears the other slate.
	fresh := []ports.CachedPrediction{
		{Date: "2024-10-21", HomeTeam: "TOR", AwayTeam: "BOS", Table: posterior.OutcomeTable{}, HomeWinProb: 0.45},
	}
	require.NoError(t, repo.ReplaceForDates(ctx, []core.Day{"2024-10-20", "2024-10-21"}, fresh))

	gone, err := repo.Get(ctx, "2024-10-20", "BOS", "MTL")
	require.NoError(t, err)
	require.Nil(t, gone)

	kept, err := repo.Get(ctx, "2024-10-21", "TOR", "BOS")
	require.NoError(t, err)
	require.NotNil(t, kept)
	require.Equal(t, 0.45, kept.HomeWinProb)
}

func TestParameterRepositoryReplaceAndList(t *testing.T) {
	db := testDB(t)
	repo := NewParameterRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []posterior.TeamParameter{
		{Team: "TOR", TeamID: 2, Kind: posterior.KindAttack, P5: -0.2, P50: 0.1, P95: 0.4},
		{Team: "BOS", TeamID: 1, Kind: posterior.KindDefense, P5: -0.5, P50: -0.2, P95: 0.1},
		{Team: "BOS", TeamID: 1, Kind: posterior.KindAttack, P5: -0.1, P50: 0.2, P95: 0.5},
	}))

	params, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, params, 3)
	// Sorted by team then kind.
	require.Equal(t, "BOS", params[0].Team)
	require.Equal(t, posterior.KindAttack, params[0].Kind)
	require.Equal(t, posterior.KindDefense, params[1].Kind)
	require.Equal(t, "TOR", params[2].Team)

	// A second replace swaps the whole table.
	require.NoError(t, repo.ReplaceAll(ctx, []posterior.TeamParameter{
		{Team: "MTL", TeamID: 3, Kind: posterior.KindAttack, P50: 0.05},
	}))
	params, err = repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, params, 1)
	require.Equal(t, "MTL", params[0].Team)
}
