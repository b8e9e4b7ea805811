package app

import (
	"context"
	"fmt"

	"puckcast/domain/core"
	"puckcast/domain/league"
	"puckcast/internal"
	"puckcast/ports"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// IngestService maintains the append-only completed-contests table from the
// results feed. Rebuild rewrites the table from a start date; Update appends
// everything after the stored high-water mark.
type IngestService struct {
	results     ports.ResultsFeed
	contests    ports.ContestRepository
	concurrency int
	log         *internal.Logger
}

// NewIngestService creates the store build/update service.
func NewIngestService(results ports.ResultsFeed, contests ports.ContestRepository, concurrency int, log *internal.Logger) *IngestService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &IngestService{results: results, contests: contests, concurrency: concurrency, log: log}
}

// Rebuild fetches completed results for every date in [start, today) and
// rewrites the contests table. Fetches run with bounded parallelism; the
// write is a single ordered replace.
func (s *IngestService) Rebuild(ctx context.Context, start, today core.Day) (int, error) {
	runID := uuid.NewString()[:8]
	days := dayRange(start, today.AddDays(-1))
	if len(days) == 0 {
		return 0, fmt.Errorf("%w: nothing to rebuild before %s", core.ErrDataUnavailable, today)
	}
	s.log.Info("rebuild %s: fetching %d days of results", runID, len(days))

	byDay, err := s.fetchRange(ctx, days)
	if err != nil {
		return 0, err
	}
	var all []league.Contest
	for _, contests := range byDay {
		all = append(all, contests...)
	}
	if err := s.contests.ReplaceAll(ctx, all); err != nil {
		return 0, err
	}
	s.log.Info("rebuild %s: stored %d contests", runID, len(all))
	return len(all), nil
}

// Update appends results from the stored high-water mark through yesterday.
// The high-water date itself is refetched; re-inserting an id is idempotent,
// so a day that was ingested mid-slate heals here.
func (s *IngestService) Update(ctx context.Context, today core.Day) (int, error) {
	runID := uuid.NewString()[:8]
	latest, err := s.contests.LatestDate(ctx)
	if err != nil {
		return 0, err
	}
	if latest == "" {
		return 0, fmt.Errorf("%w: store is empty, run a rebuild first", core.ErrDataUnavailable)
	}
	days := dayRange(latest, today.AddDays(-1))
	if len(days) == 0 {
		s.log.Info("update %s: store already current through %s", runID, latest)
		return 0, nil
	}
	s.log.Info("update %s: fetching %d days of results from %s", runID, len(days), days[0])

	byDay, err := s.fetchRange(ctx, days)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, contests := range byDay {
		if err := s.contests.InsertBatch(ctx, contests); err != nil {
			return count, err
		}
		count += len(contests)
	}
	s.log.Info("update %s: stored %d contests", runID, count)
	return count, nil
}

// ImportContests appends externally sourced contests (spreadsheet backfill)
// after checking each row carries a season tag.
func (s *IngestService) ImportContests(ctx context.Context, contests []league.Contest) (int, error) {
	for _, c := range contests {
		if c.SeasonTag() == "" {
			return 0, fmt.Errorf("contest %q has no season tag", c.ID)
		}
	}
	if err := s.contests.InsertBatch(ctx, contests); err != nil {
		return 0, err
	}
	return len(contests), nil
}

// fetchRange pulls each day's completed games with bounded parallelism,
// preserving date order in the result.
func (s *IngestService) fetchRange(ctx context.Context, days []core.Day) ([][]league.Contest, error) {
	byDay := make([][]league.Contest, len(days))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, day := range days {
		g.Go(func() error {
			contests, err := s.results.CompletedGames(ctx, day)
			if err != nil {
				return err
			}
			byDay[i] = contests
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return byDay, nil
}

// dayRange enumerates [from, to] inclusive; empty when from is after to.
func dayRange(from, to core.Day) []core.Day {
	var out []core.Day
	for d := from; !d.After(to); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}
