package nhl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"puckcast/domain/core"
	"puckcast/domain/league"
)

const regularSeason = 2 // feed gameType for regular-season games

// Client talks to the league's public results, schedule and standings feeds.
// It implements ports.ResultsFeed, ports.ScheduleFeed and ports.StandingsFeed.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a feed client. timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type teamRef struct {
	Abbrev string `json:"abbrev"`
	Score  int    `json:"score"`
}

type goalEvent struct {
	Period    int `json:"period"`
	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`
}

type scoreGame struct {
	ID       int64       `json:"id"`
	Season   int64       `json:"season"`
	GameType int         `json:"gameType"`
	HomeTeam teamRef     `json:"homeTeam"`
	AwayTeam teamRef     `json:"awayTeam"`
	Goals    []goalEvent `json:"goals"`
}

type scoreResponse struct {
	Games []scoreGame `json:"games"`
}

// CompletedGames returns the finished regular-season games for a date with
// regulation-time goal counts. A game with no goal events counts as 0-0.
func (c *Client) CompletedGames(ctx context.Context, day core.Day) ([]league.Contest, error) {
	var resp scoreResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/score/%s", day), &resp); err != nil {
		return nil, fmt.Errorf("%w: results for %s: %v", core.ErrFeedUnavailable, day, err)
	}

	out := make([]league.Contest, 0, len(resp.Games))
	for _, g := range resp.Games {
		if g.GameType != regularSeason || g.Goals == nil {
			continue
		}
		contest := league.Contest{
			ID:       strconv.FormatInt(g.ID, 10),
			Date:     day,
			HomeTeam: g.HomeTeam.Abbrev,
			AwayTeam: g.AwayTeam.Abbrev,
		}
		// Regulation score is the running score at the last goal inside
		// periods 1-3; overtime and shootout goals are excluded.
		for _, goal := range g.Goals {
			if goal.Period <= 3 {
				contest.HomeGoals = goal.HomeScore
				contest.AwayGoals = goal.AwayScore
			}
		}
		switch {
		case g.HomeTeam.Score > g.AwayTeam.Score:
			contest.WinningTeam = g.HomeTeam.Abbrev
		case g.AwayTeam.Score > g.HomeTeam.Score:
			contest.WinningTeam = g.AwayTeam.Abbrev
		}
		out = append(out, contest)
	}
	return out, nil
}

type scheduleGame struct {
	ID       int64   `json:"id"`
	Season   int64   `json:"season"`
	GameType int     `json:"gameType"`
	HomeTeam teamRef `json:"homeTeam"`
	AwayTeam teamRef `json:"awayTeam"`
}

type scheduleResponse struct {
	GameWeek []struct {
		Date  string         `json:"date"`
		Games []scheduleGame `json:"games"`
	} `json:"gameWeek"`
}

// Games returns the regular-season slate scheduled for a single date.
func (c *Client) Games(ctx context.Context, day core.Day) ([]league.ScheduledGame, error) {
	var resp scheduleResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/schedule/%s", day), &resp); err != nil {
		return nil, fmt.Errorf("%w: schedule for %s: %v", core.ErrFeedUnavailable, day, err)
	}
	for _, week := range resp.GameWeek {
		if core.Day(week.Date) == day {
			return convertScheduled(week.Games, day), nil
		}
	}
	return nil, nil
}

// GamesBetween walks the schedule feed week by week and returns all
// regular-season fixtures in [from, to], in date order.
func (c *Client) GamesBetween(ctx context.Context, from, to core.Day) ([]league.ScheduledGame, error) {
	var out []league.ScheduledGame
	cursor := from
	for !cursor.After(to) {
		var resp scheduleResponse
		if err := c.getJSON(ctx, fmt.Sprintf("/v1/schedule/%s", cursor), &resp); err != nil {
			return nil, fmt.Errorf("%w: schedule for %s: %v", core.ErrFeedUnavailable, cursor, err)
		}
		if len(resp.GameWeek) == 0 {
			break
		}
		next := cursor
		for _, week := range resp.GameWeek {
			day := core.Day(week.Date)
			if day.After(next) {
				next = day
			}
			if day.Before(from) || day.After(to) {
				continue
			}
			out = append(out, convertScheduled(week.Games, day)...)
		}
		// The feed serves one week per request; step past the last day seen.
		cursor = next.AddDays(1)
	}
	return out, nil
}

func convertScheduled(games []scheduleGame, day core.Day) []league.ScheduledGame {
	out := make([]league.ScheduledGame, 0, len(games))
	for _, g := range games {
		if g.GameType != 0 && g.GameType != regularSeason {
			continue
		}
		season := strconv.FormatInt(g.Season, 10)
		if len(season) > core.SeasonTagLen {
			season = season[:core.SeasonTagLen]
		}
		out = append(out, league.ScheduledGame{
			ID:       strconv.FormatInt(g.ID, 10),
			Date:     day,
			HomeTeam: g.HomeTeam.Abbrev,
			AwayTeam: g.AwayTeam.Abbrev,
			Season:   season,
		})
	}
	return out
}

type standingsResponse struct {
	Standings []struct {
		TeamAbbrev struct {
			Default string `json:"default"`
		} `json:"teamAbbrev"`
		Wins     int `json:"wins"`
		Losses   int `json:"losses"`
		OTLosses int `json:"otLosses"`
		Points   int `json:"points"`
	} `json:"standings"`
}

// Standings returns the league table as of now, in feed order. Registry ids
// are assigned from this order.
func (c *Client) Standings(ctx context.Context) ([]league.StandingsRow, error) {
	return c.standings(ctx, "now")
}

// StandingsAt returns the league table as of a given date.
func (c *Client) StandingsAt(ctx context.Context, day core.Day) ([]league.StandingsRow, error) {
	return c.standings(ctx, string(day))
}

func (c *Client) standings(ctx context.Context, asOf string) ([]league.StandingsRow, error) {
	var resp standingsResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/standings/%s", asOf), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrRosterUnavailable, err)
	}
	out := make([]league.StandingsRow, 0, len(resp.Standings))
	for _, row := range resp.Standings {
		out = append(out, league.StandingsRow{
			Team:     row.TeamAbbrev.Default,
			Wins:     row.Wins,
			Losses:   row.Losses,
			OTLosses: row.OTLosses,
			Points:   row.Points,
		})
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
