package app

import (
	"context"
	"errors"
	"testing"

	"puckcast/domain/core"
	"puckcast/domain/league"
)

// TestAssembleWindowFiltersAndSorts tests the season/cutoff filter and id ordering
func TestAssembleWindowFiltersAndSorts(t *testing.T) {
	contests := newFakeContests(
		league.Contest{ID: "2024020200", Date: "2024-11-01", HomeTeam: "TOR", AwayTeam: "BOS", HomeGoals: 2, AwayGoals: 3},
		league.Contest{ID: "2024020100", Date: "2024-10-15", HomeTeam: "BOS", AwayTeam: "MTL", HomeGoals: 4, AwayGoals: 1},
		league.Contest{ID: "2024020900", Date: "2025-01-10", HomeTeam: "MTL", AwayTeam: "TOR", HomeGoals: 1, AwayGoals: 2},
		league.Contest{ID: "2023020100", Date: "2023-10-15", HomeTeam: "BOS", AwayTeam: "TOR", HomeGoals: 3, AwayGoals: 3},
	)
	snap := league.NewSnapshot([]string{"BOS", "TOR", "MTL"})

	w, err := AssembleWindow(context.Background(), contests, snap, "2024", "2024-12-31")
	if err != nil {
		t.Fatalf("AssembleWindow failed: %v", err)
	}
	if len(w.Contests) != 2 {
		t.Fatalf("Expected 2 contests in window, got %d", len(w.Contests))
	}
	if w.Contests[0].ID != "2024020100" || w.Contests[1].ID != "2024020200" {
		t.Errorf("Window not ordered by id: %s, %s", w.Contests[0].ID, w.Contests[1].ID)
	}
	// First contest BOS(1) hosting MTL(3), second TOR(2) hosting BOS(1).
	if w.HomeIDs[0] != 1 || w.AwayIDs[0] != 3 || w.HomeIDs[1] != 2 || w.AwayIDs[1] != 1 {
		t.Errorf("Resolved ids wrong: home=%v away=%v", w.HomeIDs, w.AwayIDs)
	}
}

// TestAssembleWindowEmpty tests the typed error on an empty window
func TestAssembleWindowEmpty(t *testing.T) {
	contests := newFakeContests(
		league.Contest{ID: "2024020100", Date: "2024-10-15", HomeTeam: "BOS", AwayTeam: "MTL"},
	)
	snap := league.NewSnapshot([]string{"BOS", "MTL"})

	_, err := AssembleWindow(context.Background(), contests, snap, "2024", "2024-10-01")
	if !errors.Is(err, core.ErrDataUnavailable) {
		t.Errorf("Expected ErrDataUnavailable for empty window, got %v", err)
	}
}

// TestFitRequestRejectsUnresolvedTeams tests that an id-0 contest never
// reaches the engine
func TestFitRequestRejectsUnresolvedTeams(t *testing.T) {
	contests := newFakeContests(
		league.Contest{ID: "2024020100", Date: "2024-10-15", HomeTeam: "BOS", AwayTeam: "XXX", HomeGoals: 2, AwayGoals: 1},
	)
	// XXX is absent from the snapshot, so its id resolves to 0.
	snap := league.NewSnapshot([]string{"BOS", "TOR"})

	w, err := AssembleWindow(context.Background(), contests, snap, "2024", "2024-12-31")
	if err != nil {
		t.Fatalf("AssembleWindow failed: %v", err)
	}
	_, err = fitRequest(w, [][2]int{{1, 2}}, 100)
	if !errors.Is(err, core.ErrTeamNotFound) {
		t.Errorf("Expected ErrTeamNotFound, got %v", err)
	}
}

// TestFitRequestShape tests the packaged request arrays
func TestFitRequestShape(t *testing.T) {
	contests := newFakeContests(
		league.Contest{ID: "2024020100", Date: "2024-10-15", HomeTeam: "BOS", AwayTeam: "TOR", HomeGoals: 4, AwayGoals: 2},
		league.Contest{ID: "2024020101", Date: "2024-10-16", HomeTeam: "TOR", AwayTeam: "BOS", HomeGoals: 1, AwayGoals: 3},
	)
	snap := league.NewSnapshot([]string{"BOS", "TOR"})

	w, err := AssembleWindow(context.Background(), contests, snap, "2024", "2024-12-31")
	if err != nil {
		t.Fatalf("AssembleWindow failed: %v", err)
	}
	req, err := fitRequest(w, [][2]int{{1, 2}, {2, 1}}, 250)
	if err != nil {
		t.Fatalf("fitRequest failed: %v", err)
	}
	if req.NGames != 2 || req.NTeams != 2 || req.NQueries != 2 || req.Draws != 250 {
		t.Errorf("Request dimensions wrong: %+v", req)
	}
	if req.HomeGoals[0] != 4 || req.AwayGoals[0] != 2 || req.HomeGoals[1] != 1 || req.AwayGoals[1] != 3 {
		t.Errorf("Goal arrays wrong: home=%v away=%v", req.HomeGoals, req.AwayGoals)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("Packaged request failed validation: %v", err)
	}
}
