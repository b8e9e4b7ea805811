package posterior

import (
	"testing"

	"puckcast/domain/league"
)

// TestSummarizeParamsJoinsAbbrevs tests the join against the registry snapshot
func TestSummarizeParamsJoinsAbbrevs(t *testing.T) {
	snap := league.NewSnapshot([]string{"BOS", "TOR"})
	rows := []ParamSummary{
		{Name: "att[1]", P5: -0.1, P50: 0.2, P95: 0.5},
		{Name: "def[1]", P5: -0.4, P50: -0.1, P95: 0.2},
		{Name: "att[2]", P5: -0.2, P50: 0.1, P95: 0.4},
		{Name: "def[2]", P5: -0.3, P50: 0.0, P95: 0.3},
	}
	params := SummarizeParams(rows, snap)
	if len(params) != 4 {
		t.Fatalf("Expected 4 parameters, got %d", len(params))
	}
	// Sorted by abbreviation then kind: BOS attack, BOS defense, TOR attack, TOR defense.
	if params[0].Team != "BOS" || params[0].Kind != KindAttack {
		t.Errorf("Expected BOS attack first, got %s %s", params[0].Team, params[0].Kind)
	}
	if params[1].Team != "BOS" || params[1].Kind != KindDefense {
		t.Errorf("Expected BOS defense second, got %s %s", params[1].Team, params[1].Kind)
	}
	if params[2].Team != "TOR" || params[2].TeamID != 2 {
		t.Errorf("Expected TOR id 2 third, got %s id %d", params[2].Team, params[2].TeamID)
	}
	if params[0].P50 != 0.2 {
		t.Errorf("Expected BOS attack median 0.2, got %f", params[0].P50)
	}
}

// TestSummarizeParamsSkipsUnparseable tests that non-team rows are dropped
func TestSummarizeParamsSkipsUnparseable(t *testing.T) {
	snap := league.NewSnapshot([]string{"BOS"})
	rows := []ParamSummary{
		{Name: "lp__", P50: -1000},
		{Name: "home_adv", P50: 0.1},
		{Name: "att[1]", P50: 0.2},
		{Name: "att[notanumber]", P50: 0.3},
	}
	params := SummarizeParams(rows, snap)
	if len(params) != 1 {
		t.Fatalf("Expected 1 parameter, got %d", len(params))
	}
	if params[0].Team != "BOS" || params[0].Kind != KindAttack {
		t.Errorf("Unexpected surviving row: %+v", params[0])
	}
}

// TestSummarizeParamsLeftJoin tests that ids outside the snapshot keep an
// empty abbreviation instead of failing
func TestSummarizeParamsLeftJoin(t *testing.T) {
	snap := league.NewSnapshot([]string{"BOS"})
	rows := []ParamSummary{{Name: "def[9]", P50: 0.4}}
	params := SummarizeParams(rows, snap)
	if len(params) != 1 {
		t.Fatalf("Expected 1 parameter, got %d", len(params))
	}
	if params[0].Team != "" || params[0].TeamID != 9 {
		t.Errorf("Expected empty abbreviation with id 9, got %q id %d", params[0].Team, params[0].TeamID)
	}
}
