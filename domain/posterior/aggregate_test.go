package posterior

import (
	"errors"
	"math"
	"testing"
)

// TestAggregateCountsScorelines tests that distinct score pairs are counted
// and ordered correctly
func TestAggregateCountsScorelines(t *testing.T) {
	d := Draws{
		HomeGoals:     []int{3, 2, 3, 0},
		AwayGoals:     []int{1, 2, 1, 4},
		OTHomeWinProb: []float64{0.5, 0.7, 0.5, 0.5},
	}
	table, prob, err := Aggregate(d)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("Expected 3 distinct scorelines, got %d", len(table))
	}
	// Sorted by (home, away) ascending.
	expected := []Outcome{
		{HomeGoals: 0, AwayGoals: 4, Count: 1, Percent: 25},
		{HomeGoals: 2, AwayGoals: 2, Count: 1, Percent: 25},
		{HomeGoals: 3, AwayGoals: 1, Count: 2, Percent: 50},
	}
	for i, want := range expected {
		if table[i] != want {
			t.Errorf("Row %d: expected %+v, got %+v", i, want, table[i])
		}
	}
	// Two regulation home wins plus one tie resolved home (0.7 > 0.5).
	if prob != 0.75 {
		t.Errorf("Expected home-win probability 0.75, got %f", prob)
	}
}

// TestAggregatePercentagesSumToHundred tests the table invariant
func TestAggregatePercentagesSumToHundred(t *testing.T) {
	n := 1000
	d := Draws{
		HomeGoals:     make([]int, n),
		AwayGoals:     make([]int, n),
		OTHomeWinProb: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		d.HomeGoals[i] = i % 7
		d.AwayGoals[i] = (i * 3) % 5
		d.OTHomeWinProb[i] = float64(i%100) / 100
	}
	table, prob, err := Aggregate(d)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if diff := math.Abs(table.TotalPercent() - 100); diff > 1e-9 {
		t.Errorf("Percentages sum to %f, expected 100", table.TotalPercent())
	}
	if prob < 0 || prob > 1 {
		t.Errorf("Home-win probability %f out of [0,1]", prob)
	}
}

// TestAggregateTieThreshold tests that a tied draw counts as a home win only
// when its overtime probability exceeds one half
func TestAggregateTieThreshold(t *testing.T) {
	cases := []struct {
		otProb float64
		want   float64
	}{
		{0.51, 1},
		{0.5, 0},
		{0.49, 0},
	}
	for _, tc := range cases {
		d := Draws{
			HomeGoals:     []int{2},
			AwayGoals:     []int{2},
			OTHomeWinProb: []float64{tc.otProb},
		}
		_, prob, err := Aggregate(d)
		if err != nil {
			t.Fatalf("Aggregate failed for ot=%f: %v", tc.otProb, err)
		}
		if prob != tc.want {
			t.Errorf("ot=%f: expected probability %f, got %f", tc.otProb, tc.want, prob)
		}
	}
}

// TestAggregateEmpty tests the empty draw set error
func TestAggregateEmpty(t *testing.T) {
	_, _, err := Aggregate(Draws{})
	if !errors.Is(err, ErrNoDraws) {
		t.Errorf("Expected ErrNoDraws, got %v", err)
	}
}

// TestAggregateMisaligned tests rejection of unequal sequence lengths
func TestAggregateMisaligned(t *testing.T) {
	d := Draws{
		HomeGoals:     []int{1, 2},
		AwayGoals:     []int{1},
		OTHomeWinProb: []float64{0.5, 0.5},
	}
	if _, _, err := Aggregate(d); err == nil {
		t.Error("Expected error for misaligned sequences, got nil")
	}
}

// TestDrawsValidateBounds tests goal and probability bounds
func TestDrawsValidateBounds(t *testing.T) {
	negative := Draws{HomeGoals: []int{-1}, AwayGoals: []int{0}, OTHomeWinProb: []float64{0.5}}
	if err := negative.Validate(); err == nil {
		t.Error("Expected error for negative goal count")
	}
	outOfRange := Draws{HomeGoals: []int{1}, AwayGoals: []int{0}, OTHomeWinProb: []float64{1.2}}
	if err := outOfRange.Validate(); err == nil {
		t.Error("Expected error for probability above 1")
	}
}
