package league

import (
	"sort"

	"puckcast/domain/core"
)

// Team is one club in a registry snapshot. IDs are dense, assigned 1..N in
// feed insertion order, and stable only within the snapshot that issued them.
type Team struct {
	Abbrev string `json:"team"`
	ID     int    `json:"id"`
}

// Snapshot is the registry taken for one pipeline run. Every id used in that
// run resolves against this snapshot and no other.
type Snapshot struct {
	teams []Team
	index map[string]int
}

// NewSnapshot builds a snapshot from abbreviations in feed order. Duplicate
// abbreviations keep their first id.
func NewSnapshot(abbrevs []string) Snapshot {
	s := Snapshot{index: make(map[string]int, len(abbrevs))}
	for _, a := range abbrevs {
		if _, ok := s.index[a]; ok {
			continue
		}
		id := len(s.teams) + 1
		s.teams = append(s.teams, Team{Abbrev: a, ID: id})
		s.index[a] = id
	}
	return s
}

// ID resolves an abbreviation to its dense id for this snapshot.
func (s Snapshot) ID(abbrev string) (int, error) {
	id, ok := s.index[abbrev]
	if !ok {
		return 0, core.NewTeamNotFoundError(abbrev)
	}
	return id, nil
}

// Abbrev resolves an id back to its abbreviation. Left-join semantics: an id
// outside 1..N yields the empty string rather than an error.
func (s Snapshot) Abbrev(id int) string {
	if id < 1 || id > len(s.teams) {
		return ""
	}
	return s.teams[id-1].Abbrev
}

// Teams returns the snapshot roster in id order.
func (s Snapshot) Teams() []Team {
	out := make([]Team, len(s.teams))
	copy(out, s.teams)
	return out
}

// Size returns the number of teams in the snapshot.
func (s Snapshot) Size() int {
	return len(s.teams)
}

// Contest is a single completed regular-season game. Goals are regulation-time
// counts; WinningTeam reflects the final result including overtime.
type Contest struct {
	ID          string   `db:"id" json:"game_id"`
	Date        core.Day `db:"date" json:"date"`
	AwayTeam    string   `db:"away_team" json:"away_team"`
	HomeTeam    string   `db:"home_team" json:"home_team"`
	HomeGoals   int      `db:"home_goals" json:"home_goals"`
	AwayGoals   int      `db:"away_goals" json:"away_goals"`
	WinningTeam string   `db:"winning_team" json:"winning_team"`
}

// SeasonTag returns the 4-digit season prefix of the contest id.
func (c Contest) SeasonTag() string {
	return core.SeasonTagOf(c.ID)
}

// TrainingWindow is the season- and date-bounded slice of completed contests
// a model fit runs on, together with the snapshot that owns its team ids.
// HomeIDs/AwayIDs are parallel to Contests; an unresolved team carries id 0
// and must be rejected before the window reaches the engine.
type TrainingWindow struct {
	Season   string
	Cutoff   core.Day
	Snapshot Snapshot
	Contests []Contest
	HomeIDs  []int
	AwayIDs  []int
}

// SortByID orders the window's contests (and their parallel id arrays) by
// contest id ascending. IDs are unique so no tie-break is needed.
func (w *TrainingWindow) SortByID() {
	idx := make([]int, len(w.Contests))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return w.Contests[idx[a]].ID < w.Contests[idx[b]].ID
	})
	contests := make([]Contest, len(idx))
	homeIDs := make([]int, len(idx))
	awayIDs := make([]int, len(idx))
	for i, j := range idx {
		contests[i] = w.Contests[j]
		homeIDs[i] = w.HomeIDs[j]
		awayIDs[i] = w.AwayIDs[j]
	}
	w.Contests, w.HomeIDs, w.AwayIDs = contests, homeIDs, awayIDs
}

// StandingsRow is one team's current record from the standings feed.
type StandingsRow struct {
	Team     string `json:"team"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	OTLosses int    `json:"ot_losses"`
	Points   int    `json:"points"`
}

// ScheduledGame is an upcoming regular-season fixture from the schedule feed.
type ScheduledGame struct {
	ID       string   `json:"game_id"`
	Date     core.Day `json:"date"`
	HomeTeam string   `json:"home_team"`
	AwayTeam string   `json:"away_team"`
	Season   string   `json:"season"`
}
