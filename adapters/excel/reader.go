// Package excel imports completed contests from a spreadsheet, for backfilling
// seasons the results feed no longer serves. Rows land in the same append-only
// contests table the feed ingestion writes.
package excel

import (
	"fmt"
	"strconv"
	"strings"

	"puckcast/domain/core"
	"puckcast/domain/league"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet read when none is configured.
const DefaultSheet = "Sheet1"

// Reader reads completed contests from an xlsx workbook. The first row must
// be a header naming the columns: date, id, away_team, home_team, home_goals,
// away_goals and optionally winning_team.
type Reader struct {
	filePath string
	sheet    string
}

// NewReader creates a reader for the given workbook path.
func NewReader(filePath string) *Reader {
	return &Reader{filePath: filePath, sheet: DefaultSheet}
}

// WithSheet overrides the worksheet name.
func (r *Reader) WithSheet(sheet string) *Reader {
	r.sheet = sheet
	return r
}

// Read parses the workbook into contests. Rows with a short id or an invalid
// date are rejected; goal cells left blank read as 0.
func (r *Reader) Read() ([]league.Contest, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", r.sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s has no data rows", r.sheet)
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "id", "away_team", "home_team", "home_goals", "away_goals"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("sheet %s is missing column %q", r.sheet, required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]league.Contest, 0, len(rows)-1)
	for n, row := range rows[1:] {
		id := cell(row, "id")
		if id == "" {
			continue // blank row
		}
		if len(id) < core.SeasonTagLen {
			return nil, fmt.Errorf("row %d: contest id %q is too short to carry a season tag", n+2, id)
		}
		date, err := core.ParseDay(cell(row, "date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		homeGoals, err := parseGoals(cell(row, "home_goals"))
		if err != nil {
			return nil, fmt.Errorf("row %d home_goals: %w", n+2, err)
		}
		awayGoals, err := parseGoals(cell(row, "away_goals"))
		if err != nil {
			return nil, fmt.Errorf("row %d away_goals: %w", n+2, err)
		}
		out = append(out, league.Contest{
			ID:          id,
			Date:        date,
			AwayTeam:    cell(row, "away_team"),
			HomeTeam:    cell(row, "home_team"),
			HomeGoals:   homeGoals,
			AwayGoals:   awayGoals,
			WinningTeam: cell(row, "winning_team"),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("sheet %s has no contest rows", r.sheet)
	}
	return out, nil
}

func parseGoals(s string) (int, error) {
	if s == "" {
		return 0, nil // no goals recorded reads as 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative goal count %d", n)
	}
	return n, nil
}
