package posterior

import (
	"regexp"
	"sort"
	"strconv"

	"puckcast/domain/league"
)

// ParameterKind distinguishes the two latent per-team parameters.
type ParameterKind string

const (
	KindAttack  ParameterKind = "attack"
	KindDefense ParameterKind = "defense"
)

// TeamParameter is the credible-interval summary of one latent parameter for
// one team: 5th percentile, median, 95th percentile.
type TeamParameter struct {
	Team   string        `db:"team" json:"team"`
	TeamID int           `db:"team_id" json:"team_id"`
	Kind   ParameterKind `db:"kind" json:"kind"`
	P5     float64       `db:"p5" json:"lower_5p"`
	P50    float64       `db:"p50" json:"median"`
	P95    float64       `db:"p95" json:"upper_95p"`
}

var paramLabel = regexp.MustCompile(`^(att|def)\[(\d+)\]$`)

// SummarizeParams extracts per-team attack and defense credible intervals from
// the engine's summary rows and joins team abbreviations from the registry
// snapshot the fit ran against. Rows whose label does not match att[i]/def[i]
// are skipped; a team index outside the snapshot keeps an empty abbreviation
// (left-join semantics). Output is sorted by abbreviation, then kind.
func SummarizeParams(rows []ParamSummary, snap league.Snapshot) []TeamParameter {
	out := make([]TeamParameter, 0, len(rows))
	for _, row := range rows {
		m := paramLabel.FindStringSubmatch(row.Name)
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		kind := KindAttack
		if m[1] == "def" {
			kind = KindDefense
		}
		out = append(out, TeamParameter{
			Team:   snap.Abbrev(id),
			TeamID: id,
			Kind:   kind,
			P5:     row.P5,
			P50:    row.P50,
			P95:    row.P95,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Team != out[j].Team {
			return out[i].Team < out[j].Team
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}
