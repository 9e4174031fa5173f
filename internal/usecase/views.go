package usecase

import (
	"math"
	"strconv"

	"github.com/kleium/casters-tool/internal/domain/stats"
)

// Rank is a qualification rank that renders as "-" while a team is
// unranked. Zero means unranked and sorts last.
type Rank int

const rankUnrankedSort = 999

func (r Rank) MarshalJSON() ([]byte, error) {
	if r <= 0 {
		return []byte(`"-"`), nil
	}
	return []byte(strconv.Itoa(int(r))), nil
}

// sortValue places unranked teams after every ranked one.
func (r Rank) sortValue() int {
	if r <= 0 {
		return rankUnrankedSort
	}
	return int(r)
}

// TeamStatLine is the per-team enrichment block shared by event rosters,
// match views, and alliance cards. Missing optional sources leave zero
// values: rank "-", 0-0-0 record, zero ratings.
type TeamStatLine struct {
	TeamKey     string  `json:"team_key"`
	TeamNumber  int     `json:"team_number"`
	Nickname    string  `json:"nickname"`
	SchoolName  string  `json:"school_name,omitempty"`
	City        string  `json:"city,omitempty"`
	StateProv   string  `json:"state_prov,omitempty"`
	Country     string  `json:"country,omitempty"`
	Rank        Rank    `json:"rank"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Ties        int     `json:"ties"`
	QualAverage float64 `json:"qual_average"`
	OPR         float64 `json:"opr"`
	DPR         float64 `json:"dpr"`
	CCWM        float64 `json:"ccwm"`
	EPA         float64 `json:"epa,omitempty"`
}

// epaOrZero reads the total EPA for a team key from an optional map.
func epaOrZero(epas map[string]stats.EPA, teamKey string) float64 {
	if epas == nil {
		return 0
	}
	return round2(epas[teamKey].Total)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
