// Package stats holds the performance-metric types shared across sources:
// qualification rankings, calculated contribution metrics, and EPA figures.
package stats

import "fmt"

// Record is a win-loss-tie tally.
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

func (r Record) String() string {
	return fmt.Sprintf("%d-%d-%d", r.Wins, r.Losses, r.Ties)
}

// Ranking is one team's qualification standing at an event.
type Ranking struct {
	TeamKey       string    `json:"teamKey"`
	Rank          int       `json:"rank"`
	Record        Record    `json:"record"`
	SortOrders    []float64 `json:"sortOrders"`
	QualAverage   float64   `json:"qualAverage"`
	MatchesPlayed int       `json:"matchesPlayed"`
	DQ            int       `json:"dq"`
}

// PowerRating holds the calculated contribution metrics for a team at an
// event: offensive power rating, defensive power rating, and calculated
// contribution to winning margin.
type PowerRating struct {
	OPR  float64 `json:"opr"`
	DPR  float64 `json:"dpr"`
	CCWM float64 `json:"ccwm"`
}

// EPA is a team's expected-points-added rating with its phase split.
type EPA struct {
	Total   float64 `json:"total"`
	Auto    float64 `json:"auto"`
	Teleop  float64 `json:"teleop"`
	Endgame float64 `json:"endgame"`
}

// Prediction is a model's pick for an unplayed match. RedWinProb is nil when
// the model offers a winner without a probability.
type Prediction struct {
	Winner     string   `json:"winner"`
	RedWinProb *float64 `json:"redWinProb,omitempty"`
	RedScore   float64  `json:"redScore"`
	BlueScore  float64  `json:"blueScore"`
}
