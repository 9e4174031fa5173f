// Package history models prior playoff relationships between pairs of teams.
package history

// Playoff results carried on a partnership entry.
const (
	ResultWinner   = "winner"
	ResultFinalist = "finalist"
)

// StageRef records one shared event and the highest playoff stage the pair
// reached there, either together or against each other. Result is set only
// for partnerships where the alliance won or lost the final.
type StageRef struct {
	EventKey  string `json:"eventKey"`
	EventName string `json:"eventName"`
	Year      int    `json:"year"`
	Stage     string `json:"stage"`
	Result    string `json:"result,omitempty"`
}

// Connection is the full playoff history between two teams: every prior
// event where they shared an alliance and every prior event where they met
// in an elimination match.
type Connection struct {
	TeamA       int        `json:"teamA"`
	TeamAName   string     `json:"teamAName"`
	TeamB       int        `json:"teamB"`
	TeamBName   string     `json:"teamBName"`
	PartneredAt []StageRef `json:"partneredAt"`
	OpponentsAt []StageRef `json:"opponentsAt"`
}

// Total is the connection count used to order pairs, strongest ties first.
func (c Connection) Total() int {
	return len(c.PartneredAt) + len(c.OpponentsAt)
}
