// Package alliance models playoff alliance selections at an event.
package alliance

// Playoff outcomes as reported by the results source.
const (
	StatusWon        = "won"
	StatusEliminated = "eliminated"
)

// Status is an alliance's playoff result at its event.
type Status struct {
	Level  string `json:"level"`
	Status string `json:"status"`
}

// Selection is one playoff alliance: the captain and its picks in draft
// order, plus any backup pulled in during the bracket.
type Selection struct {
	Name   string   `json:"name"`
	Picks  []string `json:"picks"`
	Backup string   `json:"backup,omitempty"`
	Status *Status  `json:"status,omitempty"`
}

// Captain returns the alliance captain's team key, or "" for an empty
// selection.
func (s Selection) Captain() string {
	if len(s.Picks) == 0 {
		return ""
	}
	return s.Picks[0]
}

// Has reports whether the team was part of the alliance, picks or backup.
func (s Selection) Has(teamKey string) bool {
	if teamKey == "" {
		return false
	}
	if s.Backup == teamKey {
		return true
	}
	for _, k := range s.Picks {
		if k == teamKey {
			return true
		}
	}
	return false
}

// Won reports whether the alliance won its event.
func (s Selection) Won() bool {
	return s.Status != nil && s.Status.Status == StatusWon
}

// IsFinalist reports whether the alliance lost in the final round.
func (s Selection) IsFinalist() bool {
	return s.Status != nil && s.Status.Status == StatusEliminated && s.Status.Level == "f"
}
