package match

import "sort"

// Level is a match's competition level.
type Level string

const (
	LevelQual    Level = "qm"
	LevelEighth  Level = "ef"
	LevelQuarter Level = "qf"
	LevelSemi    Level = "sf"
	LevelFinal   Level = "f"
)

// Rank is the fixed total order over competition levels: qualification sorts
// before every elimination level.
func (l Level) Rank() int {
	switch l {
	case LevelQual:
		return 0
	case LevelEighth:
		return 1
	case LevelQuarter:
		return 2
	case LevelSemi:
		return 3
	case LevelFinal:
		return 4
	default:
		return 9
	}
}

func (l Level) Label() string {
	switch l {
	case LevelQual:
		return "Qualification"
	case LevelEighth:
		return "Round 1"
	case LevelQuarter:
		return "Round 2"
	case LevelSemi:
		return "Semifinal"
	case LevelFinal:
		return "Final"
	default:
		return string(l)
	}
}

// IsElimination reports whether the level is part of the playoff bracket.
func (l Level) IsElimination() bool {
	return l != LevelQual && l != ""
}

// Side identifies one alliance color in a match.
type Side string

const (
	SideRed  Side = "red"
	SideBlue Side = "blue"
)

// AllianceScore is one side of a match. Score is -1 before the match is played.
type AllianceScore struct {
	TeamKeys []string
	Score    int
}

func (a AllianceScore) Has(teamKey string) bool {
	for _, tk := range a.TeamKeys {
		if tk == teamKey {
			return true
		}
	}
	return false
}

// Match is an immutable snapshot of one match at an event.
type Match struct {
	Key             string
	EventKey        string
	CompLevel       Level
	SetNumber       int
	MatchNumber     int
	Red             AllianceScore
	Blue            AllianceScore
	WinningAlliance Side
	Time            int64
	Breakdown       *Breakdown
}

// SideOf returns which alliance a team played on, or "" when absent.
func (m Match) SideOf(teamKey string) Side {
	if m.Red.Has(teamKey) {
		return SideRed
	}
	if m.Blue.Has(teamKey) {
		return SideBlue
	}
	return ""
}

// Alliance returns the score record for one side.
func (m Match) Alliance(side Side) AllianceScore {
	if side == SideBlue {
		return m.Blue
	}
	return m.Red
}

// Less is the canonical display order: (level rank, set number, match number).
func (m Match) Less(other Match) bool {
	if m.CompLevel.Rank() != other.CompLevel.Rank() {
		return m.CompLevel.Rank() < other.CompLevel.Rank()
	}
	if m.SetNumber != other.SetNumber {
		return m.SetNumber < other.SetNumber
	}
	return m.MatchNumber < other.MatchNumber
}

// Sort orders matches in place by the canonical display order.
func Sort(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Less(matches[j])
	})
}
