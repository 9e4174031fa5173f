package match

import "fmt"

// Bracket side labels for the 8-alliance double-elimination format.
const (
	BracketUpper   = "upper"
	BracketLower   = "lower"
	BracketFinal   = "final"
	BracketUnknown = "unknown"
)

// UnknownRound sorts unknown bracket slots after every known round.
const UnknownRound = 99

type bracketSlot struct {
	round   int
	bracket string
}

// doubleElimSets maps elimination set numbers onto (round, bracket) for the
// 8-alliance double-elimination bracket in use since 2023.
var doubleElimSets = map[int]bracketSlot{
	1:  {1, BracketUpper},
	2:  {1, BracketUpper},
	3:  {1, BracketUpper},
	4:  {1, BracketUpper},
	5:  {2, BracketLower},
	6:  {2, BracketLower},
	7:  {2, BracketUpper},
	8:  {2, BracketUpper},
	9:  {3, BracketLower},
	10: {3, BracketLower},
	11: {4, BracketUpper},
	12: {4, BracketLower},
	13: {5, BracketLower},
}

// BracketSlot classifies an elimination match into its double-elimination
// round and bracket side. Finals are always round 0. Set numbers outside the
// known table degrade to (UnknownRound, BracketUnknown), never an error.
func BracketSlot(level Level, setNumber int) (int, string) {
	if level == LevelFinal {
		return 0, BracketFinal
	}
	if slot, ok := doubleElimSets[setNumber]; ok {
		return slot.round, slot.bracket
	}
	return UnknownRound, BracketUnknown
}

// RoundLabel names a bracket round for display.
func RoundLabel(round int) string {
	switch round {
	case 0:
		return "Grand Final"
	case 1, 2, 3, 4, 5:
		return fmt.Sprintf("Round %d", round)
	default:
		return "Unknown Round"
	}
}
