package match

import "testing"

func TestSortOrdersQualsBeforeEliminations(t *testing.T) {
	t.Parallel()

	in := []Match{
		{Key: "2025nyro_f1m1", CompLevel: LevelFinal, SetNumber: 1, MatchNumber: 1},
		{Key: "2025nyro_qm12", CompLevel: LevelQual, MatchNumber: 12},
		{Key: "2025nyro_sf3m1", CompLevel: LevelSemi, SetNumber: 3, MatchNumber: 1},
		{Key: "2025nyro_qm2", CompLevel: LevelQual, MatchNumber: 2},
		{Key: "2025nyro_sf1m1", CompLevel: LevelSemi, SetNumber: 1, MatchNumber: 1},
	}
	Sort(in)

	want := []string{
		"2025nyro_qm2",
		"2025nyro_qm12",
		"2025nyro_sf1m1",
		"2025nyro_sf3m1",
		"2025nyro_f1m1",
	}
	for i, key := range want {
		if in[i].Key != key {
			t.Fatalf("position %d: got %s, want %s", i, in[i].Key, key)
		}
	}
}

func TestSideOf(t *testing.T) {
	t.Parallel()

	m := Match{
		Red:  AllianceScore{TeamKeys: []string{"frc254", "frc1678", "frc973"}},
		Blue: AllianceScore{TeamKeys: []string{"frc118", "frc1323", "frc2056"}},
	}
	if got := m.SideOf("frc1678"); got != SideRed {
		t.Fatalf("SideOf(frc1678) = %q, want red", got)
	}
	if got := m.SideOf("frc2056"); got != SideBlue {
		t.Fatalf("SideOf(frc2056) = %q, want blue", got)
	}
	if got := m.SideOf("frc9999"); got != "" {
		t.Fatalf("SideOf(frc9999) = %q, want empty", got)
	}
}

func TestBracketSlot(t *testing.T) {
	t.Parallel()

	cases := []struct {
		level   Level
		set     int
		round   int
		bracket string
	}{
		{LevelSemi, 1, 1, BracketUpper},
		{LevelSemi, 5, 2, BracketLower},
		{LevelSemi, 8, 2, BracketUpper},
		{LevelSemi, 10, 3, BracketLower},
		{LevelSemi, 11, 4, BracketUpper},
		{LevelSemi, 12, 4, BracketLower},
		{LevelSemi, 13, 5, BracketLower},
		{LevelFinal, 1, 0, BracketFinal},
		{LevelSemi, 40, UnknownRound, BracketUnknown},
	}
	for _, tc := range cases {
		round, bracket := BracketSlot(tc.level, tc.set)
		if round != tc.round || bracket != tc.bracket {
			t.Fatalf("BracketSlot(%s, %d) = (%d, %s), want (%d, %s)",
				tc.level, tc.set, round, bracket, tc.round, tc.bracket)
		}
	}
}

func TestRoundLabel(t *testing.T) {
	t.Parallel()

	if got := RoundLabel(0); got != "Grand Final" {
		t.Fatalf("RoundLabel(0) = %q", got)
	}
	if got := RoundLabel(3); got != "Round 3" {
		t.Fatalf("RoundLabel(3) = %q", got)
	}
	if got := RoundLabel(UnknownRound); got != "Unknown Round" {
		t.Fatalf("RoundLabel(99) = %q", got)
	}
}
