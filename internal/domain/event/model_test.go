package event

import (
	"errors"
	"testing"
)

func TestSplitKey(t *testing.T) {
	t.Parallel()

	year, code, err := SplitKey("2024casj")
	if err != nil {
		t.Fatalf("SplitKey error: %v", err)
	}
	if year != 2024 || code != "casj" {
		t.Fatalf("unexpected split: year=%d code=%q", year, code)
	}

	for _, key := range []string{"", "casj", "24sj", "abcdcasj"} {
		if _, _, err := SplitKey(key); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("SplitKey(%q): expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestTypeIsOfficial(t *testing.T) {
	t.Parallel()

	official := []Type{TypeRegional, TypeDistrict, TypeDistrictChampionship, TypeChampionshipDivision, TypeChampionshipFinal, TypeFestivalOfChampions}
	for _, typ := range official {
		if !typ.IsOfficial() {
			t.Fatalf("type %d should be official", typ)
		}
	}
	for _, typ := range []Type{TypeOffseason, TypePreseason, TypeUnknown} {
		if typ.IsOfficial() {
			t.Fatalf("type %d should not be official", typ)
		}
	}
}

func TestTypeRankOrdersChampionshipLast(t *testing.T) {
	t.Parallel()

	if TypeRegional.Rank() >= TypeDistrictChampionship.Rank() {
		t.Fatal("regional should rank below district championship")
	}
	if TypeChampionshipDivision.Rank() >= TypeChampionshipFinal.Rank() {
		t.Fatal("division should rank below Einstein")
	}
	if TypeOffseason.Rank() != 0 {
		t.Fatalf("offseason rank should be 0, got %d", TypeOffseason.Rank())
	}
}
