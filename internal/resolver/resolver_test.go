package resolver

import (
	"testing"

	"github.com/kleium/casters-tool/internal/domain/event"
)

func TestAliasFamilySymmetry(t *testing.T) {
	t.Parallel()

	// Every code in a family must resolve to the same family.
	for canonical, codes := range eventCodeAliases {
		want, ok := AliasFamily(canonical)
		if !ok {
			t.Fatalf("canonical code %q not in alias table", canonical)
		}
		for _, code := range codes {
			got, ok := AliasFamily(code)
			if !ok {
				t.Fatalf("alias %q of %q not curated", code, canonical)
			}
			if len(got) != len(want) {
				t.Fatalf("alias %q family size %d, want %d", code, len(got), len(want))
			}
			for member := range want {
				if !got[member] {
					t.Fatalf("alias %q family missing %q", code, member)
				}
			}
		}
	}
}

func TestAliasFamilyUncuratedCode(t *testing.T) {
	t.Parallel()

	family, curated := AliasFamily("tuis3")
	if curated {
		t.Fatal("tuis3 should not be curated")
	}
	if len(family) != 1 || !family["tuis3"] {
		t.Fatalf("uncurated code should form a single-member family, got %v", family)
	}
}

func TestEventRegionDistrictWins(t *testing.T) {
	t.Parallel()

	ev := event.Event{
		Country:   "USA",
		StateProv: "MI",
		District:  &event.District{Abbreviation: "fim", DisplayName: "FIRST in Michigan"},
	}
	if got := EventRegion(ev); got != "FIRST in Michigan" {
		t.Fatalf("EventRegion = %q, want district display name", got)
	}
}

func TestEventRegionCountryLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		country string
		want    string
	}{
		{"Turkey", "Türkiye"},
		{"Israel", "FIRST Israel"},
		{"Canada", "Canada"},
		{"Wakanda", "Wakanda"}, // unknown countries pass through
	}
	for _, tc := range cases {
		ev := event.Event{Country: tc.country}
		if got := EventRegion(ev); got != tc.want {
			t.Fatalf("EventRegion(country=%q) = %q, want %q", tc.country, got, tc.want)
		}
	}
}

func TestEventRegionUSStates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		state string
		want  string
	}{
		{"CA", "Pacific"},
		{"TX", "FIRST In Texas"}, // merged into the district entry
		{"OH", "Midwest"},
		{"PR", RegionDefault}, // not in any state grouping
	}
	for _, tc := range cases {
		ev := event.Event{Country: "USA", StateProv: tc.state}
		if got := EventRegion(ev); got != tc.want {
			t.Fatalf("EventRegion(state=%q) = %q, want %q", tc.state, got, tc.want)
		}
	}
}

func TestTeamRegion(t *testing.T) {
	t.Parallel()

	if got := TeamRegion("Israel", ""); got != "FIRST Israel" {
		t.Fatalf("TeamRegion(Israel) = %q", got)
	}
	if got := TeamRegion("USA", "NH"); got != "New England" {
		t.Fatalf("TeamRegion(USA/NH) = %q", got)
	}
	if got := TeamRegion("", ""); got != RegionDefault {
		t.Fatalf("TeamRegion(empty) = %q", got)
	}
}
