package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kleium/casters-tool/internal/domain/award"
	"github.com/kleium/casters-tool/internal/domain/event"
	"github.com/kleium/casters-tool/internal/domain/region"
	"github.com/kleium/casters-tool/internal/domain/team"
)

type stubFactsStore struct {
	facts map[string]region.Facts
}

func (s *stubFactsStore) Facts(name string) (region.Facts, bool) {
	f, ok := s.facts[name]
	return f, ok
}

func (s *stubFactsStore) Regions() []string {
	out := make([]string, 0, len(s.facts))
	for name := range s.facts {
		out = append(out, name)
	}
	return out
}

func TestRegionService_Facts(t *testing.T) {
	t.Parallel()

	store := &stubFactsStore{facts: map[string]region.Facts{
		"Israel": {TotalEvents: 42, FirstEventYear: 1997},
	}}
	svc := NewRegionService(&stubResults{}, store)

	got, err := svc.Facts(context.Background(), "Israel")
	if err != nil {
		t.Fatalf("Facts error: %v", err)
	}
	if got.TotalEvents != 42 {
		t.Fatalf("unexpected facts: %+v", got)
	}

	if _, err := svc.Facts(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
	if _, err := svc.Facts(context.Background(), "Atlantis"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegionService_List(t *testing.T) {
	t.Parallel()

	store := &stubFactsStore{facts: map[string]region.Facts{"Texas": {}}}
	svc := NewRegionService(&stubResults{}, store)

	if got := svc.List(context.Background()); len(got) != 1 || got[0] != "Texas" {
		t.Fatalf("unexpected regions: %v", got)
	}
}

func TestRegionService_EventHistory_CuratedAliasSpansRenames(t *testing.T) {
	t.Parallel()

	origin := event.Event{
		Key:       testEventKey,
		Name:      "Silicon Valley Regional",
		ShortName: "Silicon Valley",
		Year:      2025,
		StartDate: "2025-03-20",
	}
	// "sj" is a historical code for the same lineage, under a different
	// short name; the curated family must still pick it up.
	results := &stubResults{
		events: map[string]event.Event{testEventKey: origin},
		eventsByYear: map[int][]event.Event{
			2025: {origin, {Key: "2025flor", Year: 2025, StartDate: "2025-03-06"}},
			2024: {{Key: "2024casj", ShortName: "Silicon Valley", Year: 2024, StartDate: "2024-03-21"}},
			2010: {{Key: "2010sj", ShortName: "San Jose", Year: 2010, StartDate: "2010-04-01"}},
		},
		eventAwards: map[string][]award.Award{
			"2024casj": {
				{Type: award.TypeWinner, Recipients: []string{"frc254", "frc1678", "frc604"}},
				{Type: award.TypeImpact, Recipients: []string{"frc1678"}},
			},
			"2010sj": {
				{Type: award.TypeWinner, Recipients: []string{"frc254"}},
				{Type: award.TypeFinalist, Recipients: []string{"frc100"}},
			},
		},
		teams: map[string]team.Team{
			"frc254": {Key: "frc254", Number: 254, Nickname: "The Cheesy Poofs"},
		},
	}
	svc := NewRegionService(results, &stubFactsStore{})

	got, err := svc.EventHistory(context.Background(), testEventKey)
	if err != nil {
		t.Fatalf("EventHistory error: %v", err)
	}
	if got.EventName != "Silicon Valley Regional" || got.FirstHeld != 2010 || got.Editions != 3 {
		t.Fatalf("unexpected lineage: %+v", got)
	}
	if len(got.YearsHeld) != 3 || got.YearsHeld[0] != 2010 || got.YearsHeld[2] != 2025 {
		t.Fatalf("unexpected years held: %v", got.YearsHeld)
	}
	if len(got.MostWins) != 3 {
		t.Fatalf("expected 3 winner entries, got %+v", got.MostWins)
	}
	if got.MostWins[0].TeamNumber != 254 || got.MostWins[0].Count != 2 {
		t.Fatalf("unexpected win leader: %+v", got.MostWins[0])
	}
	if got.MostWins[0].Nickname != "The Cheesy Poofs" {
		t.Fatalf("expected resolved nickname, got %+v", got.MostWins[0])
	}
	if len(got.MostImpact) != 1 || got.MostImpact[0].TeamNumber != 1678 {
		t.Fatalf("unexpected impact leaderboard: %+v", got.MostImpact)
	}

	// Timeline runs newest first and skips editions with no awards.
	if len(got.Timeline) != 2 {
		t.Fatalf("expected 2 timeline years, got %+v", got.Timeline)
	}
	if got.Timeline[0].Year != 2024 || got.Timeline[1].Year != 2010 {
		t.Fatalf("unexpected timeline order: %+v", got.Timeline)
	}
	if got.Timeline[0].Impact == nil || got.Timeline[0].Impact.TeamNumber != 1678 {
		t.Fatalf("unexpected impact entry: %+v", got.Timeline[0].Impact)
	}
	if len(got.Timeline[1].Finalists) != 1 || got.Timeline[1].Finalists[0].TeamNumber != 100 {
		t.Fatalf("unexpected finalists: %+v", got.Timeline[1].Finalists)
	}
}

func TestRegionService_EventHistory_ShortNameFilterForUncuratedCodes(t *testing.T) {
	t.Parallel()

	origin := event.Event{
		Key:       "2024zzwk",
		ShortName: "Widget Classic",
		Year:      2024,
		StartDate: "2024-04-05",
	}
	results := &stubResults{
		events: map[string]event.Event{"2024zzwk": origin},
		eventsByYear: map[int][]event.Event{
			2024: {origin},
			2023: {{Key: "2023zzwk", ShortName: "Gadget Open", Year: 2023, StartDate: "2023-04-06"}},
			2022: {{Key: "2022zzwk", ShortName: "Widget Classic", Year: 2022, StartDate: "2022-04-07"}},
		},
	}
	svc := NewRegionService(results, &stubFactsStore{})

	got, err := svc.EventHistory(context.Background(), "2024zzwk")
	if err != nil {
		t.Fatalf("EventHistory error: %v", err)
	}
	// The 2023 edition reused the code for an unrelated event and must be
	// dropped by the short-name filter.
	if got.Editions != 2 {
		t.Fatalf("expected 2 editions, got %d (%v)", got.Editions, got.YearsHeld)
	}
	if got.FirstHeld != 2022 || got.YearsHeld[1] != 2024 {
		t.Fatalf("unexpected years: first=%d held=%v", got.FirstHeld, got.YearsHeld)
	}
}

func TestRegionService_EventHistory_FallsBackToOrigin(t *testing.T) {
	t.Parallel()

	results := &stubResults{
		events: map[string]event.Event{
			"2024qqch": {Key: "2024qqch", Name: "Quarry Challenge", Year: 2024},
		},
	}
	svc := NewRegionService(results, &stubFactsStore{})

	got, err := svc.EventHistory(context.Background(), "2024qqch")
	if err != nil {
		t.Fatalf("EventHistory error: %v", err)
	}
	if got.Editions != 1 || got.FirstHeld != 2024 {
		t.Fatalf("expected single-edition fallback, got %+v", got)
	}
	if len(got.MostWins) != 0 || len(got.Timeline) != 0 {
		t.Fatalf("expected empty trophy history, got %+v", got)
	}
}

func TestRegionService_EventHistory_RequiresValidKey(t *testing.T) {
	t.Parallel()

	svc := NewRegionService(&stubResults{}, &stubFactsStore{})
	if _, err := svc.EventHistory(context.Background(), "casj"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
