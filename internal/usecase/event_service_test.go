package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kleium/casters-tool/internal/domain/event"
	"github.com/kleium/casters-tool/internal/domain/match"
	"github.com/kleium/casters-tool/internal/domain/stats"
	"github.com/kleium/casters-tool/internal/domain/team"
)

const testEventKey = "2025casj"

func eventServiceFixture(results *stubResults, official OfficialProvider, analytics AnalyticsProvider) *EventService {
	if analytics == nil {
		analytics = &stubAnalytics{}
	}
	return NewEventService(results, official, analytics)
}

func TestEventService_Info_InvalidKey(t *testing.T) {
	t.Parallel()

	svc := eventServiceFixture(&stubResults{}, nil, nil)
	if _, err := svc.Info(context.Background(), "casj"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEventService_SeasonEvents_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	results := &stubResults{
		eventsByYear: map[int][]event.Event{
			2025: {
				{Key: "2025late", Name: "Late Regional", Year: 2025, Type: event.TypeRegional, StartDate: "2025-04-02"},
				{Key: "2025off", Name: "Offseason Bash", Year: 2025, Type: event.TypeOffseason, StartDate: "2025-01-01"},
				{Key: "2025early", Name: "Early District", Year: 2025, Type: event.TypeDistrict, StartDate: "2025-03-01"},
			},
		},
	}
	svc := eventServiceFixture(results, nil, nil)

	got, err := svc.SeasonEvents(context.Background(), 2025)
	if err != nil {
		t.Fatalf("SeasonEvents error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 official events, got %d", len(got))
	}
	if got[0].Key != "2025early" || got[1].Key != "2025late" {
		t.Fatalf("expected start-date order, got %q then %q", got[0].Key, got[1].Key)
	}

	if _, err := svc.SeasonEvents(context.Background(), 1991); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for pre-1992 season, got %v", err)
	}
}

func TestEventService_TeamsWithStats_DegradesMissingSources(t *testing.T) {
	t.Parallel()

	results := &stubResults{
		eventTeams: map[string][]team.Team{
			testEventKey: {
				{Key: "frc254", Number: 254, Nickname: "The Cheesy Poofs"},
				{Key: "frc1678", Number: 1678, Nickname: "Citrus Circuits"},
			},
		},
		// No rankings, ratings, EPA, or roster seeded.
	}
	svc := eventServiceFixture(results, &stubOfficial{}, nil)

	got, err := svc.TeamsWithStats(context.Background(), testEventKey)
	if err != nil {
		t.Fatalf("TeamsWithStats error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got))
	}
	for _, line := range got {
		if line.Rank != 0 {
			t.Fatalf("expected unranked team, got rank %d", line.Rank)
		}
		if line.Wins != 0 || line.Losses != 0 || line.Ties != 0 {
			t.Fatalf("expected 0-0-0 record, got %d-%d-%d", line.Wins, line.Losses, line.Ties)
		}
		if line.OPR != 0 || line.EPA != 0 {
			t.Fatalf("expected zero ratings, got opr=%v epa=%v", line.OPR, line.EPA)
		}
	}

	if data, err := got[0].Rank.MarshalJSON(); err != nil || string(data) != `"-"` {
		t.Fatalf("expected unranked rank to render as \"-\", got %s (%v)", data, err)
	}
}

func TestEventService_TeamsWithStats_RankedSortsBeforeUnranked(t *testing.T) {
	t.Parallel()

	results := &stubResults{
		eventTeams: map[string][]team.Team{
			testEventKey: {
				{Key: "frc111", Number: 111},
				{Key: "frc222", Number: 222},
				{Key: "frc333", Number: 333},
			},
		},
		rankings: map[string][]stats.Ranking{
			testEventKey: {
				{TeamKey: "frc333", Rank: 1, Record: stats.Record{Wins: 9}},
				{TeamKey: "frc111", Rank: 2, Record: stats.Record{Wins: 7, Losses: 2}},
			},
		},
	}
	svc := eventServiceFixture(results, &stubOfficial{}, nil)

	got, err := svc.TeamsWithStats(context.Background(), testEventKey)
	if err != nil {
		t.Fatalf("TeamsWithStats error: %v", err)
	}
	if got[0].TeamKey != "frc333" || got[1].TeamKey != "frc111" || got[2].TeamKey != "frc222" {
		t.Fatalf("unexpected order: %q, %q, %q", got[0].TeamKey, got[1].TeamKey, got[2].TeamKey)
	}
	if got[0].Wins != 9 {
		t.Fatalf("expected 9 wins for rank 1, got %d", got[0].Wins)
	}
}

func TestEventService_TeamsWithStats_MergesOfficialSchools(t *testing.T) {
	t.Parallel()

	results := &stubResults{
		eventTeams: map[string][]team.Team{
			testEventKey: {{Key: "frc254", Number: 254}},
		},
	}
	official := &stubOfficial{
		teams: map[string][]OfficialTeam{
			"casj": {{Number: 254, SchoolName: "Bellarmine College Preparatory"}},
		},
	}
	svc := eventServiceFixture(results, official, nil)

	got, err := svc.TeamsWithStats(context.Background(), testEventKey)
	if err != nil {
		t.Fatalf("TeamsWithStats error: %v", err)
	}
	if got[0].SchoolName != "Bellarmine College Preparatory" {
		t.Fatalf("expected school from official roster, got %q", got[0].SchoolName)
	}
}

func TestEventService_RefreshRankings_InvalidatesCache(t *testing.T) {
	t.Parallel()

	results := &stubResults{
		eventTeams: map[string][]team.Team{
			testEventKey: {{Key: "frc254", Number: 254}},
		},
	}
	svc := eventServiceFixture(results, nil, nil)

	if _, err := svc.RefreshRankings(context.Background(), testEventKey); err != nil {
		t.Fatalf("RefreshRankings error: %v", err)
	}
	if len(results.invalidated) != 1 || results.invalidated[0] != testEventKey {
		t.Fatalf("expected one invalidation for %s, got %v", testEventKey, results.invalidated)
	}
}

func TestEventService_CompareTeams_BoundsTeamCount(t *testing.T) {
	t.Parallel()

	svc := eventServiceFixture(&stubResults{}, nil, nil)

	if _, err := svc.CompareTeams(context.Background(), testEventKey, []string{"frc254"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for one team, got %v", err)
	}

	seven := []string{"frc1", "frc2", "frc3", "frc4", "frc5", "frc6", "frc7"}
	if _, err := svc.CompareTeams(context.Background(), testEventKey, seven); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for seven teams, got %v", err)
	}
}

func TestEventService_CompareTeams_TeamNotAtEvent(t *testing.T) {
	t.Parallel()

	results := &stubResults{
		eventTeams: map[string][]team.Team{
			testEventKey: {{Key: "frc254", Number: 254}},
		},
	}
	svc := eventServiceFixture(results, nil, nil)

	_, err := svc.CompareTeams(context.Background(), testEventKey, []string{"frc254", "frc1678"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventService_CompareTeams_QualAverageExcludesEliminations(t *testing.T) {
	t.Parallel()

	results := &stubResults{
		eventTeams: map[string][]team.Team{
			testEventKey: {
				{Key: "frc254", Number: 254},
				{Key: "frc1678", Number: 1678},
			},
		},
		matches: map[string][]match.Match{
			testEventKey: {
				{
					Key: testEventKey + "_qm1", CompLevel: match.LevelQual, MatchNumber: 1,
					Red:  match.AllianceScore{TeamKeys: []string{"frc254", "frc9", "frc10"}, Score: 100},
					Blue: match.AllianceScore{TeamKeys: []string{"frc1678", "frc11", "frc12"}, Score: 80},
				},
				{
					Key: testEventKey + "_qm2", CompLevel: match.LevelQual, MatchNumber: 2,
					Red:  match.AllianceScore{TeamKeys: []string{"frc254", "frc11", "frc12"}, Score: 60},
					Blue: match.AllianceScore{TeamKeys: []string{"frc9", "frc10", "frc13"}, Score: 50},
				},
				{
					// Elimination score must not move the average or high score.
					Key: testEventKey + "_f1m1", CompLevel: match.LevelFinal, SetNumber: 1, MatchNumber: 1,
					Red:  match.AllianceScore{TeamKeys: []string{"frc254", "frc9", "frc10"}, Score: 200},
					Blue: match.AllianceScore{TeamKeys: []string{"frc1678", "frc11", "frc12"}, Score: 150},
				},
			},
		},
	}
	svc := eventServiceFixture(results, nil, nil)

	got, err := svc.CompareTeams(context.Background(), testEventKey, []string{"frc254", "frc1678"})
	if err != nil {
		t.Fatalf("CompareTeams error: %v", err)
	}
	if got[0].QualAverage != 80 {
		t.Fatalf("expected qual average 80 for frc254, got %v", got[0].QualAverage)
	}
	if got[0].HighScore != 100 || got[0].HighScoreMatch != "Qualification 1" {
		t.Fatalf("unexpected high score: %d in %q", got[0].HighScore, got[0].HighScoreMatch)
	}
	if got[1].QualAverage != 80 {
		t.Fatalf("expected qual average 80 for frc1678, got %v", got[1].QualAverage)
	}
}

func TestEventService_OfficialScores(t *testing.T) {
	t.Parallel()

	official := &stubOfficial{
		scores: map[string][]OfficialScore{
			"casj/Qualification": {{MatchLevel: "Qualification", MatchNumber: 1, Side: "Red", TotalPoints: 92}},
		},
	}
	svc := eventServiceFixture(&stubResults{}, official, nil)

	got, err := svc.OfficialScores(context.Background(), testEventKey, "")
	if err != nil {
		t.Fatalf("OfficialScores error: %v", err)
	}
	if len(got) != 1 || got[0].TotalPoints != 92 {
		t.Fatalf("unexpected scores: %+v", got)
	}

	if _, err := svc.OfficialScores(context.Background(), testEventKey, "Practice"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad level, got %v", err)
	}
}

func TestEventService_OfficialScores_NoProvider(t *testing.T) {
	t.Parallel()

	svc := NewEventService(&stubResults{}, nil, &stubAnalytics{})
	if _, err := svc.OfficialScores(context.Background(), testEventKey, "Qualification"); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
