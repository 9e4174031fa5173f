package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kleium/casters-tool/internal/domain/alliance"
	"github.com/kleium/casters-tool/internal/domain/match"
	"github.com/kleium/casters-tool/internal/domain/stats"
	"github.com/kleium/casters-tool/internal/domain/team"
)

func TestMatchService_AllMatches_OrdersAndMergesPredictions(t *testing.T) {
	t.Parallel()

	prob := 0.61
	results := &stubResults{
		eventTeams: map[string][]team.Team{
			testEventKey: {
				{Key: "frc254", Number: 254, Nickname: "The Cheesy Poofs"},
			},
		},
		matches: map[string][]match.Match{
			testEventKey: {
				{
					Key: testEventKey + "_sf1m1", CompLevel: match.LevelSemi, SetNumber: 1, MatchNumber: 1,
					Red:  match.AllianceScore{TeamKeys: []string{"frc254", "frc2", "frc3"}, Score: 90},
					Blue: match.AllianceScore{TeamKeys: []string{"frc4", "frc5", "frc6"}, Score: 70},
				},
				{
					Key: testEventKey + "_qm1", CompLevel: match.LevelQual, MatchNumber: 1,
					Red:  match.AllianceScore{TeamKeys: []string{"frc254", "frc2", "frc3"}, Score: 85},
					Blue: match.AllianceScore{TeamKeys: []string{"frc4", "frc5", "frc6"}, Score: 40},
				},
			},
		},
	}
	analytics := &stubAnalytics{
		predictions: map[string]map[string]stats.Prediction{
			testEventKey: {
				testEventKey + "_qm1": {Winner: "red", RedWinProb: &prob, RedScore: 88.5, BlueScore: 42.1},
			},
		},
	}
	svc := NewMatchService(results, analytics)

	got, err := svc.AllMatches(context.Background(), testEventKey)
	if err != nil {
		t.Fatalf("AllMatches error: %v", err)
	}
	if got.TotalMatches != 2 {
		t.Fatalf("expected 2 matches, got %d", got.TotalMatches)
	}
	if got.Matches[0].CompLevel != "qm" || got.Matches[1].CompLevel != "sf" {
		t.Fatalf("expected quals before semis, got %q then %q", got.Matches[0].CompLevel, got.Matches[1].CompLevel)
	}
	if got.Matches[0].Prediction == nil || got.Matches[0].Prediction.Winner != "red" {
		t.Fatalf("expected merged prediction on qm1, got %+v", got.Matches[0].Prediction)
	}
	if got.Matches[1].Prediction != nil {
		t.Fatalf("expected no prediction on sf1, got %+v", got.Matches[1].Prediction)
	}

	if got.QualsHighScore.Score != 85 || got.QualsHighScore.Match != "Qualification 1" {
		t.Fatalf("unexpected quals high score: %+v", got.QualsHighScore)
	}
	if len(got.QualsHighScore.Teams) != 3 || got.QualsHighScore.Teams[0] != 254 {
		t.Fatalf("unexpected high score teams: %v", got.QualsHighScore.Teams)
	}

	// Roster info is joined onto alliance members.
	if got.Matches[0].Red.Teams[0].Nickname != "The Cheesy Poofs" {
		t.Fatalf("expected roster nickname, got %q", got.Matches[0].Red.Teams[0].Nickname)
	}
}

func TestMatchService_AllMatches_LabelsSetMatches(t *testing.T) {
	t.Parallel()

	results := &stubResults{
		matches: map[string][]match.Match{
			testEventKey: {
				{Key: "a", CompLevel: match.LevelSemi, SetNumber: 2, MatchNumber: 1},
				{Key: "b", CompLevel: match.LevelFinal, SetNumber: 1, MatchNumber: 2},
			},
		},
	}
	svc := NewMatchService(results, &stubAnalytics{})

	got, err := svc.AllMatches(context.Background(), testEventKey)
	if err != nil {
		t.Fatalf("AllMatches error: %v", err)
	}
	if got.Matches[0].Label != "Semifinal 2" {
		t.Fatalf("unexpected semifinal label %q", got.Matches[0].Label)
	}
	if got.Matches[1].Label != "Final 2" {
		t.Fatalf("unexpected final label %q", got.Matches[1].Label)
	}
}

func TestMatchService_Breakdown_UnscoredMatch(t *testing.T) {
	t.Parallel()

	results := &stubResults{
		matchByKey: map[string]match.Match{
			"2025casj_qm1": {Key: "2025casj_qm1", CompLevel: match.LevelQual, MatchNumber: 1},
		},
	}
	svc := NewMatchService(results, &stubAnalytics{})

	got, err := svc.Breakdown(context.Background(), "2025casj_qm1")
	if err != nil {
		t.Fatalf("Breakdown error: %v", err)
	}
	if got.Available {
		t.Fatalf("expected available=false for unscored match")
	}
	if got.Red != nil || got.Blue != nil {
		t.Fatalf("expected no alliance views, got %+v", got)
	}
}

func TestMatchService_Breakdown_AssignsRobotKeys(t *testing.T) {
	t.Parallel()

	results := &stubResults{
		matchByKey: map[string]match.Match{
			"2025casj_f1m1": {
				Key: "2025casj_f1m1", CompLevel: match.LevelFinal, SetNumber: 1, MatchNumber: 1,
				WinningAlliance: match.SideRed,
				Red:             match.AllianceScore{TeamKeys: []string{"frc254", "frc2", "frc3"}, Score: 120},
				Blue:            match.AllianceScore{TeamKeys: []string{"frc4", "frc5", "frc6"}, Score: 100},
				Breakdown: &match.Breakdown{
					Red: match.AllianceBreakdown{
						Robots: []match.RobotResult{
							{AutoLine: "Yes", EndGame: "DeepCage"},
							{AutoLine: "No", EndGame: "None"},
							{AutoLine: "Yes", EndGame: "Parked"},
						},
					},
				},
			},
		},
	}
	svc := NewMatchService(results, &stubAnalytics{})

	got, err := svc.Breakdown(context.Background(), "2025casj_f1m1")
	if err != nil {
		t.Fatalf("Breakdown error: %v", err)
	}
	if !got.Available {
		t.Fatalf("expected available breakdown")
	}
	robots := got.Red.Breakdown.Robots
	if robots[0].TeamKey != "frc254" || robots[0].TeamNumber != 254 {
		t.Fatalf("expected robot 1 mapped to frc254, got %+v", robots[0])
	}
	if robots[2].TeamKey != "frc3" {
		t.Fatalf("expected robot 3 mapped to frc3, got %+v", robots[2])
	}
}

func TestMatchService_Breakdown_RequiresKey(t *testing.T) {
	t.Parallel()

	svc := NewMatchService(&stubResults{}, &stubAnalytics{})
	if _, err := svc.Breakdown(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchService_PlayoffBracket(t *testing.T) {
	t.Parallel()

	results := &stubResults{
		matches: map[string][]match.Match{
			testEventKey: {
				{Key: "f1", CompLevel: match.LevelFinal, SetNumber: 1, MatchNumber: 1,
					Red:  match.AllianceScore{TeamKeys: []string{"frc254"}},
					Blue: match.AllianceScore{TeamKeys: []string{"frc1678"}}},
				{Key: "sf1", CompLevel: match.LevelSemi, SetNumber: 1, MatchNumber: 1,
					Red:  match.AllianceScore{TeamKeys: []string{"frc254"}},
					Blue: match.AllianceScore{TeamKeys: []string{"frc973"}}},
				{Key: "sf13", CompLevel: match.LevelSemi, SetNumber: 13, MatchNumber: 1},
				{Key: "qm1", CompLevel: match.LevelQual, MatchNumber: 1},
				{Key: "sf99", CompLevel: match.LevelSemi, SetNumber: 42, MatchNumber: 1},
			},
		},
		alliances: map[string][]alliance.Selection{
			testEventKey: {
				{Picks: []string{"frc254", "frc2", "frc3"}},
				{Picks: []string{"frc1678", "frc5", "frc6"}},
			},
		},
	}
	svc := NewMatchService(results, &stubAnalytics{})

	got, err := svc.PlayoffBracket(context.Background(), testEventKey)
	if err != nil {
		t.Fatalf("PlayoffBracket error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 elimination matches, got %d", len(got))
	}

	// Round order: numbered rounds, then the grand final, then the
	// catch-all slot for unrecognized sets.
	if got[0].Key != "sf1" || got[0].Round != 1 || got[0].Bracket != match.BracketUpper {
		t.Fatalf("unexpected first slot: %+v", got[0])
	}
	if got[1].Key != "sf13" || got[1].Round != 5 || got[1].Bracket != match.BracketLower {
		t.Fatalf("unexpected lower-final slot: %+v", got[1])
	}
	if got[2].Key != "f1" || got[2].Round != 0 || got[2].RoundLabel != "Grand Final" {
		t.Fatalf("unexpected grand final slot: %+v", got[2])
	}
	if got[3].Key != "sf99" || got[3].Round != match.UnknownRound || got[3].RoundLabel != "Unknown Round" {
		t.Fatalf("unexpected catch-all slot: %+v", got[3])
	}

	if got[0].RedAlliance != 1 || got[2].BlueAlliance != 2 {
		t.Fatalf("unexpected alliance numbers: red=%d blue=%d", got[0].RedAlliance, got[2].BlueAlliance)
	}
}
