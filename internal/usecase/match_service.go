package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/sourcegraph/conc"

	"github.com/kleium/casters-tool/internal/domain/alliance"
	"github.com/kleium/casters-tool/internal/domain/event"
	"github.com/kleium/casters-tool/internal/domain/match"
	"github.com/kleium/casters-tool/internal/domain/stats"
	"github.com/kleium/casters-tool/internal/domain/team"
)

type MatchService struct {
	results   ResultsProvider
	analytics AnalyticsProvider
}

func NewMatchService(results ResultsProvider, analytics AnalyticsProvider) *MatchService {
	return &MatchService{results: results, analytics: analytics}
}

type MatchTeam struct {
	TeamStatLine
	AvgRP          float64 `json:"avg_rp"`
	HighScore      int     `json:"high_score"`
	HighScoreMatch string  `json:"high_score_match"`
}

type MatchAllianceView struct {
	Teams    []MatchTeam `json:"teams"`
	Score    int         `json:"score"`
	TotalOPR float64     `json:"total_opr"`
}

type MatchView struct {
	Key          string            `json:"key"`
	CompLevel    string            `json:"comp_level"`
	MatchNumber  int               `json:"match_number"`
	SetNumber    int               `json:"set_number"`
	Label        string            `json:"label"`
	Time         int64             `json:"time,omitempty"`
	HasBreakdown bool              `json:"has_breakdown"`
	Red          MatchAllianceView `json:"red"`
	Blue         MatchAllianceView `json:"blue"`
	Winner       string            `json:"winning_alliance"`
	Prediction   *stats.Prediction `json:"prediction,omitempty"`
}

type EventMatches struct {
	Matches        []MatchView    `json:"matches"`
	QualsHighScore QualsHighScore `json:"quals_high_score"`
	TotalMatches   int            `json:"total_matches"`
}

type QualsHighScore struct {
	Score int    `json:"score"`
	Match string `json:"match"`
	Teams []int  `json:"teams"`
}

// AllMatches returns every match at the event in deterministic play order,
// with per-team running stats computed from qualification matches only and
// win predictions merged from the analytics source.
func (s *MatchService) AllMatches(ctx context.Context, eventKey string) (EventMatches, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.AllMatches")
	defer span.End()

	if _, _, err := event.SplitKey(eventKey); err != nil {
		return EventMatches{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	matches, err := s.results.EventMatches(ctx, eventKey)
	if err != nil {
		return EventMatches{}, fmt.Errorf("fetch event matches: %w", err)
	}

	var (
		teams       []team.Team
		rankings    []stats.Ranking
		ratings     map[string]stats.PowerRating
		predictions map[string]stats.Prediction
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		teams = optional(ctx, func(ctx context.Context) ([]team.Team, error) {
			return s.results.EventTeams(ctx, eventKey)
		})
	})
	wg.Go(func() {
		rankings = optional(ctx, func(ctx context.Context) ([]stats.Ranking, error) {
			return s.results.EventRankings(ctx, eventKey)
		})
	})
	wg.Go(func() {
		ratings = optional(ctx, func(ctx context.Context) (map[string]stats.PowerRating, error) {
			return s.results.EventPowerRatings(ctx, eventKey)
		})
	})
	wg.Go(func() {
		predictions = optional(ctx, func(ctx context.Context) (map[string]stats.Prediction, error) {
			return s.analytics.MatchPredictions(ctx, eventKey)
		})
	})
	wg.Wait()

	teamsByKey := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		teamsByKey[t.Key] = t
	}
	rankMap := rankingsByTeam(rankings)
	qualScores := qualScoresByTeam(matches)

	// Per-team high score and the qual match it happened in.
	highByTeam := make(map[string]int)
	highMatchByTeam := make(map[string]string)
	quals := QualsHighScore{}
	for _, m := range matches {
		if m.CompLevel != match.LevelQual {
			continue
		}
		for _, side := range []match.Side{match.SideRed, match.SideBlue} {
			a := m.Alliance(side)
			if a.Score < 0 {
				continue
			}
			label := fmt.Sprintf("Qualification %d", m.MatchNumber)
			if a.Score > quals.Score {
				quals = QualsHighScore{Score: a.Score, Match: label, Teams: teamNumbers(a.TeamKeys)}
			}
			for _, tk := range a.TeamKeys {
				if a.Score >= highByTeam[tk] {
					highByTeam[tk] = a.Score
					highMatchByTeam[tk] = label
				}
			}
		}
	}

	buildTeam := func(tk string) MatchTeam {
		t, ok := teamsByKey[tk]
		if !ok {
			num, _ := team.Number(tk)
			t = team.Team{Key: tk, Number: num}
		}
		line := statLine(t, rankMap, ratings, nil)
		line.QualAverage = averageOf(qualScores[tk])
		avgRP := 0.0
		if r, ok := rankMap[tk]; ok && len(r.SortOrders) > 0 {
			avgRP = round2(r.SortOrders[0])
		}
		return MatchTeam{
			TeamStatLine:   line,
			AvgRP:          avgRP,
			HighScore:      highByTeam[tk],
			HighScoreMatch: highMatchByTeam[tk],
		}
	}

	match.Sort(matches)

	views := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		view := MatchView{
			Key:          m.Key,
			CompLevel:    string(m.CompLevel),
			MatchNumber:  m.MatchNumber,
			SetNumber:    m.SetNumber,
			Label:        matchLabel(m),
			Time:         m.Time,
			HasBreakdown: m.Breakdown != nil,
			Winner:       string(m.WinningAlliance),
			Red:          allianceView(m.Red, ratings, buildTeam),
			Blue:         allianceView(m.Blue, ratings, buildTeam),
		}
		if p, ok := predictions[m.Key]; ok {
			p := p
			view.Prediction = &p
		}
		views = append(views, view)
	}

	return EventMatches{
		Matches:        views,
		QualsHighScore: quals,
		TotalMatches:   len(views),
	}, nil
}

type MatchBreakdown struct {
	MatchKey    string                 `json:"match_key"`
	Available   bool                   `json:"available"`
	CompLevel   string                 `json:"comp_level,omitempty"`
	MatchNumber int                    `json:"match_number,omitempty"`
	SetNumber   int                    `json:"set_number,omitempty"`
	Winner      string                 `json:"winning_alliance,omitempty"`
	Red         *AllianceBreakdownView `json:"red,omitempty"`
	Blue        *AllianceBreakdownView `json:"blue,omitempty"`
}

type AllianceBreakdownView struct {
	Score     int                     `json:"score"`
	TeamKeys  []string                `json:"team_keys"`
	Breakdown match.AllianceBreakdown `json:"breakdown"`
}

// Breakdown returns the parsed score breakdown for one match. Matches the
// source has not scored yet report available=false rather than an error.
func (s *MatchService) Breakdown(ctx context.Context, matchKey string) (MatchBreakdown, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.Breakdown")
	defer span.End()

	if matchKey == "" {
		return MatchBreakdown{}, fmt.Errorf("%w: match key is required", ErrInvalidInput)
	}

	m, err := s.results.Match(ctx, matchKey)
	if err != nil {
		return MatchBreakdown{}, fmt.Errorf("fetch match: %w", err)
	}

	if m.Breakdown == nil {
		return MatchBreakdown{MatchKey: matchKey, Available: false}, nil
	}

	return MatchBreakdown{
		MatchKey:    matchKey,
		Available:   true,
		CompLevel:   string(m.CompLevel),
		MatchNumber: m.MatchNumber,
		SetNumber:   m.SetNumber,
		Winner:      string(m.WinningAlliance),
		Red: &AllianceBreakdownView{
			Score:     m.Red.Score,
			TeamKeys:  m.Red.TeamKeys,
			Breakdown: withRobotKeys(m.Breakdown.Red, m.Red.TeamKeys),
		},
		Blue: &AllianceBreakdownView{
			Score:     m.Blue.Score,
			TeamKeys:  m.Blue.TeamKeys,
			Breakdown: withRobotKeys(m.Breakdown.Blue, m.Blue.TeamKeys),
		},
	}, nil
}

type BracketMatch struct {
	Key          string  `json:"key"`
	Round        int     `json:"round"`
	RoundLabel   string  `json:"round_label"`
	Bracket      string  `json:"bracket"`
	SetNumber    int     `json:"set_number"`
	MatchNumber  int     `json:"match_number"`
	RedTeams     []int   `json:"red_teams"`
	BlueTeams    []int   `json:"blue_teams"`
	RedScore     int     `json:"red_score"`
	BlueScore    int     `json:"blue_score"`
	RedAlliance  int     `json:"red_alliance,omitempty"`
	BlueAlliance int     `json:"blue_alliance,omitempty"`
	RedTotalOPR  float64 `json:"red_total_opr"`
	BlueTotalOPR float64 `json:"blue_total_opr"`
	Winner       string  `json:"winning_alliance"`
}

// PlayoffBracket maps the event's elimination matches onto the
// double-elimination bracket. Unknown set numbers land in the catch-all
// round, never an error.
func (s *MatchService) PlayoffBracket(ctx context.Context, eventKey string) ([]BracketMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.PlayoffBracket")
	defer span.End()

	if _, _, err := event.SplitKey(eventKey); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	matches, err := s.results.EventMatches(ctx, eventKey)
	if err != nil {
		return nil, fmt.Errorf("fetch event matches: %w", err)
	}

	var (
		selections []alliance.Selection
		ratings    map[string]stats.PowerRating
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		selections = optional(ctx, func(ctx context.Context) ([]alliance.Selection, error) {
			return s.results.EventAlliances(ctx, eventKey)
		})
	})
	wg.Go(func() {
		ratings = optional(ctx, func(ctx context.Context) (map[string]stats.PowerRating, error) {
			return s.results.EventPowerRatings(ctx, eventKey)
		})
	})
	wg.Wait()

	allianceNum := make(map[string]int)
	for i, sel := range selections {
		for _, tk := range sel.Picks {
			allianceNum[tk] = i + 1
		}
	}

	out := make([]BracketMatch, 0, 16)
	for _, m := range matches {
		if !m.CompLevel.IsElimination() {
			continue
		}
		round, bracket := match.BracketSlot(m.CompLevel, m.SetNumber)
		bm := BracketMatch{
			Key:          m.Key,
			Round:        round,
			RoundLabel:   match.RoundLabel(round),
			Bracket:      bracket,
			SetNumber:    m.SetNumber,
			MatchNumber:  m.MatchNumber,
			RedTeams:     teamNumbers(m.Red.TeamKeys),
			BlueTeams:    teamNumbers(m.Blue.TeamKeys),
			RedScore:     m.Red.Score,
			BlueScore:    m.Blue.Score,
			RedTotalOPR:  totalOPR(ratings, m.Red.TeamKeys),
			BlueTotalOPR: totalOPR(ratings, m.Blue.TeamKeys),
			Winner:       string(m.WinningAlliance),
		}
		if len(m.Red.TeamKeys) > 0 {
			bm.RedAlliance = allianceNum[m.Red.TeamKeys[0]]
		}
		if len(m.Blue.TeamKeys) > 0 {
			bm.BlueAlliance = allianceNum[m.Blue.TeamKeys[0]]
		}
		out = append(out, bm)
	}

	// Grand finals sort after every numbered round.
	sortBracket(out)

	return out, nil
}

func sortBracket(out []BracketMatch) {
	roundOrder := func(r int) int {
		if r == 0 {
			return 98 // grand final plays after every numbered round
		}
		return r
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if roundOrder(a.Round) != roundOrder(b.Round) {
			return roundOrder(a.Round) < roundOrder(b.Round)
		}
		if a.SetNumber != b.SetNumber {
			return a.SetNumber < b.SetNumber
		}
		return a.MatchNumber < b.MatchNumber
	})
}

func matchLabel(m match.Match) string {
	switch {
	case m.CompLevel == match.LevelQual:
		return fmt.Sprintf("Qualification %d", m.MatchNumber)
	case m.CompLevel == match.LevelFinal:
		return fmt.Sprintf("Final %d", m.MatchNumber)
	default:
		label := fmt.Sprintf("%s %d", m.CompLevel.Label(), m.SetNumber)
		if m.MatchNumber > 1 {
			label += fmt.Sprintf(" (Match %d)", m.MatchNumber)
		}
		return label
	}
}

func allianceView(a match.AllianceScore, ratings map[string]stats.PowerRating, buildTeam func(string) MatchTeam) MatchAllianceView {
	view := MatchAllianceView{
		Score:    a.Score,
		TotalOPR: totalOPR(ratings, a.TeamKeys),
		Teams:    make([]MatchTeam, 0, len(a.TeamKeys)),
	}
	for _, tk := range a.TeamKeys {
		view.Teams = append(view.Teams, buildTeam(tk))
	}
	return view
}

func totalOPR(ratings map[string]stats.PowerRating, teamKeys []string) float64 {
	if ratings == nil {
		return 0
	}
	sum := 0.0
	for _, tk := range teamKeys {
		sum += ratings[tk].OPR
	}
	return round2(sum)
}

func teamNumbers(teamKeys []string) []int {
	out := make([]int, 0, len(teamKeys))
	for _, tk := range teamKeys {
		if num, err := team.Number(tk); err == nil {
			out = append(out, num)
		}
	}
	return out
}

func withRobotKeys(b match.AllianceBreakdown, teamKeys []string) match.AllianceBreakdown {
	for i := range b.Robots {
		if i < len(teamKeys) {
			b.Robots[i].TeamKey = teamKeys[i]
			if num, err := team.Number(teamKeys[i]); err == nil {
				b.Robots[i].TeamNumber = num
			}
		}
	}
	return b
}
