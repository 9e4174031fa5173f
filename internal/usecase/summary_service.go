package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/sourcegraph/conc"

	"github.com/kleium/casters-tool/internal/domain/event"
	"github.com/kleium/casters-tool/internal/domain/region"
	"github.com/kleium/casters-tool/internal/domain/stats"
	"github.com/kleium/casters-tool/internal/domain/team"
)

// AchievementDirectory answers instant team-achievement lookups from the
// pre-generated regional stats file.
type AchievementDirectory interface {
	HallOfFame(teamNumber int) (region.AchievementTeam, bool)
	ImpactFinalist(teamNumber int) (region.AchievementTeam, bool)
}

type SummaryService struct {
	results      ResultsProvider
	achievements AchievementDirectory
}

func NewSummaryService(results ResultsProvider, achievements AchievementDirectory) *SummaryService {
	return &SummaryService{results: results, achievements: achievements}
}

type Demographics struct {
	TotalTeams   int      `json:"total_teams"`
	RookieCount  int      `json:"rookie_count"`
	RookiePct    float64  `json:"rookie_pct"`
	VeteranCount int      `json:"veteran_count"`
	VeteranPct   float64  `json:"veteran_pct"`
	AvgTeamAge   float64  `json:"avg_team_age"`
	ForeignCount int      `json:"foreign_count"`
	ForeignPct   float64  `json:"foreign_pct"`
	EventCountry string   `json:"event_country"`
	CountryCount int      `json:"country_count"`
	Countries    []string `json:"countries"`
}

// HonoredTeam is an attending team with a Hall of Fame or Impact-finalist
// record worth calling out on air.
type HonoredTeam struct {
	TeamNumber  int    `json:"team_number"`
	Nickname    string `json:"nickname"`
	City        string `json:"city"`
	StateProv   string `json:"state_prov"`
	Country     string `json:"country"`
	ImpactYears []int  `json:"impact_years"`
}

type TopScorer struct {
	TeamKey    string  `json:"team_key"`
	TeamNumber int     `json:"team_number"`
	Nickname   string  `json:"nickname"`
	OPR        float64 `json:"opr"`
	DPR        float64 `json:"dpr"`
	Rank       Rank    `json:"rank"`
}

type EventSummary struct {
	EventKey        string        `json:"event_key"`
	Demographics    Demographics  `json:"demographics"`
	HallOfFame      []HonoredTeam `json:"hall_of_fame"`
	ImpactFinalists []HonoredTeam `json:"impact_finalists"`
	TopScorers      []TopScorer   `json:"top_scorers"`
}

type SummaryStats struct {
	TopScorers []TopScorer `json:"top_scorers"`
}

// EventSummary builds the broadcast-opening event profile: attendance
// demographics, honored teams in the field, and the top OPR scorers so far.
func (s *SummaryService) EventSummary(ctx context.Context, eventKey string) (EventSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "SummaryService.EventSummary")
	defer span.End()

	year, _, err := event.SplitKey(eventKey)
	if err != nil {
		return EventSummary{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var (
		info     event.Event
		rankings []stats.Ranking
		ratings  map[string]stats.PowerRating
	)
	teams, err := s.results.EventTeamsFull(ctx, eventKey)
	if err != nil {
		return EventSummary{}, fmt.Errorf("fetch event teams: %w", err)
	}
	if len(teams) == 0 {
		return EventSummary{}, fmt.Errorf("%w: no teams registered for %s", ErrNotFound, eventKey)
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		info = optional(ctx, func(ctx context.Context) (event.Event, error) {
			return s.results.Event(ctx, eventKey)
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
	wg.Wait()

	out := EventSummary{
		EventKey:        eventKey,
		Demographics:    buildDemographics(teams, info.Country, year),
		HallOfFame:      []HonoredTeam{},
		ImpactFinalists: []HonoredTeam{},
		TopScorers:      topScorers(teams, ratings, rankings),
	}

	for _, t := range teams {
		honored := HonoredTeam{
			TeamNumber: t.Number,
			Nickname:   t.Nickname,
			City:       t.City,
			StateProv:  t.StateProv,
			Country:    t.Country,
		}
		// Hall of Fame supersedes a finalist listing for the same team.
		if entry, ok := s.achievements.HallOfFame(t.Number); ok {
			honored.ImpactYears = entry.Years
			out.HallOfFame = append(out.HallOfFame, honored)
		} else if entry, ok := s.achievements.ImpactFinalist(t.Number); ok {
			honored.ImpactYears = entry.Years
			out.ImpactFinalists = append(out.ImpactFinalists, honored)
		}
	}

	return out, nil
}

// RefreshStats invalidates cached rankings and ratings, then recomputes the
// top-scorer board. Lighter than EventSummary, meant for in-broadcast polls.
func (s *SummaryService) RefreshStats(ctx context.Context, eventKey string) (SummaryStats, error) {
	ctx, span := startUsecaseSpan(ctx, "SummaryService.RefreshStats")
	defer span.End()

	if _, _, err := event.SplitKey(eventKey); err != nil {
		return SummaryStats{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.results.InvalidateEventStats(ctx, eventKey)

	var (
		rankings []stats.Ranking
		ratings  map[string]stats.PowerRating
	)
	teams, err := s.results.EventTeams(ctx, eventKey)
	if err != nil {
		return SummaryStats{}, fmt.Errorf("fetch event teams: %w", err)
	}

	var wg conc.WaitGroup
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
	wg.Wait()

	return SummaryStats{TopScorers: topScorers(teams, ratings, rankings)}, nil
}

func buildDemographics(teams []team.Team, eventCountry string, year int) Demographics {
	out := Demographics{
		TotalTeams:   len(teams),
		EventCountry: eventCountry,
		Countries:    []string{},
	}

	countries := map[string]bool{}
	var ages []int
	for _, t := range teams {
		if t.Country != "" {
			countries[t.Country] = true
		}
		if eventCountry != "" && t.Country != "" && t.Country != eventCountry {
			out.ForeignCount++
		}
		if t.RookieYear > 0 {
			ages = append(ages, year-t.RookieYear)
			if t.RookieYear == year {
				out.RookieCount++
			} else if t.RookieYear < year {
				out.VeteranCount++
			}
		}
	}

	if len(ages) > 0 {
		sum := 0
		for _, a := range ages {
			sum += a
		}
		out.AvgTeamAge = round1(float64(sum) / float64(len(ages)))
	}
	if out.TotalTeams > 0 {
		total := float64(out.TotalTeams)
		out.RookiePct = round1(100 * float64(out.RookieCount) / total)
		out.VeteranPct = round1(100 * float64(out.VeteranCount) / total)
		out.ForeignPct = round1(100 * float64(out.ForeignCount) / total)
	}
	out.Countries = sortedKeys(countries)
	out.CountryCount = len(out.Countries)

	return out
}

const topScorerLimit = 3

// topScorers ranks the field by OPR and keeps the top three. No ratings
// yet means an empty board, not an error.
func topScorers(teams []team.Team, ratings map[string]stats.PowerRating, rankings []stats.Ranking) []TopScorer {
	out := []TopScorer{}
	if len(ratings) == 0 {
		return out
	}

	byKey := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		byKey[t.Key] = t
	}
	rankByKey := make(map[string]int, len(rankings))
	for _, r := range rankings {
		rankByKey[r.TeamKey] = r.Rank
	}

	for _, tk := range sortedKeys(ratings) {
		rating := ratings[tk]
		t := byKey[tk]
		number := t.Number
		if number == 0 {
			number, _ = team.Number(tk)
		}
		out = append(out, TopScorer{
			TeamKey:    tk,
			TeamNumber: number,
			Nickname:   t.Nickname,
			OPR:        round2(rating.OPR),
			DPR:        round2(rating.DPR),
			Rank:       Rank(rankByKey[tk]),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].OPR > out[j].OPR })
	if len(out) > topScorerLimit {
		out = out[:topScorerLimit]
	}
	return out
}
