package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/conc"

	"github.com/kleium/casters-tool/internal/domain/event"
	"github.com/kleium/casters-tool/internal/domain/match"
	"github.com/kleium/casters-tool/internal/domain/stats"
	"github.com/kleium/casters-tool/internal/domain/team"
	"github.com/kleium/casters-tool/internal/resolver"
)

const (
	compareMinTeams = 2
	compareMaxTeams = 6
)

type EventService struct {
	results   ResultsProvider
	official  OfficialProvider
	analytics AnalyticsProvider
}

func NewEventService(results ResultsProvider, official OfficialProvider, analytics AnalyticsProvider) *EventService {
	return &EventService{
		results:   results,
		official:  official,
		analytics: analytics,
	}
}

type EventInfo struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Year      int    `json:"year"`
	City      string `json:"city"`
	StateProv string `json:"state_prov"`
	EventType string `json:"event_type_string"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (s *EventService) Info(ctx context.Context, eventKey string) (EventInfo, error) {
	ctx, span := startUsecaseSpan(ctx, "EventService.Info")
	defer span.End()

	if _, _, err := event.SplitKey(eventKey); err != nil {
		return EventInfo{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ev, err := s.results.Event(ctx, eventKey)
	if err != nil {
		return EventInfo{}, fmt.Errorf("fetch event: %w", err)
	}

	return EventInfo{
		Key:       ev.Key,
		Name:      ev.Name,
		Year:      ev.Year,
		City:      ev.City,
		StateProv: ev.StateProv,
		EventType: ev.Type.Label(),
		StartDate: ev.StartDate,
		EndDate:   ev.EndDate,
	}, nil
}

type SeasonEvent struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	EventType string `json:"event_type_string"`
	Region    string `json:"region"`
	City      string `json:"city"`
	StateProv string `json:"state_prov"`
	Country   string `json:"country"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// SeasonEvents lists a season's official events with their resolved region,
// ordered by start date. Offseason, preseason, and unlabeled events are
// dropped.
func (s *EventService) SeasonEvents(ctx context.Context, year int) ([]SeasonEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "EventService.SeasonEvents")
	defer span.End()

	if year < 1992 {
		return nil, fmt.Errorf("%w: year must be 1992 or later", ErrInvalidInput)
	}

	events, err := s.results.EventsByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("fetch season events: %w", err)
	}

	out := make([]SeasonEvent, 0, len(events))
	for _, ev := range events {
		if !ev.Type.IsOfficial() {
			continue
		}
		out = append(out, SeasonEvent{
			Key:       ev.Key,
			Name:      ev.Name,
			EventType: ev.Type.Label(),
			Region:    resolver.EventRegion(ev),
			City:      ev.City,
			StateProv: ev.StateProv,
			Country:   ev.Country,
			StartDate: ev.StartDate,
			EndDate:   ev.EndDate,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })

	return out, nil
}

// TeamsWithStats returns the event roster enriched with rank, record, power
// ratings, EPA, and school names from the official roster. The roster fetch
// must succeed; every enrichment source is optional.
func (s *EventService) TeamsWithStats(ctx context.Context, eventKey string) ([]TeamStatLine, error) {
	ctx, span := startUsecaseSpan(ctx, "EventService.TeamsWithStats")
	defer span.End()

	year, code, err := event.SplitKey(eventKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	teams, err := s.results.EventTeamsFull(ctx, eventKey)
	if err != nil {
		return nil, fmt.Errorf("fetch event teams: %w", err)
	}

	var (
		rankings []stats.Ranking
		ratings  map[string]stats.PowerRating
		epas     map[string]stats.EPA
		roster   []OfficialTeam
	)
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
	wg.Go(func() {
		epas = optional(ctx, func(ctx context.Context) (map[string]stats.EPA, error) {
			return s.analytics.EventTeamEPAs(ctx, eventKey)
		})
	})
	if s.official != nil {
		wg.Go(func() {
			roster = optional(ctx, func(ctx context.Context) ([]OfficialTeam, error) {
				return s.official.EventTeams(ctx, year, code)
			})
		})
	}
	wg.Wait()

	rankMap := rankingsByTeam(rankings)
	schoolMap := make(map[int]string, len(roster))
	for _, rt := range roster {
		schoolMap[rt.Number] = rt.SchoolName
	}

	out := make([]TeamStatLine, 0, len(teams))
	for _, t := range teams {
		line := statLine(t, rankMap, ratings, epas)
		if school, ok := schoolMap[t.Number]; ok && school != "" {
			line.SchoolName = school
		}
		out = append(out, line)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rank.sortValue() < out[j].Rank.sortValue()
	})

	return out, nil
}

// RefreshRankings drops cached standings data for the event, then rebuilds
// the enriched roster from fresh fetches.
func (s *EventService) RefreshRankings(ctx context.Context, eventKey string) ([]TeamStatLine, error) {
	ctx, span := startUsecaseSpan(ctx, "EventService.RefreshRankings")
	defer span.End()

	if _, _, err := event.SplitKey(eventKey); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.results.InvalidateEventStats(ctx, eventKey)
	return s.TeamsWithStats(ctx, eventKey)
}

type ComparisonTeam struct {
	TeamStatLine
	EPAAuto        float64 `json:"epa_auto"`
	EPATeleop      float64 `json:"epa_teleop"`
	EPAEndgame     float64 `json:"epa_endgame"`
	HighScore      int     `json:"high_score"`
	HighScoreMatch string  `json:"high_score_match"`
	Avatar         string  `json:"avatar,omitempty"`
}

// CompareTeams builds a side-by-side card for 2-6 teams at one event,
// adding qual averages, high scores, EPA phase splits, and avatars on top
// of the standard stat line.
func (s *EventService) CompareTeams(ctx context.Context, eventKey string, teamKeys []string) ([]ComparisonTeam, error) {
	ctx, span := startUsecaseSpan(ctx, "EventService.CompareTeams")
	defer span.End()

	year, _, err := event.SplitKey(eventKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(teamKeys) < compareMinTeams || len(teamKeys) > compareMaxTeams {
		return nil, fmt.Errorf("%w: provide %d-%d team keys to compare", ErrInvalidInput, compareMinTeams, compareMaxTeams)
	}
	for _, tk := range teamKeys {
		if _, err := team.Number(tk); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	teams, err := s.results.EventTeamsFull(ctx, eventKey)
	if err != nil {
		return nil, fmt.Errorf("fetch event teams: %w", err)
	}
	teamsByKey := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		teamsByKey[t.Key] = t
	}
	for _, tk := range teamKeys {
		if _, ok := teamsByKey[tk]; !ok {
			return nil, fmt.Errorf("%w: team %s is not at event %s", ErrNotFound, tk, eventKey)
		}
	}

	var (
		rankings []stats.Ranking
		ratings  map[string]stats.PowerRating
		epas     map[string]stats.EPA
		matches  []match.Match
		avatars  = make(map[string]string, len(teamKeys))
	)
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
	wg.Go(func() {
		epas = optional(ctx, func(ctx context.Context) (map[string]stats.EPA, error) {
			return s.analytics.EventTeamEPAs(ctx, eventKey)
		})
	})
	wg.Go(func() {
		matches = optional(ctx, func(ctx context.Context) ([]match.Match, error) {
			return s.results.EventMatches(ctx, eventKey)
		})
	})
	var avatarWG conc.WaitGroup
	avatarResults := make([]string, len(teamKeys))
	for i, tk := range teamKeys {
		i, tk := i, tk
		avatarWG.Go(func() {
			media := optional(ctx, func(ctx context.Context) ([]team.Media, error) {
				return s.results.TeamMedia(ctx, tk, year)
			})
			avatarResults[i] = team.Avatar(media)
		})
	}
	wg.Wait()
	avatarWG.Wait()
	for i, tk := range teamKeys {
		avatars[tk] = avatarResults[i]
	}

	rankMap := rankingsByTeam(rankings)
	qualScores := qualScoresByTeam(matches)

	out := make([]ComparisonTeam, 0, len(teamKeys))
	for _, tk := range teamKeys {
		line := statLine(teamsByKey[tk], rankMap, ratings, epas)
		scores := qualScores[tk]
		line.QualAverage = averageOf(scores)

		high, highMatch := 0, ""
		for _, m := range matches {
			if m.CompLevel != match.LevelQual {
				continue
			}
			side := m.SideOf(tk)
			if side == "" {
				continue
			}
			if score := m.Alliance(side).Score; score > high {
				high = score
				highMatch = fmt.Sprintf("Qualification %d", m.MatchNumber)
			}
		}

		epa := stats.EPA{}
		if epas != nil {
			epa = epas[tk]
		}
		out = append(out, ComparisonTeam{
			TeamStatLine:   line,
			EPAAuto:        round2(epa.Auto),
			EPATeleop:      round2(epa.Teleop),
			EPAEndgame:     round2(epa.Endgame),
			HighScore:      high,
			HighScoreMatch: highMatch,
			Avatar:         avatars[tk],
		})
	}

	return out, nil
}

// OfficialScores returns the official score-detail lines for an event and
// tournament level.
func (s *EventService) OfficialScores(ctx context.Context, eventKey, level string) ([]OfficialScore, error) {
	ctx, span := startUsecaseSpan(ctx, "EventService.OfficialScores")
	defer span.End()

	year, code, err := event.SplitKey(eventKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	level = strings.TrimSpace(level)
	if level == "" {
		level = "Qualification"
	}
	if level != "Qualification" && level != "Playoff" {
		return nil, fmt.Errorf("%w: level must be Qualification or Playoff", ErrInvalidInput)
	}

	if s.official == nil {
		return nil, fmt.Errorf("%w: official results source is not configured", ErrDependencyUnavailable)
	}

	scores, err := s.official.MatchScores(ctx, year, code, level)
	if err != nil {
		return nil, fmt.Errorf("fetch official scores: %w", err)
	}

	return scores, nil
}

// statLine joins one team with the optional enrichment maps.
func statLine(t team.Team, rankMap map[string]stats.Ranking, ratings map[string]stats.PowerRating, epas map[string]stats.EPA) TeamStatLine {
	line := TeamStatLine{
		TeamKey:    t.Key,
		TeamNumber: t.Number,
		Nickname:   t.Nickname,
		SchoolName: t.SchoolName,
		City:       t.City,
		StateProv:  t.StateProv,
		Country:    t.Country,
		EPA:        epaOrZero(epas, t.Key),
	}
	if r, ok := rankMap[t.Key]; ok {
		line.Rank = Rank(r.Rank)
		line.Wins = r.Record.Wins
		line.Losses = r.Record.Losses
		line.Ties = r.Record.Ties
		line.QualAverage = round2(r.QualAverage)
	}
	if ratings != nil {
		p := ratings[t.Key]
		line.OPR = round2(p.OPR)
		line.DPR = round2(p.DPR)
		line.CCWM = round2(p.CCWM)
	}
	return line
}

func rankingsByTeam(rankings []stats.Ranking) map[string]stats.Ranking {
	m := make(map[string]stats.Ranking, len(rankings))
	for _, r := range rankings {
		m[r.TeamKey] = r
	}
	return m
}

// qualScoresByTeam collects each team's alliance scores from played
// qualification matches only.
func qualScoresByTeam(matches []match.Match) map[string][]int {
	scores := make(map[string][]int)
	for _, m := range matches {
		if m.CompLevel != match.LevelQual {
			continue
		}
		for _, side := range []match.Side{match.SideRed, match.SideBlue} {
			a := m.Alliance(side)
			if a.Score < 0 {
				continue
			}
			for _, tk := range a.TeamKeys {
				scores[tk] = append(scores[tk], a.Score)
			}
		}
	}
	return scores
}

func averageOf(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return round2(float64(sum) / float64(len(scores)))
}
