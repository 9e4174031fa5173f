package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/kleium/casters-tool/internal/domain/award"
	"github.com/kleium/casters-tool/internal/domain/event"
	"github.com/kleium/casters-tool/internal/domain/match"
	"github.com/kleium/casters-tool/internal/domain/team"
)

const awardsSummaryMaxTeams = 12

// playoffStageLabels names the deepest bracket stage a team reached,
// in the announcer's phrasing for the current double-elim format.
var playoffStageLabels = map[match.Level]string{
	match.LevelQual:    "Qualifications",
	match.LevelEighth:  "Round 1",
	match.LevelQuarter: "Round 2",
	match.LevelSemi:    "Round 3",
	match.LevelFinal:   "Finals",
}

// winnerContextLabels qualify an "Event Winner" line by the event's tier.
var winnerContextLabels = map[event.Type]string{
	event.TypeRegional:                     "Regional",
	event.TypeDistrict:                     "District",
	event.TypeDistrictChampionship:         "District Championship",
	event.TypeChampionshipDivision:         "FIRST Championship Division",
	event.TypeChampionshipFinal:            "Championship",
	event.TypeDistrictChampionshipDivision: "District Championship Division",
}

type TeamService struct {
	results ResultsProvider
	now     func() time.Time
}

func NewTeamService(results ResultsProvider) *TeamService {
	return &TeamService{results: results, now: time.Now}
}

type TeamEventResult struct {
	EventKey      string `json:"event_key"`
	EventName     string `json:"event_name"`
	EventType     string `json:"event_type"`
	QualRank      Rank   `json:"qual_rank"`
	QualRecord    string `json:"qual_record"`
	PlayoffLevel  string `json:"playoff_level"`
	PlayoffStatus string `json:"playoff_status"`
}

type SeasonAchievement struct {
	Year        int    `json:"year"`
	Achievement string `json:"achievement"`
	EventName   string `json:"event_name,omitempty"`
}

type TeamStats struct {
	TeamNumber         int                 `json:"team_number"`
	TeamKey            string              `json:"team_key"`
	Nickname           string              `json:"nickname"`
	City               string              `json:"city"`
	StateProv          string              `json:"state_prov"`
	Country            string              `json:"country"`
	RookieYear         int                 `json:"rookie_year"`
	YearsActive        int                 `json:"years_active"`
	HighestStage       string              `json:"highest_stage_of_play"`
	HighestEventLevel  string              `json:"highest_event_level"`
	Events             []TeamEventResult   `json:"events_this_year"`
	Year               int                 `json:"year"`
	SeasonAchievements []SeasonAchievement `json:"season_achievements,omitempty"`
	Avatar             string              `json:"avatar,omitempty"`
	BlueBanners        []award.Award       `json:"blue_banners"`
	BlueBannerCount    int                 `json:"blue_banner_count"`
	Awards             []award.Award       `json:"awards"`
}

// Stats assembles a team's season profile. The team record itself must
// resolve; years participated, media, awards, and per-event statuses all
// degrade to empty when unavailable. When no year is given the current
// season is used and per-season achievements are added.
func (s *TeamService) Stats(ctx context.Context, teamNumber int, year *int) (TeamStats, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.Stats")
	defer span.End()

	if teamNumber < 1 {
		return TeamStats{}, fmt.Errorf("%w: team number must be positive", ErrInvalidInput)
	}
	teamKey := team.Key(teamNumber)
	includeHistory := year == nil
	seasonYear := s.now().Year()
	if year != nil {
		seasonYear = *year
	}

	info, err := s.results.Team(ctx, teamKey)
	if err != nil {
		return TeamStats{}, fmt.Errorf("fetch team: %w", err)
	}

	var (
		years     []int
		events    []event.Event
		media     []team.Media
		allAwards []award.Award
		allEvents []event.Event
		statuses  map[string]team.EventStatus
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		years = optional(ctx, func(ctx context.Context) ([]int, error) {
			return s.results.TeamYearsParticipated(ctx, teamKey)
		})
	})
	wg.Go(func() {
		events = optional(ctx, func(ctx context.Context) ([]event.Event, error) {
			return s.results.TeamEventsByYear(ctx, teamKey, seasonYear)
		})
	})
	wg.Go(func() {
		media = optional(ctx, func(ctx context.Context) ([]team.Media, error) {
			return s.results.TeamMedia(ctx, teamKey, seasonYear)
		})
	})
	wg.Go(func() {
		allAwards = optional(ctx, func(ctx context.Context) ([]award.Award, error) {
			return s.results.TeamAwards(ctx, teamKey)
		})
	})
	wg.Go(func() {
		allEvents = optional(ctx, func(ctx context.Context) ([]event.Event, error) {
			return s.results.TeamEvents(ctx, teamKey)
		})
	})
	wg.Go(func() {
		statuses = optional(ctx, func(ctx context.Context) (map[string]team.EventStatus, error) {
			return s.results.TeamEventStatuses(ctx, teamKey, seasonYear)
		})
	})
	wg.Wait()

	eventNames := make(map[string]string, len(allEvents))
	eventTypes := make(map[string]event.Type, len(allEvents))
	for _, ev := range allEvents {
		eventNames[ev.Key] = ev.Name
		eventTypes[ev.Key] = ev.Type
	}

	best := seasonHighlight(events, statuses)
	banners, awardsList := splitAwards(allAwards, eventNames, eventTypes)

	out := TeamStats{
		TeamNumber:        teamNumber,
		TeamKey:           teamKey,
		Nickname:          info.Nickname,
		City:              info.City,
		StateProv:         info.StateProv,
		Country:           info.Country,
		RookieYear:        info.RookieYear,
		YearsActive:       len(years),
		HighestStage:      best.stageLabel,
		HighestEventLevel: best.eventLevel,
		Events:            best.results,
		Year:              seasonYear,
		Avatar:            team.Avatar(media),
		BlueBanners:       banners,
		BlueBannerCount:   len(banners),
		Awards:            awardsList,
	}

	if includeHistory && len(years) > 0 {
		out.SeasonAchievements = s.seasonAchievements(ctx, teamKey, years)
	}

	return out, nil
}

type highlight struct {
	stageLabel string
	eventLevel string
	results    []TeamEventResult
}

// seasonHighlight walks a season's events to find the deepest stage
// reached, ranking an event win above any bracket exit and breaking ties
// by event tier so a Championship win outranks a Regional win.
func seasonHighlight(events []event.Event, statuses map[string]team.EventStatus) highlight {
	out := highlight{
		stageLabel: "N/A — No events yet",
		eventLevel: "Unknown",
		results:    []TeamEventResult{},
	}

	bestComp, bestTier := -1, -1
	bestEventTier := -1
	for _, ev := range events {
		status := statuses[ev.Key]

		compRank, stageLabel, _ := stageOf(status, ev.Type)
		tier := ev.Type.Rank()

		if compRank > bestComp || (compRank == bestComp && tier > bestTier) {
			bestComp, bestTier = compRank, tier
			out.stageLabel = stageLabel
		}
		if tier > bestEventTier {
			bestEventTier = tier
			out.eventLevel = ev.Type.Label()
		}

		res := TeamEventResult{
			EventKey:      ev.Key,
			EventName:     ev.Name,
			EventType:     ev.Type.Label(),
			QualRecord:    "0-0-0",
			PlayoffLevel:  "Qualifications",
			PlayoffStatus: "-",
		}
		if status.Qual != nil {
			res.QualRank = Rank(status.Qual.Rank)
			res.QualRecord = status.Qual.Record.String()
		}
		if status.Playoff != nil {
			level := match.Level(status.Playoff.Level)
			switch {
			case status.Playoff.Won():
				res.PlayoffLevel = "Finals"
			default:
				if label, ok := playoffStageLabels[level]; ok {
					res.PlayoffLevel = label
				} else {
					res.PlayoffLevel = status.Playoff.Level
				}
			}
			if status.Playoff.Status != "" {
				res.PlayoffStatus = status.Playoff.Status
			}
		}
		out.results = append(out.results, res)
	}

	return out
}

// stageOf ranks one event's outcome: 0-4 by bracket level, 5 for winning
// the event outright.
func stageOf(status team.EventStatus, evType event.Type) (rank int, label, playoffStatus string) {
	if status.Playoff == nil {
		return 0, playoffStageLabels[match.LevelQual], ""
	}
	level := match.Level(status.Playoff.Level)
	if status.Playoff.Won() {
		label = "Event Winner"
		if ctx, ok := winnerContextLabels[evType]; ok {
			label = fmt.Sprintf("Event Winner (%s)", ctx)
		}
		return 5, label, status.Playoff.Status
	}
	rank = level.Rank()
	if rank > 4 || rank < 0 {
		rank = 0
	}
	label, ok := playoffStageLabels[level]
	if !ok {
		label = playoffStageLabels[match.LevelQual]
	}
	return rank, label, status.Playoff.Status
}

// seasonAchievements resolves the single best result per season across a
// team's whole competitive history. Seasons that fail to load degrade to
// a bare "Competed" entry.
func (s *TeamService) seasonAchievements(ctx context.Context, teamKey string, years []int) []SeasonAchievement {
	sorted := append([]int(nil), years...)
	sort.Ints(sorted)

	type seasonData struct {
		statuses map[string]team.EventStatus
		events   []event.Event
	}
	data := make([]seasonData, len(sorted))

	var wg conc.WaitGroup
	for i, y := range sorted {
		i, y := i, y
		wg.Go(func() {
			statuses := optional(ctx, func(ctx context.Context) (map[string]team.EventStatus, error) {
				return s.results.TeamEventStatuses(ctx, teamKey, y)
			})
			events := optional(ctx, func(ctx context.Context) ([]event.Event, error) {
				return s.results.TeamEventsByYear(ctx, teamKey, y)
			})
			data[i] = seasonData{statuses: statuses, events: events}
		})
	}
	wg.Wait()

	out := make([]SeasonAchievement, 0, len(data))
	for i, season := range data {
		entry := SeasonAchievement{Year: sorted[i], Achievement: "Competed"}
		if len(season.statuses) == 0 {
			out = append(out, entry)
			continue
		}

		evByKey := make(map[string]event.Event, len(season.events))
		for _, ev := range season.events {
			evByKey[ev.Key] = ev
		}

		bestComp, bestTier := -1, -1
		for _, ek := range sortedKeys(season.statuses) {
			ev := evByKey[ek]
			compRank, label, _ := stageOf(season.statuses[ek], ev.Type)
			tier := ev.Type.Rank()
			if compRank > bestComp || (compRank == bestComp && tier > bestTier) {
				bestComp, bestTier = compRank, tier
				entry.Achievement = label
				entry.EventName = ev.Name
				if entry.EventName == "" {
					entry.EventName = ek
				}
			}
		}
		out = append(out, entry)
	}

	return out
}

// splitAwards separates blue banners from the full award list. Banner-type
// awards hosted at offseason events do not count.
func splitAwards(all []award.Award, eventNames map[string]string, eventTypes map[string]event.Type) (banners, awards []award.Award) {
	banners = []award.Award{}
	awards = make([]award.Award, 0, len(all))
	for _, aw := range all {
		if aw.EventName == "" {
			if name, ok := eventNames[aw.EventKey]; ok {
				aw.EventName = name
			} else {
				aw.EventName = aw.EventKey
			}
		}
		awards = append(awards, aw)

		if !aw.IsBlueBanner() {
			continue
		}
		evType, known := eventTypes[aw.EventKey]
		if known && !evType.IsOfficial() {
			continue
		}
		banners = append(banners, aw)
	}
	sort.SliceStable(awards, func(i, j int) bool { return awards[i].Year > awards[j].Year })
	return banners, awards
}

type TeamAwardsSummary struct {
	TeamNumber      int           `json:"team_number"`
	Nickname        string        `json:"nickname"`
	BlueBannerCount int           `json:"blue_banner_count"`
	RecentAwards    []award.Award `json:"recent_awards"`
}

// AwardsSummary returns banner counts and the last three seasons of awards
// for up to twelve teams at once.
func (s *TeamService) AwardsSummary(ctx context.Context, teamNumbers []int) ([]TeamAwardsSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.AwardsSummary")
	defer span.End()

	if len(teamNumbers) == 0 || len(teamNumbers) > awardsSummaryMaxTeams {
		return nil, fmt.Errorf("%w: provide 1-%d team numbers", ErrInvalidInput, awardsSummaryMaxTeams)
	}
	for _, num := range teamNumbers {
		if num < 1 {
			return nil, fmt.Errorf("%w: team numbers must be positive", ErrInvalidInput)
		}
	}

	cutoff := s.now().Year() - 2

	out := make([]TeamAwardsSummary, len(teamNumbers))
	var wg conc.WaitGroup
	for i, num := range teamNumbers {
		i, num := i, num
		wg.Go(func() {
			tk := team.Key(num)
			summary := TeamAwardsSummary{TeamNumber: num, RecentAwards: []award.Award{}}

			var (
				info      team.Team
				awards    []award.Award
				allEvents []event.Event
			)
			var inner conc.WaitGroup
			inner.Go(func() {
				info = optional(ctx, func(ctx context.Context) (team.Team, error) {
					return s.results.Team(ctx, tk)
				})
			})
			inner.Go(func() {
				awards = optional(ctx, func(ctx context.Context) ([]award.Award, error) {
					return s.results.TeamAwards(ctx, tk)
				})
			})
			inner.Go(func() {
				allEvents = optional(ctx, func(ctx context.Context) ([]event.Event, error) {
					return s.results.TeamEvents(ctx, tk)
				})
			})
			inner.Wait()

			summary.Nickname = info.Nickname

			names := make(map[string]string, len(allEvents))
			types := make(map[string]event.Type, len(allEvents))
			for _, ev := range allEvents {
				names[ev.Key] = ev.Name
				types[ev.Key] = ev.Type
			}
			banners, list := splitAwards(awards, names, types)
			summary.BlueBannerCount = len(banners)
			for _, aw := range list {
				if aw.Year >= cutoff {
					summary.RecentAwards = append(summary.RecentAwards, aw)
				}
			}
			out[i] = summary
		})
	}
	wg.Wait()

	return out, nil
}

type HeadToHeadMatch struct {
	EventKey     string `json:"event_key"`
	EventName    string `json:"event_name"`
	MatchKey     string `json:"match_key"`
	MatchLabel   string `json:"match_label"`
	CompLevel    string `json:"comp_level"`
	Year         int    `json:"year"`
	RedTeams     []int  `json:"red_teams"`
	BlueTeams    []int  `json:"blue_teams"`
	RedScore     int    `json:"red_score"`
	BlueScore    int    `json:"blue_score"`
	Winner       string `json:"winner"`
	Relationship string `json:"relationship"`
}

type HeadToHeadSummary struct {
	TotalOpponentMatches int `json:"total_opponent_matches"`
	TeamAWins            int `json:"team_a_wins"`
	TeamBWins            int `json:"team_b_wins"`
	TotalAllyMatches     int `json:"total_ally_matches"`
}

type HeadToHead struct {
	TeamA           int               `json:"team_a"`
	TeamB           int               `json:"team_b"`
	OpponentMatches []HeadToHeadMatch `json:"opponent_matches"`
	AllyMatches     []HeadToHeadMatch `json:"ally_matches"`
	Summary         HeadToHeadSummary `json:"h2h_summary"`
	YearsChecked    []int             `json:"years_checked"`
	AllTime         bool              `json:"all_time"`
	TeamNicknames   map[int]string    `json:"team_nicknames"`
}

// HeadToHead finds every elimination match where two teams met, as allies
// or opponents, across a three-season window ending at the given year, or
// across both teams' full history when allTime is set.
func (s *TeamService) HeadToHead(ctx context.Context, teamA, teamB int, year *int, allTime bool) (HeadToHead, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.HeadToHead")
	defer span.End()

	if teamA < 1 || teamB < 1 {
		return HeadToHead{}, fmt.Errorf("%w: team numbers must be positive", ErrInvalidInput)
	}
	if teamA == teamB {
		return HeadToHead{}, fmt.Errorf("%w: provide two distinct teams", ErrInvalidInput)
	}

	keyA, keyB := team.Key(teamA), team.Key(teamB)
	endYear := s.now().Year()
	if year != nil {
		endYear = *year
	}

	startYear := endYear - 2
	if allTime {
		var yearsA, yearsB []int
		var wg conc.WaitGroup
		wg.Go(func() {
			yearsA = optional(ctx, func(ctx context.Context) ([]int, error) {
				return s.results.TeamYearsParticipated(ctx, keyA)
			})
		})
		wg.Go(func() {
			yearsB = optional(ctx, func(ctx context.Context) ([]int, error) {
				return s.results.TeamYearsParticipated(ctx, keyB)
			})
		})
		wg.Wait()

		for _, y := range append(yearsA, yearsB...) {
			if y < startYear {
				startYear = y
			}
		}
	}
	var yearRange []int
	for y := startYear; y <= endYear; y++ {
		yearRange = append(yearRange, y)
	}

	var results []HeadToHeadMatch
	seenNumbers := map[int]bool{teamA: true, teamB: true}

	for _, checkYear := range yearRange {
		var eventsA, eventsB []event.Event
		var wg conc.WaitGroup
		wg.Go(func() {
			eventsA = optional(ctx, func(ctx context.Context) ([]event.Event, error) {
				return s.results.TeamEventsByYear(ctx, keyA, checkYear)
			})
		})
		wg.Go(func() {
			eventsB = optional(ctx, func(ctx context.Context) ([]event.Event, error) {
				return s.results.TeamEventsByYear(ctx, keyB, checkYear)
			})
		})
		wg.Wait()
		if len(eventsA) == 0 || len(eventsB) == 0 {
			continue
		}

		keysA := make(map[string]bool, len(eventsA))
		for _, ev := range eventsA {
			keysA[ev.Key] = true
		}
		var commonKeys []string
		names := make(map[string]string)
		for _, ev := range eventsB {
			if keysA[ev.Key] {
				commonKeys = append(commonKeys, ev.Key)
				names[ev.Key] = ev.Name
			}
		}
		sort.Strings(commonKeys)
		if len(commonKeys) == 0 {
			continue
		}

		matchesByEvent := make(map[string][]match.Match, len(commonKeys))
		var mu sync.Mutex
		var fetchWG conc.WaitGroup
		for _, ek := range commonKeys {
			ek := ek
			fetchWG.Go(func() {
				matches := optional(ctx, func(ctx context.Context) ([]match.Match, error) {
					return s.results.EventMatches(ctx, ek)
				})
				mu.Lock()
				matchesByEvent[ek] = matches
				mu.Unlock()
			})
		}
		fetchWG.Wait()

		for _, ek := range commonKeys {
			for _, m := range matchesByEvent[ek] {
				if !m.CompLevel.IsElimination() {
					continue
				}
				sideA, sideB := m.SideOf(keyA), m.SideOf(keyB)
				if sideA == "" || sideB == "" {
					continue
				}

				row := HeadToHeadMatch{
					EventKey:   ek,
					EventName:  names[ek],
					MatchKey:   m.Key,
					MatchLabel: headToHeadLabel(m),
					CompLevel:  playoffStageLabels[m.CompLevel],
					Year:       checkYear,
					RedTeams:   teamNumbers(m.Red.TeamKeys),
					BlueTeams:  teamNumbers(m.Blue.TeamKeys),
					RedScore:   m.Red.Score,
					BlueScore:  m.Blue.Score,
				}
				for _, n := range row.RedTeams {
					seenNumbers[n] = true
				}
				for _, n := range row.BlueTeams {
					seenNumbers[n] = true
				}

				winner := m.WinningAlliance
				if sideA != sideB {
					row.Relationship = "opponents"
					switch {
					case winner == sideA:
						row.Winner = fmt.Sprint(teamA)
					case winner == sideB:
						row.Winner = fmt.Sprint(teamB)
					default:
						row.Winner = "tie"
					}
				} else {
					row.Relationship = "allies"
					if winner == sideA {
						row.Winner = "both"
					} else {
						row.Winner = "neither"
					}
				}
				results = append(results, row)
			}
		}
	}

	out := HeadToHead{
		TeamA:           teamA,
		TeamB:           teamB,
		OpponentMatches: []HeadToHeadMatch{},
		AllyMatches:     []HeadToHeadMatch{},
		YearsChecked:    yearRange,
		AllTime:         allTime,
	}
	teamALabel, teamBLabel := fmt.Sprint(teamA), fmt.Sprint(teamB)
	for _, r := range results {
		if r.Relationship == "opponents" {
			out.OpponentMatches = append(out.OpponentMatches, r)
			switch r.Winner {
			case teamALabel:
				out.Summary.TeamAWins++
			case teamBLabel:
				out.Summary.TeamBWins++
			}
		} else {
			out.AllyMatches = append(out.AllyMatches, r)
		}
	}
	out.Summary.TotalOpponentMatches = len(out.OpponentMatches)
	out.Summary.TotalAllyMatches = len(out.AllyMatches)
	out.TeamNicknames = s.nicknamesFor(ctx, seenNumbers)

	return out, nil
}

func (s *TeamService) nicknamesFor(ctx context.Context, numbers map[int]bool) map[int]string {
	out := make(map[int]string, len(numbers))
	var mu sync.Mutex
	var wg conc.WaitGroup
	for num := range numbers {
		num := num
		wg.Go(func() {
			info := optional(ctx, func(ctx context.Context) (team.Team, error) {
				return s.results.Team(ctx, team.Key(num))
			})
			if info.Nickname == "" {
				return
			}
			mu.Lock()
			out[num] = info.Nickname
			mu.Unlock()
		})
	}
	wg.Wait()
	return out
}

var shortStageLabels = map[match.Level]string{
	match.LevelEighth:  "R1",
	match.LevelQuarter: "R2",
	match.LevelSemi:    "R3",
}

func headToHeadLabel(m match.Match) string {
	if m.CompLevel == match.LevelFinal {
		return fmt.Sprintf("Final %d", m.MatchNumber)
	}
	prefix, ok := shortStageLabels[m.CompLevel]
	if !ok {
		prefix = string(m.CompLevel)
	}
	return fmt.Sprintf("%s %d-%d", prefix, m.SetNumber, m.MatchNumber)
}
