package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/kleium/casters-tool/internal/domain/award"
	"github.com/kleium/casters-tool/internal/domain/event"
	"github.com/kleium/casters-tool/internal/domain/region"
	"github.com/kleium/casters-tool/internal/domain/team"
	"github.com/kleium/casters-tool/internal/resolver"
)

// firstSeasonYear is the first FRC season; event-history scans start there.
const firstSeasonYear = 1992

// RegionFactsStore serves the pre-generated per-region fact sheets.
type RegionFactsStore interface {
	Facts(name string) (region.Facts, bool)
	Regions() []string
}

type RegionService struct {
	results ResultsProvider
	store   RegionFactsStore
	now     func() time.Time
}

func NewRegionService(results ResultsProvider, store RegionFactsStore) *RegionService {
	return &RegionService{results: results, store: store, now: time.Now}
}

// Facts returns the pre-computed fact sheet for one region. No upstream
// calls are made; an unknown region is simply not found.
func (s *RegionService) Facts(ctx context.Context, name string) (region.Facts, error) {
	_, span := startUsecaseSpan(ctx, "RegionService.Facts")
	defer span.End()

	if strings.TrimSpace(name) == "" {
		return region.Facts{}, fmt.Errorf("%w: region name is required", ErrInvalidInput)
	}
	facts, ok := s.store.Facts(name)
	if !ok {
		return region.Facts{}, fmt.Errorf("%w: region %q", ErrNotFound, name)
	}
	return facts, nil
}

func (s *RegionService) List(ctx context.Context) []string {
	_, span := startUsecaseSpan(ctx, "RegionService.List")
	defer span.End()
	return s.store.Regions()
}

type LeaderboardEntry struct {
	TeamNumber int    `json:"team_number"`
	Nickname   string `json:"nickname"`
	Count      int    `json:"count"`
}

type TimelineTeam struct {
	TeamNumber int    `json:"team_number"`
	Nickname   string `json:"nickname"`
}

type TimelineYear struct {
	Year      int            `json:"year"`
	EventKey  string         `json:"event_key"`
	Winners   []TimelineTeam `json:"winners"`
	Finalists []TimelineTeam `json:"finalists"`
	Impact    *TimelineTeam  `json:"impact"`
}

type EventHistory struct {
	EventName     string             `json:"event_name"`
	EventKey      string             `json:"event_key"`
	FirstHeld     int                `json:"first_held"`
	Editions      int                `json:"editions"`
	YearsHeld     []int              `json:"years_held"`
	MostWins      []LeaderboardEntry `json:"most_wins"`
	MostFinalists []LeaderboardEntry `json:"most_finalists"`
	MostImpact    []LeaderboardEntry `json:"most_impact"`
	MostEI        []LeaderboardEntry `json:"most_ei"`
	MostRAS       []LeaderboardEntry `json:"most_ras"`
	Timeline      []TimelineYear     `json:"timeline"`
}

// EventHistory reconstructs a recurring event's lineage across every season
// since 1992 and aggregates its trophy history. Events that changed codes
// over the years are matched through the curated alias families; for codes
// outside the map, instances are further filtered by short name so a code
// reused by an unrelated event does not pollute the history.
func (s *RegionService) EventHistory(ctx context.Context, eventKey string) (EventHistory, error) {
	ctx, span := startUsecaseSpan(ctx, "RegionService.EventHistory")
	defer span.End()

	currentYear, keyCode, err := event.SplitKey(eventKey)
	if err != nil {
		return EventHistory{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	origin, err := s.results.Event(ctx, eventKey)
	if err != nil {
		return EventHistory{}, fmt.Errorf("fetch event: %w", err)
	}

	aliasCodes, usedAliasMap := resolver.AliasFamily(keyCode)
	if origin.FirstEventCode != "" && origin.FirstEventCode != keyCode {
		extra, _ := resolver.AliasFamily(origin.FirstEventCode)
		merged := make(map[string]bool, len(aliasCodes)+len(extra))
		for c := range aliasCodes {
			merged[c] = true
		}
		for c := range extra {
			merged[c] = true
		}
		aliasCodes = merged
	}

	instances := s.scanInstances(ctx, currentYear, aliasCodes)

	// A code reused by a different event (same code, new name) would blend
	// two histories. The curated alias families intentionally span renames,
	// so only uncurated matches get the short-name filter, and never down
	// to an empty list.
	originShort := strings.ToLower(strings.TrimSpace(origin.ShortName))
	if !usedAliasMap && originShort != "" && len(instances) > 1 {
		var filtered []event.Event
		for _, ev := range instances {
			if strings.ToLower(strings.TrimSpace(ev.ShortName)) == originShort {
				filtered = append(filtered, ev)
			}
		}
		if len(filtered) > 0 {
			instances = filtered
		}
	}
	if len(instances) == 0 {
		instances = []event.Event{origin}
	}
	sort.Slice(instances, func(i, j int) bool {
		if instances[i].StartDate != instances[j].StartDate {
			return instances[i].StartDate < instances[j].StartDate
		}
		return instances[i].Key < instances[j].Key
	})

	agg := s.aggregateAwards(ctx, instances)
	s.fillNicknames(ctx, agg)

	out := EventHistory{
		EventName:     origin.Name,
		EventKey:      eventKey,
		FirstHeld:     instances[0].Year,
		Editions:      len(instances),
		MostWins:      agg.leaderboard(agg.winners, 10),
		MostFinalists: agg.leaderboard(agg.finalists, 10),
		MostImpact:    agg.leaderboard(agg.impact, 10),
		MostEI:        agg.leaderboard(agg.ei, 5),
		MostRAS:       agg.leaderboard(agg.ras, 5),
		Timeline:      agg.timeline(),
	}
	for _, ev := range instances {
		out.YearsHeld = append(out.YearsHeld, ev.Year)
	}
	sort.Ints(out.YearsHeld)

	return out, nil
}

// scanInstances walks every season's event list looking for keys or
// first-event codes in the alias family.
func (s *RegionService) scanInstances(ctx context.Context, currentYear int, aliasCodes map[string]bool) []event.Event {
	byYear := make([][]event.Event, currentYear-firstSeasonYear+1)
	var wg conc.WaitGroup
	for y := firstSeasonYear; y <= currentYear; y++ {
		i, y := y-firstSeasonYear, y
		wg.Go(func() {
			byYear[i] = optional(ctx, func(ctx context.Context) ([]event.Event, error) {
				return s.results.EventsByYear(ctx, y)
			})
		})
	}
	wg.Wait()

	var out []event.Event
	for _, events := range byYear {
		for _, ev := range events {
			if aliasCodes[ev.Code()] || (ev.FirstEventCode != "" && aliasCodes[ev.FirstEventCode]) {
				out = append(out, ev)
			}
		}
	}
	return out
}

type yearAwards struct {
	year      int
	eventKey  string
	winners   []string
	finalists []string
	impact    string
}

type awardAggregate struct {
	winners   map[string]int
	finalists map[string]int
	impact    map[string]int
	ei        map[string]int
	ras       map[string]int
	nicknames map[string]string
	years     []yearAwards
}

func (s *RegionService) aggregateAwards(ctx context.Context, instances []event.Event) *awardAggregate {
	agg := &awardAggregate{
		winners:   map[string]int{},
		finalists: map[string]int{},
		impact:    map[string]int{},
		ei:        map[string]int{},
		ras:       map[string]int{},
		nicknames: map[string]string{},
	}

	awardsByEvent := make([][]award.Award, len(instances))
	var wg conc.WaitGroup
	for i, ev := range instances {
		i, key := i, ev.Key
		wg.Go(func() {
			awardsByEvent[i] = optional(ctx, func(ctx context.Context) ([]award.Award, error) {
				return s.results.EventAwards(ctx, key)
			})
		})
	}
	wg.Wait()

	for i, awards := range awardsByEvent {
		if len(awards) == 0 {
			continue
		}
		yd := yearAwards{year: instances[i].Year, eventKey: instances[i].Key}
		for _, aw := range awards {
			for _, tk := range aw.Recipients {
				if tk == "" {
					continue
				}
				switch aw.Type {
				case award.TypeWinner:
					agg.winners[tk]++
					yd.winners = append(yd.winners, tk)
				case award.TypeFinalist:
					agg.finalists[tk]++
					yd.finalists = append(yd.finalists, tk)
				case award.TypeImpact:
					agg.impact[tk]++
					yd.impact = tk
				case award.TypeEngineeringInspiration:
					agg.ei[tk]++
				case award.TypeRookieAllStar:
					agg.ras[tk]++
				}
			}
		}
		agg.years = append(agg.years, yd)
	}

	return agg
}

// fillNicknames fetches display names for every team appearing on a
// leaderboard or in the timeline.
func (s *RegionService) fillNicknames(ctx context.Context, agg *awardAggregate) {
	want := map[string]bool{}
	for _, counter := range []map[string]int{agg.winners, agg.finalists, agg.impact, agg.ei, agg.ras} {
		for _, entry := range topCounts(counter, 10) {
			want[entry.key] = true
		}
	}
	for _, yd := range agg.years {
		for _, tk := range yd.winners {
			want[tk] = true
		}
		for _, tk := range yd.finalists {
			want[tk] = true
		}
		if yd.impact != "" {
			want[yd.impact] = true
		}
	}

	var mu sync.Mutex
	var wg conc.WaitGroup
	for tk := range want {
		tk := tk
		wg.Go(func() {
			info := optional(ctx, func(ctx context.Context) (team.Team, error) {
				return s.results.Team(ctx, tk)
			})
			if info.Nickname == "" {
				return
			}
			mu.Lock()
			agg.nicknames[tk] = info.Nickname
			mu.Unlock()
		})
	}
	wg.Wait()
}

func (agg *awardAggregate) leaderboard(counter map[string]int, limit int) []LeaderboardEntry {
	out := []LeaderboardEntry{}
	for _, entry := range topCounts(counter, limit) {
		number, _ := team.Number(entry.key)
		out = append(out, LeaderboardEntry{
			TeamNumber: number,
			Nickname:   agg.nicknames[entry.key],
			Count:      entry.count,
		})
	}
	return out
}

func (agg *awardAggregate) timeline() []TimelineYear {
	out := make([]TimelineYear, 0, len(agg.years))
	for _, yd := range agg.years {
		entry := TimelineYear{
			Year:      yd.year,
			EventKey:  yd.eventKey,
			Winners:   agg.resolveTeams(yd.winners),
			Finalists: agg.resolveTeams(yd.finalists),
		}
		if yd.impact != "" {
			resolved := agg.resolveTeams([]string{yd.impact})
			entry.Impact = &resolved[0]
		}
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

func (agg *awardAggregate) resolveTeams(teamKeys []string) []TimelineTeam {
	out := make([]TimelineTeam, 0, len(teamKeys))
	for _, tk := range teamKeys {
		number, _ := team.Number(tk)
		out = append(out, TimelineTeam{TeamNumber: number, Nickname: agg.nicknames[tk]})
	}
	return out
}

type countedKey struct {
	key   string
	count int
}

func topCounts(counter map[string]int, limit int) []countedKey {
	out := make([]countedKey, 0, len(counter))
	for k, c := range counter {
		out = append(out, countedKey{key: k, count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
