package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/kleium/casters-tool/internal/domain/alliance"
	"github.com/kleium/casters-tool/internal/domain/event"
	"github.com/kleium/casters-tool/internal/domain/history"
	"github.com/kleium/casters-tool/internal/domain/match"
	"github.com/kleium/casters-tool/internal/domain/team"
)

const (
	// lookbackFloorYear bounds windowed scans; the modern-era floor keeps
	// the teams-by-years burst proportional to the lookback setting.
	lookbackFloorYear = 2015
	// allTimeFloorYear bounds all-time scans below any rookie year.
	allTimeFloorYear = 2000

	defaultLookbackYears  = 3
	defaultHistoryWorkers = 16
)

// stageLabels names the highest shared playoff stage on a connection.
var stageLabels = map[match.Level]string{
	match.LevelQual:    "Quals",
	match.LevelEighth:  "Eighths",
	match.LevelQuarter: "Quarters",
	match.LevelSemi:    "Semi-Finals",
	match.LevelFinal:   "Finals",
}

var stageOrder = map[string]int{
	"Alliance":    0,
	"Playoffs":    0,
	"Eighths":     1,
	"Quarters":    2,
	"Semi-Finals": 3,
	"Finals":      4,
}

// HistoryService builds the prior-playoff-relationship graph for a set of
// teams: for every pair, the events where they allied and the events where
// they met in eliminations.
type HistoryService struct {
	results  ResultsProvider
	lookback int
	workers  int
}

func NewHistoryService(results ResultsProvider, lookbackYears, workers int) *HistoryService {
	if lookbackYears < 1 {
		lookbackYears = defaultLookbackYears
	}
	if workers < 1 {
		workers = defaultHistoryWorkers
	}
	return &HistoryService{
		results:  results,
		lookback: lookbackYears,
		workers:  workers,
	}
}

// Connections builds the relationship graph for every team at an event.
func (s *HistoryService) Connections(ctx context.Context, eventKey string, allTime bool) ([]history.Connection, error) {
	ctx, span := startUsecaseSpan(ctx, "HistoryService.Connections")
	defer span.End()

	year, _, err := event.SplitKey(eventKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	teams, err := s.results.EventTeamsFull(ctx, eventKey)
	if err != nil {
		return nil, fmt.Errorf("fetch event teams: %w", err)
	}
	if len(teams) == 0 {
		return []history.Connection{}, nil
	}

	return s.build(ctx, teams, eventKey, year, allTime)
}

// MatchConnections builds the graph for a specific set of teams, e.g. the
// six on the field for one match.
func (s *HistoryService) MatchConnections(ctx context.Context, eventKey string, teamNumbers []int, allTime bool) ([]history.Connection, error) {
	ctx, span := startUsecaseSpan(ctx, "HistoryService.MatchConnections")
	defer span.End()

	year, _, err := event.SplitKey(eventKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(teamNumbers) == 0 {
		return nil, fmt.Errorf("%w: at least one team number is required", ErrInvalidInput)
	}

	teams := make([]team.Team, 0, len(teamNumbers))
	var mu sync.Mutex
	var wg conc.WaitGroup
	for _, num := range teamNumbers {
		tk := team.Key(num)
		wg.Go(func() {
			t := optional(ctx, func(ctx context.Context) (team.Team, error) {
				return s.results.Team(ctx, tk)
			})
			if t.Key == "" {
				return
			}
			mu.Lock()
			teams = append(teams, t)
			mu.Unlock()
		})
	}
	wg.Wait()
	if len(teams) == 0 {
		return []history.Connection{}, nil
	}

	return s.build(ctx, teams, eventKey, year, allTime)
}

// Partnerships reports, for each pair of alliance partners, whether they
// have shared an alliance at any prior event and where.
func (s *HistoryService) Partnerships(ctx context.Context, selections []alliance.Selection, eventKey string) (map[string]Partnership, error) {
	ctx, span := startUsecaseSpan(ctx, "HistoryService.Partnerships")
	defer span.End()

	_, _, err := event.SplitKey(eventKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	teamSet := make(map[string]bool)
	for _, sel := range selections {
		for _, tk := range sel.Picks {
			teamSet[tk] = true
		}
	}
	if len(teamSet) == 0 {
		return map[string]Partnership{}, nil
	}

	teamKeys := sortedKeys(teamSet)

	// All-time scan seeded from years participated.
	yearsByTeam := make(map[string][]int, len(teamKeys))
	var mu sync.Mutex
	var wg conc.WaitGroup
	for _, tk := range teamKeys {
		tk := tk
		wg.Go(func() {
			years := optional(ctx, func(ctx context.Context) ([]int, error) {
				return s.results.TeamYearsParticipated(ctx, tk)
			})
			mu.Lock()
			yearsByTeam[tk] = years
			mu.Unlock()
		})
	}
	wg.Wait()

	eventSets, nameByEvent, err := s.eventSets(ctx, eventKey, func(tk string) []int { return yearsByTeam[tk] }, teamKeys...)
	if err != nil {
		return nil, err
	}

	// Union of events any partner pair shares.
	shared := make(map[string]bool)
	for _, sel := range selections {
		picks := sel.Picks
		for i := 0; i < len(picks); i++ {
			for j := i + 1; j < len(picks); j++ {
				for ek := range intersect(eventSets[picks[i]], eventSets[picks[j]]) {
					shared[ek] = true
				}
			}
		}
	}

	allianceCache := s.fetchAlliances(ctx, sortedKeys(shared))

	out := make(map[string]Partnership)
	for _, sel := range selections {
		picks := sel.Picks
		for i := 0; i < len(picks); i++ {
			for j := i + 1; j < len(picks); j++ {
				ta, tb := picks[i], picks[j]
				var refs []history.StageRef
				for ek := range intersect(eventSets[ta], eventSets[tb]) {
					for _, al := range allianceCache[ek] {
						if al.Has(ta) && al.Has(tb) {
							evYear, _, _ := event.SplitKey(ek)
							refs = append(refs, history.StageRef{
								EventKey:  ek,
								EventName: nameByEvent[ek],
								Year:      evYear,
								Stage:     al.Name,
							})
							break
						}
					}
				}
				sort.Slice(refs, func(a, b int) bool { return refs[a].EventKey > refs[b].EventKey })
				out[ta+"+"+tb] = Partnership{FirstTime: len(refs) == 0, History: refs}
			}
		}
	}

	return out, nil
}

// Partnership is the prior-shared-alliance record for one partner pair.
type Partnership struct {
	FirstTime bool               `json:"first_time"`
	History   []history.StageRef `json:"history"`
}

// build is the graph pipeline: enumerate each team's events inside the
// window, prune to pairs with shared events, fetch alliances and matches
// once per shared event, then classify each pair's relationship.
func (s *HistoryService) build(ctx context.Context, teams []team.Team, eventKey string, year int, allTime bool) ([]history.Connection, error) {
	checkYears := s.window(teams, year, allTime)
	if len(checkYears) == 0 {
		return []history.Connection{}, nil
	}

	yearsFor := func(string) []int { return checkYears }
	eventSets, nameByEvent, err := s.eventSets(ctx, eventKey, yearsFor, teamKeysOf(teams)...)
	if err != nil {
		return nil, err
	}

	nicknames := make(map[string]string, len(teams))
	numbers := make(map[string]int, len(teams))
	for _, t := range teams {
		nicknames[t.Key] = t.Nickname
		numbers[t.Key] = t.Number
	}

	// Pairwise pruning: only pairs with at least one shared event survive,
	// and only their union of shared events is fetched.
	teamKeys := teamKeysOf(teams)
	type pair struct{ a, b string }
	pairCommon := make(map[pair]map[string]bool)
	shared := make(map[string]bool)
	for i := 0; i < len(teamKeys); i++ {
		for j := i + 1; j < len(teamKeys); j++ {
			common := intersect(eventSets[teamKeys[i]], eventSets[teamKeys[j]])
			if len(common) == 0 {
				continue
			}
			pairCommon[pair{teamKeys[i], teamKeys[j]}] = common
			for ek := range common {
				shared[ek] = true
			}
		}
	}
	if len(shared) == 0 {
		return []history.Connection{}, nil
	}

	sharedKeys := sortedKeys(shared)
	var (
		allianceCache map[string][]alliance.Selection
		matchCache    map[string][]match.Match
	)
	var wg conc.WaitGroup
	wg.Go(func() { allianceCache = s.fetchAlliances(ctx, sharedKeys) })
	wg.Go(func() { matchCache = s.fetchMatches(ctx, sharedKeys) })
	wg.Wait()

	connections := make([]history.Connection, 0, len(pairCommon))
	for p, common := range pairCommon {
		conn := s.classifyPair(p.a, p.b, common, allianceCache, matchCache, nameByEvent)
		if len(conn.PartneredAt) == 0 && len(conn.OpponentsAt) == 0 {
			continue
		}
		conn.TeamA = numbers[p.a]
		conn.TeamAName = nicknames[p.a]
		conn.TeamB = numbers[p.b]
		conn.TeamBName = nicknames[p.b]
		connections = append(connections, conn)
	}

	sort.SliceStable(connections, func(i, j int) bool {
		if connections[i].Total() != connections[j].Total() {
			return connections[i].Total() > connections[j].Total()
		}
		if connections[i].TeamA != connections[j].TeamA {
			return connections[i].TeamA < connections[j].TeamA
		}
		return connections[i].TeamB < connections[j].TeamB
	})

	return connections, nil
}

// window picks the seasons to scan: a bounded lookback including the
// current season, or all-time back to the earliest rookie year.
func (s *HistoryService) window(teams []team.Team, year int, allTime bool) []int {
	start := year - s.lookback
	if start < lookbackFloorYear {
		start = lookbackFloorYear
	}
	if allTime {
		earliest := 0
		for _, t := range teams {
			if t.RookieYear > 0 && (earliest == 0 || t.RookieYear < earliest) {
				earliest = t.RookieYear
			}
		}
		// No known rookie years still means a real historical scan.
		if earliest == 0 {
			earliest = lookbackFloorYear
		}
		start = earliest
		if start < allTimeFloorYear {
			start = allTimeFloorYear
		}
	}

	years := make([]int, 0, year-start+1)
	for y := start; y <= year; y++ {
		years = append(years, y)
	}
	return years
}

// eventSets enumerates each team's official events across its check years
// on a bounded worker pool. The origin event and offseason-type events are
// excluded; every fetch failure degrades to an empty list.
func (s *HistoryService) eventSets(ctx context.Context, originKey string, yearsFor func(string) []int, teamKeys ...string) (map[string]map[string]bool, map[string]string, error) {
	type task struct {
		teamKey string
		year    int
	}
	var tasks []task
	if len(teamKeys) == 0 {
		return nil, nil, fmt.Errorf("%w: no teams to scan", ErrInvalidInput)
	}
	for _, tk := range teamKeys {
		for _, y := range yearsFor(tk) {
			tasks = append(tasks, task{teamKey: tk, year: y})
		}
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	eventSets := make(map[string]map[string]bool, len(teamKeys))
	for _, tk := range teamKeys {
		eventSets[tk] = make(map[string]bool)
	}
	nameByEvent := make(map[string]string)

	var mu sync.Mutex
	var workers sync.WaitGroup
	for _, t := range tasks {
		t := t
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			events := optional(ctx, func(ctx context.Context) ([]event.Event, error) {
				return s.results.TeamEventsByYear(ctx, t.teamKey, t.year)
			})

			mu.Lock()
			defer mu.Unlock()
			for _, ev := range events {
				if !ev.Type.IsOfficial() {
					continue
				}
				if ev.Key != originKey {
					eventSets[t.teamKey][ev.Key] = true
				}
				if _, ok := nameByEvent[ev.Key]; !ok {
					nameByEvent[ev.Key] = ev.DisplayName()
				}
			}
		}); err != nil {
			workers.Done()
			return nil, nil, fmt.Errorf("submit scan task: %w", err)
		}
	}
	workers.Wait()

	return eventSets, nameByEvent, nil
}

func (s *HistoryService) fetchAlliances(ctx context.Context, eventKeys []string) map[string][]alliance.Selection {
	out := make(map[string][]alliance.Selection, len(eventKeys))
	var mu sync.Mutex
	var wg conc.WaitGroup
	for _, ek := range eventKeys {
		ek := ek
		wg.Go(func() {
			selections := optional(ctx, func(ctx context.Context) ([]alliance.Selection, error) {
				return s.results.EventAlliances(ctx, ek)
			})
			if len(selections) == 0 {
				return
			}
			mu.Lock()
			out[ek] = selections
			mu.Unlock()
		})
	}
	wg.Wait()
	return out
}

func (s *HistoryService) fetchMatches(ctx context.Context, eventKeys []string) map[string][]match.Match {
	out := make(map[string][]match.Match, len(eventKeys))
	var mu sync.Mutex
	var wg conc.WaitGroup
	for _, ek := range eventKeys {
		ek := ek
		wg.Go(func() {
			matches := optional(ctx, func(ctx context.Context) ([]match.Match, error) {
				return s.results.EventMatches(ctx, ek)
			})
			if len(matches) == 0 {
				return
			}
			mu.Lock()
			out[ek] = matches
			mu.Unlock()
		})
	}
	wg.Wait()
	return out
}

// classifyPair walks one pair's shared events and splits them into
// partnered and opposed stage references, keeping only the highest stage
// per event.
func (s *HistoryService) classifyPair(ta, tb string, common map[string]bool, allianceCache map[string][]alliance.Selection, matchCache map[string][]match.Match, nameByEvent map[string]string) history.Connection {
	var partnered, opposed []history.StageRef

	for ek := range common {
		evYear, _, _ := event.SplitKey(ek)
		name := nameByEvent[ek]
		if name == "" {
			name = ek
		}

		// Shared alliance at this event?
		werePartners := false
		result := ""
		for _, al := range allianceCache[ek] {
			if al.Has(ta) && al.Has(tb) {
				werePartners = true
				if al.Won() {
					result = history.ResultWinner
				} else if al.IsFinalist() {
					result = history.ResultFinalist
				}
				break
			}
		}

		if werePartners {
			stage := "Alliance"
			best := -1
			for _, m := range matchCache[ek] {
				if !m.CompLevel.IsElimination() {
					continue
				}
				side := m.SideOf(ta)
				if side == "" || side != m.SideOf(tb) {
					continue
				}
				if r := m.CompLevel.Rank(); r > best {
					best = r
					stage = stageLabels[m.CompLevel]
				}
			}
			partnered = append(partnered, history.StageRef{
				EventKey:  ek,
				EventName: name,
				Year:      evYear,
				Stage:     stage,
				Result:    result,
			})
		}

		// Elimination meetings on opposite sides.
		best := -1
		stage := ""
		for _, m := range matchCache[ek] {
			if !m.CompLevel.IsElimination() {
				continue
			}
			sideA, sideB := m.SideOf(ta), m.SideOf(tb)
			if sideA == "" || sideB == "" || sideA == sideB {
				continue
			}
			if r := m.CompLevel.Rank(); r > best {
				best = r
				stage = stageLabels[m.CompLevel]
			}
		}
		if stage != "" {
			opposed = append(opposed, history.StageRef{
				EventKey:  ek,
				EventName: name,
				Year:      evYear,
				Stage:     stage,
			})
		}
	}

	return history.Connection{
		PartneredAt: dedupByEvent(partnered),
		OpponentsAt: dedupByEvent(opposed),
	}
}

// dedupByEvent keeps the highest stage per event key and orders the result
// newest first.
func dedupByEvent(refs []history.StageRef) []history.StageRef {
	best := make(map[string]history.StageRef, len(refs))
	for _, ref := range refs {
		if cur, ok := best[ref.EventKey]; !ok || stageOrder[ref.Stage] > stageOrder[cur.Stage] {
			best[ref.EventKey] = ref
		}
	}
	out := make([]history.StageRef, 0, len(best))
	for _, ref := range best {
		out = append(out, ref)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].EventKey > out[j].EventKey
	})
	return out
}

func intersect(a, b map[string]bool) map[string]bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	out := make(map[string]bool)
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func sortedKeys[V any](set map[string]V) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func teamKeysOf(teams []team.Team) []string {
	out := make([]string, 0, len(teams))
	for _, t := range teams {
		out = append(out, t.Key)
	}
	return out
}
