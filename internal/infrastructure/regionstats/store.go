// Package regionstats serves the pre-generated regional achievement file.
// The file is produced offline and loaded once at startup; lookups after
// that are in-memory and never touch an upstream API.
package regionstats

import (
	"os"
	"sort"
	"sync"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/kleium/casters-tool/internal/domain/region"
)

type Store struct {
	path string

	mu     sync.RWMutex
	loaded bool
	facts  map[string]region.Facts
	hof    map[int]region.AchievementTeam
	impact map[int]region.AchievementTeam
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads and indexes the stats file. A missing file is not an error;
// the store then serves an empty dataset so the rest of the API keeps
// working without regional facts.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.facts = map[string]region.Facts{}
	s.hof = map[int]region.AchievementTeam{}
	s.impact = map[int]region.AchievementTeam{}
	s.loaded = true

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return crerr.Wrapf(err, "read region stats %s", s.path)
	}
	if err := sonic.Unmarshal(raw, &s.facts); err != nil {
		return crerr.Wrapf(err, "parse region stats %s", s.path)
	}

	// Flatten per-region achievement lists into team-number lookups. A team
	// listed by several regions keeps the union of its years.
	for _, facts := range s.facts {
		mergeAchievements(s.hof, facts.HallOfFameTeams)
		mergeAchievements(s.impact, facts.ImpactFinalists)
	}
	return nil
}

func mergeAchievements(into map[int]region.AchievementTeam, entries []region.AchievementTeam) {
	for _, entry := range entries {
		existing, ok := into[entry.TeamNumber]
		if !ok {
			entry.Years = append([]int(nil), entry.Years...)
			into[entry.TeamNumber] = entry
			continue
		}
		existing.Years = mergeYears(existing.Years, entry.Years)
		into[entry.TeamNumber] = existing
	}
}

func mergeYears(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	for _, y := range a {
		seen[y] = true
	}
	for _, y := range b {
		seen[y] = true
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

func (s *Store) Facts(name string) (region.Facts, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	facts, ok := s.facts[name]
	return facts, ok
}

func (s *Store) Regions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.facts))
	for name := range s.facts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HallOfFame reports a team's FIRST Impact Award championship wins, if any.
func (s *Store) HallOfFame(teamNumber int) (region.AchievementTeam, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.hof[teamNumber]
	return entry, ok
}

// ImpactFinalist reports a team's Impact Award finalist record, if any.
func (s *Store) ImpactFinalist(teamNumber int) (region.AchievementTeam, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.impact[teamNumber]
	return entry, ok
}
