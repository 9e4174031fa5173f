package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/kleium/casters-tool/internal/domain/alliance"
	"github.com/kleium/casters-tool/internal/domain/award"
	"github.com/kleium/casters-tool/internal/domain/event"
	"github.com/kleium/casters-tool/internal/domain/match"
	"github.com/kleium/casters-tool/internal/domain/stats"
	"github.com/kleium/casters-tool/internal/domain/team"
)

var errStubMissing = errors.New("stub: not found")

// stubResults is a map-backed ResultsProvider. Any lookup without seeded
// data returns an error so optional fetches degrade and required fetches
// fail, matching the real gateway.
type stubResults struct {
	eventsByYear     map[int][]event.Event
	events           map[string]event.Event
	eventTeams       map[string][]team.Team
	rankings         map[string][]stats.Ranking
	ratings          map[string]map[string]stats.PowerRating
	matches          map[string][]match.Match
	alliances        map[string][]alliance.Selection
	eventAwards      map[string][]award.Award
	teams            map[string]team.Team
	years            map[string][]int
	teamEvents       map[string][]event.Event
	teamEventsByYear map[string]map[int][]event.Event
	statuses         map[string]map[int]map[string]team.EventStatus
	teamAwards       map[string][]award.Award
	media            map[string]map[int][]team.Media
	matchByKey       map[string]match.Match

	allianceFetches int32
	matchFetches    int32

	mu          sync.Mutex
	invalidated []string
}

func (s *stubResults) EventsByYear(_ context.Context, year int) ([]event.Event, error) {
	if evs, ok := s.eventsByYear[year]; ok {
		return evs, nil
	}
	return nil, errStubMissing
}

func (s *stubResults) Event(_ context.Context, eventKey string) (event.Event, error) {
	if ev, ok := s.events[eventKey]; ok {
		return ev, nil
	}
	return event.Event{}, errStubMissing
}

func (s *stubResults) EventTeams(_ context.Context, eventKey string) ([]team.Team, error) {
	if ts, ok := s.eventTeams[eventKey]; ok {
		return ts, nil
	}
	return nil, errStubMissing
}

func (s *stubResults) EventTeamsFull(ctx context.Context, eventKey string) ([]team.Team, error) {
	return s.EventTeams(ctx, eventKey)
}

func (s *stubResults) EventRankings(_ context.Context, eventKey string) ([]stats.Ranking, error) {
	if rs, ok := s.rankings[eventKey]; ok {
		return rs, nil
	}
	return nil, errStubMissing
}

func (s *stubResults) EventPowerRatings(_ context.Context, eventKey string) (map[string]stats.PowerRating, error) {
	if ps, ok := s.ratings[eventKey]; ok {
		return ps, nil
	}
	return nil, errStubMissing
}

func (s *stubResults) EventMatches(_ context.Context, eventKey string) ([]match.Match, error) {
	atomic.AddInt32(&s.matchFetches, 1)
	if ms, ok := s.matches[eventKey]; ok {
		return ms, nil
	}
	return nil, errStubMissing
}

func (s *stubResults) EventAlliances(_ context.Context, eventKey string) ([]alliance.Selection, error) {
	atomic.AddInt32(&s.allianceFetches, 1)
	if as, ok := s.alliances[eventKey]; ok {
		return as, nil
	}
	return nil, errStubMissing
}

func (s *stubResults) EventAwards(_ context.Context, eventKey string) ([]award.Award, error) {
	if as, ok := s.eventAwards[eventKey]; ok {
		return as, nil
	}
	return nil, errStubMissing
}

func (s *stubResults) Team(_ context.Context, teamKey string) (team.Team, error) {
	if t, ok := s.teams[teamKey]; ok {
		return t, nil
	}
	return team.Team{}, errStubMissing
}

func (s *stubResults) TeamYearsParticipated(_ context.Context, teamKey string) ([]int, error) {
	if ys, ok := s.years[teamKey]; ok {
		return ys, nil
	}
	return nil, errStubMissing
}

func (s *stubResults) TeamEvents(_ context.Context, teamKey string) ([]event.Event, error) {
	if evs, ok := s.teamEvents[teamKey]; ok {
		return evs, nil
	}
	return nil, errStubMissing
}

func (s *stubResults) TeamEventsByYear(_ context.Context, teamKey string, year int) ([]event.Event, error) {
	if byYear, ok := s.teamEventsByYear[teamKey]; ok {
		if evs, ok := byYear[year]; ok {
			return evs, nil
		}
	}
	return nil, errStubMissing
}

func (s *stubResults) TeamEventStatuses(_ context.Context, teamKey string, year int) (map[string]team.EventStatus, error) {
	if byYear, ok := s.statuses[teamKey]; ok {
		if st, ok := byYear[year]; ok {
			return st, nil
		}
	}
	return nil, errStubMissing
}

func (s *stubResults) TeamAwards(_ context.Context, teamKey string) ([]award.Award, error) {
	if as, ok := s.teamAwards[teamKey]; ok {
		return as, nil
	}
	return nil, errStubMissing
}

func (s *stubResults) TeamMedia(_ context.Context, teamKey string, year int) ([]team.Media, error) {
	if byYear, ok := s.media[teamKey]; ok {
		if ms, ok := byYear[year]; ok {
			return ms, nil
		}
	}
	return nil, errStubMissing
}

func (s *stubResults) Match(_ context.Context, matchKey string) (match.Match, error) {
	if m, ok := s.matchByKey[matchKey]; ok {
		return m, nil
	}
	return match.Match{}, errStubMissing
}

func (s *stubResults) InvalidateEventStats(_ context.Context, eventKey string) {
	s.mu.Lock()
	s.invalidated = append(s.invalidated, eventKey)
	s.mu.Unlock()
}

type stubOfficial struct {
	teams  map[string][]OfficialTeam
	scores map[string][]OfficialScore
}

func (s *stubOfficial) EventTeams(_ context.Context, _ int, eventCode string) ([]OfficialTeam, error) {
	if ts, ok := s.teams[eventCode]; ok {
		return ts, nil
	}
	return nil, errStubMissing
}

func (s *stubOfficial) MatchScores(_ context.Context, _ int, eventCode, level string) ([]OfficialScore, error) {
	if ss, ok := s.scores[eventCode+"/"+level]; ok {
		return ss, nil
	}
	return nil, errStubMissing
}

type stubAnalytics struct {
	epas        map[string]map[string]stats.EPA
	predictions map[string]map[string]stats.Prediction
}

func (s *stubAnalytics) EventTeamEPAs(_ context.Context, eventKey string) (map[string]stats.EPA, error) {
	if es, ok := s.epas[eventKey]; ok {
		return es, nil
	}
	return nil, errStubMissing
}

func (s *stubAnalytics) MatchPredictions(_ context.Context, eventKey string) (map[string]stats.Prediction, error) {
	if ps, ok := s.predictions[eventKey]; ok {
		return ps, nil
	}
	return nil, errStubMissing
}
