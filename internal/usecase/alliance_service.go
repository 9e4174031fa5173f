package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc"

	"github.com/kleium/casters-tool/internal/domain/alliance"
	"github.com/kleium/casters-tool/internal/domain/event"
	"github.com/kleium/casters-tool/internal/domain/stats"
	"github.com/kleium/casters-tool/internal/domain/team"
)

type AllianceService struct {
	results ResultsProvider
	history *HistoryService
}

func NewAllianceService(results ResultsProvider, history *HistoryService) *AllianceService {
	return &AllianceService{results: results, history: history}
}

type AllianceCard struct {
	Number int              `json:"number"`
	Name   string           `json:"name"`
	Teams  []TeamStatLine   `json:"teams"`
	Picks  []string         `json:"picks"`
	Status *alliance.Status `json:"status,omitempty"`
}

type EventAlliances struct {
	Alliances    []AllianceCard         `json:"alliances"`
	Partnerships map[string]Partnership `json:"partnerships"`
}

// AlliancesWithStats returns the playoff alliances with per-team qual
// stats and, for every partner pair, whether this is their first shared
// alliance. The selection list must exist; rankings, ratings, and roster
// info are optional.
func (s *AllianceService) AlliancesWithStats(ctx context.Context, eventKey string) (EventAlliances, error) {
	ctx, span := startUsecaseSpan(ctx, "AllianceService.AlliancesWithStats")
	defer span.End()

	if _, _, err := event.SplitKey(eventKey); err != nil {
		return EventAlliances{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	selections, err := s.results.EventAlliances(ctx, eventKey)
	if err != nil {
		return EventAlliances{}, fmt.Errorf("fetch event alliances: %w", err)
	}
	if len(selections) == 0 {
		return EventAlliances{Alliances: []AllianceCard{}, Partnerships: map[string]Partnership{}}, nil
	}

	var (
		teams    []team.Team
		rankings []stats.Ranking
		ratings  map[string]stats.PowerRating
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
	wg.Wait()

	teamsByKey := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		teamsByKey[t.Key] = t
	}
	rankMap := rankingsByTeam(rankings)

	cards := make([]AllianceCard, 0, len(selections))
	for i, sel := range selections {
		card := AllianceCard{
			Number: i + 1,
			Name:   sel.Name,
			Picks:  sel.Picks,
			Status: sel.Status,
			Teams:  make([]TeamStatLine, 0, len(sel.Picks)),
		}
		if card.Name == "" {
			card.Name = fmt.Sprintf("Alliance %d", i+1)
		}
		for _, tk := range sel.Picks {
			t, ok := teamsByKey[tk]
			if !ok {
				num, _ := team.Number(tk)
				t = team.Team{Key: tk, Number: num}
			}
			card.Teams = append(card.Teams, statLine(t, rankMap, ratings, nil))
		}
		cards = append(cards, card)
	}

	partnerships, err := s.history.Partnerships(ctx, selections, eventKey)
	if err != nil {
		return EventAlliances{}, fmt.Errorf("check partnerships: %w", err)
	}

	return EventAlliances{Alliances: cards, Partnerships: partnerships}, nil
}
