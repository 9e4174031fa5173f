package usecase

import (
	"context"

	"github.com/kleium/casters-tool/internal/domain/alliance"
	"github.com/kleium/casters-tool/internal/domain/award"
	"github.com/kleium/casters-tool/internal/domain/event"
	"github.com/kleium/casters-tool/internal/domain/match"
	"github.com/kleium/casters-tool/internal/domain/stats"
	"github.com/kleium/casters-tool/internal/domain/team"
)

// ResultsProvider is the competition-results source (TBA-style API). It is
// the source of record for events, teams, matches, rankings, and awards.
type ResultsProvider interface {
	EventsByYear(ctx context.Context, year int) ([]event.Event, error)
	Event(ctx context.Context, eventKey string) (event.Event, error)
	EventTeams(ctx context.Context, eventKey string) ([]team.Team, error)
	EventTeamsFull(ctx context.Context, eventKey string) ([]team.Team, error)
	EventRankings(ctx context.Context, eventKey string) ([]stats.Ranking, error)
	EventPowerRatings(ctx context.Context, eventKey string) (map[string]stats.PowerRating, error)
	EventMatches(ctx context.Context, eventKey string) ([]match.Match, error)
	EventAlliances(ctx context.Context, eventKey string) ([]alliance.Selection, error)
	EventAwards(ctx context.Context, eventKey string) ([]award.Award, error)

	Team(ctx context.Context, teamKey string) (team.Team, error)
	TeamYearsParticipated(ctx context.Context, teamKey string) ([]int, error)
	TeamEvents(ctx context.Context, teamKey string) ([]event.Event, error)
	TeamEventsByYear(ctx context.Context, teamKey string, year int) ([]event.Event, error)
	TeamEventStatuses(ctx context.Context, teamKey string, year int) (map[string]team.EventStatus, error)
	TeamAwards(ctx context.Context, teamKey string) ([]award.Award, error)
	TeamMedia(ctx context.Context, teamKey string, year int) ([]team.Media, error)

	Match(ctx context.Context, matchKey string) (match.Match, error)

	// InvalidateEventStats drops cached rankings, calculated ratings, and
	// rosters for the event so the next fetch is fresh.
	InvalidateEventStats(ctx context.Context, eventKey string)
}

// OfficialTeam is an event roster entry from the official events source,
// which carries organization names the results source lacks.
type OfficialTeam struct {
	Number     int    `json:"teamNumber"`
	Nickname   string `json:"nameShort"`
	SchoolName string `json:"schoolName"`
	City       string `json:"city"`
	StateProv  string `json:"stateProv"`
	Country    string `json:"country"`
}

// OfficialScore is one alliance's score line from the official score-detail
// feed, keyed by match and level.
type OfficialScore struct {
	MatchLevel  string `json:"matchLevel"`
	MatchNumber int    `json:"matchNumber"`
	Side        string `json:"alliance"`
	TotalPoints int    `json:"totalPoints"`
	AutoPoints  int    `json:"autoPoints"`
	FoulPoints  int    `json:"foulPoints"`
	RP          int    `json:"rp"`
}

// OfficialProvider is the official FIRST events source.
type OfficialProvider interface {
	EventTeams(ctx context.Context, season int, eventCode string) ([]OfficialTeam, error)
	MatchScores(ctx context.Context, season int, eventCode, level string) ([]OfficialScore, error)
}

// AnalyticsProvider is the predictive-analytics source (Statbotics-style
// API): EPA ratings and match predictions. Keys follow the results source's
// formats ("frcNNN" team keys, TBA match keys).
type AnalyticsProvider interface {
	EventTeamEPAs(ctx context.Context, eventKey string) (map[string]stats.EPA, error)
	MatchPredictions(ctx context.Context, eventKey string) (map[string]stats.Prediction, error)
}

// optional runs fetch and degrades any failure to the zero value. Rankings,
// ratings, and analytics regularly do not exist yet early in an event; their
// absence must never fail a join.
func optional[T any](ctx context.Context, fetch func(context.Context) (T, error)) T {
	out, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero
	}
	return out
}
