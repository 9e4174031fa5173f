// Package tba is the competition-results client. It speaks the read API of
// The Blue Alliance and is the source of record for events, teams, matches,
// rankings, and awards.
package tba

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kleium/casters-tool/internal/domain/alliance"
	"github.com/kleium/casters-tool/internal/domain/award"
	"github.com/kleium/casters-tool/internal/domain/event"
	"github.com/kleium/casters-tool/internal/domain/match"
	"github.com/kleium/casters-tool/internal/domain/stats"
	"github.com/kleium/casters-tool/internal/domain/team"
	"github.com/kleium/casters-tool/internal/gateway"
	"github.com/kleium/casters-tool/internal/platform/logging"
	"github.com/kleium/casters-tool/internal/platform/resilience"
)

const defaultBaseURL = "https://www.thebluealliance.com/api/v3"

type Config struct {
	BaseURL        string
	APIKey         string
	TTL            time.Duration
	Timeout        time.Duration
	HTTPClient     *http.Client
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	gw *gateway.Gateway
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{gw: gateway.New(gateway.Config{
		Name:           "tba",
		BaseURL:        baseURL,
		Headers:        map[string]string{"X-TBA-Auth-Key": cfg.APIKey},
		TTL:            cfg.TTL,
		Timeout:        cfg.Timeout,
		HTTPClient:     cfg.HTTPClient,
		Logger:         cfg.Logger,
		CircuitBreaker: cfg.CircuitBreaker,
	})}
}

func (c *Client) EventsByYear(ctx context.Context, year int) ([]event.Event, error) {
	var raws []rawEvent
	if err := c.gw.GetJSON(ctx, fmt.Sprintf("/events/%d", year), nil, &raws); err != nil {
		return nil, err
	}
	return eventsToDomain(raws), nil
}

func (c *Client) Event(ctx context.Context, eventKey string) (event.Event, error) {
	var raw rawEvent
	if err := c.gw.GetJSON(ctx, "/event/"+eventKey, nil, &raw); err != nil {
		return event.Event{}, err
	}
	return raw.toDomain(), nil
}

func (c *Client) EventTeams(ctx context.Context, eventKey string) ([]team.Team, error) {
	var raws []rawTeam
	if err := c.gw.GetJSON(ctx, "/event/"+eventKey+"/teams/simple", nil, &raws); err != nil {
		return nil, err
	}
	return teamsToDomain(raws), nil
}

func (c *Client) EventTeamsFull(ctx context.Context, eventKey string) ([]team.Team, error) {
	var raws []rawTeam
	if err := c.gw.GetJSON(ctx, "/event/"+eventKey+"/teams", nil, &raws); err != nil {
		return nil, err
	}
	return teamsToDomain(raws), nil
}

func (c *Client) EventRankings(ctx context.Context, eventKey string) ([]stats.Ranking, error) {
	var raw rawRankings
	if err := c.gw.GetJSON(ctx, "/event/"+eventKey+"/rankings", nil, &raw); err != nil {
		return nil, err
	}
	return raw.toDomain(), nil
}

func (c *Client) EventPowerRatings(ctx context.Context, eventKey string) (map[string]stats.PowerRating, error) {
	var raw rawOPRs
	if err := c.gw.GetJSON(ctx, "/event/"+eventKey+"/oprs", nil, &raw); err != nil {
		return nil, err
	}
	return raw.toDomain(), nil
}

func (c *Client) EventMatches(ctx context.Context, eventKey string) ([]match.Match, error) {
	var raws []rawMatch
	if err := c.gw.GetJSON(ctx, "/event/"+eventKey+"/matches", nil, &raws); err != nil {
		return nil, err
	}
	return matchesToDomain(raws), nil
}

func (c *Client) EventAlliances(ctx context.Context, eventKey string) ([]alliance.Selection, error) {
	var raws []rawAlliance
	if err := c.gw.GetJSON(ctx, "/event/"+eventKey+"/alliances", nil, &raws); err != nil {
		return nil, err
	}
	out := make([]alliance.Selection, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (c *Client) EventAwards(ctx context.Context, eventKey string) ([]award.Award, error) {
	var raws []rawAward
	if err := c.gw.GetJSON(ctx, "/event/"+eventKey+"/awards", nil, &raws); err != nil {
		return nil, err
	}
	return awardsToDomain(raws), nil
}

func (c *Client) Team(ctx context.Context, teamKey string) (team.Team, error) {
	var raw rawTeam
	if err := c.gw.GetJSON(ctx, "/team/"+teamKey, nil, &raw); err != nil {
		return team.Team{}, err
	}
	return raw.toDomain(), nil
}

func (c *Client) TeamYearsParticipated(ctx context.Context, teamKey string) ([]int, error) {
	var years []int
	if err := c.gw.GetJSON(ctx, "/team/"+teamKey+"/years_participated", nil, &years); err != nil {
		return nil, err
	}
	return years, nil
}

func (c *Client) TeamEvents(ctx context.Context, teamKey string) ([]event.Event, error) {
	var raws []rawEvent
	if err := c.gw.GetJSON(ctx, "/team/"+teamKey+"/events", nil, &raws); err != nil {
		return nil, err
	}
	return eventsToDomain(raws), nil
}

func (c *Client) TeamEventsByYear(ctx context.Context, teamKey string, year int) ([]event.Event, error) {
	var raws []rawEvent
	if err := c.gw.GetJSON(ctx, fmt.Sprintf("/team/%s/events/%d", teamKey, year), nil, &raws); err != nil {
		return nil, err
	}
	return eventsToDomain(raws), nil
}

func (c *Client) TeamEventStatuses(ctx context.Context, teamKey string, year int) (map[string]team.EventStatus, error) {
	raws := map[string]rawStatus{}
	if err := c.gw.GetJSON(ctx, fmt.Sprintf("/team/%s/events/%d/statuses", teamKey, year), nil, &raws); err != nil {
		return nil, err
	}
	out := make(map[string]team.EventStatus, len(raws))
	for ek, raw := range raws {
		out[ek] = raw.toDomain()
	}
	return out, nil
}

func (c *Client) TeamAwards(ctx context.Context, teamKey string) ([]award.Award, error) {
	var raws []rawAward
	if err := c.gw.GetJSON(ctx, "/team/"+teamKey+"/awards", nil, &raws); err != nil {
		return nil, err
	}
	return awardsToDomain(raws), nil
}

func (c *Client) TeamMedia(ctx context.Context, teamKey string, year int) ([]team.Media, error) {
	var raws []rawMedia
	if err := c.gw.GetJSON(ctx, fmt.Sprintf("/team/%s/media/%d", teamKey, year), nil, &raws); err != nil {
		return nil, err
	}
	out := make([]team.Media, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (c *Client) Match(ctx context.Context, matchKey string) (match.Match, error) {
	var raw rawMatch
	if err := c.gw.GetJSON(ctx, "/match/"+matchKey, nil, &raw); err != nil {
		return match.Match{}, err
	}
	return raw.toDomain(), nil
}

// InvalidateEventStats drops the cached rankings, calculated ratings, and
// roster for one event so the next read refetches them.
func (c *Client) InvalidateEventStats(ctx context.Context, eventKey string) {
	for _, suffix := range []string{"/rankings", "/oprs", "/teams"} {
		c.gw.Invalidate(ctx, "/event/"+eventKey+suffix)
	}
}
