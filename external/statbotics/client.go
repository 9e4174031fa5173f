// Package statbotics is the predictive-analytics client: EPA ratings and
// match predictions from the public Statbotics REST API. The API needs no
// key; the cache TTL is the politeness knob.
package statbotics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/kleium/casters-tool/internal/domain/stats"
	"github.com/kleium/casters-tool/internal/domain/team"
	"github.com/kleium/casters-tool/internal/gateway"
	"github.com/kleium/casters-tool/internal/platform/logging"
	"github.com/kleium/casters-tool/internal/platform/resilience"
)

const (
	defaultBaseURL = "https://api.statbotics.io/v3"
	matchPageLimit = 500
)

type Config struct {
	BaseURL        string
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
		Name:           "statbotics",
		BaseURL:        baseURL,
		TTL:            cfg.TTL,
		Timeout:        cfg.Timeout,
		HTTPClient:     cfg.HTTPClient,
		Logger:         cfg.Logger,
		CircuitBreaker: cfg.CircuitBreaker,
	})}
}

type rawTeamEvent struct {
	Team int `json:"team"`
	EPA  struct {
		TotalPoints struct {
			Mean float64 `json:"mean"`
		} `json:"total_points"`
		Breakdown struct {
			AutoPoints    float64 `json:"auto_points"`
			TeleopPoints  float64 `json:"teleop_points"`
			EndgamePoints float64 `json:"endgame_points"`
		} `json:"breakdown"`
	} `json:"epa"`
}

// EventTeamEPAs returns EPA figures keyed by "frcNNN" team key for every
// team at the event.
func (c *Client) EventTeamEPAs(ctx context.Context, eventKey string) (map[string]stats.EPA, error) {
	var raws []rawTeamEvent
	if err := c.gw.GetJSON(ctx, "/team_events", map[string]string{"event": eventKey}, &raws); err != nil {
		return nil, err
	}
	out := make(map[string]stats.EPA, len(raws))
	for _, te := range raws {
		if te.Team <= 0 {
			continue
		}
		out[team.Key(te.Team)] = stats.EPA{
			Total:   round2(te.EPA.TotalPoints.Mean),
			Auto:    round2(te.EPA.Breakdown.AutoPoints),
			Teleop:  round2(te.EPA.Breakdown.TeleopPoints),
			Endgame: round2(te.EPA.Breakdown.EndgamePoints),
		}
	}
	return out, nil
}

type rawMatch struct {
	Key  string `json:"key"`
	Pred *struct {
		Winner     string   `json:"winner"`
		RedWinProb *float64 `json:"red_win_prob"`
		RedScore   float64  `json:"red_score"`
		BlueScore  float64  `json:"blue_score"`
	} `json:"pred"`
}

// MatchPredictions returns the model's picks keyed by results-source match
// key. Matches without a prediction block are skipped.
func (c *Client) MatchPredictions(ctx context.Context, eventKey string) (map[string]stats.Prediction, error) {
	var raws []rawMatch
	query := map[string]string{"event": eventKey, "limit": strconv.Itoa(matchPageLimit)}
	if err := c.gw.GetJSON(ctx, "/matches", query, &raws); err != nil {
		return nil, err
	}
	out := make(map[string]stats.Prediction, len(raws))
	for _, m := range raws {
		if m.Key == "" || m.Pred == nil {
			continue
		}
		pred := stats.Prediction{
			Winner:    m.Pred.Winner,
			RedScore:  round1(m.Pred.RedScore),
			BlueScore: round1(m.Pred.BlueScore),
		}
		if m.Pred.RedWinProb != nil {
			p := round3(*m.Pred.RedWinProb)
			pred.RedWinProb = &p
		}
		out[m.Key] = pred
	}
	return out, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
