// Package frcevents is the client for the official FIRST FRC Events API.
// It supplements the results source with organization names and the
// official score-detail feed.
package frcevents

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kleium/casters-tool/internal/gateway"
	"github.com/kleium/casters-tool/internal/platform/logging"
	"github.com/kleium/casters-tool/internal/platform/resilience"
	"github.com/kleium/casters-tool/internal/usecase"
)

const defaultBaseURL = "https://frc-api.firstinspires.org/v3.0"

type Config struct {
	BaseURL string
	// Token is the pre-encoded basic credential ("username:authkey" in
	// base64) the API expects.
	Token          string
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
		Name:    "frc-events",
		BaseURL: baseURL,
		Headers: map[string]string{
			"Authorization": "Basic " + cfg.Token,
			"Accept":        "application/json",
		},
		TTL:            cfg.TTL,
		Timeout:        cfg.Timeout,
		HTTPClient:     cfg.HTTPClient,
		Logger:         cfg.Logger,
		CircuitBreaker: cfg.CircuitBreaker,
	})}
}

type rawTeamListing struct {
	Teams []struct {
		TeamNumber int    `json:"teamNumber"`
		NameShort  string `json:"nameShort"`
		SchoolName string `json:"schoolName"`
		City       string `json:"city"`
		StateProv  string `json:"stateProv"`
		Country    string `json:"country"`
	} `json:"teams"`
}

func (c *Client) EventTeams(ctx context.Context, season int, eventCode string) ([]usecase.OfficialTeam, error) {
	var raw rawTeamListing
	path := fmt.Sprintf("/%d/teams", season)
	if err := c.gw.GetJSON(ctx, path, map[string]string{"eventCode": eventCode}, &raw); err != nil {
		return nil, err
	}
	out := make([]usecase.OfficialTeam, 0, len(raw.Teams))
	for _, t := range raw.Teams {
		out = append(out, usecase.OfficialTeam{
			Number:     t.TeamNumber,
			Nickname:   t.NameShort,
			SchoolName: t.SchoolName,
			City:       t.City,
			StateProv:  t.StateProv,
			Country:    t.Country,
		})
	}
	return out, nil
}

type rawScoreListing struct {
	MatchScores []struct {
		MatchLevel  string `json:"matchLevel"`
		MatchNumber int    `json:"matchNumber"`
		Alliances   []struct {
			Alliance    string `json:"alliance"`
			TotalPoints int    `json:"totalPoints"`
			AutoPoints  int    `json:"autoPoints"`
			FoulPoints  int    `json:"foulPoints"`
			RP          int    `json:"rp"`
		} `json:"alliances"`
	} `json:"MatchScores"`
}

// MatchScores flattens the score-detail feed into one row per alliance.
// Level is the API's tournament level, "Qualification" or "Playoff".
func (c *Client) MatchScores(ctx context.Context, season int, eventCode, level string) ([]usecase.OfficialScore, error) {
	var raw rawScoreListing
	path := fmt.Sprintf("/%d/scores/%s/%s", season, eventCode, level)
	if err := c.gw.GetJSON(ctx, path, nil, &raw); err != nil {
		return nil, err
	}
	var out []usecase.OfficialScore
	for _, ms := range raw.MatchScores {
		for _, al := range ms.Alliances {
			out = append(out, usecase.OfficialScore{
				MatchLevel:  ms.MatchLevel,
				MatchNumber: ms.MatchNumber,
				Side:        al.Alliance,
				TotalPoints: al.TotalPoints,
				AutoPoints:  al.AutoPoints,
				FoulPoints:  al.FoulPoints,
				RP:          al.RP,
			})
		}
	}
	return out, nil
}
