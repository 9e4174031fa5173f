// Package region holds the pre-computed regional achievement data served
// from a generated stats file.
package region

// AchievementTeam is one team's entry in a regional achievement list.
type AchievementTeam struct {
	TeamNumber int    `json:"team_number"`
	Nickname   string `json:"nickname"`
	City       string `json:"city,omitempty"`
	StateProv  string `json:"state_prov,omitempty"`
	Country    string `json:"country,omitempty"`
	Years      []int  `json:"years,omitempty"`
}

// Visitor is an out-of-region team that has competed at the region's events.
type Visitor struct {
	TeamNumber int    `json:"team_number"`
	Nickname   string `json:"nickname"`
	Country    string `json:"country"`
	Visits     int    `json:"visits"`
}

// Facts is the pre-computed profile of one region.
type Facts struct {
	FirstEventYear           int               `json:"first_event_year"`
	FirstEventName           string            `json:"first_event_name"`
	ActiveYears              int               `json:"active_years"`
	TotalEvents              int               `json:"total_events"`
	TeamCount                int               `json:"team_count"`
	CurrentSeasonTeams       int               `json:"current_season_teams"`
	HallOfFameTeams          []AchievementTeam `json:"hof_teams"`
	HallOfFameCount          int               `json:"hof_count"`
	ImpactFinalists          []AchievementTeam `json:"impact_finalists"`
	ImpactCount              int               `json:"impact_count"`
	EinsteinTeams            []AchievementTeam `json:"einstein_teams"`
	EinsteinCount            int               `json:"einstein_count"`
	TopInternationalVisitors []Visitor         `json:"top_international_visitors"`
}
