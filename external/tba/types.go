package tba

import (
	"github.com/kleium/casters-tool/internal/domain/alliance"
	"github.com/kleium/casters-tool/internal/domain/award"
	"github.com/kleium/casters-tool/internal/domain/event"
	"github.com/kleium/casters-tool/internal/domain/match"
	"github.com/kleium/casters-tool/internal/domain/stats"
	"github.com/kleium/casters-tool/internal/domain/team"
)

type rawDistrict struct {
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"display_name"`
}

type rawEvent struct {
	Key            string       `json:"key"`
	Name           string       `json:"name"`
	ShortName      string       `json:"short_name"`
	Year           int          `json:"year"`
	EventType      int          `json:"event_type"`
	City           string       `json:"city"`
	StateProv      string       `json:"state_prov"`
	Country        string       `json:"country"`
	District       *rawDistrict `json:"district"`
	StartDate      string       `json:"start_date"`
	EndDate        string       `json:"end_date"`
	FirstEventCode string       `json:"first_event_code"`
}

func (r rawEvent) toDomain() event.Event {
	out := event.Event{
		Key:            r.Key,
		Name:           r.Name,
		ShortName:      r.ShortName,
		Year:           r.Year,
		Type:           event.Type(r.EventType),
		City:           r.City,
		StateProv:      r.StateProv,
		Country:        r.Country,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		FirstEventCode: r.FirstEventCode,
	}
	if r.District != nil {
		out.District = &event.District{
			Abbreviation: r.District.Abbreviation,
			DisplayName:  r.District.DisplayName,
		}
	}
	return out
}

func eventsToDomain(raws []rawEvent) []event.Event {
	out := make([]event.Event, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.toDomain())
	}
	return out
}

type rawTeam struct {
	Key        string `json:"key"`
	TeamNumber int    `json:"team_number"`
	Nickname   string `json:"nickname"`
	City       string `json:"city"`
	StateProv  string `json:"state_prov"`
	Country    string `json:"country"`
	RookieYear int    `json:"rookie_year"`
	SchoolName string `json:"school_name"`
}

func (r rawTeam) toDomain() team.Team {
	return team.Team{
		Key:        r.Key,
		Number:     r.TeamNumber,
		Nickname:   r.Nickname,
		City:       r.City,
		StateProv:  r.StateProv,
		Country:    r.Country,
		RookieYear: r.RookieYear,
		SchoolName: r.SchoolName,
	}
}

func teamsToDomain(raws []rawTeam) []team.Team {
	out := make([]team.Team, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.toDomain())
	}
	return out
}

type rawRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

type rawRankings struct {
	Rankings []struct {
		TeamKey       string    `json:"team_key"`
		Rank          int       `json:"rank"`
		Record        rawRecord `json:"record"`
		SortOrders    []float64 `json:"sort_orders"`
		QualAverage   float64   `json:"qual_average"`
		MatchesPlayed int       `json:"matches_played"`
		DQ            int       `json:"dq"`
	} `json:"rankings"`
}

func (r rawRankings) toDomain() []stats.Ranking {
	out := make([]stats.Ranking, 0, len(r.Rankings))
	for _, row := range r.Rankings {
		out = append(out, stats.Ranking{
			TeamKey:       row.TeamKey,
			Rank:          row.Rank,
			Record:        stats.Record(row.Record),
			SortOrders:    row.SortOrders,
			QualAverage:   row.QualAverage,
			MatchesPlayed: row.MatchesPlayed,
			DQ:            row.DQ,
		})
	}
	return out
}

type rawOPRs struct {
	OPRs  map[string]float64 `json:"oprs"`
	DPRs  map[string]float64 `json:"dprs"`
	CCWMs map[string]float64 `json:"ccwms"`
}

func (r rawOPRs) toDomain() map[string]stats.PowerRating {
	out := make(map[string]stats.PowerRating, len(r.OPRs))
	for tk, opr := range r.OPRs {
		out[tk] = stats.PowerRating{
			OPR:  opr,
			DPR:  r.DPRs[tk],
			CCWM: r.CCWMs[tk],
		}
	}
	return out
}

type rawAllianceScore struct {
	Score    int      `json:"score"`
	TeamKeys []string `json:"team_keys"`
}

type rawReef struct {
	Trough      int `json:"trough"`
	BotRowCount int `json:"tba_botRowCount"`
	MidRowCount int `json:"tba_midRowCount"`
	TopRowCount int `json:"tba_topRowCount"`
}

func (r rawReef) toDomain() match.ReefRows {
	return match.ReefRows{
		Top:    r.TopRowCount,
		Mid:    r.MidRowCount,
		Bottom: r.BotRowCount,
		Trough: r.Trough,
	}
}

type rawAllianceBreakdown struct {
	AutoLineRobot1 string `json:"autoLineRobot1"`
	AutoLineRobot2 string `json:"autoLineRobot2"`
	AutoLineRobot3 string `json:"autoLineRobot3"`
	EndGameRobot1  string `json:"endGameRobot1"`
	EndGameRobot2  string `json:"endGameRobot2"`
	EndGameRobot3  string `json:"endGameRobot3"`

	AutoPoints         int     `json:"autoPoints"`
	AutoMobilityPoints int     `json:"autoMobilityPoints"`
	AutoCoralCount     int     `json:"autoCoralCount"`
	AutoCoralPoints    int     `json:"autoCoralPoints"`
	AutoBonusAchieved  bool    `json:"autoBonusAchieved"`
	AutoReef           rawReef `json:"autoReef"`

	TeleopPoints      int     `json:"teleopPoints"`
	TeleopCoralCount  int     `json:"teleopCoralCount"`
	TeleopCoralPoints int     `json:"teleopCoralPoints"`
	TeleopReef        rawReef `json:"teleopReef"`

	AlgaePoints    int `json:"algaePoints"`
	NetAlgaeCount  int `json:"netAlgaeCount"`
	WallAlgaeCount int `json:"wallAlgaeCount"`

	EndGameBargePoints int  `json:"endGameBargePoints"`
	BargeBonusAchieved bool `json:"bargeBonusAchieved"`

	CoralBonusAchieved      bool `json:"coralBonusAchieved"`
	CoopertitionCriteriaMet bool `json:"coopertitionCriteriaMet"`

	FoulCount     int `json:"foulCount"`
	TechFoulCount int `json:"techFoulCount"`
	FoulPoints    int `json:"foulPoints"`

	AdjustPoints int `json:"adjustPoints"`
	TotalPoints  int `json:"totalPoints"`
	RP           int `json:"rp"`
}

func (r rawAllianceBreakdown) toDomain() match.AllianceBreakdown {
	robots := []match.RobotResult{
		{AutoLine: orDefault(r.AutoLineRobot1, "No"), EndGame: orDefault(r.EndGameRobot1, "None")},
		{AutoLine: orDefault(r.AutoLineRobot2, "No"), EndGame: orDefault(r.EndGameRobot2, "None")},
		{AutoLine: orDefault(r.AutoLineRobot3, "No"), EndGame: orDefault(r.EndGameRobot3, "None")},
	}
	return match.AllianceBreakdown{
		Robots:                  robots,
		AutoPoints:              r.AutoPoints,
		AutoMobilityPoints:      r.AutoMobilityPoints,
		AutoCoralCount:          r.AutoCoralCount,
		AutoCoralPoints:         r.AutoCoralPoints,
		AutoBonusAchieved:       r.AutoBonusAchieved,
		AutoReef:                r.AutoReef.toDomain(),
		TeleopPoints:            r.TeleopPoints,
		TeleopCoralCount:        r.TeleopCoralCount,
		TeleopCoralPoints:       r.TeleopCoralPoints,
		TeleopReef:              r.TeleopReef.toDomain(),
		AlgaePoints:             r.AlgaePoints,
		NetAlgaeCount:           r.NetAlgaeCount,
		WallAlgaeCount:          r.WallAlgaeCount,
		EndGameBargePoints:      r.EndGameBargePoints,
		BargeBonusAchieved:      r.BargeBonusAchieved,
		CoralBonusAchieved:      r.CoralBonusAchieved,
		CoopertitionCriteriaMet: r.CoopertitionCriteriaMet,
		FoulCount:               r.FoulCount,
		TechFoulCount:           r.TechFoulCount,
		FoulPoints:              r.FoulPoints,
		AdjustPoints:            r.AdjustPoints,
		TotalPoints:             r.TotalPoints,
		RankingPoints:           r.RP,
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

type rawMatch struct {
	Key       string `json:"key"`
	EventKey  string `json:"event_key"`
	CompLevel string `json:"comp_level"`
	SetNumber int    `json:"set_number"`
	MatchNum  int    `json:"match_number"`
	Alliances struct {
		Red  rawAllianceScore `json:"red"`
		Blue rawAllianceScore `json:"blue"`
	} `json:"alliances"`
	WinningAlliance string `json:"winning_alliance"`
	Time            int64  `json:"time"`
	ActualTime      int64  `json:"actual_time"`
	ScoreBreakdown  *struct {
		Red  rawAllianceBreakdown `json:"red"`
		Blue rawAllianceBreakdown `json:"blue"`
	} `json:"score_breakdown"`
}

func (r rawMatch) toDomain() match.Match {
	out := match.Match{
		Key:             r.Key,
		EventKey:        r.EventKey,
		CompLevel:       match.Level(r.CompLevel),
		SetNumber:       r.SetNumber,
		MatchNumber:     r.MatchNum,
		Red:             match.AllianceScore{TeamKeys: r.Alliances.Red.TeamKeys, Score: r.Alliances.Red.Score},
		Blue:            match.AllianceScore{TeamKeys: r.Alliances.Blue.TeamKeys, Score: r.Alliances.Blue.Score},
		WinningAlliance: match.Side(r.WinningAlliance),
		Time:            r.Time,
	}
	if r.ActualTime != 0 {
		out.Time = r.ActualTime
	}
	if r.ScoreBreakdown != nil {
		out.Breakdown = &match.Breakdown{
			Red:  r.ScoreBreakdown.Red.toDomain(),
			Blue: r.ScoreBreakdown.Blue.toDomain(),
		}
	}
	return out
}

func matchesToDomain(raws []rawMatch) []match.Match {
	out := make([]match.Match, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.toDomain())
	}
	return out
}

type rawAlliance struct {
	Name   string   `json:"name"`
	Picks  []string `json:"picks"`
	Backup *struct {
		In string `json:"in"`
	} `json:"backup"`
	Status *struct {
		Level  string `json:"level"`
		Status string `json:"status"`
	} `json:"status"`
}

func (r rawAlliance) toDomain() alliance.Selection {
	out := alliance.Selection{Name: r.Name, Picks: r.Picks}
	if r.Backup != nil {
		out.Backup = r.Backup.In
	}
	if r.Status != nil {
		out.Status = &alliance.Status{Level: r.Status.Level, Status: r.Status.Status}
	}
	return out
}

type rawAward struct {
	Name          string `json:"name"`
	AwardType     int    `json:"award_type"`
	EventKey      string `json:"event_key"`
	Year          int    `json:"year"`
	RecipientList []struct {
		TeamKey string `json:"team_key"`
	} `json:"recipient_list"`
}

func (r rawAward) toDomain() award.Award {
	out := award.Award{
		Name:     r.Name,
		Type:     r.AwardType,
		EventKey: r.EventKey,
		Year:     r.Year,
	}
	for _, rec := range r.RecipientList {
		if rec.TeamKey != "" {
			out.Recipients = append(out.Recipients, rec.TeamKey)
		}
	}
	return out
}

func awardsToDomain(raws []rawAward) []award.Award {
	out := make([]award.Award, 0, len(raws))
	for _, r := range raws {
		out = append(out, r.toDomain())
	}
	return out
}

type rawStatus struct {
	Qual *struct {
		Ranking struct {
			Rank   int       `json:"rank"`
			Record rawRecord `json:"record"`
		} `json:"ranking"`
	} `json:"qual"`
	Playoff *struct {
		Level  string `json:"level"`
		Status string `json:"status"`
	} `json:"playoff"`
}

func (r rawStatus) toDomain() team.EventStatus {
	var out team.EventStatus
	if r.Qual != nil {
		out.Qual = &team.QualStatus{
			Rank:   r.Qual.Ranking.Rank,
			Record: stats.Record(r.Qual.Ranking.Record),
		}
	}
	if r.Playoff != nil {
		out.Playoff = &team.PlayoffStatus{Level: r.Playoff.Level, Status: r.Playoff.Status}
	}
	return out
}

type rawMedia struct {
	Type    string `json:"type"`
	Details struct {
		Base64Image string `json:"base64Image"`
	} `json:"details"`
}

func (r rawMedia) toDomain() team.Media {
	return team.Media{Type: r.Type, Base64Image: r.Details.Base64Image}
}
