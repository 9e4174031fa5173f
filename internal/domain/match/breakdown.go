package match

// RobotResult holds the per-robot fields from an alliance score breakdown.
// Robot slots 1-3 map onto the alliance team list in order.
type RobotResult struct {
	TeamKey    string `json:"teamKey"`
	TeamNumber int    `json:"teamNumber"`
	AutoLine   string `json:"autoLine"`
	EndGame    string `json:"endGame"`
}

// ReefRows counts scored game pieces per reef level.
type ReefRows struct {
	Top    int `json:"top"`
	Mid    int `json:"mid"`
	Bottom int `json:"bottom"`
	Trough int `json:"trough"`
}

// AllianceBreakdown is one alliance's half of a scored match breakdown,
// using the 2025 field set.
type AllianceBreakdown struct {
	Robots []RobotResult `json:"robots"`

	AutoPoints         int      `json:"autoPoints"`
	AutoMobilityPoints int      `json:"autoMobilityPoints"`
	AutoCoralCount     int      `json:"autoCoralCount"`
	AutoCoralPoints    int      `json:"autoCoralPoints"`
	AutoBonusAchieved  bool     `json:"autoBonusAchieved"`
	AutoReef           ReefRows `json:"autoReef"`

	TeleopPoints      int      `json:"teleopPoints"`
	TeleopCoralCount  int      `json:"teleopCoralCount"`
	TeleopCoralPoints int      `json:"teleopCoralPoints"`
	TeleopReef        ReefRows `json:"teleopReef"`

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

	AdjustPoints  int `json:"adjustPoints"`
	TotalPoints   int `json:"totalPoints"`
	RankingPoints int `json:"rp"`
}

// Breakdown is the full score breakdown for a played match. A nil Breakdown
// on a Match means the source has not published one yet.
type Breakdown struct {
	Red  AllianceBreakdown `json:"red"`
	Blue AllianceBreakdown `json:"blue"`
}

// Side returns the breakdown half for the given alliance side.
func (b *Breakdown) Side(s Side) AllianceBreakdown {
	if s == SideBlue {
		return b.Blue
	}
	return b.Red
}
