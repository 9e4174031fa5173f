package team

import "github.com/kleium/casters-tool/internal/domain/stats"

// EventStatus is a team's progress at one event: qualification standing plus
// playoff level reached. Either part may be absent mid-event.
type EventStatus struct {
	Qual    *QualStatus
	Playoff *PlayoffStatus
}

type QualStatus struct {
	Rank   int
	Record stats.Record
}

// PlayoffStatus reports the elimination stage a team reached. Status is the
// provider's raw value ("won", "eliminated", "playing").
type PlayoffStatus struct {
	Level  string
	Status string
}

const PlayoffWon = "won"

// Won reports whether the team won the event's playoff bracket.
func (p *PlayoffStatus) Won() bool {
	return p != nil && p.Status == PlayoffWon
}
