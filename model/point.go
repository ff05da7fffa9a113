package model

import (
	"strings"
	"time"
)

// PointStatus is one team's view of a point. Statuses advance
// FUTURE -> ACTIVE -> COMPLETE; back/reactivate are the only sanctioned
// regressions. GUEST is terminal and means the team never joined the game.
type PointStatus string

const (
	StatusUnknown  PointStatus = ""
	StatusFuture   PointStatus = "FUTURE"
	StatusActive   PointStatus = "ACTIVE"
	StatusComplete PointStatus = "COMPLETE"
	StatusGuest    PointStatus = "GUEST"
)

func ParsePointStatus(s string) PointStatus {
	switch strings.ToUpper(s) {
	case "FUTURE":
		return StatusFuture
	case "ACTIVE":
		return StatusActive
	case "COMPLETE":
		return StatusComplete
	case "GUEST":
		return StatusGuest
	default:
		return StatusUnknown
	}
}

// Inactive reports whether the status permits cleanup of the team's half.
// Every status other than ACTIVE is inactive.
func (s PointStatus) Inactive() bool {
	return s != StatusActive
}

// Point is one possession/play unit, tracked independently per team.
// Number is 1-based, unique and contiguous within a game.
type Point struct {
	ID            string
	GameID        string
	Number        int
	TeamOneStatus PointStatus
	TeamTwoStatus PointStatus
	TeamOneScore  int
	TeamTwoScore  int
	PullingTeam   TeamSide
	ReceivingTeam TeamSide
	ScoringTeam   TeamSide
	Created       time.Time
	Updated       time.Time
}

// Status returns the given team's status on the point.
func (p *Point) Status(team TeamSide) PointStatus {
	if team == TeamTwo {
		return p.TeamTwoStatus
	}
	return p.TeamOneStatus
}

// SetStatus sets the given team's status on the point.
func (p *Point) SetStatus(team TeamSide, s PointStatus) {
	if team == TeamTwo {
		p.TeamTwoStatus = s
		return
	}
	p.TeamOneStatus = s
}
