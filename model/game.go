package model

import "time"

// Game holds the identities and running score for both teams. The scores
// always equal the cumulative score implied by all COMPLETE points.
type Game struct {
	ID            string
	TeamOneID     string
	TeamOneName   string
	TeamTwoID     string
	TeamTwoName   string
	TeamOneScore  int
	TeamTwoScore  int
	TeamOneActive bool
	TeamTwoActive bool
	Created       time.Time
	Updated       time.Time
}

// TeamName returns the display name for a side.
func (g *Game) TeamName(team TeamSide) string {
	if team == TeamTwo {
		return g.TeamTwoName
	}
	return g.TeamOneName
}

// Active reports whether the given side has joined and is reporting the game.
func (g *Game) Active(team TeamSide) bool {
	if team == TeamTwo {
		return g.TeamTwoActive
	}
	return g.TeamOneActive
}

// Score returns the given side's game score.
func (g *Game) Score(team TeamSide) int {
	if team == TeamTwo {
		return g.TeamTwoScore
	}
	return g.TeamOneScore
}

// AddScore adjusts the given side's game score by delta.
func (g *Game) AddScore(team TeamSide, delta int) {
	if team == TeamTwo {
		g.TeamTwoScore += delta
		return
	}
	g.TeamOneScore += delta
}
