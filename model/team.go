package model

import "strings"

// TeamSide identifies one of the two reporting teams in a game. Every
// ledger segment, durable action, and point status is scoped to a side.
type TeamSide string

const (
	TeamUnknown TeamSide = ""
	TeamOne     TeamSide = "one"
	TeamTwo     TeamSide = "two"
)

func ParseTeamSide(s string) TeamSide {
	switch strings.ToLower(s) {
	case "one", "1", "teamone", "team_one":
		return TeamOne
	case "two", "2", "teamtwo", "team_two":
		return TeamTwo
	default:
		return TeamUnknown
	}
}

// Other returns the opposing side. The zero value maps to itself.
func (t TeamSide) Other() TeamSide {
	switch t {
	case TeamOne:
		return TeamTwo
	case TeamTwo:
		return TeamOne
	default:
		return TeamUnknown
	}
}

func (t TeamSide) String() string {
	return string(t)
}
