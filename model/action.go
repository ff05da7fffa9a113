package model

import (
	"fmt"
	"strings"
	"time"
)

// ActionType is the closed set of play-by-play events a team can record.
type ActionType string

const (
	ActionUnknown      ActionType = ""
	ActionPull         ActionType = "Pull"
	ActionCatch        ActionType = "Catch"
	ActionDrop         ActionType = "Drop"
	ActionThrowaway    ActionType = "Throwaway"
	ActionBlock        ActionType = "Block"
	ActionPickup       ActionType = "Pickup"
	ActionTeamOneScore ActionType = "TeamOneScore"
	ActionTeamTwoScore ActionType = "TeamTwoScore"
	ActionTimeout      ActionType = "Timeout"
	ActionSubstitution ActionType = "Substitution"
	ActionCallOnField  ActionType = "CallOnField"
)

func ParseActionType(s string) ActionType {
	switch strings.ToLower(s) {
	case "pull":
		return ActionPull
	case "catch":
		return ActionCatch
	case "drop":
		return ActionDrop
	case "throwaway":
		return ActionThrowaway
	case "block":
		return ActionBlock
	case "pickup":
		return ActionPickup
	case "teamonescore":
		return ActionTeamOneScore
	case "teamtwoscore":
		return ActionTeamTwoScore
	case "timeout":
		return ActionTimeout
	case "substitution":
		return ActionSubstitution
	case "callonfield":
		return ActionCallOnField
	default:
		return ActionUnknown
	}
}

// IsScore reports whether the action type names a scoring claim.
func (t ActionType) IsScore() bool {
	return t == ActionTeamOneScore || t == ActionTeamTwoScore
}

// ScoringTeam returns the side a score-type action credits, or TeamUnknown
// for non-score types.
func (t ActionType) ScoringTeam() TeamSide {
	switch t {
	case ActionTeamOneScore:
		return TeamOne
	case ActionTeamTwoScore:
		return TeamTwo
	default:
		return TeamUnknown
	}
}

// validPrev maps each action type to the types legally allowed to precede it
// within one team's segment. ActionUnknown stands for the start of the
// segment. Score types are terminal and never appear as keys' successors.
var validPrev = map[ActionType][]ActionType{
	ActionPull:      {ActionUnknown},
	ActionCatch:     {ActionUnknown, ActionCatch, ActionPickup, ActionTimeout, ActionSubstitution, ActionCallOnField},
	ActionDrop:      {ActionUnknown, ActionCatch, ActionPickup, ActionTimeout, ActionSubstitution, ActionCallOnField},
	ActionPickup:    {ActionUnknown, ActionPull, ActionDrop, ActionThrowaway, ActionBlock, ActionTimeout, ActionSubstitution, ActionCallOnField},
	ActionThrowaway: {ActionCatch, ActionPickup, ActionTimeout, ActionSubstitution, ActionCallOnField},
	ActionBlock:     {ActionPull, ActionDrop, ActionThrowaway, ActionTimeout, ActionSubstitution, ActionCallOnField},
	ActionTeamOneScore: {ActionPull, ActionCatch, ActionDrop, ActionThrowaway, ActionBlock, ActionPickup,
		ActionTimeout, ActionSubstitution, ActionCallOnField},
	ActionTeamTwoScore: {ActionPull, ActionCatch, ActionDrop, ActionThrowaway, ActionBlock, ActionPickup,
		ActionTimeout, ActionSubstitution, ActionCallOnField},
	ActionTimeout: {ActionUnknown, ActionPull, ActionCatch, ActionDrop, ActionThrowaway, ActionBlock,
		ActionPickup, ActionTimeout, ActionSubstitution, ActionCallOnField},
	ActionSubstitution: {ActionUnknown, ActionPull, ActionCatch, ActionDrop, ActionThrowaway, ActionBlock,
		ActionPickup, ActionTimeout, ActionSubstitution, ActionCallOnField},
	ActionCallOnField: {ActionUnknown, ActionPull, ActionCatch, ActionDrop, ActionThrowaway, ActionBlock,
		ActionPickup, ActionTimeout, ActionSubstitution, ActionCallOnField},
}

// IsValidTransition reports whether next may directly follow prev within a
// single team's segment. Pass ActionUnknown as prev for the first action.
func IsValidTransition(prev, next ActionType) bool {
	allowed, ok := validPrev[next]
	if !ok {
		return false
	}
	for _, p := range allowed {
		if p == prev {
			return true
		}
	}
	return false
}

// playerCounts maps each action type to the minimum and maximum number of
// players it names. PlayerOne is always the primary player (puller, receiver,
// scorer); PlayerTwo the secondary one (thrower, assister, replaced player).
var playerCounts = map[ActionType][2]int{
	ActionPull:         {1, 1},
	ActionCatch:        {1, 2},
	ActionDrop:         {1, 2},
	ActionThrowaway:    {1, 1},
	ActionBlock:        {1, 1},
	ActionPickup:       {1, 1},
	ActionTeamOneScore: {1, 2},
	ActionTeamTwoScore: {0, 2},
	ActionTimeout:      {0, 1},
	ActionSubstitution: {2, 2},
	ActionCallOnField:  {0, 1},
}

// CheckPlayers validates the number of players named by the action against
// the rules for its type.
func (a *Action) CheckPlayers() error {
	bounds, ok := playerCounts[a.Type]
	if !ok {
		return fmt.Errorf("unknown action type: %q", a.Type)
	}

	n := 0
	if a.PlayerOne != nil {
		n++
	}
	if a.PlayerTwo != nil {
		n++
	}
	if a.PlayerOne == nil && a.PlayerTwo != nil {
		return fmt.Errorf("%s action names player two without player one", a.Type)
	}
	if n < bounds[0] || n > bounds[1] {
		return fmt.Errorf("%s action requires between %d and %d players, got %d", a.Type, bounds[0], bounds[1], n)
	}
	return nil
}

// Player is the value type embedded in an action. Guests have no ID.
type Player struct {
	ID        string
	FirstName string
	LastName  string
	Username  string
}

func (p *Player) FullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", p.FirstName, p.LastName))
}

// Comment is an append-only annotation on an action, ordered by Number
// within the action.
type Comment struct {
	Number    int
	Commenter string
	Text      string
	Created   time.Time
}

// Action is one play-by-play event. Once migrated to the durable store it is
// immutable; Number is unique and contiguous within (point, team) starting
// at 1.
type Action struct {
	ID        string
	PointID   string
	Team      TeamSide
	Number    int
	Type      ActionType
	PlayerOne *Player
	PlayerTwo *Player
	Tags      []string
	Comments  []Comment
	Created   time.Time
}
