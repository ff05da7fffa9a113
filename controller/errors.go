package controller

import "errors"

var (
	// ErrUnableToFindPoint means the requested point does not exist, or does
	// not belong to the requested game.
	ErrUnableToFindPoint = errors.New("unable to find point")
	// ErrScoreRequired means a team tried to finish a point whose last
	// recorded action is not a score.
	ErrScoreRequired = errors.New("a score must be the last action of the point")
	// ErrConflictingScore means the two teams reported different scoring
	// teams for the same point.
	ErrConflictingScore = errors.New("teams reported conflicting scores")
	// ErrConflictingPossession means the two teams disagree about which team
	// pulls a point.
	ErrConflictingPossession = errors.New("teams reported conflicting possession")
	// ErrCannotGoBackPoint means the current point already has live
	// reporting in progress, or there is no previous point to reopen.
	ErrCannotGoBackPoint = errors.New("cannot go back from this point")
	// ErrReactivatePoint means the resume target is more than one point
	// behind the game's latest point.
	ErrReactivatePoint = errors.New("point is too far behind to reactivate")
	// ErrModifyLivePoint means a delete was attempted on a point with
	// committed ledger or durable state.
	ErrModifyLivePoint = errors.New("cannot modify a point with recorded actions")
	// ErrInvalidData marks a point/game mismatch or a corrupt ledger segment.
	ErrInvalidData = errors.New("invalid data")
	// ErrInvalidAction marks an action failing the player-count or
	// transition rules.
	ErrInvalidAction = errors.New("invalid action")
)
