package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/CeluchNB/stall-one-sub000/db"
	"github.com/CeluchNB/stall-one-sub000/ledger"
	"github.com/CeluchNB/stall-one-sub000/model"
)

// conflictDetector is the read-only cross-check run before a finish commits
// a score. It compares the candidate's scoring claim against the other
// team's most recent score-type action, durable or in flight. A missing
// other-team signal is never a conflict.
type conflictDetector struct {
	db     db.DB
	ledger ledger.Ledger
}

func (cd *conflictDetector) checkDurableConflict(ctx context.Context, point *model.Point, otherTeam model.TeamSide, candidate *model.Action) (bool, error) {
	actions, err := cd.db.GetActions(ctx, point.ID, otherTeam)
	if err != nil {
		return false, fmt.Errorf("error reading durable actions for conflict check: %w", err)
	}

	for i := len(actions) - 1; i >= 0; i-- {
		if actions[i].Type.IsScore() {
			return actions[i].Type.ScoringTeam() != candidate.Type.ScoringTeam(), nil
		}
	}
	return false, nil
}

func (cd *conflictDetector) checkLiveConflict(ctx context.Context, point *model.Point, otherTeam model.TeamSide, candidate *model.Action) (bool, error) {
	count, err := cd.ledger.Count(ctx, point.ID, otherTeam)
	if err != nil {
		return false, fmt.Errorf("error counting ledger segment for conflict check: %w", err)
	}

	for n := count; n >= 1; n-- {
		a, err := cd.ledger.Read(ctx, point.ID, otherTeam, n)
		if err != nil {
			if errors.Is(err, ledger.ErrActionNotFound) {
				continue
			}
			return false, fmt.Errorf("error reading ledger action for conflict check: %w", err)
		}
		if a.Type.IsScore() {
			return a.Type.ScoringTeam() != candidate.Type.ScoringTeam(), nil
		}
	}
	return false, nil
}

// throwIfConflicting composes both checks and returns ErrConflictingScore on
// any mismatch.
func (cd *conflictDetector) throwIfConflicting(ctx context.Context, point *model.Point, team model.TeamSide, candidate *model.Action) error {
	other := team.Other()

	durable, err := cd.checkDurableConflict(ctx, point, other, candidate)
	if err != nil {
		return err
	}
	if durable {
		return ErrConflictingScore
	}

	live, err := cd.checkLiveConflict(ctx, point, other, candidate)
	if err != nil {
		return err
	}
	if live {
		return ErrConflictingScore
	}
	return nil
}
