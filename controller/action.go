package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/CeluchNB/stall-one-sub000/db"
	"github.com/CeluchNB/stall-one-sub000/ledger"
	"github.com/CeluchNB/stall-one-sub000/model"
)

func (c *controller) AppendAction(ctx context.Context, pointID string, team model.TeamSide, a *model.Action) (int, error) {
	point, err := c.db.GetPoint(ctx, pointID)
	if err != nil {
		if errors.Is(err, db.ErrPointNotFound) {
			return 0, ErrUnableToFindPoint
		}
		return 0, fmt.Errorf("error loading point for append: %w", err)
	}
	if point.Status(team) != model.StatusActive {
		return 0, fmt.Errorf("%w: point is not active for team %s", ErrInvalidAction, team)
	}

	if err := a.CheckPlayers(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}

	count, err := c.ledger.Count(ctx, pointID, team)
	if err != nil {
		return 0, fmt.Errorf("error counting ledger segment: %w", err)
	}
	prev := model.ActionUnknown
	if count > 0 {
		last, err := c.ledger.Read(ctx, pointID, team, count)
		if err != nil {
			return 0, fmt.Errorf("error reading last ledger action: %w", err)
		}
		prev = last.Type
	}
	if !model.IsValidTransition(prev, a.Type) {
		if prev == model.ActionUnknown {
			return 0, fmt.Errorf("%w: %s cannot start a segment", ErrInvalidAction, a.Type)
		}
		return 0, fmt.Errorf("%w: %s cannot follow %s", ErrInvalidAction, a.Type, prev)
	}

	return c.ledger.Append(ctx, pointID, team, a)
}

func (c *controller) AppendComment(ctx context.Context, pointID string, team model.TeamSide, actionNumber int, comment model.Comment) (int, error) {
	return c.ledger.AppendComment(ctx, pointID, team, actionNumber, comment)
}

func (c *controller) GetActionsByPoint(ctx context.Context, pointID string) ([]model.Action, error) {
	return c.db.GetAllActions(ctx, pointID)
}

func (c *controller) GetLiveActionsByPoint(ctx context.Context, pointID string) ([]model.Action, error) {
	one, err := c.ledger.Drain(ctx, pointID, model.TeamOne)
	if err != nil {
		return nil, liveDrainError(err)
	}
	two, err := c.ledger.Drain(ctx, pointID, model.TeamTwo)
	if err != nil {
		return nil, liveDrainError(err)
	}
	return append(one, two...), nil
}

func liveDrainError(err error) error {
	if errors.Is(err, ledger.ErrCorruptSegment) {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return fmt.Errorf("error draining ledger segment: %w", err)
}
