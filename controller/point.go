package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/CeluchNB/stall-one-sub000/db"
	"github.com/CeluchNB/stall-one-sub000/ledger"
	"github.com/CeluchNB/stall-one-sub000/model"
	"github.com/CeluchNB/stall-one-sub000/queue"
	"github.com/google/uuid"
)

func (c *controller) CreateFirstPoint(ctx context.Context, gameID string, pullingTeam model.TeamSide) (*model.Point, error) {
	if pullingTeam == model.TeamUnknown {
		return nil, fmt.Errorf("%w: a pulling team is required", ErrInvalidData)
	}

	game, err := c.db.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, db.ErrGameNotFound) {
			return nil, ErrUnableToFindPoint
		}
		return nil, fmt.Errorf("error loading game: %w", err)
	}

	existing, err := c.db.GetPointByNumber(ctx, gameID, 1)
	if err != nil && !errors.Is(err, db.ErrPointNotFound) {
		return nil, fmt.Errorf("error loading first point: %w", err)
	}
	if existing != nil {
		if existing.PullingTeam == pullingTeam {
			if err := c.ledger.SetRoles(ctx, gameID, existing.ID, pullingTeam, pullingTeam.Other()); err != nil {
				return nil, err
			}
			return existing, nil
		}
		committed, err := c.pointHasData(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		if committed {
			return nil, ErrConflictingPossession
		}
		existing.PullingTeam = pullingTeam
		existing.ReceivingTeam = pullingTeam.Other()
		if err := c.db.SavePoint(ctx, existing); err != nil {
			return nil, fmt.Errorf("error updating first point: %w", err)
		}
		if err := c.ledger.SetRoles(ctx, gameID, existing.ID, pullingTeam, pullingTeam.Other()); err != nil {
			return nil, err
		}
		return existing, nil
	}

	point := &model.Point{
		ID:            uuid.NewString(),
		GameID:        gameID,
		Number:        1,
		TeamOneStatus: joinStatus(game, model.TeamOne),
		TeamTwoStatus: joinStatus(game, model.TeamTwo),
		TeamOneScore:  game.TeamOneScore,
		TeamTwoScore:  game.TeamTwoScore,
		PullingTeam:   pullingTeam,
		ReceivingTeam: pullingTeam.Other(),
	}
	if err := c.db.AddPoint(ctx, point); err != nil {
		return nil, fmt.Errorf("error creating first point: %w", err)
	}
	if err := c.ledger.SetRoles(ctx, gameID, point.ID, pullingTeam, pullingTeam.Other()); err != nil {
		return nil, err
	}
	return point, nil
}

// joinStatus is a team's initial status on a new point. Teams that have not
// joined the game start as FUTURE and are marked GUEST by the background job.
func joinStatus(g *model.Game, team model.TeamSide) model.PointStatus {
	if g.Active(team) {
		return model.StatusActive
	}
	return model.StatusFuture
}

func (c *controller) FinishPoint(ctx context.Context, gameID, pointID string, team model.TeamSide) (*model.Point, []model.Action, error) {
	game, err := c.db.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, db.ErrGameNotFound) {
			return nil, nil, ErrUnableToFindPoint
		}
		return nil, nil, fmt.Errorf("error loading game: %w", err)
	}

	point, err := c.db.GetPoint(ctx, pointID)
	if err != nil {
		if errors.Is(err, db.ErrPointNotFound) {
			return nil, nil, ErrUnableToFindPoint
		}
		return nil, nil, fmt.Errorf("error loading point: %w", err)
	}
	if point.GameID != gameID {
		return nil, nil, fmt.Errorf("%w: point does not belong to game", ErrInvalidData)
	}

	count, err := c.ledger.Count(ctx, pointID, team)
	if err != nil {
		return nil, nil, fmt.Errorf("error counting ledger segment: %w", err)
	}
	if count == 0 {
		if point.Status(team) == model.StatusComplete {
			durable, err := c.db.GetActions(ctx, pointID, team)
			if err != nil {
				return nil, nil, fmt.Errorf("error loading durable actions: %w", err)
			}
			if len(durable) > 0 {
				return point, durable, nil
			}
		}
		return nil, nil, ErrScoreRequired
	}

	last, err := c.ledger.Read(ctx, pointID, team, count)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading last ledger action: %w", err)
	}
	if !last.Type.IsScore() {
		return nil, nil, ErrScoreRequired
	}

	if err := c.conflicts.throwIfConflicting(ctx, point, team, last); err != nil {
		return nil, nil, err
	}

	actions, err := c.ledger.Drain(ctx, pointID, team)
	if err != nil {
		if errors.Is(err, ledger.ErrCorruptSegment) {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		return nil, nil, fmt.Errorf("error draining ledger segment: %w", err)
	}

	scoringTeam := last.Type.ScoringTeam()
	next, createNext, err := c.prepareNextPoint(ctx, point, scoringTeam)
	if err != nil {
		return nil, nil, err
	}

	// Everything validated; commit from here on.
	if point.ScoringTeam == model.TeamUnknown {
		game.AddScore(scoringTeam, 1)
		point.TeamOneScore = game.TeamOneScore
		point.TeamTwoScore = game.TeamTwoScore
		point.ScoringTeam = scoringTeam
		if err := c.db.SaveGame(ctx, game); err != nil {
			return nil, nil, fmt.Errorf("error saving game score: %w", err)
		}
	}
	point.SetStatus(team, model.StatusComplete)
	if err := c.db.SavePoint(ctx, point); err != nil {
		return nil, nil, fmt.Errorf("error saving finished point: %w", err)
	}

	stampActionIDs(actions)
	if err := c.db.SaveActions(ctx, actions); err != nil {
		return nil, nil, fmt.Errorf("error migrating actions: %w", err)
	}
	if err := c.ledger.Clear(ctx, pointID, team); err != nil {
		return nil, nil, fmt.Errorf("error clearing ledger segment: %w", err)
	}

	if createNext {
		next = &model.Point{
			ID:            uuid.NewString(),
			GameID:        gameID,
			Number:        point.Number + 1,
			TeamOneScore:  game.TeamOneScore,
			TeamTwoScore:  game.TeamTwoScore,
			PullingTeam:   scoringTeam,
			ReceivingTeam: scoringTeam.Other(),
		}
		next.SetStatus(team, model.StatusActive)
		next.SetStatus(team.Other(), joinStatus(game, team.Other()))
		if err := c.db.AddPoint(ctx, next); err != nil {
			return nil, nil, fmt.Errorf("error creating next point: %w", err)
		}
	} else if next != nil {
		next.PullingTeam = scoringTeam
		next.ReceivingTeam = scoringTeam.Other()
		next.SetStatus(team, model.StatusActive)
		if err := c.db.SavePoint(ctx, next); err != nil {
			return nil, nil, fmt.Errorf("error updating next point: %w", err)
		}
	}
	if next != nil {
		if err := c.ledger.SetRoles(ctx, gameID, next.ID, next.PullingTeam, next.ReceivingTeam); err != nil {
			return nil, nil, err
		}
	}

	if err := c.queue.Enqueue(ctx, queue.Job{PointID: pointID, GameID: gameID, Team: team}); err != nil {
		return nil, nil, fmt.Errorf("error scheduling point cleanup: %w", err)
	}

	return point, actions, nil
}

// prepareNextPoint resolves the point after the one being finished before any
// write happens. It returns the existing next point when one exists, or
// createNext when the finisher is the first team to reach it. A next point
// already holding recorded data under a different pulling team is a
// possession conflict.
func (c *controller) prepareNextPoint(ctx context.Context, point *model.Point, scoringTeam model.TeamSide) (*model.Point, bool, error) {
	latest, err := c.db.LatestPointNumber(ctx, point.GameID)
	if err != nil {
		return nil, false, fmt.Errorf("error finding latest point: %w", err)
	}
	if latest <= point.Number {
		return nil, true, nil
	}

	next, err := c.db.GetPointByNumber(ctx, point.GameID, point.Number+1)
	if err != nil {
		return nil, false, fmt.Errorf("error loading next point: %w", err)
	}
	if next.PullingTeam != scoringTeam {
		committed, err := c.pointHasData(ctx, next.ID)
		if err != nil {
			return nil, false, err
		}
		if committed {
			return nil, false, ErrConflictingPossession
		}
	}
	return next, false, nil
}

// pointHasData reports whether a point has any recorded state, durable or
// in-flight.
func (c *controller) pointHasData(ctx context.Context, pointID string) (bool, error) {
	durable, err := c.db.CountActions(ctx, pointID)
	if err != nil {
		return false, fmt.Errorf("error counting durable actions: %w", err)
	}
	if durable > 0 {
		return true, nil
	}
	for _, side := range []model.TeamSide{model.TeamOne, model.TeamTwo} {
		n, err := c.ledger.Count(ctx, pointID, side)
		if err != nil {
			return false, fmt.Errorf("error counting ledger segment: %w", err)
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (c *controller) BackPoint(ctx context.Context, gameID string, pointNumber int, team model.TeamSide) (*model.Point, []model.Action, error) {
	if pointNumber <= 1 {
		return nil, nil, ErrCannotGoBackPoint
	}

	game, err := c.db.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, db.ErrGameNotFound) {
			return nil, nil, ErrUnableToFindPoint
		}
		return nil, nil, fmt.Errorf("error loading game: %w", err)
	}

	current, err := c.db.GetPointByNumber(ctx, gameID, pointNumber)
	if err != nil {
		if errors.Is(err, db.ErrPointNotFound) {
			return nil, nil, ErrUnableToFindPoint
		}
		return nil, nil, fmt.Errorf("error loading point: %w", err)
	}
	for _, side := range []model.TeamSide{model.TeamOne, model.TeamTwo} {
		if current.Status(side) != model.StatusActive {
			continue
		}
		n, err := c.ledger.Count(ctx, current.ID, side)
		if err != nil {
			return nil, nil, fmt.Errorf("error counting ledger segment: %w", err)
		}
		if n > 0 {
			return nil, nil, ErrCannotGoBackPoint
		}
	}

	previous, err := c.db.GetPointByNumber(ctx, gameID, pointNumber-1)
	if err != nil {
		if errors.Is(err, db.ErrPointNotFound) {
			return nil, nil, ErrUnableToFindPoint
		}
		return nil, nil, fmt.Errorf("error loading previous point: %w", err)
	}

	durable, err := c.db.GetActions(ctx, previous.ID, team)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading durable actions: %w", err)
	}
	if len(durable) > 0 {
		if err := c.ledger.Restore(ctx, previous.ID, team, durable); err != nil {
			return nil, nil, fmt.Errorf("error restoring ledger segment: %w", err)
		}
		if err := c.db.DeleteActions(ctx, previous.ID, team); err != nil {
			return nil, nil, fmt.Errorf("error removing migrated actions: %w", err)
		}
	}

	if previous.ScoringTeam != model.TeamUnknown {
		game.AddScore(previous.ScoringTeam, -1)
		previous.TeamOneScore = game.TeamOneScore
		previous.TeamTwoScore = game.TeamTwoScore
		previous.ScoringTeam = model.TeamUnknown
		if err := c.db.SaveGame(ctx, game); err != nil {
			return nil, nil, fmt.Errorf("error reverting game score: %w", err)
		}
	}
	previous.SetStatus(team, model.StatusActive)
	if err := c.db.SavePoint(ctx, previous); err != nil {
		return nil, nil, fmt.Errorf("error reopening previous point: %w", err)
	}

	if current.Status(team) == model.StatusActive {
		current.SetStatus(team, model.StatusFuture)
		if err := c.db.SavePoint(ctx, current); err != nil {
			return nil, nil, fmt.Errorf("error parking current point: %w", err)
		}
	}
	if current.TeamOneStatus.Inactive() && current.TeamTwoStatus.Inactive() {
		if err := c.ledger.ClearRoles(ctx, gameID, current.ID); err != nil {
			return nil, nil, err
		}
	}
	if err := c.ledger.SetRoles(ctx, gameID, previous.ID, previous.PullingTeam, previous.ReceivingTeam); err != nil {
		return nil, nil, err
	}

	actions, err := c.ledger.Drain(ctx, previous.ID, team)
	if err != nil {
		return nil, nil, fmt.Errorf("error draining restored segment: %w", err)
	}
	return previous, actions, nil
}

func (c *controller) ReactivatePoint(ctx context.Context, gameID string, team model.TeamSide) (*model.Point, []model.Action, error) {
	latest, err := c.db.LatestPointNumber(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("error finding latest point: %w", err)
	}
	if latest == 0 {
		return nil, nil, ErrUnableToFindPoint
	}

	target, err := c.findResumeTarget(ctx, gameID, latest, team)
	if err != nil {
		return nil, nil, err
	}
	if latest-target.Number > 1 {
		return nil, nil, ErrReactivatePoint
	}

	count, err := c.ledger.Count(ctx, target.ID, team)
	if err != nil {
		return nil, nil, fmt.Errorf("error counting ledger segment: %w", err)
	}
	if count == 0 {
		durable, err := c.db.GetActions(ctx, target.ID, team)
		if err != nil {
			return nil, nil, fmt.Errorf("error loading durable actions: %w", err)
		}
		if len(durable) > 0 {
			if err := c.ledger.Restore(ctx, target.ID, team, durable); err != nil {
				return nil, nil, fmt.Errorf("error restoring ledger segment: %w", err)
			}
			if err := c.db.DeleteActions(ctx, target.ID, team); err != nil {
				return nil, nil, fmt.Errorf("error removing migrated actions: %w", err)
			}
		}
	}

	if err := c.ledger.SetRoles(ctx, gameID, target.ID, target.PullingTeam, target.ReceivingTeam); err != nil {
		return nil, nil, err
	}
	if target.Status(team) != model.StatusActive {
		target.SetStatus(team, model.StatusActive)
		if err := c.db.SavePoint(ctx, target); err != nil {
			return nil, nil, fmt.Errorf("error reactivating point: %w", err)
		}
	}

	actions, err := c.ledger.Drain(ctx, target.ID, team)
	if err != nil {
		return nil, nil, fmt.Errorf("error draining ledger segment: %w", err)
	}
	return target, actions, nil
}

// findResumeTarget locates the point a disconnected team should pick back up:
// its most recent ACTIVE point, or failing that its most recent COMPLETE one.
func (c *controller) findResumeTarget(ctx context.Context, gameID string, latest int, team model.TeamSide) (*model.Point, error) {
	var lastComplete *model.Point
	for n := latest; n >= 1; n-- {
		p, err := c.db.GetPointByNumber(ctx, gameID, n)
		if err != nil {
			if errors.Is(err, db.ErrPointNotFound) {
				continue
			}
			return nil, fmt.Errorf("error scanning points: %w", err)
		}
		if p.Status(team) == model.StatusActive {
			return p, nil
		}
		if lastComplete == nil && p.Status(team) == model.StatusComplete {
			lastComplete = p
		}
	}
	if lastComplete != nil {
		return lastComplete, nil
	}
	return nil, ErrUnableToFindPoint
}

func (c *controller) DeletePoint(ctx context.Context, gameID, pointID string, team model.TeamSide) error {
	point, err := c.db.GetPoint(ctx, pointID)
	if err != nil {
		if errors.Is(err, db.ErrPointNotFound) {
			return ErrUnableToFindPoint
		}
		return fmt.Errorf("error loading point: %w", err)
	}
	if point.GameID != gameID {
		return fmt.Errorf("%w: point does not belong to game", ErrInvalidData)
	}
	if point.Status(team) == model.StatusComplete {
		return ErrModifyLivePoint
	}

	committed, err := c.pointHasData(ctx, pointID)
	if err != nil {
		return err
	}
	if committed {
		return ErrModifyLivePoint
	}

	if err := c.db.DeletePoint(ctx, pointID); err != nil {
		return fmt.Errorf("error deleting point: %w", err)
	}
	if err := c.ledger.ClearRoles(ctx, gameID, pointID); err != nil {
		return err
	}
	for _, side := range []model.TeamSide{model.TeamOne, model.TeamTwo} {
		if err := c.ledger.Clear(ctx, pointID, side); err != nil {
			return err
		}
	}
	return nil
}

func stampActionIDs(actions []model.Action) {
	for i := range actions {
		if actions[i].ID == "" {
			actions[i].ID = uuid.NewString()
		}
	}
}
