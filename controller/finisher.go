package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/CeluchNB/stall-one-sub000/db"
	"github.com/CeluchNB/stall-one-sub000/model"
	"github.com/CeluchNB/stall-one-sub000/queue"
)

// FinishPointJob runs the deferred cleanup after a team finishes a point. It
// marks teams that never joined the game as GUEST, migrates any residual
// ledger actions of completed teams, and releases the point's ledger space
// once both teams are done. Every step is idempotent; the queue may deliver
// the same job more than once.
func (c *controller) FinishPointJob(ctx context.Context, job queue.Job) error {
	point, err := c.db.GetPoint(ctx, job.PointID)
	if err != nil {
		if errors.Is(err, db.ErrPointNotFound) {
			// Point was deleted after the job was enqueued; nothing to do.
			return nil
		}
		return fmt.Errorf("error loading point for cleanup: %w", err)
	}

	game, err := c.db.GetGame(ctx, job.GameID)
	if err != nil {
		if errors.Is(err, db.ErrGameNotFound) {
			return nil
		}
		return fmt.Errorf("error loading game for cleanup: %w", err)
	}

	changed := false
	for _, side := range []model.TeamSide{model.TeamOne, model.TeamTwo} {
		if point.Status(side) != model.StatusFuture || game.Active(side) {
			continue
		}
		n, err := c.ledger.Count(ctx, point.ID, side)
		if err != nil {
			return fmt.Errorf("error counting ledger segment: %w", err)
		}
		if n == 0 {
			point.SetStatus(side, model.StatusGuest)
			changed = true
		}
	}

	for _, side := range []model.TeamSide{model.TeamOne, model.TeamTwo} {
		if point.Status(side) != model.StatusComplete {
			continue
		}
		if err := c.migrateResidual(ctx, point.ID, side); err != nil {
			return err
		}
	}

	if point.TeamOneStatus.Inactive() && point.TeamTwoStatus.Inactive() {
		if err := c.ledger.ClearRoles(ctx, point.GameID, point.ID); err != nil {
			return err
		}
		for _, side := range []model.TeamSide{model.TeamOne, model.TeamTwo} {
			if err := c.ledger.Clear(ctx, point.ID, side); err != nil {
				return err
			}
		}
	}

	if changed {
		if err := c.db.SavePoint(ctx, point); err != nil {
			return fmt.Errorf("error saving cleaned point: %w", err)
		}
	}
	return nil
}

// migrateResidual moves any ledger actions a completed team left behind into
// the durable store. Duplicate inserts are ignored by the store, so a rerun
// after a partial failure converges.
func (c *controller) migrateResidual(ctx context.Context, pointID string, team model.TeamSide) error {
	n, err := c.ledger.Count(ctx, pointID, team)
	if err != nil {
		return fmt.Errorf("error counting ledger segment: %w", err)
	}
	if n == 0 {
		return nil
	}

	actions, err := c.ledger.Drain(ctx, pointID, team)
	if err != nil {
		return fmt.Errorf("error draining residual segment: %w", err)
	}
	stampActionIDs(actions)
	if err := c.db.SaveActions(ctx, actions); err != nil {
		return fmt.Errorf("error migrating residual actions: %w", err)
	}
	return c.ledger.Clear(ctx, pointID, team)
}
