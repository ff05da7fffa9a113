package controller

import (
	"context"

	"github.com/CeluchNB/stall-one-sub000/db"
	"github.com/CeluchNB/stall-one-sub000/ledger"
	"github.com/CeluchNB/stall-one-sub000/model"
	"github.com/CeluchNB/stall-one-sub000/queue"
	"github.com/itbasis/go-clock"
)

// C encapsulates the point lifecycle without worrying about any web layers.
// Every operation validates fully before writing; on a domain conflict or
// precondition failure nothing is mutated.
type C interface {
	// CreateFirstPoint creates point 1 of the game, or returns the existing
	// one when the caller's claimed pulling team matches the stored one.
	CreateFirstPoint(ctx context.Context, gameID string, pullingTeam model.TeamSide) (*model.Point, error)
	// FinishPoint closes out the team's live reporting for the point,
	// commits its score, and migrates the team's ledger segment into the
	// durable store. Returns the point and the transferred actions.
	// Re-invocation by a team that already finished returns the persisted
	// result unchanged.
	FinishPoint(ctx context.Context, gameID, pointID string, team model.TeamSide) (*model.Point, []model.Action, error)
	// BackPoint reverses the finish of the point immediately preceding
	// pointNumber, reopening it for live reporting.
	BackPoint(ctx context.Context, gameID string, pointNumber int, team model.TeamSide) (*model.Point, []model.Action, error)
	// ReactivatePoint resumes live reporting after a disconnect, migrating
	// durable actions back into the ledger if needed.
	ReactivatePoint(ctx context.Context, gameID string, team model.TeamSide) (*model.Point, []model.Action, error)
	// DeletePoint removes a point that has no committed state.
	DeletePoint(ctx context.Context, gameID, pointID string, team model.TeamSide) error

	// AppendAction records a live action in the team's ledger segment and
	// returns its assigned number.
	AppendAction(ctx context.Context, pointID string, team model.TeamSide, a *model.Action) (int, error)
	AppendComment(ctx context.Context, pointID string, team model.TeamSide, actionNumber int, c model.Comment) (int, error)
	// GetActionsByPoint returns the durable actions of both teams.
	GetActionsByPoint(ctx context.Context, pointID string) ([]model.Action, error)
	// GetLiveActionsByPoint returns the in-flight ledger actions of both teams.
	GetLiveActionsByPoint(ctx context.Context, pointID string) ([]model.Action, error)

	// FinishPointJob is the background worker entry point for deferred
	// ledger cleanup after a finish. Safe to re-run.
	FinishPointJob(ctx context.Context, job queue.Job) error
}

type controller struct {
	clock     clock.Clock
	db        db.DB
	ledger    ledger.Ledger
	queue     queue.Q
	conflicts *conflictDetector
}

func New(clock clock.Clock, db db.DB, ledger ledger.Ledger, queue queue.Q) (C, error) {
	c := &controller{
		clock:     clock,
		db:        db,
		ledger:    ledger,
		queue:     queue,
		conflicts: &conflictDetector{db: db, ledger: ledger},
	}
	return c, nil
}
