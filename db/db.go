package db

import (
	"context"

	"github.com/CeluchNB/stall-one-sub000/model"
)

// DB is the durable store for games, points, and migrated actions. It holds
// no reconciliation logic; conflict detection and the point state machine
// live in the controller package.
type DB interface {
	AddGame(ctx context.Context, g *model.Game) error
	GetGame(ctx context.Context, id string) (*model.Game, error)
	// SaveGame updates the scores and per-team active flags of an existing game.
	SaveGame(ctx context.Context, g *model.Game) error

	AddPoint(ctx context.Context, p *model.Point) error
	GetPoint(ctx context.Context, id string) (*model.Point, error)
	GetPointByNumber(ctx context.Context, gameID string, number int) (*model.Point, error)
	// LatestPointNumber returns the highest point number in the game, or 0
	// if the game has no points yet.
	LatestPointNumber(ctx context.Context, gameID string) (int, error)
	SavePoint(ctx context.Context, p *model.Point) error
	DeletePoint(ctx context.Context, id string) error

	// SaveActions inserts a batch of migrated actions and their comments in
	// one transaction. Durable actions are immutable afterwards.
	SaveActions(ctx context.Context, actions []model.Action) error
	// GetActions returns one team's actions for a point ordered by action number.
	GetActions(ctx context.Context, pointID string, team model.TeamSide) ([]model.Action, error)
	// GetAllActions returns both teams' actions for a point, team one first,
	// each ordered by action number.
	GetAllActions(ctx context.Context, pointID string) ([]model.Action, error)
	// CountActions counts durable actions for a point across both teams.
	CountActions(ctx context.Context, pointID string) (int, error)
	DeleteActions(ctx context.Context, pointID string, team model.TeamSide) error
}
