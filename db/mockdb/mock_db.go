package mockdb

import (
	"context"

	"github.com/CeluchNB/stall-one-sub000/model"
	"github.com/stretchr/testify/mock"
)

type DB struct {
	mock.Mock
}

func (db *DB) AddGame(ctx context.Context, g *model.Game) error {
	args := db.Called(ctx, g)
	return args.Error(0)
}

func (db *DB) GetGame(ctx context.Context, id string) (*model.Game, error) {
	args := db.Called(ctx, id)

	var g *model.Game
	if args.Get(0) != nil {
		g = args.Get(0).(*model.Game)
	}
	return g, args.Error(1)
}

func (db *DB) SaveGame(ctx context.Context, g *model.Game) error {
	args := db.Called(ctx, g)
	return args.Error(0)
}

func (db *DB) AddPoint(ctx context.Context, p *model.Point) error {
	args := db.Called(ctx, p)
	return args.Error(0)
}

func (db *DB) GetPoint(ctx context.Context, id string) (*model.Point, error) {
	args := db.Called(ctx, id)

	var p *model.Point
	if args.Get(0) != nil {
		p = args.Get(0).(*model.Point)
	}
	return p, args.Error(1)
}

func (db *DB) GetPointByNumber(ctx context.Context, gameID string, number int) (*model.Point, error) {
	args := db.Called(ctx, gameID, number)

	var p *model.Point
	if args.Get(0) != nil {
		p = args.Get(0).(*model.Point)
	}
	return p, args.Error(1)
}

func (db *DB) LatestPointNumber(ctx context.Context, gameID string) (int, error) {
	args := db.Called(ctx, gameID)
	return args.Int(0), args.Error(1)
}

func (db *DB) SavePoint(ctx context.Context, p *model.Point) error {
	args := db.Called(ctx, p)
	return args.Error(0)
}

func (db *DB) DeletePoint(ctx context.Context, id string) error {
	args := db.Called(ctx, id)
	return args.Error(0)
}

func (db *DB) SaveActions(ctx context.Context, actions []model.Action) error {
	args := db.Called(ctx, actions)
	return args.Error(0)
}

func (db *DB) GetActions(ctx context.Context, pointID string, team model.TeamSide) ([]model.Action, error) {
	args := db.Called(ctx, pointID, team)

	var a []model.Action
	if args.Get(0) != nil {
		a = args.Get(0).([]model.Action)
	}
	return a, args.Error(1)
}

func (db *DB) GetAllActions(ctx context.Context, pointID string) ([]model.Action, error) {
	args := db.Called(ctx, pointID)

	var a []model.Action
	if args.Get(0) != nil {
		a = args.Get(0).([]model.Action)
	}
	return a, args.Error(1)
}

func (db *DB) CountActions(ctx context.Context, pointID string) (int, error) {
	args := db.Called(ctx, pointID)
	return args.Int(0), args.Error(1)
}

func (db *DB) DeleteActions(ctx context.Context, pointID string, team model.TeamSide) error {
	args := db.Called(ctx, pointID, team)
	return args.Error(0)
}
