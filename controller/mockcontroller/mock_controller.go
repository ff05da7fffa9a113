package mockcontroller

import (
	"context"

	"github.com/CeluchNB/stall-one-sub000/model"
	"github.com/CeluchNB/stall-one-sub000/queue"
	"github.com/stretchr/testify/mock"
)

type C struct {
	mock.Mock
}

func (c *C) CreateFirstPoint(ctx context.Context, gameID string, pullingTeam model.TeamSide) (*model.Point, error) {
	args := c.Called(ctx, gameID, pullingTeam)

	var p *model.Point
	if args.Get(0) != nil {
		p = args.Get(0).(*model.Point)
	}

	return p, args.Error(1)
}

func (c *C) FinishPoint(ctx context.Context, gameID, pointID string, team model.TeamSide) (*model.Point, []model.Action, error) {
	args := c.Called(ctx, gameID, pointID, team)
	return pointResult(args)
}

func (c *C) BackPoint(ctx context.Context, gameID string, pointNumber int, team model.TeamSide) (*model.Point, []model.Action, error) {
	args := c.Called(ctx, gameID, pointNumber, team)
	return pointResult(args)
}

func (c *C) ReactivatePoint(ctx context.Context, gameID string, team model.TeamSide) (*model.Point, []model.Action, error) {
	args := c.Called(ctx, gameID, team)
	return pointResult(args)
}

func (c *C) DeletePoint(ctx context.Context, gameID, pointID string, team model.TeamSide) error {
	args := c.Called(ctx, gameID, pointID, team)
	return args.Error(0)
}

func (c *C) AppendAction(ctx context.Context, pointID string, team model.TeamSide, a *model.Action) (int, error) {
	args := c.Called(ctx, pointID, team, a)
	return args.Int(0), args.Error(1)
}

func (c *C) AppendComment(ctx context.Context, pointID string, team model.TeamSide, actionNumber int, comment model.Comment) (int, error) {
	args := c.Called(ctx, pointID, team, actionNumber, comment)
	return args.Int(0), args.Error(1)
}

func (c *C) GetActionsByPoint(ctx context.Context, pointID string) ([]model.Action, error) {
	args := c.Called(ctx, pointID)

	var res []model.Action
	if args.Get(0) != nil {
		res = args.Get(0).([]model.Action)
	}

	return res, args.Error(1)
}

func (c *C) GetLiveActionsByPoint(ctx context.Context, pointID string) ([]model.Action, error) {
	args := c.Called(ctx, pointID)

	var res []model.Action
	if args.Get(0) != nil {
		res = args.Get(0).([]model.Action)
	}

	return res, args.Error(1)
}

func (c *C) FinishPointJob(ctx context.Context, job queue.Job) error {
	args := c.Called(ctx, job)
	return args.Error(0)
}

func pointResult(args mock.Arguments) (*model.Point, []model.Action, error) {
	var p *model.Point
	if args.Get(0) != nil {
		p = args.Get(0).(*model.Point)
	}

	var actions []model.Action
	if args.Get(1) != nil {
		actions = args.Get(1).([]model.Action)
	}

	return p, actions, args.Error(2)
}
