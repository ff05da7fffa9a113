package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/CeluchNB/stall-one-sub000/ledger"
	"github.com/CeluchNB/stall-one-sub000/model"
	"github.com/CeluchNB/stall-one-sub000/testutils"
)

func TestAppendAction(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)
	game := testDB.InsertTestGame(true)

	point, err := c.CreateFirstPoint(ctx, game.ID, model.TeamOne)
	if err != nil {
		t.Fatalf("error creating first point: %v", err)
	}

	n, err := c.AppendAction(ctx, point.ID, model.TeamOne, &model.Action{Type: model.ActionPull, PlayerOne: testutils.Kenny})
	if err != nil {
		t.Fatalf("error appending pull: %v", err)
	}
	if n != 1 {
		t.Errorf("expected first action number 1, got %d", n)
	}

	tests := map[string]struct {
		action *model.Action
	}{
		"second pull":            {action: &model.Action{Type: model.ActionPull, PlayerOne: testutils.Noah}},
		"catch without player":   {action: &model.Action{Type: model.ActionCatch}},
		"substitution one short": {action: &model.Action{Type: model.ActionSubstitution, PlayerOne: testutils.Noah}},
		"unknown type":           {action: &model.Action{Type: model.ActionType("Huck")}},
		"catch after pull":       {action: &model.Action{Type: model.ActionCatch, PlayerOne: testutils.Noah}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := c.AppendAction(ctx, point.ID, model.TeamOne, tc.action); !errors.Is(err, ErrInvalidAction) {
				t.Errorf("expected ErrInvalidAction, got %v", err)
			}
		})
	}

	// The opposing team's segment starts independently and cannot open with a pull response.
	if _, err := c.AppendAction(ctx, point.ID, model.TeamTwo, &model.Action{Type: model.ActionCatch, PlayerOne: testutils.Amy}); err != nil {
		t.Errorf("expected catch to open team two's segment, got %v", err)
	}

	if _, err := c.AppendAction(ctx, "c3b30a75-0627-4b85-9b0b-c9f30b923a14", model.TeamOne, &model.Action{Type: model.ActionPull, PlayerOne: testutils.Kenny}); !errors.Is(err, ErrUnableToFindPoint) {
		t.Errorf("expected ErrUnableToFindPoint for missing point, got %v", err)
	}
}

func TestAppendComment(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)
	game := testDB.InsertTestGame(true)

	point, err := c.CreateFirstPoint(ctx, game.ID, model.TeamOne)
	if err != nil {
		t.Fatalf("error creating first point: %v", err)
	}
	if _, err := c.AppendAction(ctx, point.ID, model.TeamOne, &model.Action{Type: model.ActionPull, PlayerOne: testutils.Kenny}); err != nil {
		t.Fatalf("error appending pull: %v", err)
	}

	m, err := c.AppendComment(ctx, point.ID, model.TeamOne, 1, model.Comment{Commenter: "noah", Text: "great pull"})
	if err != nil {
		t.Fatalf("error appending comment: %v", err)
	}
	if m != 1 {
		t.Errorf("expected comment number 1, got %d", m)
	}

	if _, err := c.AppendComment(ctx, point.ID, model.TeamOne, 7, model.Comment{Commenter: "noah", Text: "nope"}); !errors.Is(err, ledger.ErrActionNotFound) {
		t.Errorf("expected ErrActionNotFound for missing action, got %v", err)
	}
}

func TestGetLiveActionsByPoint(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t)
	game := testDB.InsertTestGame(true)

	point, err := c.CreateFirstPoint(ctx, game.ID, model.TeamOne)
	if err != nil {
		t.Fatalf("error creating first point: %v", err)
	}
	if _, err := c.AppendAction(ctx, point.ID, model.TeamOne, &model.Action{Type: model.ActionPull, PlayerOne: testutils.Kenny}); err != nil {
		t.Fatalf("error appending pull: %v", err)
	}
	if _, err := c.AppendAction(ctx, point.ID, model.TeamTwo, &model.Action{Type: model.ActionCatch, PlayerOne: testutils.Amy}); err != nil {
		t.Fatalf("error appending catch: %v", err)
	}

	live, err := c.GetLiveActionsByPoint(ctx, point.ID)
	if err != nil {
		t.Fatalf("error getting live actions: %v", err)
	}
	if len(live) != 2 {
		t.Fatalf("expected 2 live actions, got %d", len(live))
	}
	if live[0].Team != model.TeamOne || live[0].Type != model.ActionPull {
		t.Errorf("unexpected first live action: %+v", live[0])
	}
	if live[1].Team != model.TeamTwo || live[1].Type != model.ActionCatch {
		t.Errorf("unexpected second live action: %+v", live[1])
	}

	durable, err := c.GetActionsByPoint(ctx, point.ID)
	if err != nil {
		t.Fatalf("error getting durable actions: %v", err)
	}
	if len(durable) != 0 {
		t.Errorf("expected no durable actions before a finish, got %d", len(durable))
	}
}
