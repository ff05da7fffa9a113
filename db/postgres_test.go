package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/CeluchNB/stall-one-sub000/containers"
	"github.com/CeluchNB/stall-one-sub000/model"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
)

// A test global db instance to use for all of the tests instead of setting up a new one each time.
var testDB DB

// TestMain controls the main for the tests and allows for setup and shutdown of the tests
func TestMain(m *testing.M) {
	container := containers.NewDBContainer()

	clock := clock.New()

	defer func() {
		// Catch all panics to make sure the shutdown is successfully run
		if r := recover(); r != nil {
			if container != nil {
				container.Shutdown()
			}
			fmt.Println("panic")
		}
	}()

	var err error
	testDB, err = New(context.Background(), container.ConnectionString(), clock)
	if err != nil {
		fmt.Printf("error connecting to db: %v", err)
		os.Exit(-1)
	}

	code := m.Run()
	container.Shutdown()
	os.Exit(code)
}

func newGame() *model.Game {
	return &model.Game{
		ID:            uuid.NewString(),
		TeamOneID:     uuid.NewString(),
		TeamOneName:   "Temper",
		TeamTwoID:     uuid.NewString(),
		TeamTwoName:   "Truck Stop",
		TeamOneActive: true,
	}
}

func newPoint(g *model.Game, number int) *model.Point {
	return &model.Point{
		ID:            uuid.NewString(),
		GameID:        g.ID,
		Number:        number,
		TeamOneStatus: model.StatusActive,
		TeamTwoStatus: model.StatusFuture,
		PullingTeam:   model.TeamOne,
		ReceivingTeam: model.TeamTwo,
	}
}

func TestGame_saveAndLoad(t *testing.T) {
	ctx := context.Background()
	g := newGame()

	err := testDB.AddGame(ctx, g)
	assertFatalf(t, err == nil, "error adding game: %v", err)

	res, err := testDB.GetGame(ctx, g.ID)
	assertFatalf(t, err == nil, "error retreiving game: %v", err)

	assertEquals(t, "ID", g.ID, res.ID)
	assertEquals(t, "TeamOneID", g.TeamOneID, res.TeamOneID)
	assertEquals(t, "TeamOneName", g.TeamOneName, res.TeamOneName)
	assertEquals(t, "TeamTwoID", g.TeamTwoID, res.TeamTwoID)
	assertEquals(t, "TeamTwoName", g.TeamTwoName, res.TeamTwoName)
	assertEquals(t, "TeamOneScore", 0, res.TeamOneScore)
	assertEquals(t, "TeamTwoScore", 0, res.TeamTwoScore)
	assertEquals(t, "TeamOneActive", true, res.TeamOneActive)
	assertEquals(t, "TeamTwoActive", false, res.TeamTwoActive)
	if res.Created.IsZero() {
		t.Errorf("expected res created time to not be zero")
	}
	if !res.Updated.IsZero() {
		t.Errorf("expected res updated time to be zero")
	}

	// Scores and active flags persist through SaveGame.
	g.AddScore(model.TeamOne, 1)
	g.TeamTwoActive = true
	err = testDB.SaveGame(ctx, g)
	assertFatalf(t, err == nil, "error saving game: %v", err)

	res2, err := testDB.GetGame(ctx, g.ID)
	assertFatalf(t, err == nil, "error getting updated game: %v", err)
	assertEquals(t, "TeamOneScore", 1, res2.TeamOneScore)
	assertEquals(t, "TeamTwoActive", true, res2.TeamTwoActive)
	if res2.Updated.IsZero() {
		t.Errorf("expected res2 updated time to not be zero")
	}

	// Lookup a game that doesn't exist.
	res3, err := testDB.GetGame(ctx, uuid.NewString())
	assertFatalf(t, err != nil, "should have had an error looking up game")
	assertEquals(t, "error type", true, errors.Is(err, ErrGameNotFound))
	if res3 != nil {
		t.Errorf("expected res3 to be nil, but was %v", res3)
	}

	err = testDB.SaveGame(ctx, &model.Game{ID: uuid.NewString()})
	assertEquals(t, "save missing game", true, errors.Is(err, ErrGameNotFound))
}

func TestPoint_saveAndLoad(t *testing.T) {
	ctx := context.Background()
	g := newGame()
	err := testDB.AddGame(ctx, g)
	assertFatalf(t, err == nil, "error adding game: %v", err)

	latest, err := testDB.LatestPointNumber(ctx, g.ID)
	assertFatalf(t, err == nil, "error getting latest point number: %v", err)
	assertEquals(t, "latest with no points", 0, latest)

	p := newPoint(g, 1)
	err = testDB.AddPoint(ctx, p)
	assertFatalf(t, err == nil, "error adding point: %v", err)

	res, err := testDB.GetPoint(ctx, p.ID)
	assertFatalf(t, err == nil, "error retreiving point: %v", err)
	assertEquals(t, "ID", p.ID, res.ID)
	assertEquals(t, "GameID", p.GameID, res.GameID)
	assertEquals(t, "Number", p.Number, res.Number)
	assertEquals(t, "TeamOneStatus", p.TeamOneStatus, res.TeamOneStatus)
	assertEquals(t, "TeamTwoStatus", p.TeamTwoStatus, res.TeamTwoStatus)
	assertEquals(t, "PullingTeam", p.PullingTeam, res.PullingTeam)
	assertEquals(t, "ReceivingTeam", p.ReceivingTeam, res.ReceivingTeam)
	assertEquals(t, "ScoringTeam", model.TeamUnknown, res.ScoringTeam)

	byNumber, err := testDB.GetPointByNumber(ctx, g.ID, 1)
	assertFatalf(t, err == nil, "error retreiving point by number: %v", err)
	assertEquals(t, "byNumber.ID", p.ID, byNumber.ID)

	p2 := newPoint(g, 2)
	err = testDB.AddPoint(ctx, p2)
	assertFatalf(t, err == nil, "error adding second point: %v", err)

	latest, err = testDB.LatestPointNumber(ctx, g.ID)
	assertFatalf(t, err == nil, "error getting latest point number: %v", err)
	assertEquals(t, "latest", 2, latest)

	// Update statuses and score through SavePoint.
	p.TeamOneStatus = model.StatusComplete
	p.TeamOneScore = 1
	p.ScoringTeam = model.TeamOne
	err = testDB.SavePoint(ctx, p)
	assertFatalf(t, err == nil, "error saving point: %v", err)

	res2, err := testDB.GetPoint(ctx, p.ID)
	assertFatalf(t, err == nil, "error getting updated point: %v", err)
	assertEquals(t, "TeamOneStatus", model.StatusComplete, res2.TeamOneStatus)
	assertEquals(t, "TeamOneScore", 1, res2.TeamOneScore)
	assertEquals(t, "ScoringTeam", model.TeamOne, res2.ScoringTeam)
	if res2.Updated.IsZero() {
		t.Errorf("expected res2 updated time to not be zero")
	}

	err = testDB.DeletePoint(ctx, p2.ID)
	assertFatalf(t, err == nil, "error deleting point: %v", err)
	_, err = testDB.GetPoint(ctx, p2.ID)
	assertEquals(t, "deleted point", true, errors.Is(err, ErrPointNotFound))
	err = testDB.DeletePoint(ctx, p2.ID)
	assertEquals(t, "repeat delete", true, errors.Is(err, ErrPointNotFound))

	_, err = testDB.GetPointByNumber(ctx, g.ID, 7)
	assertEquals(t, "missing number", true, errors.Is(err, ErrPointNotFound))
}

func TestActions_saveAndLoad(t *testing.T) {
	ctx := context.Background()
	g := newGame()
	err := testDB.AddGame(ctx, g)
	assertFatalf(t, err == nil, "error adding game: %v", err)
	p := newPoint(g, 1)
	err = testDB.AddPoint(ctx, p)
	assertFatalf(t, err == nil, "error adding point: %v", err)

	kenny := &model.Player{ID: uuid.NewString(), FirstName: "Kenny", LastName: "Furdella", Username: "kenny"}
	guest := &model.Player{FirstName: "Logan", LastName: "Call"}

	actions := []model.Action{
		{
			ID:        uuid.NewString(),
			PointID:   p.ID,
			Team:      model.TeamOne,
			Number:    1,
			Type:      model.ActionPull,
			PlayerOne: kenny,
			Tags:      []string{"huck", "ib"},
		},
		{
			ID:        uuid.NewString(),
			PointID:   p.ID,
			Team:      model.TeamOne,
			Number:    2,
			Type:      model.ActionTeamOneScore,
			PlayerOne: guest,
			PlayerTwo: kenny,
			Comments: []model.Comment{
				{Number: 1, Commenter: "noah", Text: "layout grab"},
			},
		},
		{
			ID:      uuid.NewString(),
			PointID: p.ID,
			Team:    model.TeamTwo,
			Number:  1,
			Type:    model.ActionTeamOneScore,
		},
	}
	err = testDB.SaveActions(ctx, actions)
	assertFatalf(t, err == nil, "error saving actions: %v", err)

	one, err := testDB.GetActions(ctx, p.ID, model.TeamOne)
	assertFatalf(t, err == nil, "error getting team one actions: %v", err)
	assertEquals(t, "len(one)", 2, len(one))
	assertEquals(t, "one[0].Number", 1, one[0].Number)
	assertEquals(t, "one[0].Type", model.ActionPull, one[0].Type)
	assertFatalf(t, one[0].PlayerOne != nil, "expected player one on the pull")
	assertEquals(t, "one[0].PlayerOne.Username", "kenny", one[0].PlayerOne.Username)
	assertEquals(t, "len(one[0].Tags)", 2, len(one[0].Tags))
	assertEquals(t, "one[1].Number", 2, one[1].Number)
	assertFatalf(t, one[1].PlayerOne != nil, "expected the guest scorer")
	assertEquals(t, "one[1].PlayerOne.ID", "", one[1].PlayerOne.ID)
	assertEquals(t, "one[1].PlayerOne.FirstName", "Logan", one[1].PlayerOne.FirstName)
	assertFatalf(t, one[1].PlayerTwo != nil, "expected the assister")
	assertEquals(t, "len(one[1].Comments)", 1, len(one[1].Comments))
	assertEquals(t, "comment text", "layout grab", one[1].Comments[0].Text)
	assertEquals(t, "comment user", "noah", one[1].Comments[0].Commenter)

	two, err := testDB.GetActions(ctx, p.ID, model.TeamTwo)
	assertFatalf(t, err == nil, "error getting team two actions: %v", err)
	assertEquals(t, "len(two)", 1, len(two))
	if two[0].PlayerOne != nil || two[0].PlayerTwo != nil {
		t.Errorf("expected no players on team two's score, got %+v", two[0])
	}

	all, err := testDB.GetAllActions(ctx, p.ID)
	assertFatalf(t, err == nil, "error getting all actions: %v", err)
	assertEquals(t, "len(all)", 3, len(all))
	assertEquals(t, "all[0].Team", model.TeamOne, all[0].Team)
	assertEquals(t, "all[2].Team", model.TeamTwo, all[2].Team)

	count, err := testDB.CountActions(ctx, p.ID)
	assertFatalf(t, err == nil, "error counting actions: %v", err)
	assertEquals(t, "count", 3, count)

	// Re-saving the same numbers is ignored rather than duplicated.
	err = testDB.SaveActions(ctx, actions[:1])
	assertFatalf(t, err == nil, "error re-saving actions: %v", err)
	count, err = testDB.CountActions(ctx, p.ID)
	assertFatalf(t, err == nil, "error re-counting actions: %v", err)
	assertEquals(t, "count after replay", 3, count)

	err = testDB.DeleteActions(ctx, p.ID, model.TeamOne)
	assertFatalf(t, err == nil, "error deleting team one actions: %v", err)
	count, err = testDB.CountActions(ctx, p.ID)
	assertFatalf(t, err == nil, "error counting after delete: %v", err)
	assertEquals(t, "count after delete", 1, count)
}

func assertFatalf(t *testing.T, c bool, f string, args ...any) {
	if !c {
		t.Fatalf(f, args...)
	}
}

func assertEquals(t *testing.T, field string, expected, actual any) {
	if expected != actual {
		t.Errorf("%s - expected: '%v', got: '%v'", field, expected, actual)
	}
}
