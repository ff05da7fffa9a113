package testutils

import (
	"context"
	"log"

	"github.com/CeluchNB/stall-one-sub000/containers"
	"github.com/CeluchNB/stall-one-sub000/db"
	"github.com/CeluchNB/stall-one-sub000/model"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
)

var (
	Kenny = &model.Player{
		ID:        "6a20d343-ab0e-4f0c-8c1b-b1a800c27401",
		FirstName: "Kenny",
		LastName:  "Furdella",
		Username:  "kenny",
	}
	Noah = &model.Player{
		ID:        "233264ba-dcd4-405f-9182-b1a800c27402",
		FirstName: "Noah",
		LastName:  "Celuch",
		Username:  "noah",
	}
	Amy = &model.Player{
		ID:        "4c1a1b17-6a2d-4f1f-8f77-b1a800c27403",
		FirstName: "Amy",
		LastName:  "Celuch",
		Username:  "amy",
	}
	Guest = &model.Player{
		FirstName: "Logan",
		LastName:  "Call",
	}
)

type TestDB struct {
	container *containers.DBContainer
	DB        db.DB
	Clock     clock.Clock
}

func NewTestDB() *TestDB {
	container := containers.NewDBContainer()
	clock := clock.New()

	db, err := db.New(context.Background(), container.ConnectionString(), clock)
	if err != nil {
		log.Fatalf("error connecting to db in test container: %v", err)
	}

	return &TestDB{
		container: container,
		DB:        db,
		Clock:     clock,
	}
}

func (db *TestDB) Shutdown() {
	db.container.Shutdown()
}

// InsertTestGame adds a fresh 0-0 game and returns it. Each test gets its own
// game so tests never share point numbering.
func (t *TestDB) InsertTestGame(bothActive bool) *model.Game {
	g := &model.Game{
		ID:            uuid.NewString(),
		TeamOneID:     uuid.NewString(),
		TeamOneName:   "Temper",
		TeamTwoID:     uuid.NewString(),
		TeamTwoName:   "Truck Stop",
		TeamOneActive: true,
		TeamTwoActive: bothActive,
	}
	if err := t.DB.AddGame(context.Background(), g); err != nil {
		log.Fatalf("error inserting test game: %v", err)
	}
	return g
}
