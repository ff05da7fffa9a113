package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/CeluchNB/stall-one-sub000/model"
	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrGameNotFound  error = errors.New("game not found")
	ErrPointNotFound error = errors.New("point not found")
)

func New(ctx context.Context, connString string, clock clock.Clock) (DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &postgresDB{pool: pool, clock: clock}, nil
}

type postgresDB struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

func (db *postgresDB) AddGame(ctx context.Context, g *model.Game) error {
	const query = `INSERT INTO games (
		id,
		team_one_id,
		team_one_name,
		team_two_id,
		team_two_name,
		team_one_score,
		team_two_score,
		team_one_active,
		team_two_active
	) VALUES (
		@id,
		@teamOneID,
		@teamOneName,
		@teamTwoID,
		@teamTwoName,
		@teamOneScore,
		@teamTwoScore,
		@teamOneActive,
		@teamTwoActive
	)`

	_, err := db.pool.Exec(ctx, query, namedArgsForGame(g, db.clock, false))
	if err != nil {
		return fmt.Errorf("error inserting game(%s): %w", g.ID, err)
	}
	return nil
}

func (db *postgresDB) GetGame(ctx context.Context, id string) (*model.Game, error) {
	const query = `SELECT id, team_one_id, team_one_name, team_two_id, team_two_name,
						team_one_score, team_two_score, team_one_active, team_two_active,
						created, updated
					FROM games WHERE id=@id`

	row := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id})
	g, err := scanGame(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("error scanning game %s: %w", id, err)
	}
	return g, nil
}

func (db *postgresDB) SaveGame(ctx context.Context, g *model.Game) error {
	const query = `UPDATE games
		SET team_one_score=@teamOneScore,
			team_two_score=@teamTwoScore,
			team_one_active=@teamOneActive,
			team_two_active=@teamTwoActive,
			updated=@updated
		WHERE id=@id`

	tag, err := db.pool.Exec(ctx, query, namedArgsForGame(g, db.clock, true))
	if err != nil {
		return fmt.Errorf("error updating game (%s): %w", g.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGameNotFound
	}
	return nil
}

func scanGame(row pgx.Row) (*model.Game, error) {
	var g model.Game
	var created, updated pgtype.Timestamptz
	err := row.Scan(
		&g.ID,
		&g.TeamOneID,
		&g.TeamOneName,
		&g.TeamTwoID,
		&g.TeamTwoName,
		&g.TeamOneScore,
		&g.TeamTwoScore,
		&g.TeamOneActive,
		&g.TeamTwoActive,
		&created,
		&updated)
	if err != nil {
		return nil, err
	}
	g.Created = created.Time
	g.Updated = updated.Time
	return &g, nil
}

func namedArgsForGame(g *model.Game, clock clock.Clock, update bool) pgx.NamedArgs {
	args := pgx.NamedArgs{
		"id":            g.ID,
		"teamOneID":     g.TeamOneID,
		"teamOneName":   g.TeamOneName,
		"teamTwoID":     g.TeamTwoID,
		"teamTwoName":   g.TeamTwoName,
		"teamOneScore":  g.TeamOneScore,
		"teamTwoScore":  g.TeamTwoScore,
		"teamOneActive": g.TeamOneActive,
		"teamTwoActive": g.TeamTwoActive,
	}
	if update {
		args["updated"] = pgtype.Timestamptz{
			Time:             clock.Now().UTC(),
			InfinityModifier: pgtype.Finite,
			Valid:            true,
		}
	}
	return args
}

const pointColumns = `id, game_id, point_number, team_one_status, team_two_status,
	team_one_score, team_two_score, pulling_team, receiving_team, scoring_team,
	created, updated`

func (db *postgresDB) AddPoint(ctx context.Context, p *model.Point) error {
	const query = `INSERT INTO points (
		id,
		game_id,
		point_number,
		team_one_status,
		team_two_status,
		team_one_score,
		team_two_score,
		pulling_team,
		receiving_team,
		scoring_team
	) VALUES (
		@id,
		@gameID,
		@pointNumber,
		@teamOneStatus,
		@teamTwoStatus,
		@teamOneScore,
		@teamTwoScore,
		@pullingTeam,
		@receivingTeam,
		@scoringTeam
	)`

	_, err := db.pool.Exec(ctx, query, namedArgsForPoint(p, db.clock, false))
	if err != nil {
		return fmt.Errorf("error inserting point(%s): %w", p.ID, err)
	}
	return nil
}

func (db *postgresDB) GetPoint(ctx context.Context, id string) (*model.Point, error) {
	query := fmt.Sprintf(`SELECT %s FROM points WHERE id=@id`, pointColumns)

	row := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id})
	p, err := scanPoint(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPointNotFound
		}
		return nil, fmt.Errorf("error scanning point %s: %w", id, err)
	}
	return p, nil
}

func (db *postgresDB) GetPointByNumber(ctx context.Context, gameID string, number int) (*model.Point, error) {
	query := fmt.Sprintf(`SELECT %s FROM points WHERE game_id=@gameID AND point_number=@number`, pointColumns)

	row := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"gameID": gameID, "number": number})
	p, err := scanPoint(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPointNotFound
		}
		return nil, fmt.Errorf("error scanning point %d of game %s: %w", number, gameID, err)
	}
	return p, nil
}

func (db *postgresDB) LatestPointNumber(ctx context.Context, gameID string) (int, error) {
	const query = `SELECT COALESCE(MAX(point_number), 0) FROM points WHERE game_id=@gameID`

	var n int
	err := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"gameID": gameID}).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error finding latest point of game %s: %w", gameID, err)
	}
	return n, nil
}

func (db *postgresDB) SavePoint(ctx context.Context, p *model.Point) error {
	const query = `UPDATE points
		SET team_one_status=@teamOneStatus,
			team_two_status=@teamTwoStatus,
			team_one_score=@teamOneScore,
			team_two_score=@teamTwoScore,
			pulling_team=@pullingTeam,
			receiving_team=@receivingTeam,
			scoring_team=@scoringTeam,
			updated=@updated
		WHERE id=@id`

	tag, err := db.pool.Exec(ctx, query, namedArgsForPoint(p, db.clock, true))
	if err != nil {
		return fmt.Errorf("error updating point (%s): %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPointNotFound
	}
	return nil
}

func (db *postgresDB) DeletePoint(ctx context.Context, id string) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM points WHERE id=@id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting point (%s): %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPointNotFound
	}
	return nil
}

func scanPoint(row pgx.Row) (*model.Point, error) {
	var p model.Point
	var oneStatus, twoStatus, pulling, receiving string
	var scoring pgtype.Text
	var created, updated pgtype.Timestamptz
	err := row.Scan(
		&p.ID,
		&p.GameID,
		&p.Number,
		&oneStatus,
		&twoStatus,
		&p.TeamOneScore,
		&p.TeamTwoScore,
		&pulling,
		&receiving,
		&scoring,
		&created,
		&updated)
	if err != nil {
		return nil, err
	}

	p.TeamOneStatus = model.ParsePointStatus(oneStatus)
	p.TeamTwoStatus = model.ParsePointStatus(twoStatus)
	p.PullingTeam = model.TeamSide(pulling)
	p.ReceivingTeam = model.TeamSide(receiving)
	if scoring.Valid {
		p.ScoringTeam = model.TeamSide(scoring.String)
	}
	p.Created = created.Time
	p.Updated = updated.Time
	return &p, nil
}

func namedArgsForPoint(p *model.Point, clock clock.Clock, update bool) pgx.NamedArgs {
	args := pgx.NamedArgs{
		"id":            p.ID,
		"gameID":        p.GameID,
		"pointNumber":   p.Number,
		"teamOneStatus": string(p.TeamOneStatus),
		"teamTwoStatus": string(p.TeamTwoStatus),
		"teamOneScore":  p.TeamOneScore,
		"teamTwoScore":  p.TeamTwoScore,
		"pullingTeam":   string(p.PullingTeam),
		"receivingTeam": string(p.ReceivingTeam),
		"scoringTeam": pgtype.Text{
			String: string(p.ScoringTeam),
			Valid:  p.ScoringTeam != model.TeamUnknown,
		},
	}
	if update {
		args["updated"] = pgtype.Timestamptz{
			Time:             clock.Now().UTC(),
			InfinityModifier: pgtype.Finite,
			Valid:            true,
		}
	}
	return args
}
