package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/CeluchNB/stall-one-sub000/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const actionColumns = `id, point_id, team, action_number, action_type,
	player_one_id, player_one_first, player_one_last, player_one_username,
	player_two_id, player_two_first, player_two_last, player_two_username,
	tags, created`

func (db *postgresDB) SaveActions(ctx context.Context, actions []model.Action) error {
	if len(actions) == 0 {
		return nil
	}

	const insertAction = `INSERT INTO actions (
		id,
		point_id,
		team,
		action_number,
		action_type,
		player_one_id,
		player_one_first,
		player_one_last,
		player_one_username,
		player_two_id,
		player_two_first,
		player_two_last,
		player_two_username,
		tags
	) VALUES (
		@id,
		@pointID,
		@team,
		@actionNumber,
		@actionType,
		@playerOneID,
		@playerOneFirst,
		@playerOneLast,
		@playerOneUsername,
		@playerTwoID,
		@playerTwoFirst,
		@playerTwoLast,
		@playerTwoUsername,
		@tags
	) ON CONFLICT (point_id, team, action_number) DO NOTHING`

	const insertComment = `INSERT INTO action_comments (
		action_id,
		comment_number,
		commenter,
		comment_text
	) VALUES (
		@actionID,
		@commentNumber,
		@commenter,
		@commentText
	) ON CONFLICT (action_id, comment_number) DO NOTHING`

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range actions {
		a := &actions[i]
		_, err := tx.Exec(ctx, insertAction, namedArgsForAction(a))
		if err != nil {
			return fmt.Errorf("error inserting action %d of point %s: %w", a.Number, a.PointID, err)
		}
		for _, c := range a.Comments {
			args := pgx.NamedArgs{
				"actionID":      a.ID,
				"commentNumber": c.Number,
				"commenter": sql.NullString{
					String: c.Commenter,
					Valid:  c.Commenter != "",
				},
				"commentText": c.Text,
			}
			_, err := tx.Exec(ctx, insertComment, args)
			if err != nil {
				return fmt.Errorf("error inserting comment %d of action %s: %w", c.Number, a.ID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing actions transaction: %w", err)
	}
	return nil
}

func (db *postgresDB) GetActions(ctx context.Context, pointID string, team model.TeamSide) ([]model.Action, error) {
	query := fmt.Sprintf(`SELECT %s FROM actions
		WHERE point_id=@pointID AND team=@team
		ORDER BY action_number`, actionColumns)

	return db.queryActions(ctx, query, pgx.NamedArgs{"pointID": pointID, "team": string(team)})
}

func (db *postgresDB) GetAllActions(ctx context.Context, pointID string) ([]model.Action, error) {
	query := fmt.Sprintf(`SELECT %s FROM actions
		WHERE point_id=@pointID
		ORDER BY team, action_number`, actionColumns)

	return db.queryActions(ctx, query, pgx.NamedArgs{"pointID": pointID})
}

func (db *postgresDB) CountActions(ctx context.Context, pointID string) (int, error) {
	const query = `SELECT COUNT(*) FROM actions WHERE point_id=@pointID`

	var n int
	err := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"pointID": pointID}).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting actions of point %s: %w", pointID, err)
	}
	return n, nil
}

func (db *postgresDB) DeleteActions(ctx context.Context, pointID string, team model.TeamSide) error {
	const query = `DELETE FROM actions WHERE point_id=@pointID AND team=@team`

	_, err := db.pool.Exec(ctx, query, pgx.NamedArgs{"pointID": pointID, "team": string(team)})
	if err != nil {
		return fmt.Errorf("error deleting actions of point %s team %s: %w", pointID, team, err)
	}
	return nil
}

func (db *postgresDB) queryActions(ctx context.Context, query string, args pgx.NamedArgs) ([]model.Action, error) {
	rows, err := db.pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error running actions query: %w", err)
	}
	defer rows.Close()

	actions := make([]model.Action, 0, 8)
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range actions {
		comments, err := db.getComments(ctx, actions[i].ID)
		if err != nil {
			return nil, err
		}
		actions[i].Comments = comments
	}
	return actions, nil
}

func (db *postgresDB) getComments(ctx context.Context, actionID string) ([]model.Comment, error) {
	const query = `SELECT comment_number, commenter, comment_text, created
		FROM action_comments WHERE action_id=@actionID ORDER BY comment_number`

	rows, err := db.pool.Query(ctx, query, pgx.NamedArgs{"actionID": actionID})
	if err != nil {
		return nil, fmt.Errorf("error querying comments of action %s: %w", actionID, err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		var commenter sql.NullString
		var created pgtype.Timestamptz
		if err := rows.Scan(&c.Number, &commenter, &c.Text, &created); err != nil {
			return nil, fmt.Errorf("error scanning comment: %w", err)
		}
		c.Commenter = valueOrEmpty(commenter)
		c.Created = created.Time
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func scanAction(row pgx.Row) (*model.Action, error) {
	var a model.Action
	var team, actionType string
	var oneID, oneFirst, oneLast, oneUsername sql.NullString
	var twoID, twoFirst, twoLast, twoUsername sql.NullString
	var created pgtype.Timestamptz
	err := row.Scan(
		&a.ID,
		&a.PointID,
		&team,
		&a.Number,
		&actionType,
		&oneID,
		&oneFirst,
		&oneLast,
		&oneUsername,
		&twoID,
		&twoFirst,
		&twoLast,
		&twoUsername,
		&a.Tags,
		&created)
	if err != nil {
		return nil, err
	}

	a.Team = model.TeamSide(team)
	a.Type = model.ActionType(actionType)
	a.PlayerOne = playerFromColumns(oneID, oneFirst, oneLast, oneUsername)
	a.PlayerTwo = playerFromColumns(twoID, twoFirst, twoLast, twoUsername)
	a.Created = created.Time
	return &a, nil
}

func playerFromColumns(id, first, last, username sql.NullString) *model.Player {
	if !first.Valid && !last.Valid && !username.Valid {
		return nil
	}
	return &model.Player{
		ID:        valueOrEmpty(id),
		FirstName: valueOrEmpty(first),
		LastName:  valueOrEmpty(last),
		Username:  valueOrEmpty(username),
	}
}

func namedArgsForAction(a *model.Action) pgx.NamedArgs {
	args := pgx.NamedArgs{
		"id":           a.ID,
		"pointID":      a.PointID,
		"team":         string(a.Team),
		"actionNumber": a.Number,
		"actionType":   string(a.Type),
		"tags":         a.Tags,
	}
	addPlayerArgs(args, "playerOne", a.PlayerOne)
	addPlayerArgs(args, "playerTwo", a.PlayerTwo)
	return args
}

func addPlayerArgs(args pgx.NamedArgs, prefix string, p *model.Player) {
	var id, first, last, username sql.NullString
	if p != nil {
		id = sql.NullString{String: p.ID, Valid: p.ID != ""}
		first = sql.NullString{String: p.FirstName, Valid: true}
		last = sql.NullString{String: p.LastName, Valid: p.LastName != ""}
		username = sql.NullString{String: p.Username, Valid: p.Username != ""}
	}
	args[prefix+"ID"] = id
	args[prefix+"First"] = first
	args[prefix+"Last"] = last
	args[prefix+"Username"] = username
}

func valueOrEmpty(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}
