// Package ledger is the ephemeral, team-scoped action log for points that
// are still being reported live. Actions are appended here first and only
// become durable when a point is finished and its segment is drained into
// the db package.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/CeluchNB/stall-one-sub000/model"
	"github.com/itbasis/go-clock"
)

var (
	// ErrActionNotFound means no action exists at the requested number.
	ErrActionNotFound = errors.New("ledger action not found")
	// ErrCorruptSegment means an action is missing mid-sequence, which should
	// be impossible under append-only growth.
	ErrCorruptSegment = errors.New("ledger segment is corrupt")
)

type Ledger interface {
	// Append assigns the next action number for the segment and writes the
	// action's fields as one transaction. The number is returned and also set
	// on the action.
	Append(ctx context.Context, pointID string, team model.TeamSide, a *model.Action) (int, error)
	Read(ctx context.Context, pointID string, team model.TeamSide, number int) (*model.Action, error)
	AppendComment(ctx context.Context, pointID string, team model.TeamSide, actionNumber int, c model.Comment) (int, error)
	// Count returns the segment's action counter. Zero means the team never
	// recorded anything for the point.
	Count(ctx context.Context, pointID string, team model.TeamSide) (int, error)
	// Drain returns the full segment ordered by action number without
	// deleting it. A gap mid-sequence returns ErrCorruptSegment.
	Drain(ctx context.Context, pointID string, team model.TeamSide) ([]model.Action, error)
	// Restore reseeds a cleared segment from durable actions, preserving
	// their numbers and setting the counter to the highest one.
	Restore(ctx context.Context, pointID string, team model.TeamSide, actions []model.Action) error
	Clear(ctx context.Context, pointID string, team model.TeamSide) error
	SetRoles(ctx context.Context, gameID, pointID string, pulling, receiving model.TeamSide) error
	Roles(ctx context.Context, gameID, pointID string) (pulling, receiving model.TeamSide, err error)
	ClearRoles(ctx context.Context, gameID, pointID string) error
}

func New(clock clock.Clock) Ledger {
	return &memoryLedger{
		store: newKeyspace(),
		clock: clock,
	}
}

type memoryLedger struct {
	store *keyspace
	clock clock.Clock
}

// Key scheme, per action:
//
//	{pointId}:{n}:{team}:type
//	{pointId}:{n}:{team}:playerOne
//	{pointId}:{n}:{team}:playerTwo
//	{pointId}:{n}:{team}:tags          (list)
//	{pointId}:{n}:{team}:comments      (counter)
//	{pointId}:{n}:{team}:comments:{m}:text
//	{pointId}:{n}:{team}:comments:{m}:user
//
// and per point:
//
//	{gameId}:{pointId}:pulling
//	{gameId}:{pointId}:receiving
//	{pointId}:{team}:actions           (counter)
func actionKey(pointID string, team model.TeamSide, n int, field string) string {
	return fmt.Sprintf("%s:%d:%s:%s", pointID, n, team, field)
}

func counterKey(pointID string, team model.TeamSide) string {
	return fmt.Sprintf("%s:%s:actions", pointID, team)
}

func roleKey(gameID, pointID, role string) string {
	return fmt.Sprintf("%s:%s:%s", gameID, pointID, role)
}

func (l *memoryLedger) Append(ctx context.Context, pointID string, team model.TeamSide, a *model.Action) (int, error) {
	n := l.store.incr(counterKey(pointID, team))

	playerOne, playerTwo, err := encodePlayers(a)
	if err != nil {
		return 0, err
	}

	l.store.update(func(tx *txn) {
		tx.set(actionKey(pointID, team, n, "type"), string(a.Type))
		if playerOne != "" {
			tx.set(actionKey(pointID, team, n, "playerOne"), playerOne)
		}
		if playerTwo != "" {
			tx.set(actionKey(pointID, team, n, "playerTwo"), playerTwo)
		}
		if len(a.Tags) > 0 {
			tx.push(actionKey(pointID, team, n, "tags"), a.Tags...)
		}
	})

	a.PointID = pointID
	a.Team = team
	a.Number = n
	a.Created = l.clock.Now().UTC()
	return n, nil
}

func (l *memoryLedger) Read(ctx context.Context, pointID string, team model.TeamSide, number int) (*model.Action, error) {
	typ, ok := l.store.get(actionKey(pointID, team, number, "type"))
	if !ok {
		return nil, ErrActionNotFound
	}

	a := &model.Action{
		PointID: pointID,
		Team:    team,
		Number:  number,
		Type:    model.ActionType(typ),
		Tags:    nil,
	}

	if v, ok := l.store.get(actionKey(pointID, team, number, "playerOne")); ok {
		p, err := decodePlayer(v)
		if err != nil {
			return nil, err
		}
		a.PlayerOne = p
	}
	if v, ok := l.store.get(actionKey(pointID, team, number, "playerTwo")); ok {
		p, err := decodePlayer(v)
		if err != nil {
			return nil, err
		}
		a.PlayerTwo = p
	}
	a.Tags = l.store.list(actionKey(pointID, team, number, "tags"))
	if len(a.Tags) == 0 {
		a.Tags = nil
	}

	comments, err := l.readComments(pointID, team, number)
	if err != nil {
		return nil, err
	}
	a.Comments = comments

	return a, nil
}

func (l *memoryLedger) readComments(pointID string, team model.TeamSide, number int) ([]model.Comment, error) {
	total := l.store.counter(actionKey(pointID, team, number, "comments"))
	if total == 0 {
		return nil, nil
	}

	comments := make([]model.Comment, 0, total)
	for m := 1; m <= total; m++ {
		text, ok := l.store.get(commentKey(pointID, team, number, m, "text"))
		if !ok {
			return nil, fmt.Errorf("%w: comment %d of action %d missing", ErrCorruptSegment, m, number)
		}
		user, _ := l.store.get(commentKey(pointID, team, number, m, "user"))
		comments = append(comments, model.Comment{
			Number:    m,
			Commenter: user,
			Text:      text,
		})
	}
	return comments, nil
}

func commentKey(pointID string, team model.TeamSide, n, m int, field string) string {
	return fmt.Sprintf("%s:%d:%s:comments:%d:%s", pointID, n, team, m, field)
}

func (l *memoryLedger) AppendComment(ctx context.Context, pointID string, team model.TeamSide, actionNumber int, c model.Comment) (int, error) {
	if _, ok := l.store.get(actionKey(pointID, team, actionNumber, "type")); !ok {
		return 0, ErrActionNotFound
	}

	m := l.store.incr(actionKey(pointID, team, actionNumber, "comments"))
	l.store.update(func(tx *txn) {
		tx.set(commentKey(pointID, team, actionNumber, m, "text"), c.Text)
		tx.set(commentKey(pointID, team, actionNumber, m, "user"), c.Commenter)
	})
	return m, nil
}

func (l *memoryLedger) Count(ctx context.Context, pointID string, team model.TeamSide) (int, error) {
	return l.store.counter(counterKey(pointID, team)), nil
}

func (l *memoryLedger) Drain(ctx context.Context, pointID string, team model.TeamSide) ([]model.Action, error) {
	total := l.store.counter(counterKey(pointID, team))
	if total == 0 {
		return nil, nil
	}

	actions := make([]model.Action, 0, total)
	for n := 1; n <= total; n++ {
		a, err := l.Read(ctx, pointID, team, n)
		if err != nil {
			if errors.Is(err, ErrActionNotFound) {
				return nil, fmt.Errorf("%w: action %d of %d missing", ErrCorruptSegment, n, total)
			}
			return nil, err
		}
		actions = append(actions, *a)
	}
	return actions, nil
}

func (l *memoryLedger) Restore(ctx context.Context, pointID string, team model.TeamSide, actions []model.Action) error {
	high := 0
	for i := range actions {
		a := &actions[i]
		if a.Number <= 0 {
			return fmt.Errorf("cannot restore action without a number (type %s)", a.Type)
		}
		playerOne, playerTwo, err := encodePlayers(a)
		if err != nil {
			return err
		}

		n := a.Number
		comments := a.Comments
		l.store.update(func(tx *txn) {
			tx.set(actionKey(pointID, team, n, "type"), string(a.Type))
			if playerOne != "" {
				tx.set(actionKey(pointID, team, n, "playerOne"), playerOne)
			}
			if playerTwo != "" {
				tx.set(actionKey(pointID, team, n, "playerTwo"), playerTwo)
			}
			if len(a.Tags) > 0 {
				tx.push(actionKey(pointID, team, n, "tags"), a.Tags...)
			}
			for _, c := range comments {
				tx.setCounter(actionKey(pointID, team, n, "comments"), c.Number)
				tx.set(commentKey(pointID, team, n, c.Number, "text"), c.Text)
				tx.set(commentKey(pointID, team, n, c.Number, "user"), c.Commenter)
			}
		})

		if n > high {
			high = n
		}
	}

	current := l.store.counter(counterKey(pointID, team))
	if high > current {
		l.store.setCounter(counterKey(pointID, team), high)
	}
	return nil
}

func (l *memoryLedger) Clear(ctx context.Context, pointID string, team model.TeamSide) error {
	total := l.store.counter(counterKey(pointID, team))
	for n := 1; n <= total; n++ {
		l.store.deletePrefix(fmt.Sprintf("%s:%d:%s:", pointID, n, team))
	}
	l.store.del(counterKey(pointID, team))
	return nil
}

func (l *memoryLedger) SetRoles(ctx context.Context, gameID, pointID string, pulling, receiving model.TeamSide) error {
	if pulling == receiving || pulling == model.TeamUnknown || receiving == model.TeamUnknown {
		return fmt.Errorf("invalid roles: pulling '%s', receiving '%s'", pulling, receiving)
	}
	l.store.update(func(tx *txn) {
		tx.set(roleKey(gameID, pointID, "pulling"), string(pulling))
		tx.set(roleKey(gameID, pointID, "receiving"), string(receiving))
	})
	return nil
}

func (l *memoryLedger) Roles(ctx context.Context, gameID, pointID string) (model.TeamSide, model.TeamSide, error) {
	p, okP := l.store.get(roleKey(gameID, pointID, "pulling"))
	r, okR := l.store.get(roleKey(gameID, pointID, "receiving"))
	if !okP || !okR {
		return model.TeamUnknown, model.TeamUnknown, nil
	}
	return model.TeamSide(p), model.TeamSide(r), nil
}

func (l *memoryLedger) ClearRoles(ctx context.Context, gameID, pointID string) error {
	l.store.del(roleKey(gameID, pointID, "pulling"), roleKey(gameID, pointID, "receiving"))
	return nil
}

func encodePlayers(a *model.Action) (string, string, error) {
	var one, two string
	if a.PlayerOne != nil {
		b, err := json.Marshal(a.PlayerOne)
		if err != nil {
			return "", "", fmt.Errorf("error encoding player one: %w", err)
		}
		one = string(b)
	}
	if a.PlayerTwo != nil {
		b, err := json.Marshal(a.PlayerTwo)
		if err != nil {
			return "", "", fmt.Errorf("error encoding player two: %w", err)
		}
		two = string(b)
	}
	return one, two, nil
}

func decodePlayer(v string) (*model.Player, error) {
	var p model.Player
	if err := json.Unmarshal([]byte(v), &p); err != nil {
		return nil, fmt.Errorf("error decoding player: %w", err)
	}
	return &p, nil
}
