package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/CeluchNB/stall-one-sub000/controller"
	"github.com/CeluchNB/stall-one-sub000/ledger"
	"github.com/CeluchNB/stall-one-sub000/model"
	"github.com/go-chi/chi/v5"
	"github.com/unrolled/render"
)

type playerJSON struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username,omitempty"`
}

type commentJSON struct {
	Number    int       `json:"number"`
	Commenter string    `json:"commenter"`
	Text      string    `json:"text"`
	Created   time.Time `json:"created,omitempty"`
}

type actionJSON struct {
	ID        string        `json:"id,omitempty"`
	PointID   string        `json:"pointId"`
	Team      string        `json:"team"`
	Number    int           `json:"number"`
	Type      string        `json:"type"`
	PlayerOne *playerJSON   `json:"playerOne,omitempty"`
	PlayerTwo *playerJSON   `json:"playerTwo,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
	Comments  []commentJSON `json:"comments,omitempty"`
}

type pointJSON struct {
	ID            string `json:"id"`
	GameID        string `json:"gameId"`
	Number        int    `json:"number"`
	TeamOneStatus string `json:"teamOneStatus"`
	TeamTwoStatus string `json:"teamTwoStatus"`
	TeamOneScore  int    `json:"teamOneScore"`
	TeamTwoScore  int    `json:"teamTwoScore"`
	PullingTeam   string `json:"pullingTeam"`
	ReceivingTeam string `json:"receivingTeam"`
	ScoringTeam   string `json:"scoringTeam,omitempty"`
}

type pointResult struct {
	Point   pointJSON    `json:"point"`
	Actions []actionJSON `json:"actions"`
}

type errorJSON struct {
	Message string `json:"message"`
}

func toPlayerJSON(p *model.Player) *playerJSON {
	if p == nil {
		return nil
	}
	return &playerJSON{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, Username: p.Username}
}

func (j *playerJSON) toModel() *model.Player {
	if j == nil {
		return nil
	}
	return &model.Player{ID: j.ID, FirstName: j.FirstName, LastName: j.LastName, Username: j.Username}
}

func toActionJSON(a *model.Action) actionJSON {
	res := actionJSON{
		ID:        a.ID,
		PointID:   a.PointID,
		Team:      a.Team.String(),
		Number:    a.Number,
		Type:      string(a.Type),
		PlayerOne: toPlayerJSON(a.PlayerOne),
		PlayerTwo: toPlayerJSON(a.PlayerTwo),
		Tags:      a.Tags,
	}
	for _, c := range a.Comments {
		res.Comments = append(res.Comments, commentJSON{
			Number:    c.Number,
			Commenter: c.Commenter,
			Text:      c.Text,
			Created:   c.Created,
		})
	}
	return res
}

func toActionsJSON(actions []model.Action) []actionJSON {
	res := make([]actionJSON, 0, len(actions))
	for i := range actions {
		res = append(res, toActionJSON(&actions[i]))
	}
	return res
}

func toPointJSON(p *model.Point) pointJSON {
	return pointJSON{
		ID:            p.ID,
		GameID:        p.GameID,
		Number:        p.Number,
		TeamOneStatus: string(p.TeamOneStatus),
		TeamTwoStatus: string(p.TeamTwoStatus),
		TeamOneScore:  p.TeamOneScore,
		TeamTwoScore:  p.TeamTwoScore,
		PullingTeam:   p.PullingTeam.String(),
		ReceivingTeam: p.ReceivingTeam.String(),
		ScoringTeam:   p.ScoringTeam.String(),
	}
}

// renderError maps a controller error onto the API's status codes. Not-found
// errors are 404, domain conflicts 409, precondition and validation failures
// 400, everything else 500.
func renderError(render *render.Render, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, controller.ErrUnableToFindPoint) || errors.Is(err, ledger.ErrActionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, controller.ErrConflictingScore) ||
		errors.Is(err, controller.ErrConflictingPossession) ||
		errors.Is(err, controller.ErrCannotGoBackPoint) ||
		errors.Is(err, controller.ErrReactivatePoint) ||
		errors.Is(err, controller.ErrModifyLivePoint):
		status = http.StatusConflict
	case errors.Is(err, controller.ErrScoreRequired) ||
		errors.Is(err, controller.ErrInvalidAction) ||
		errors.Is(err, controller.ErrInvalidData):
		status = http.StatusBadRequest
	}
	render.JSON(w, status, errorJSON{Message: err.Error()})
}

func teamFromRequest(r *http.Request) (model.TeamSide, bool) {
	team := model.ParseTeamSide(r.URL.Query().Get("team"))
	return team, team != model.TeamUnknown
}

func createFirstPointHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		var body struct {
			PullingTeam string `json:"pullingTeam"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			render.JSON(w, http.StatusBadRequest, errorJSON{Message: "error parsing request body"})
			return
		}
		pulling := model.ParseTeamSide(body.PullingTeam)
		if pulling == model.TeamUnknown {
			render.JSON(w, http.StatusBadRequest, errorJSON{Message: "a valid pulling team is required"})
			return
		}

		point, err := ctrl.CreateFirstPoint(r.Context(), gameID, pulling)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusCreated, map[string]any{"point": toPointJSON(point)})
	}
}

func finishPointHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		pointID := chi.URLParam(r, "pointID")
		team, ok := teamFromRequest(r)
		if !ok {
			render.JSON(w, http.StatusBadRequest, errorJSON{Message: "a valid team is required"})
			return
		}

		point, actions, err := ctrl.FinishPoint(r.Context(), gameID, pointID, team)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, pointResult{Point: toPointJSON(point), Actions: toActionsJSON(actions)})
	}
}

func backPointHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		pointNumber, err := strconv.Atoi(chi.URLParam(r, "pointNumber"))
		if err != nil {
			render.JSON(w, http.StatusBadRequest, errorJSON{Message: "error parsing point number"})
			return
		}
		team, ok := teamFromRequest(r)
		if !ok {
			render.JSON(w, http.StatusBadRequest, errorJSON{Message: "a valid team is required"})
			return
		}

		point, actions, err := ctrl.BackPoint(r.Context(), gameID, pointNumber, team)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, pointResult{Point: toPointJSON(point), Actions: toActionsJSON(actions)})
	}
}

func reactivatePointHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		team, ok := teamFromRequest(r)
		if !ok {
			render.JSON(w, http.StatusBadRequest, errorJSON{Message: "a valid team is required"})
			return
		}

		point, actions, err := ctrl.ReactivatePoint(r.Context(), gameID, team)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, pointResult{Point: toPointJSON(point), Actions: toActionsJSON(actions)})
	}
}

func deletePointHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		pointID := chi.URLParam(r, "pointID")
		team, ok := teamFromRequest(r)
		if !ok {
			render.JSON(w, http.StatusBadRequest, errorJSON{Message: "a valid team is required"})
			return
		}

		if err := ctrl.DeletePoint(r.Context(), gameID, pointID, team); err != nil {
			renderError(render, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func appendActionHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pointID := chi.URLParam(r, "pointID")

		var body struct {
			Team      string      `json:"team"`
			Type      string      `json:"type"`
			PlayerOne *playerJSON `json:"playerOne"`
			PlayerTwo *playerJSON `json:"playerTwo"`
			Tags      []string    `json:"tags"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			render.JSON(w, http.StatusBadRequest, errorJSON{Message: "error parsing request body"})
			return
		}
		team := model.ParseTeamSide(body.Team)
		if team == model.TeamUnknown {
			render.JSON(w, http.StatusBadRequest, errorJSON{Message: "a valid team is required"})
			return
		}

		action := &model.Action{
			Type:      model.ParseActionType(body.Type),
			PlayerOne: body.PlayerOne.toModel(),
			PlayerTwo: body.PlayerTwo.toModel(),
			Tags:      body.Tags,
		}
		if _, err := ctrl.AppendAction(r.Context(), pointID, team, action); err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusCreated, map[string]any{"action": toActionJSON(action)})
	}
}

func appendCommentHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pointID := chi.URLParam(r, "pointID")
		actionNumber, err := strconv.Atoi(chi.URLParam(r, "actionNumber"))
		if err != nil {
			render.JSON(w, http.StatusBadRequest, errorJSON{Message: "error parsing action number"})
			return
		}

		var body struct {
			Team      string `json:"team"`
			Commenter string `json:"commenter"`
			Text      string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			render.JSON(w, http.StatusBadRequest, errorJSON{Message: "error parsing request body"})
			return
		}
		team := model.ParseTeamSide(body.Team)
		if team == model.TeamUnknown {
			render.JSON(w, http.StatusBadRequest, errorJSON{Message: "a valid team is required"})
			return
		}
		if body.Text == "" {
			render.JSON(w, http.StatusBadRequest, errorJSON{Message: "a comment needs text"})
			return
		}

		number, err := ctrl.AppendComment(r.Context(), pointID, team, actionNumber, model.Comment{
			Commenter: body.Commenter,
			Text:      body.Text,
		})
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusCreated, map[string]any{"number": number})
	}
}

func getActionsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pointID := chi.URLParam(r, "pointID")
		actions, err := ctrl.GetActionsByPoint(r.Context(), pointID)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]any{"actions": toActionsJSON(actions)})
	}
}

func getLiveActionsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pointID := chi.URLParam(r, "pointID")
		actions, err := ctrl.GetLiveActionsByPoint(r.Context(), pointID)
		if err != nil {
			renderError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]any{"actions": toActionsJSON(actions)})
	}
}
