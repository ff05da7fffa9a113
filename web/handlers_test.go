package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CeluchNB/stall-one-sub000/controller"
	"github.com/CeluchNB/stall-one-sub000/controller/mockcontroller"
	"github.com/CeluchNB/stall-one-sub000/ledger"
	"github.com/CeluchNB/stall-one-sub000/model"
	"github.com/stretchr/testify/mock"
)

const (
	testGameID  = "63a1cf5a-2b36-4b4c-9c35-1b5a78bcad22"
	testPointID = "b2f1cb02-9c14-45fc-9c6d-7d0796e47f5a"
)

func newTestServer(ctrl controller.C) *httptest.Server {
	return httptest.NewServer(getRouter(ctrl, newRender()))
}

func TestCreateFirstPointHandler(t *testing.T) {
	ctrl := &mockcontroller.C{}
	point := &model.Point{
		ID:            testPointID,
		GameID:        testGameID,
		Number:        1,
		TeamOneStatus: model.StatusActive,
		TeamTwoStatus: model.StatusFuture,
		PullingTeam:   model.TeamOne,
		ReceivingTeam: model.TeamTwo,
	}
	ctrl.On("CreateFirstPoint", mock.Anything, testGameID, model.TeamOne).Return(point, nil)

	server := newTestServer(ctrl)
	defer server.Close()

	resp, err := http.Post(fmt.Sprintf("%s/games/%s/points", server.URL, testGameID),
		"application/json", strings.NewReader(`{"pullingTeam":"one"}`))
	if err != nil {
		t.Fatalf("error making request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var body struct {
		Point pointJSON `json:"point"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if body.Point.ID != testPointID || body.Point.PullingTeam != "one" {
		t.Errorf("unexpected point in response: %+v", body.Point)
	}
	ctrl.AssertExpectations(t)
}

func TestCreateFirstPointHandler_badRequests(t *testing.T) {
	ctrl := &mockcontroller.C{}
	server := newTestServer(ctrl)
	defer server.Close()

	tests := map[string]struct {
		body string
	}{
		"no body":      {body: ""},
		"bad json":     {body: "{"},
		"unknown team": {body: `{"pullingTeam":"three"}`},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			resp, err := http.Post(fmt.Sprintf("%s/games/%s/points", server.URL, testGameID),
				"application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("error making request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("unexpected status code: %d", resp.StatusCode)
			}
		})
	}
	ctrl.AssertNotCalled(t, "CreateFirstPoint")
}

func TestFinishPointHandler(t *testing.T) {
	ctrl := &mockcontroller.C{}
	point := &model.Point{
		ID:            testPointID,
		GameID:        testGameID,
		Number:        1,
		TeamOneStatus: model.StatusComplete,
		TeamOneScore:  1,
		ScoringTeam:   model.TeamOne,
	}
	actions := []model.Action{
		{PointID: testPointID, Team: model.TeamOne, Number: 1, Type: model.ActionPull},
		{PointID: testPointID, Team: model.TeamOne, Number: 2, Type: model.ActionTeamOneScore},
	}
	ctrl.On("FinishPoint", mock.Anything, testGameID, testPointID, model.TeamOne).Return(point, actions, nil)

	server := newTestServer(ctrl)
	defer server.Close()

	resp := doPut(t, fmt.Sprintf("%s/games/%s/points/%s/finish?team=one", server.URL, testGameID, testPointID))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var body pointResult
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if body.Point.ScoringTeam != "one" || body.Point.TeamOneScore != 1 {
		t.Errorf("unexpected point in response: %+v", body.Point)
	}
	if len(body.Actions) != 2 || body.Actions[1].Type != "TeamOneScore" {
		t.Errorf("unexpected actions in response: %+v", body.Actions)
	}
	ctrl.AssertExpectations(t)
}

func TestErrorMapping(t *testing.T) {
	tests := map[string]struct {
		err  error
		want int
	}{
		"not found":           {err: controller.ErrUnableToFindPoint, want: http.StatusNotFound},
		"score required":      {err: controller.ErrScoreRequired, want: http.StatusBadRequest},
		"conflicting score":   {err: controller.ErrConflictingScore, want: http.StatusConflict},
		"conflicting pulls":   {err: controller.ErrConflictingPossession, want: http.StatusConflict},
		"invalid data":        {err: controller.ErrInvalidData, want: http.StatusBadRequest},
		"infrastructure down": {err: fmt.Errorf("connection refused"), want: http.StatusInternalServerError},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := &mockcontroller.C{}
			ctrl.On("FinishPoint", mock.Anything, testGameID, testPointID, model.TeamTwo).Return(nil, nil, tc.err)

			server := newTestServer(ctrl)
			defer server.Close()

			resp := doPut(t, fmt.Sprintf("%s/games/%s/points/%s/finish?team=two", server.URL, testGameID, testPointID))
			defer resp.Body.Close()

			if resp.StatusCode != tc.want {
				t.Errorf("expected status %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestBackPointHandler(t *testing.T) {
	ctrl := &mockcontroller.C{}
	point := &model.Point{ID: testPointID, GameID: testGameID, Number: 2, TeamOneStatus: model.StatusActive}
	ctrl.On("BackPoint", mock.Anything, testGameID, 3, model.TeamOne).Return(point, []model.Action{}, nil)

	server := newTestServer(ctrl)
	defer server.Close()

	resp := doPut(t, fmt.Sprintf("%s/games/%s/points/3/back?team=one", server.URL, testGameID))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}
	ctrl.AssertExpectations(t)
}

func TestAppendActionHandler(t *testing.T) {
	ctrl := &mockcontroller.C{}
	ctrl.On("AppendAction", mock.Anything, testPointID, model.TeamOne, mock.Anything).Return(1, nil)

	server := newTestServer(ctrl)
	defer server.Close()

	body := `{"team":"one","type":"Pull","playerOne":{"firstName":"Kenny","lastName":"Furdella"},"tags":["huck"]}`
	resp, err := http.Post(fmt.Sprintf("%s/points/%s/actions", server.URL, testPointID),
		"application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("error making request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}
	ctrl.AssertExpectations(t)

	// Invalid actions map to a 400.
	ctrl.On("AppendAction", mock.Anything, testPointID, model.TeamTwo, mock.Anything).
		Return(0, controller.ErrInvalidAction)
	resp2, err := http.Post(fmt.Sprintf("%s/points/%s/actions", server.URL, testPointID),
		"application/json", strings.NewReader(`{"team":"two","type":"Pull"}`))
	if err != nil {
		t.Fatalf("error making request: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Errorf("unexpected status code: %d", resp2.StatusCode)
	}
}

func TestAppendCommentHandler(t *testing.T) {
	ctrl := &mockcontroller.C{}
	ctrl.On("AppendComment", mock.Anything, testPointID, model.TeamOne, 2, mock.Anything).
		Return(0, ledger.ErrActionNotFound)

	server := newTestServer(ctrl)
	defer server.Close()

	resp, err := http.Post(fmt.Sprintf("%s/points/%s/actions/2/comments", server.URL, testPointID),
		"application/json", strings.NewReader(`{"team":"one","commenter":"noah","text":"nice"}`))
	if err != nil {
		t.Fatalf("error making request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

func TestGetLiveActionsHandler(t *testing.T) {
	ctrl := &mockcontroller.C{}
	actions := []model.Action{
		{PointID: testPointID, Team: model.TeamOne, Number: 1, Type: model.ActionPull, PlayerOne: &model.Player{FirstName: "Kenny"}},
	}
	ctrl.On("GetLiveActionsByPoint", mock.Anything, testPointID).Return(actions, nil)

	server := newTestServer(ctrl)
	defer server.Close()

	resp, err := http.Get(fmt.Sprintf("%s/points/%s/actions/live", server.URL, testPointID))
	if err != nil {
		t.Fatalf("error making request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}
	var body struct {
		Actions []actionJSON `json:"actions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(body.Actions) != 1 || body.Actions[0].PlayerOne == nil || body.Actions[0].PlayerOne.FirstName != "Kenny" {
		t.Errorf("unexpected actions in response: %+v", body.Actions)
	}
}

func doPut(t *testing.T, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, url, nil)
	if err != nil {
		t.Fatalf("error creating request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("error making request: %v", err)
	}
	return resp
}
