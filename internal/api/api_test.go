package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/scoreboard/internal/api"
	"github.com/mcoot/scoreboard/internal/api/apierr"
	"github.com/mcoot/scoreboard/internal/api/response"
	"github.com/mcoot/scoreboard/internal/factory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(app.Close)

	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		BoardController:  app.BoardController,
		RosterController: app.RosterController,
		StopwatchService: app.StopwatchService,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func assertErrorCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, rr.Code)
	resp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, code, resp.Error.Code)
}

func createBoard(t *testing.T, ts *testServer) response.Board {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/boards", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	return decode[response.Board](t, rr)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)
	createBoard(t, ts)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.Health](t, rr)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Boards)
}

func TestCreateBoard(t *testing.T) {
	ts := newTestServer(t)

	board := createBoard(t, ts)

	assert.Len(t, board.Code, 6)
	require.Len(t, board.Players, 3)
	assert.Equal(t, "Jim Hoskins", board.Players[0].Name)
	assert.Equal(t, 31, board.Players[0].Score)
	assert.Equal(t, response.Stats{PlayerCount: 3, TotalPoints: 101}, board.Stats)
	assert.Equal(t, "idle", board.Stopwatch.State)
	assert.Equal(t, int64(0), board.Stopwatch.Seconds)
}

func TestGetAndListBoards(t *testing.T) {
	ts := newTestServer(t)
	a := createBoard(t, ts)
	b := createBoard(t, ts)

	rr := ts.request(http.MethodGet, "/api/v1/boards", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[response.BoardList](t, rr)
	codes := []string{}
	for _, s := range list.Boards {
		codes = append(codes, s.Code)
	}
	assert.ElementsMatch(t, []string{a.Code, b.Code}, codes)

	rr = ts.request(http.MethodGet, "/api/v1/boards/"+a.Code, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, a.Code, decode[response.Board](t, rr).Code)
}

func TestDeleteBoard(t *testing.T) {
	ts := newTestServer(t)
	board := createBoard(t, ts)

	rr := ts.request(http.MethodDelete, "/api/v1/boards/"+board.Code, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/boards/"+board.Code, nil)
	assertErrorCode(t, rr, http.StatusNotFound, apierr.CodeBoardNotFound)

	rr = ts.request(http.MethodDelete, "/api/v1/boards/"+board.Code, nil)
	assertErrorCode(t, rr, http.StatusNotFound, apierr.CodeBoardNotFound)
}

func TestScoreboardFlow(t *testing.T) {
	ts := newTestServer(t)
	board := createBoard(t, ts)
	base := "/api/v1/boards/" + board.Code

	// +5 to the second player by position
	rr := ts.request(http.MethodPost, base+"/positions/1/score", map[string]int{"delta": 5})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 25, decode[response.Player](t, rr).Score)

	rr = ts.request(http.MethodGet, base+"/stats", nil)
	assert.Equal(t, response.Stats{PlayerCount: 3, TotalPoints: 106}, decode[response.Stats](t, rr))

	rr = ts.request(http.MethodPost, base+"/players", map[string]string{"name": "New"})
	require.Equal(t, http.StatusCreated, rr.Code)
	added := decode[response.Player](t, rr)
	assert.Equal(t, "New", added.Name)
	assert.Equal(t, 0, added.Score)
	assert.NotEmpty(t, added.ID)

	// Remove the first player by id
	rr = ts.request(http.MethodDelete, base+"/players/"+board.Players[0].ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Jim Hoskins", decode[response.Player](t, rr).Name)

	rr = ts.request(http.MethodGet, base+"/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	roster := decode[response.Roster](t, rr)
	names := []string{}
	for _, p := range roster.Players {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Andrew Chalkley", "Alena Holligan", "New"}, names)
	assert.Equal(t, response.Stats{PlayerCount: 3, TotalPoints: 75}, roster.Stats)
}

func TestChangeScoreByID(t *testing.T) {
	ts := newTestServer(t)
	board := createBoard(t, ts)
	alena := board.Players[2]

	rr := ts.request(http.MethodPost, "/api/v1/boards/"+board.Code+"/players/"+alena.ID+"/score", map[string]int{"delta": -1})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 49, decode[response.Player](t, rr).Score)
}

func TestRemoveAtPosition(t *testing.T) {
	ts := newTestServer(t)
	board := createBoard(t, ts)

	rr := ts.request(http.MethodDelete, "/api/v1/boards/"+board.Code+"/positions/2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Alena Holligan", decode[response.Player](t, rr).Name)
}

func TestRosterErrors(t *testing.T) {
	ts := newTestServer(t)
	board := createBoard(t, ts)
	base := "/api/v1/boards/" + board.Code

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"blank name", http.MethodPost, base + "/players", map[string]string{"name": "   "}, http.StatusBadRequest, apierr.CodeBlankName},
		{"zero delta", http.MethodPost, base + "/players/" + board.Players[0].ID + "/score", map[string]int{"delta": 0}, http.StatusBadRequest, apierr.CodeInvalidDelta},
		{"unknown player", http.MethodPost, base + "/players/nobody/score", map[string]int{"delta": 1}, http.StatusNotFound, apierr.CodePlayerNotFound},
		{"remove unknown player", http.MethodDelete, base + "/players/nobody", nil, http.StatusNotFound, apierr.CodePlayerNotFound},
		{"position out of range", http.MethodPost, base + "/positions/3/score", map[string]int{"delta": 1}, http.StatusNotFound, apierr.CodeIndexOutOfRange},
		{"negative position", http.MethodDelete, base + "/positions/-1", nil, http.StatusNotFound, apierr.CodeIndexOutOfRange},
		{"non-numeric position", http.MethodDelete, base + "/positions/first", nil, http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"unknown board", http.MethodPost, "/api/v1/boards/NOPE99/players", map[string]string{"name": "Dana"}, http.StatusNotFound, apierr.CodeBoardNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(tt.method, tt.path, tt.body)
			assertErrorCode(t, rr, tt.status, tt.code)
		})
	}

	// None of the rejected calls changed anything
	rr := ts.request(http.MethodGet, base+"/stats", nil)
	assert.Equal(t, response.Stats{PlayerCount: 3, TotalPoints: 101}, decode[response.Stats](t, rr))
}

func TestInvalidBody(t *testing.T) {
	ts := newTestServer(t)
	board := createBoard(t, ts)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/boards/"+board.Code+"/players", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assertErrorCode(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func TestStopwatchLifecycle(t *testing.T) {
	ts := newTestServer(t)
	board := createBoard(t, ts)
	base := "/api/v1/boards/" + board.Code + "/stopwatch"

	rr := ts.request(http.MethodPost, base+"/start", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "running", decode[response.Stopwatch](t, rr).State)

	rr = ts.request(http.MethodPost, base+"/stop", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	stopped := decode[response.Stopwatch](t, rr)
	assert.Equal(t, "idle", stopped.State)

	rr = ts.request(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, stopped, decode[response.Stopwatch](t, rr))

	rr = ts.request(http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	reset := decode[response.Stopwatch](t, rr)
	assert.Equal(t, int64(0), reset.ElapsedMS)
	assert.Equal(t, "idle", reset.State)

	rr = ts.request(http.MethodPost, "/api/v1/boards/NOPE99/stopwatch/start", nil)
	assertErrorCode(t, rr, http.StatusNotFound, apierr.CodeBoardNotFound)
}
