package web

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/codex-gomoku/internal/app"
	"github.com/jaminalder/codex-gomoku/internal/domain"
	"github.com/jaminalder/codex-gomoku/internal/engine"
)

func newTestServer(t *testing.T) (*app.Service, http.Handler) {
	t.Helper()
	s := app.NewService(app.WithSearchers(
		engine.Searcher{Algorithm: engine.AlgMinimax, Depth: 1},
		engine.Searcher{Algorithm: engine.AlgAlphaBeta, Depth: 1},
	))
	t.Cleanup(func() { s.Close() })
	return s, NewServer(s)
}

func postForm(h http.Handler, path string, form url.Values, player string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if player != "" {
		req.AddCookie(&http.Cookie{Name: "player_id", Value: player})
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
	return rr
}

func TestIndexPage(t *testing.T) {
	_, h := newTestServer(t)
	rr := get(h, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<form")
	assert.Contains(t, body, `action="/game"`)
	for _, want := range []string{"human_vs_ai", "ai_vs_ai", "BLUE", "PINK"} {
		assert.Contains(t, body, want)
	}
}

func TestCreateRedirectsToGame(t *testing.T) {
	_, h := newTestServer(t)
	rr := postForm(h, "/game", url.Values{}, "")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Result().Header.Get("Location"), "/game/"))
}

func TestCreateWithSideBLetsAIOpen(t *testing.T) {
	svc, h := newTestServer(t)
	rr := postForm(h, "/game", url.Values{"mode": {"human_vs_ai"}, "side": {"b"}}, "")
	id := strings.TrimPrefix(rr.Result().Header.Get("Location"), "/game/")
	svc.Wait()
	gs, ok := svc.Get(id)
	require.True(t, ok, "game %q not created", id)
	assert.Equal(t, domain.B, gs.Human)
	assert.Equal(t, 1, gs.Game.Moves, "AI opens")
}

func TestCreateRejectsUnknownMode(t *testing.T) {
	_, h := newTestServer(t)
	rr := postForm(h, "/game", url.Values{"mode": {"blitz"}}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGamePageSetsCookieAndAutoClaims(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame(app.Options{Mode: app.HumanVsAI})

	rr := get(h, "/game/"+url.PathEscape(gs.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	var playerID string
	for _, c := range rr.Result().Cookies() {
		if c.Name == "player_id" {
			playerID = c.Value
		}
	}
	require.NotEmpty(t, playerID, "player_id cookie")
	latest, ok := svc.Get(gs.ID)
	require.True(t, ok)
	assert.Equal(t, playerID, latest.A, "auto-claim of A")

	body := rr.Body.String()
	assert.Contains(t, body, `hx-ext="sse"`)
	assert.Contains(t, body, "/game/"+gs.ID+"/events")
	assert.Equal(t, domain.DefaultSize*domain.DefaultSize, strings.Count(body, `name="r"`), "a form per cell")
	assert.Contains(t, body, "BLUE to move")
}

func TestGamePageUnknownGame(t *testing.T) {
	_, h := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, get(h, "/game/missing").Code)
}

func TestJoinEndpointReturnsBoardFragment(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame(app.Options{Mode: app.HumanVsHuman})
	// first visitor auto-claims A
	get(h, "/game/"+gs.ID)

	rr := postForm(h, "/game/"+gs.ID+"/join", url.Values{}, "p2")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `id="board"`)
	latest, _ := svc.Get(gs.ID)
	assert.Equal(t, "p2", latest.B)
}

func TestPlayEndpointUpdatesStateAndReturnsFragment(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame(app.Options{Mode: app.HumanVsHuman})
	svc.Join(gs.ID, "p1")
	svc.Join(gs.ID, "p2")

	rr := postForm(h, "/game/"+gs.ID+"/play", url.Values{"r": {"7"}, "c": {"7"}}, "p1")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `id="board"`)
	assert.Contains(t, body, "cell blue")
	assert.Contains(t, body, "PINK to move")
	latest, _ := svc.Get(gs.ID)
	assert.Equal(t, 1, latest.Game.Moves)
}

func TestPlayEndpointReportsErrors(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame(app.Options{Mode: app.HumanVsHuman})
	svc.Join(gs.ID, "p1")
	svc.Join(gs.ID, "p2")

	cases := []struct {
		player, r, c, want string
	}{
		{"p2", "0", "0", "Not your turn"},
		{"p3", "0", "0", "You are a spectator"},
		{"p1", "15", "0", "Out of bounds"},
		{"p1", "x", "0", "Out of bounds"},
	}
	for _, tc := range cases {
		rr := postForm(h, "/game/"+gs.ID+"/play", url.Values{"r": {tc.r}, "c": {tc.c}}, tc.player)
		assert.Contains(t, rr.Body.String(), tc.want, "%+v", tc)
	}
	assert.Equal(t, http.StatusNotFound, postForm(h, "/game/missing/play", url.Values{"r": {"0"}, "c": {"0"}}, "p1").Code)
}

func TestStateEndpoint(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame(app.Options{Mode: app.HumanVsAI})
	svc.Join(gs.ID, "p1")
	_, err := svc.Play(gs.ID, "p1", 7, 7)
	require.NoError(t, err)
	svc.Wait()

	rr := get(h, "/game/"+gs.ID+"/state")
	require.Equal(t, http.StatusOK, rr.Code)
	var st stateDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Equal(t, 2, st.Moves)
	assert.Equal(t, int(domain.A), st.Board[7][7])
	assert.Equal(t, "BLUE", st.Next)
	require.NotNil(t, st.Search, "AI search summary")
	assert.Equal(t, engine.AlgAlphaBeta, st.Search.Algorithm)
	assert.NotZero(t, st.Search.Stats.Nodes)

	assert.Equal(t, http.StatusNotFound, get(h, "/game/missing/state").Code)
}

func TestEventsEndpointSSEHeaders(t *testing.T) {
	_, h := newTestServer(t)
	loc := postForm(h, "/game", url.Values{}, "").Result().Header.Get("Location")
	require.NotEmpty(t, loc)
	rr := get(h, loc+"/events")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Result().Header.Get("Content-Type"), "text/event-stream"))
}

func TestEventsUnknownGame(t *testing.T) {
	svc, h := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, get(h, "/game/missing/events").Code)
	_, ok := svc.Get("missing")
	assert.False(t, ok, "unknown ids must not be registered")
}

func TestEventsStreamBoardUpdates(t *testing.T) {
	svc, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()
	gs, _ := svc.CreateGame(app.Options{Mode: app.HumanVsHuman})
	svc.Join(gs.ID, "p1")

	req, err := http.NewRequest("GET", srv.URL+"/game/"+gs.ID+"/events", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = svc.Play(gs.ID, "p1", 7, 7)
	require.NoError(t, err)

	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
	}()
	var sawEvent, sawStone bool
	deadline := time.After(5 * time.Second)
	for !sawStone {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream ended")
			sawEvent = sawEvent || line == "event: board"
			sawStone = sawEvent && strings.Contains(line, "cell blue")
		case <-deadline:
			require.FailNow(t, "no board event received")
		}
	}
}

func TestWriteEventPrefixesEveryLine(t *testing.T) {
	var sb strings.Builder
	writeEvent(&sb, "board", []byte("\n<div>\n  x\n</div>\n"))
	assert.Equal(t, "event: board\ndata: <div>\ndata:   x\ndata: </div>\n\n", sb.String())
}

func TestWebsocketStreamsState(t *testing.T) {
	svc, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()
	gs, _ := svc.CreateGame(app.Options{Mode: app.HumanVsHuman})
	svc.Join(gs.ID, "p1")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/" + gs.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() stateDTO {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var msg wsMessage
		require.NoError(t, conn.ReadJSON(&msg))
		require.Equal(t, "state", msg.Type)
		var st stateDTO
		require.NoError(t, json.Unmarshal(msg.Payload, &st))
		return st
	}

	st := read()
	assert.Zero(t, st.Moves)
	assert.Equal(t, domain.DefaultSize, st.Size)

	_, err = svc.Play(gs.ID, "p1", 7, 7)
	require.NoError(t, err)
	st = read()
	assert.Equal(t, 1, st.Moves)
	require.NotNil(t, st.Last)
	assert.Equal(t, domain.Move{Row: 7, Col: 7}, *st.Last)

	require.NoError(t, conn.WriteJSON(wsMessage{Type: "request_state"}))
	assert.Equal(t, 1, read().Moves)
}

func TestWebsocketUnknownGame(t *testing.T) {
	_, h := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, get(h, "/game/missing/ws").Code)
}
