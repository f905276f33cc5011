package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmorel/yam-master-server/game/config"
	"github.com/jmorel/yam-master-server/game/service"
	"github.com/jmorel/yam-master-server/game/session"
	"github.com/jmorel/yam-master-server/transport/websocket"
)

func newTestServer(t *testing.T) (*Server, service.GameService, *session.Manager) {
	t.Helper()
	cfg := config.Default()
	cfg.BroadcastDebounceMS = 5

	hub := websocket.NewHub()
	manager := session.NewManager(hub, cfg)
	svc := service.NewGameService(manager)
	hub.Bind(svc)

	t.Cleanup(func() {
		for _, info := range manager.Sessions() {
			if s, ok := manager.Get(info.ID); ok {
				s.Close()
			}
		}
	})
	return NewServer(svc, hub), svc, manager
}

func doRequest(t *testing.T, server *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := doRequest(t, server, "GET", "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["sessions"].(float64) != 0 {
		t.Errorf("sessions = %v, want 0", body["sessions"])
	}
}

func TestListSessions(t *testing.T) {
	server, svc, _ := newTestServer(t)

	if _, err := svc.JoinBotGame(context.Background(), "alice"); err != nil {
		t.Fatalf("JoinBotGame: %v", err)
	}

	rec := doRequest(t, server, "GET", "/api/sessions")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Count    int            `json:"count"`
		Sessions []session.Info `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Count != 1 || len(body.Sessions) != 1 {
		t.Fatalf("count = %d with %d sessions, want 1/1", body.Count, len(body.Sessions))
	}
	if !body.Sessions[0].VsBot {
		t.Error("the listed session should be a bot game")
	}
}

func TestListSessionsLimit(t *testing.T) {
	server, svc, _ := newTestServer(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := svc.JoinBotGame(ctx, id); err != nil {
			t.Fatalf("JoinBotGame %s: %v", id, err)
		}
	}

	rec := doRequest(t, server, "GET", "/api/sessions?limit=2")
	var body struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Count != 2 {
		t.Errorf("count = %d with limit=2, want 2", body.Count)
	}
}

func TestGetSession(t *testing.T) {
	server, svc, _ := newTestServer(t)

	info, err := svc.JoinBotGame(context.Background(), "alice")
	if err != nil {
		t.Fatalf("JoinBotGame: %v", err)
	}

	rec := doRequest(t, server, "GET", "/api/sessions/"+info.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got session.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if got.ID != info.ID || !got.VsBot {
		t.Errorf("unexpected session %+v", got)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := doRequest(t, server, "GET", "/api/sessions/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["error"] == "" {
		t.Error("error payload should carry a message")
	}
}

func TestGetGameState(t *testing.T) {
	server, svc, _ := newTestServer(t)

	info, err := svc.JoinBotGame(context.Background(), "alice")
	if err != nil {
		t.Fatalf("JoinBotGame: %v", err)
	}

	rec := doRequest(t, server, "GET", "/api/sessions/"+info.ID+"/state")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var state struct {
		CurrentTurn string `json:"currentTurn"`
		Grid        [][]struct {
			ID string `json:"id"`
		} `json:"grid"`
		Deck struct {
			RollsMaximum int `json:"rollsMaximum"`
		} `json:"deck"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if state.CurrentTurn != "player:1" {
		t.Errorf("currentTurn = %q, want player:1", state.CurrentTurn)
	}
	if len(state.Grid) != 5 || len(state.Grid[0]) != 5 {
		t.Errorf("grid is %dx%d, want 5x5", len(state.Grid), len(state.Grid[0]))
	}
	if state.Deck.RollsMaximum != 3 {
		t.Errorf("rollsMaximum = %d, want 3", state.Deck.RollsMaximum)
	}
}

func TestGetGameStateNotFound(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := doRequest(t, server, "GET", "/api/sessions/nope/state")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
