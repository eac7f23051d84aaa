package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/factionmerge/api"
	"github.com/wricardo/mcp-training/factionmerge/game/config"
	"github.com/wricardo/mcp-training/factionmerge/game/engine"
	"github.com/wricardo/mcp-training/factionmerge/game/service"
	"github.com/wricardo/mcp-training/factionmerge/game/session"
	live "github.com/wricardo/mcp-training/factionmerge/transport/websocket"
)

func newGameServer(t *testing.T) (*httptest.Server, *live.Hub) {
	t.Helper()
	configs, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	svc := service.NewGameService(session.NewManager(), configs)
	hub := live.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	ts := httptest.NewServer(api.NewServer(svc, hub))
	t.Cleanup(ts.Close)
	return ts, hub
}

func startSession(t *testing.T, baseURL, configID string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]interface{}{"config_id": configID, "seed": 7})
	resp, err := http.Post(baseURL+"/api/sessions", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Create session failed: %v", err)
	}
	defer resp.Body.Close()

	var info service.SessionInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("Failed to decode session: %v", err)
	}
	return info.ID
}

func TestConnectRemote(t *testing.T) {
	ts, _ := newGameServer(t)
	id := startSession(t, ts.URL, "ocean")

	remote, err := connectRemote(context.Background(), ts.URL+"/", id)
	if err != nil {
		t.Fatalf("connectRemote failed: %v", err)
	}
	if engine.CountTiles(remote.State().Grid) != 2 {
		t.Errorf("Expected 2 starting tiles, got %d", engine.CountTiles(remote.State().Grid))
	}
	if remote.Config().Name != "ocean" {
		t.Errorf("Expected ocean theme, got %s", remote.Config().Name)
	}

	if _, err := connectRemote(context.Background(), ts.URL, "zzzz"); err == nil {
		t.Error("Expected error for unknown session")
	}
}

func TestRemoteMoveAndReset(t *testing.T) {
	ts, _ := newGameServer(t)
	remote, err := connectRemote(context.Background(), ts.URL, startSession(t, ts.URL, "classic"))
	if err != nil {
		t.Fatalf("connectRemote failed: %v", err)
	}

	moved := false
	for _, dir := range engine.Directions {
		if !remote.State().CanSlide(dir) {
			continue
		}
		outcome, err := remote.Move(dir)
		if err != nil {
			t.Fatalf("Move %s failed: %v", dir, err)
		}
		if !outcome.Changed || outcome.Spawn == nil {
			t.Errorf("Expected a changed move with a spawn, got %+v", outcome)
		}
		if remote.State().TotalMoves != 1 {
			t.Errorf("Expected server state after move, got %d moves", remote.State().TotalMoves)
		}
		moved = true
		break
	}
	if !moved {
		t.Fatal("Expected at least one legal opening move")
	}

	if err := remote.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if remote.State().TotalMoves != 0 {
		t.Errorf("Expected fresh board after reset, got %d moves", remote.State().TotalMoves)
	}
}

func TestRemoteFeed(t *testing.T) {
	ts, hub := newGameServer(t)
	id := startSession(t, ts.URL, "classic")

	remote, err := connectRemote(context.Background(), ts.URL, id)
	if err != nil {
		t.Fatalf("connectRemote failed: %v", err)
	}
	feed, err := remote.watch(context.Background())
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	defer feed.Close()

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount(strings.ToLower(id)) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Feed was never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	m := newModel(remote, "remote", feed)
	if m.Init() == nil {
		t.Fatal("Expected Init to start reading the feed")
	}

	// another client plays a move on the same session
	body, _ := json.Marshal(map[string]interface{}{"moves": []string{"up", "left", "down", "right"}})
	resp, err := http.Post(ts.URL+"/api/sessions/"+id+"/bulk-move", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Bulk move failed: %v", err)
	}
	var bulk service.BulkMoveResult
	json.NewDecoder(resp.Body).Decode(&bulk)
	resp.Body.Close()

	feed.SetReadDeadline(time.Now().Add(2 * time.Second))
	msg := waitForPush(feed)()
	pushed, ok := msg.(pushedMsg)
	if !ok {
		t.Fatalf("Expected pushedMsg, got %T %+v", msg, msg)
	}

	next, cmd := m.Update(pushed)
	m = next.(model)
	if cmd == nil {
		t.Error("Expected the model to keep reading the feed")
	}
	if !m.game.State().Grid.Equal(bulk.GameState.Grid) {
		t.Error("Expected pushed state to replace the local board")
	}
	if !strings.HasPrefix(m.status, "Updated: score") {
		t.Errorf("Expected update status, got %q", m.status)
	}
}

func TestFeedClosed(t *testing.T) {
	m := newTestModel(t, nil)

	next, _ := m.Update(feedClosedMsg{})
	if next.(model).feed != nil {
		t.Error("Expected feed to be dropped")
	}

	next, _ = m.Update(feedClosedMsg{err: http.ErrHandlerTimeout})
	if !strings.Contains(next.(model).status, "Live feed lost") {
		t.Errorf("Expected feed error status, got %q", next.(model).status)
	}
}
