package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/factionmerge/game/engine"
	"github.com/wricardo/mcp-training/factionmerge/game/service"
	live "github.com/wricardo/mcp-training/factionmerge/transport/websocket"
)

// remoteGame drives a session on a running server. Moves go over REST; moves
// made by anyone else on the same session arrive over the WebSocket.
type remoteGame struct {
	baseURL   string
	sessionID string
	client    *http.Client

	state  *engine.GameState
	config *engine.GameConfig
}

// connectRemote loads the session's current state and theme
func connectRemote(ctx context.Context, baseURL, sessionID string) (*remoteGame, error) {
	g := &remoteGame{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		sessionID: sessionID,
		client:    &http.Client{Timeout: 10 * time.Second},
	}

	var state engine.GameState
	if err := g.call(ctx, http.MethodGet, "/state", nil, &state); err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	g.state = &state

	g.config = engine.DefaultConfig()
	if state.ConfigName != "" {
		var config engine.GameConfig
		path := g.baseURL + "/api/configs/" + url.PathEscape(state.ConfigName)
		if err := g.do(ctx, http.MethodGet, path, nil, &config); err == nil {
			g.config = &config
		}
	}
	return g, nil
}

func (g *remoteGame) State() *engine.GameState   { return g.state }
func (g *remoteGame) Config() *engine.GameConfig { return g.config }

func (g *remoteGame) Move(dir engine.Direction) (engine.MoveOutcome, error) {
	var result service.MoveResult
	body := map[string]string{"direction": string(dir)}
	if err := g.call(context.Background(), http.MethodPost, "/move", body, &result); err != nil {
		return engine.MoveOutcome{}, err
	}
	if result.GameState != nil {
		g.state = result.GameState
	}

	outcome := engine.MoveOutcome{Direction: dir, Outcome: g.state.Outcome}
	if step := result.Step; step != nil {
		outcome.Changed = step.Changed
		outcome.ScoreDelta = step.ScoreDelta
		outcome.Merges = step.Merges
		outcome.Spawn = step.Spawn
		outcome.Outcome = step.Outcome
	}
	return outcome, nil
}

func (g *remoteGame) Reset() error {
	var result struct {
		State *engine.GameState `json:"state"`
	}
	if err := g.call(context.Background(), http.MethodPost, "/reset", nil, &result); err != nil {
		return err
	}
	if result.State != nil {
		g.state = result.State
	}
	return nil
}

// apply replaces the local copy with a state pushed by the server
func (g *remoteGame) apply(state *engine.GameState) {
	if state != nil {
		g.state = state
	}
}

// call hits an endpoint under /api/sessions/{id}
func (g *remoteGame) call(ctx context.Context, method, suffix string, body, result interface{}) error {
	path := fmt.Sprintf("%s/api/sessions/%s%s", g.baseURL, url.PathEscape(g.sessionID), suffix)
	return g.do(ctx, method, path, body, result)
}

func (g *remoteGame) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

// watch opens the session's WebSocket feed
func (g *remoteGame) watch(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(g.baseURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = url.Values{"session": {g.sessionID}}.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("watch session %s: %w", g.sessionID, err)
	}
	return conn, nil
}

// pushedMsg carries one message from the session feed into the model
type pushedMsg struct {
	message live.Message
}

// feedClosedMsg ends watching; err is nil on a clean close
type feedClosedMsg struct {
	err error
}

// waitForPush blocks for the next feed message. The model re-issues it after
// every pushedMsg.
func waitForPush(conn *websocket.Conn) tea.Cmd {
	return func() tea.Msg {
		var message live.Message
		if err := conn.ReadJSON(&message); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return feedClosedMsg{}
			}
			return feedClosedMsg{err: err}
		}
		return pushedMsg{message: message}
	}
}
