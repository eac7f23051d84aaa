package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/mcp-training/factionmerge/api"
	"github.com/wricardo/mcp-training/factionmerge/game/config"
	"github.com/wricardo/mcp-training/factionmerge/game/engine"
	"github.com/wricardo/mcp-training/factionmerge/game/service"
	"github.com/wricardo/mcp-training/factionmerge/game/session"
)

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	if len(result.Content) == 0 {
		t.Fatal("Expected content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

// newBackend starts the real REST API over in-memory sessions
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	svc := service.NewGameService(session.NewManager(), configs)
	ts := httptest.NewServer(api.NewServer(svc, nil))
	t.Cleanup(ts.Close)
	return ts
}

func createSession(t *testing.T, client *Client, seed int64) string {
	t.Helper()
	var info service.SessionInfo
	body := map[string]interface{}{"seed": seed}
	if err := client.apiCall(context.Background(), "POST", "/api/sessions", body, &info); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return info.ID
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash to be trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		var in map[string]string
		json.NewDecoder(r.Body).Decode(&in)
		json.NewEncoder(w).Encode(map[string]string{"echo": in["direction"]})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var out map[string]string
	err := client.apiCall(context.Background(), "POST", "/anything", map[string]string{"direction": "up"}, &out)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if out["echo"] != "up" {
		t.Errorf("Expected echo 'up', got %q", out["echo"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"plain body", "Internal Server Error", "API error: 500"},
		{"json error", `{"error":"session not found"}`, "session not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
			if err == nil {
				t.Fatal("Expected error for HTTP 500 response")
			}
			if !strings.Contains(err.Error(), tt.expected) {
				t.Errorf("Expected %q in error message, got: %v", tt.expected, err)
			}
		})
	}
}

func TestClient_createSession(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)

		state := &engine.GameState{Grid: engine.NewGrid(), Outcome: engine.OutcomeNone}
		resp := service.SessionInfo{ID: "ab12", ConfigName: "ocean", GameState: state}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	request := toolRequest("create_session", map[string]interface{}{"config_id": "ocean", "seed": float64(42)})

	result, err := client.handleCreateSession(context.Background(), request)
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "ab12") {
		t.Errorf("Expected session ID in result, got: %s", text)
	}
	if gotBody["config_id"] != "ocean" {
		t.Errorf("Expected config_id to be forwarded, got %v", gotBody["config_id"])
	}
	if gotBody["seed"] != float64(42) {
		t.Errorf("Expected seed 42 to be forwarded, got %v", gotBody["seed"])
	}
}

func TestFormatGameState(t *testing.T) {
	state := &engine.GameState{
		Grid:       engine.NewGrid(),
		Score:      12,
		TotalMoves: 3,
		Outcome:    engine.OutcomeNone,
		Message:    "Merge benign tiles up to 128 to win!",
	}
	state.Grid[engine.Index(0, 0)] = engine.Tile{Value: 4, Faction: engine.Benign}
	state.Grid[engine.Index(0, 1)] = engine.Tile{Value: 16, Faction: engine.Hostile}

	result := formatGameState(state, engine.DefaultConfig())

	expectedFields := []string{
		"Score: 12",
		"Moves: 3",
		"Max tile: 16",
		"Empty cells: 47",
		"4b",
		"16h",
		"4b=🌈",
		"Possible moves: down, right",
		"Merge benign tiles up to 128 to win!",
	}
	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected %q in formatted output, got:\n%s", field, result)
		}
	}
}

func TestFormatGameState_Terminal(t *testing.T) {
	tests := []struct {
		outcome  engine.Outcome
		expected string
	}{
		{engine.OutcomeWon, "🎉 VICTORY!"},
		{engine.OutcomeLost, "💀 GAME OVER"},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			state := &engine.GameState{Grid: engine.NewGrid(), GameOver: true, Outcome: tt.outcome}
			result := formatGameState(state, nil)

			if !strings.Contains(result, tt.expected) {
				t.Errorf("Expected %q in result, got: %s", tt.expected, result)
			}
			if strings.Contains(result, "Possible moves") {
				t.Error("Finished games should not list possible moves")
			}
		})
	}

	if got := formatGameState(nil, nil); got != "No game state available" {
		t.Errorf("Unexpected output for nil state: %s", got)
	}
}

func TestFormatMoveResult(t *testing.T) {
	state := &engine.GameState{Grid: engine.NewGrid(), Score: 8, Outcome: engine.OutcomeNone}

	changed := formatMoveResult(&service.MoveResult{
		Success:   true,
		GameState: state,
		Step:      &service.StepInfo{Idx: 1, Dir: "left", Changed: true, ScoreDelta: 8, Merges: 1, Score: 8},
		Events: []service.GameEvent{
			{Type: service.EventMove, Message: "moved left"},
			{Type: service.EventMerge, Message: "1 merge(s) for 8 points"},
		},
	})
	for _, field := range []string{"✅ Moved left: +8 points, 1 merge(s)", "merge: 1 merge(s) for 8 points", "Score: 8"} {
		if !strings.Contains(changed, field) {
			t.Errorf("Expected %q in output, got:\n%s", field, changed)
		}
	}
	if strings.Contains(changed, "moved left") {
		t.Error("Plain move events should be omitted")
	}

	noop := formatMoveResult(&service.MoveResult{
		GameState: state,
		Step:      &service.StepInfo{Idx: 1, Dir: "up"},
	})
	if !strings.Contains(noop, "up changed nothing") {
		t.Errorf("Expected no-op line, got:\n%s", noop)
	}
}

func TestFormatBulkMoveResult(t *testing.T) {
	result := &service.BulkMoveResult{
		MovesExecuted:  2,
		RequestedMoves: 3,
		NoOpMoves:      1,
		StartScore:     4,
		EndScore:       12,
		ScoreDelta:     8,
		StoppedReason:  `move 3 invalid: "north"`,
		StopReasonCode: "invalid_direction",
		StoppedOnMove:  3,
		Steps: []service.StepInfo{
			{Idx: 1, Dir: "left", Changed: true, ScoreDelta: 8, Merges: 1, Score: 12,
				Spawn: &engine.SpawnEvent{Position: engine.Position{Row: 2, Col: 5}, Tile: engine.Tile{Value: 2, Faction: engine.Hostile}}},
			{Idx: 2, Dir: "left", Score: 12},
		},
		GameState: &engine.GameState{Grid: engine.NewGrid(), Score: 12, Outcome: engine.OutcomeNone},
	}

	text := formatBulkMoveResult("ab12", result)

	expected := []string{
		"Session ab12: executed 2/3 moves (1 no-op)",
		"Score: 4 -> 12 (+8)",
		"[invalid_direction] at move 3",
		"spawn 2h@(2,5)",
		"no-op",
	}
	for _, field := range expected {
		if !strings.Contains(text, field) {
			t.Errorf("Expected %q in output, got:\n%s", field, text)
		}
	}
}

func TestDescribeCell(t *testing.T) {
	state := &engine.GameState{Grid: engine.NewGrid(), Outcome: engine.OutcomeNone}
	state.Grid[engine.Index(0, 0)] = engine.Tile{Value: 8, Faction: engine.Benign}
	state.Grid[engine.Index(0, 1)] = engine.Tile{Value: 8, Faction: engine.Benign}
	state.Grid[engine.Index(1, 0)] = engine.Tile{Value: 8, Faction: engine.Hostile}

	text := describeCell(state, engine.DefaultConfig(), 0, 0)

	expected := []string{
		"Cell (0, 0): benign 8 (🦄, code 8b)",
		"up    edge of board",
		"right (0, 1) 8b  <- can merge",
		"down  (1, 0) 8h  <- same value, other faction",
	}
	for _, field := range expected {
		if !strings.Contains(text, field) {
			t.Errorf("Expected %q in output, got:\n%s", field, text)
		}
	}

	if empty := describeCell(state, nil, 3, 3); !strings.Contains(empty, "Cell (3, 3): empty") {
		t.Errorf("Expected empty cell description, got:\n%s", empty)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), toolRequest("game_instructions", nil))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, content := range []string{"GAME OBJECTIVE:", "BENIGN tile worth 128", "SAME faction", "GAME OVER:"} {
		if !strings.Contains(text, content) {
			t.Errorf("Expected %q in instructions", content)
		}
	}
}

func TestClient_Integration(t *testing.T) {
	backend := newBackend(t)
	client := NewClient(backend.URL)
	ctx := context.Background()
	id := createSession(t, client, 99)

	result, err := client.handleMove(ctx, toolRequest("move", map[string]interface{}{
		"session_id": id, "direction": "left", "intent": "stack on the left",
	}))
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("Unexpected tool error: %s", resultText(t, result))
	}
	if text := resultText(t, result); !strings.Contains(text, "Score:") {
		t.Errorf("Expected board summary, got:\n%s", text)
	}

	result, _ = client.handleMove(ctx, toolRequest("move", map[string]interface{}{
		"session_id": id, "direction": "north",
	}))
	if !result.IsError || !strings.Contains(resultText(t, result), "invalid direction") {
		t.Errorf("Expected invalid direction tool error, got: %+v", result)
	}

	result, _ = client.handleBulkMove(ctx, toolRequest("bulk_move", map[string]interface{}{
		"session_id": id, "moves": []interface{}{"up", "right", "down"},
	}))
	if result.IsError {
		t.Fatalf("Unexpected bulk error: %s", resultText(t, result))
	}
	if text := resultText(t, result); !strings.Contains(text, "executed 3/3 moves") {
		t.Errorf("Expected 3 executed moves, got:\n%s", text)
	}

	result, _ = client.handleHint(ctx, toolRequest("hint", map[string]interface{}{"session_id": id}))
	if text := resultText(t, result); !strings.Contains(text, "Suggested move:") {
		t.Errorf("Expected a hint, got:\n%s", text)
	}

	result, _ = client.handleDescribeCell(ctx, toolRequest("describe_cell", map[string]interface{}{
		"session_id": id, "row": float64(3), "col": float64(3),
	}))
	if text := resultText(t, result); !strings.Contains(text, "Cell (3, 3)") {
		t.Errorf("Expected cell description, got:\n%s", text)
	}

	result, _ = client.handleDescribeCell(ctx, toolRequest("describe_cell", map[string]interface{}{
		"session_id": id, "row": float64(7), "col": float64(0),
	}))
	if !result.IsError {
		t.Error("Expected out of bounds error")
	}

	result, _ = client.handleListConfigs(ctx, toolRequest("list_configs", nil))
	if text := resultText(t, result); !strings.Contains(text, "classic") {
		t.Errorf("Expected built-in theme in list, got:\n%s", text)
	}

	result, _ = client.handleGameState(ctx, toolRequest("game_state", map[string]interface{}{"session_id": "zzzz"}))
	if !result.IsError {
		t.Error("Expected error for unknown session")
	}
}
