package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/factionmerge/game/engine"
	"github.com/wricardo/mcp-training/factionmerge/game/service"
	"github.com/wricardo/mcp-training/factionmerge/game/strategy"
)

const (
	serverName    = "Faction Merge"
	serverVersion = "1.0.0"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Faction Merge - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Slide tiles on a 7x7 board. Equal tiles of the same faction merge. Build a
benign 128 to win. A full board with no matching neighbours loses.

AVAILABLE TOOLS:
- create_session: Create new game session (optional theme and seed)
- list_sessions / get_session: Inspect sessions
- game_state: Get current board
- move / bulk_move: Slide up/down/left/right (bulk_move runs up to 50 moves)
- reset_game: Start a fresh board
- hint: Ask for the move with the best immediate payoff
- list_configs: List glyph themes
- game_instructions: Full rules
- describe_cell: Inspect one cell and its neighbours

NOTE: The 'intent' parameter on move/bulk_move is for explaining your reasoning; the server ignores it.`),
	)

	c.registerTools()
}

func sessionParam() mcp.ToolOption {
	return mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session ID (4 hex characters, case-insensitive)"),
	)
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	directions := []string{"up", "down", "left", "right"}

	// Session management
	c.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Create a new game session"),
		mcp.WithString("config_id", mcp.Description("Theme to use (see list_configs); defaults to the server default")),
		mcp.WithNumber("seed", mcp.Description("Random seed for a reproducible game; 0 or omitted draws a fresh one")),
	), c.handleCreateSession)

	c.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List all active game sessions"),
	), c.handleListSessions)

	c.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get details of a specific session"),
		sessionParam(),
	), c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.NewTool("game_state",
		mcp.WithDescription("Get the current board, score and outcome"),
		sessionParam(),
	), c.handleGameState)

	c.mcpServer.AddTool(mcp.NewTool("move",
		mcp.WithDescription("Slide every tile in one direction"),
		sessionParam(),
		mcp.WithString("direction", mcp.Required(), mcp.Enum(directions...), mcp.Description("Direction to slide")),
		mcp.WithString("intent", mcp.Description("Brief explanation of why you chose this move")),
		mcp.WithBoolean("reset", mcp.Description("Reset before moving")),
	), c.handleMove)

	c.mcpServer.AddTool(mcp.NewTool("bulk_move",
		mcp.WithDescription(fmt.Sprintf("Execute up to %d moves in sequence. Stops on an invalid direction or when the game ends.", engine.MaxBulkMoves)),
		sessionParam(),
		mcp.WithArray("moves",
			mcp.Required(),
			mcp.Description("Directions to slide, in order"),
			mcp.Items(map[string]interface{}{"type": "string", "enum": directions}),
		),
		mcp.WithString("intent", mcp.Description("Brief explanation of the plan behind this sequence")),
		mcp.WithBoolean("reset", mcp.Description("Reset before moving")),
	), c.handleBulkMove)

	c.mcpServer.AddTool(mcp.NewTool("reset_game",
		mcp.WithDescription("Start a fresh board in the same session"),
		sessionParam(),
	), c.handleReset)

	c.mcpServer.AddTool(mcp.NewTool("hint",
		mcp.WithDescription("Suggest the move with the largest immediate score gain"),
		sessionParam(),
	), c.handleHint)

	c.mcpServer.AddTool(mcp.NewTool("list_configs",
		mcp.WithDescription("List available glyph themes"),
	), c.handleListConfigs)

	c.mcpServer.AddTool(mcp.NewTool("game_instructions",
		mcp.WithDescription("Get comprehensive game instructions and rules"),
	), c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.NewTool("describe_cell",
		mcp.WithDescription("Describe one cell: its tile, faction, glyph and which neighbours it could merge with"),
		sessionParam(),
		mcp.WithNumber("row", mcp.Required(), mcp.Min(0), mcp.Max(engine.Side-1), mcp.Description("Row, 0 at the top")),
		mcp.WithNumber("col", mcp.Required(), mcp.Min(0), mcp.Max(engine.Side-1), mcp.Description("Column, 0 at the left")),
	), c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall sends one request to the REST API and decodes the response into result
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + sessionID + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		ConfigID string  `json:"config_id"`
		Seed     float64 `json:"seed"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}

	body := map[string]interface{}{}
	if args.ConfigID != "" {
		body["config_id"] = args.ConfigID
	}
	if args.Seed != 0 {
		body["seed"] = int64(args.Seed)
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nTheme: %s\n\n%s", info.ID, info.ConfigName, formatGameState(info.GameState, info.GameConfig))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		score, outcome := 0, engine.OutcomeNone
		if s.GameState != nil {
			score, outcome = s.GameState.Score, engine.GetOutcome(s.GameState)
		}
		fmt.Fprintf(&sb, "- %s (Theme: %s, Score: %d, Outcome: %s, Created: %s)\n",
			s.ID, s.ConfigName, score, outcome, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state, nil)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string `json:"session_id"`
		Direction string `json:"direction"`
		Intent    string `json:"intent"`
		Reset     bool   `json:"reset"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}

	body := map[string]interface{}{
		"direction": args.Direction,
		"reset":     args.Reset,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(args.SessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string   `json:"session_id"`
		Moves     []string `json:"moves"`
		Intent    string   `json:"intent"`
		Reset     bool     `json:"reset"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}

	body := map[string]interface{}{
		"moves": args.Moves,
		"reset": args.Reset,
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(args.SessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(args.SessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State, nil))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var hint service.HintResult
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/hint"), nil, &hint); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Suggested move: %s (strategy: %s)\nMoves that change the board: %s",
		hint.Direction, hint.Strategy, strings.Join(hint.PossibleMoves, ", "))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString("Available Themes:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&sb, "• %s\n  %s\n  Benign:  %s\n  Hostile: %s\n\n",
			cfg.ConfigID, cfg.Description, strings.Join(cfg.Benign, " "), strings.Join(cfg.Hostile, " "))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `🎮 Faction Merge - Complete Instructions

GAME OBJECTIVE:
Build a BENIGN tile worth 128. Hostile 128s do not count.

THE BOARD:
• 7x7 grid. Each tile has a value (2, 4, 8, ... ) and a faction: benign or hostile.
• Board rows use compact codes: "4b" is a benign 4, "16h" a hostile 16, "." is empty.
• Row 0 is the top, column 0 the left.

MOVES:
• up, down, left, right slide every tile as far as it goes.
• Two tiles merge only when they have the SAME value and the SAME faction.
  A benign 8 next to a hostile 8 will never merge.
• A merged tile keeps its faction and doubles its value. Each tile merges at most
  once per move.
• The score grows by the value of every tile produced by a merge.
• After a move that changes the board, one new tile appears in a random empty
  cell: 2 or 4 with equal chance, benign or hostile with equal chance.
• A move that changes nothing spawns nothing and costs nothing.

GAME END:
• VICTORY: a benign 128 appears anywhere on the board.
• GAME OVER: the board is full and no two neighbouring tiles match.

STRATEGY TIPS:
• Keep each faction in its own corner so equal values can meet.
• Hostile tiles block lanes. Merge them too: it clears space and scores points.
• Use hint for the greedy choice and describe_cell to check neighbours.
• bulk_move saves round-trips; moves that change nothing are reported as no-ops.

SESSION MANAGEMENT:
• Each session has a 4-character ID and an independent board.
• Pass a seed to create_session to replay the same spawns.

Good luck! 🌟`

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SessionID string  `json:"session_id"`
		Row       float64 `json:"row"`
		Col       float64 `json:"col"`
	}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
	}

	row, col := int(args.Row), int(args.Col)
	if row < 0 || row >= engine.Side || col < 0 || col >= engine.Side {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. The board is %dx%d (0-%d for row and col)",
			row, col, engine.Side, engine.Side, engine.Side-1)), nil
	}

	// The session carries the theme as well as the state
	var info service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(args.SessionID, ""), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if info.GameState == nil || len(info.GameState.Grid) != engine.CellCount {
		return mcp.NewToolResultError("session returned no board"), nil
	}

	return mcp.NewToolResultText(describeCell(info.GameState, info.GameConfig, row, col)), nil
}

func describeCell(state *engine.GameState, config *engine.GameConfig, row, col int) string {
	tile := state.Grid[engine.Index(row, col)]

	var sb strings.Builder
	fmt.Fprintf(&sb, "Cell (%d, %d): ", row, col)
	if tile.IsEmpty() {
		sb.WriteString("empty\n")
	} else {
		fmt.Fprintf(&sb, "%s %d (%s, code %s)\n",
			tile.Faction, tile.Value, engine.GlyphFor(tile, config), engine.TileCode(tile))
	}

	neighbours := []struct {
		name     string
		row, col int
	}{
		{"up", row - 1, col},
		{"down", row + 1, col},
		{"left", row, col - 1},
		{"right", row, col + 1},
	}

	sb.WriteString("\nNeighbours:\n")
	for _, n := range neighbours {
		if n.row < 0 || n.row >= engine.Side || n.col < 0 || n.col >= engine.Side {
			fmt.Fprintf(&sb, "  %-5s edge of board\n", n.name)
			continue
		}
		other := state.Grid[engine.Index(n.row, n.col)]
		note := ""
		switch {
		case tile.Matches(other):
			note = "  <- can merge"
		case !tile.IsEmpty() && other.Value == tile.Value:
			note = "  <- same value, other faction (never merges)"
		}
		fmt.Fprintf(&sb, "  %-5s (%d, %d) %s%s\n", n.name, n.row, n.col, engine.TileCode(other), note)
	}

	return sb.String()
}

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nTheme: %s\nCreated: %s\nLast accessed: %s\n\n%s",
		info.ID, info.ConfigName,
		info.CreatedAt.Format(time.RFC3339), info.LastAccessedAt.Format(time.RFC3339),
		formatGameState(info.GameState, info.GameConfig))
}

// formatBoard renders the grid with row and column headers. When a theme is
// given, a glyph legend for the tiles on the board follows.
func formatBoard(grid engine.Grid, config *engine.GameConfig) string {
	var sb strings.Builder
	sb.WriteString("     ")
	for col := 0; col < engine.Side; col++ {
		fmt.Fprintf(&sb, "%5d", col)
	}
	sb.WriteString("\n")

	for row := 0; row < engine.Side; row++ {
		fmt.Fprintf(&sb, "%5d", row)
		for col := 0; col < engine.Side; col++ {
			fmt.Fprintf(&sb, "%5s", engine.TileCode(grid[engine.Index(row, col)]))
		}
		sb.WriteString("\n")
	}

	if config != nil {
		seen := map[engine.Tile]bool{}
		var legend []string
		for _, t := range grid {
			if t.IsEmpty() || seen[t] {
				continue
			}
			seen[t] = true
			legend = append(legend, fmt.Sprintf("%s=%s", engine.TileCode(t), engine.GlyphFor(t, config)))
		}
		if len(legend) > 0 {
			sb.WriteString("Glyphs: " + strings.Join(legend, " ") + "\n")
		}
	}
	return sb.String()
}

func formatGameState(state *engine.GameState, config *engine.GameConfig) string {
	if state == nil {
		return "No game state available"
	}
	if len(state.Grid) != engine.CellCount {
		return fmt.Sprintf("Malformed board: %d cells", len(state.Grid))
	}

	var sb strings.Builder
	switch engine.GetOutcome(state) {
	case engine.OutcomeWon:
		sb.WriteString("🎉 VICTORY!\n")
	case engine.OutcomeLost:
		sb.WriteString("💀 GAME OVER\n")
	}
	if state.Message != "" {
		sb.WriteString(state.Message + "\n")
	}

	fmt.Fprintf(&sb, "Score: %d | Moves: %d | Max tile: %d | Empty cells: %d\n\n",
		state.Score, state.TotalMoves, engine.MaxTile(state.Grid), len(state.Grid.EmptyCells()))
	sb.WriteString(formatBoard(state.Grid, config))

	if !state.GameOver {
		moves := strategy.PossibleMoves(state)
		names := make([]string, len(moves))
		for i, d := range moves {
			names[i] = string(d)
		}
		fmt.Fprintf(&sb, "\nPossible moves: %s\n", strings.Join(names, ", "))
	}
	return sb.String()
}

func formatEvents(events []service.GameEvent) string {
	var lines []string
	for _, e := range events {
		if e.Type == service.EventMove {
			continue
		}
		lines = append(lines, fmt.Sprintf("  • %s: %s", e.Type, e.Message))
	}
	if len(lines) == 0 {
		return ""
	}
	return "Events:\n" + strings.Join(lines, "\n") + "\n"
}

func formatMoveResult(result *service.MoveResult) string {
	var sb strings.Builder

	if step := result.Step; step != nil {
		if step.Changed {
			fmt.Fprintf(&sb, "✅ Moved %s: +%d points, %d merge(s)\n", step.Dir, step.ScoreDelta, step.Merges)
		} else {
			fmt.Fprintf(&sb, "↔️ %s changed nothing (no tile spawned)\n", step.Dir)
		}
	} else if result.Success {
		sb.WriteString("✅ Move successful\n")
	} else {
		sb.WriteString("↔️ Nothing moved\n")
	}

	sb.WriteString(formatEvents(result.Events))
	sb.WriteString("\n")
	sb.WriteString(formatGameState(result.GameState, nil))
	return sb.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Session %s: executed %d/%d moves (%d no-op)\n",
		sessionID, result.MovesExecuted, result.RequestedMoves, result.NoOpMoves)
	if result.Truncated {
		fmt.Fprintf(&sb, "⚠️ Request truncated to the first %d moves\n", result.Limit)
	}
	fmt.Fprintf(&sb, "Score: %d -> %d (%+d)\n", result.StartScore, result.EndScore, result.ScoreDelta)
	if result.StoppedReason != "" {
		fmt.Fprintf(&sb, "Stopped: %s [%s] at move %d\n", result.StoppedReason, result.StopReasonCode, result.StoppedOnMove)
	}

	if len(result.Steps) > 0 {
		sb.WriteString("\nSteps:\n")
		for _, step := range result.Steps {
			sb.WriteString(formatStepLine(step))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(formatGameState(result.GameState, nil))
	return sb.String()
}

func formatStepLine(step service.StepInfo) string {
	if !step.Changed {
		return fmt.Sprintf("  %2d. %-5s no-op\n", step.Idx, step.Dir)
	}
	spawn := ""
	if step.Spawn != nil {
		spawn = fmt.Sprintf(" spawn %s@(%d,%d)", engine.TileCode(step.Spawn.Tile), step.Spawn.Position.Row, step.Spawn.Position.Col)
	}
	return fmt.Sprintf("  %2d. %-5s +%d (%d merge)%s score=%d\n",
		step.Idx, step.Dir, step.ScoreDelta, step.Merges, spawn, step.Score)
}
