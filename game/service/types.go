package service

import (
	"time"

	"github.com/wricardo/mcp-training/factionmerge/game/engine"
)

// Event types emitted by moves
const (
	EventReset    = "reset"
	EventMove     = "move"
	EventMerge    = "merge"
	EventSpawn    = "spawn"
	EventNoChange = "no_change"
	EventVictory  = "victory"
	EventGameOver = "game_over"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	// Success is true when the move changed the grid
	Success   bool              `json:"success"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Step      *StepInfo         `json:"step,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // invalid_direction|victory|game_over
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartScore int `json:"start_score"`
	EndScore   int `json:"end_score"`
	ScoreDelta int `json:"score_delta"`
	NoOpMoves  int `json:"no_op_moves"`

	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	GameOver      bool           `json:"game_over"`
	Outcome       engine.Outcome `json:"outcome"`
	Message       string         `json:"message,omitempty"`
	PossibleMoves []string       `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx        int                `json:"idx"`
	Dir        string             `json:"dir"`
	Changed    bool               `json:"changed"`
	ScoreDelta int                `json:"score_delta"`
	Merges     int                `json:"merges,omitempty"`
	Spawn      *engine.SpawnEvent `json:"spawn,omitempty"`
	Score      int                `json:"score"`
	Outcome    engine.Outcome     `json:"outcome"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	ID        string           `json:"id"`
	Type      string           `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Position  *engine.Position `json:"position,omitempty"`
	Tile      *engine.Tile     `json:"tile,omitempty"`
}

// HintResult is a suggested next move
type HintResult struct {
	Direction     engine.Direction `json:"direction"`
	Strategy      string           `json:"strategy"`
	PossibleMoves []string         `json:"possible_moves"`
}

// ConfigInfo provides information about a game theme
type ConfigInfo struct {
	Filename    string   `json:"filename"`
	ConfigID    string   `json:"config_id"` // The identifier to use for session creation
	Name        string   `json:"name"`      // Display name
	Description string   `json:"description"`
	Benign      []string `json:"benign"`
	Hostile     []string `json:"hostile"`
}
