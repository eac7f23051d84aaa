package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/factionmerge/game/engine"
)

// GameService is everything the REST and MCP front ends can do to a game.
// Errors for unknown sessions wrap session.ErrSessionNotFound.
type GameService interface {
	// CreateSession starts a game with the named theme (default theme when
	// empty). A zero seed draws a fresh one.
	CreateSession(ctx context.Context, configName string, seed int64) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Move applies one direction, optionally on a freshly reset board.
	// Unknown directions wrap engine.ErrInvalidDirection and leave the
	// board alone, reset included.
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	// BulkMove plays up to engine.MaxBulkMoves directions, stopping early on
	// an invalid direction or a finished game. No-op moves do not stop it.
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)
	// Hint asks the greedy strategy for the next move; strategy.ErrNoMove
	// once the game is over.
	Hint(ctx context.Context, sessionID string) (*HintResult, error)

	// GetGameState returns an annotated copy safe to hand to other goroutines
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)

	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
}

// SessionManager stores live sessions; session.Manager implements it
type SessionManager interface {
	Create(id string, config *engine.GameConfig, seed int64) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager supplies themes; config.Manager implements it
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
}

// Session is one live game and its bookkeeping
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
