package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/mcp-training/factionmerge/game/engine"
	"github.com/wricardo/mcp-training/factionmerge/game/strategy"
)

// gameServiceImpl implements the GameService interface. mu guards every
// engine and the sessions' LastAccessedAt: anything that calls
// UpdateLastAccessed or changes a board takes the write lock.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given theme name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "classic"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new game session. A zero seed draws a fresh one.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed int64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			availableConfigs, listErr := s.configs.ListConfigs()
			if listErr == nil && len(availableConfigs) > 0 {
				configIDs := make([]string, 0, len(availableConfigs))
				for _, cfg := range availableConfigs {
					configIDs = append(configIDs, cfg.ConfigID)
				}
				return nil, fmt.Errorf("config '%s' unavailable (available configs: %v): %w", configName, configIDs, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      snapshot(session),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	// Reject bad input before a requested reset wipes the board
	if _, err := engine.ParseDirection(direction); err != nil {
		return nil, fmt.Errorf("move %q: %w", direction, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, newEvent(EventReset, "Game reset to initial state"))
	}

	outcome, err := sess.Engine.Move(direction)
	if err != nil {
		return nil, err
	}

	state := snapshot(sess)
	step := stepFrom(1, outcome, state.Score)

	return &MoveResult{
		Success:   outcome.Changed,
		GameState: state,
		Message:   state.Message,
		Events:    append(events, moveEvents(outcome, sess.Config)...),
		Step:      &step,
	}, nil
}

// BulkMove executes multiple moves in sequence. Moves that change nothing are
// recorded and the run continues; an invalid direction or a finished game
// stops it.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, newEvent(EventReset, "Game reset to initial state"))
	}
	result.StartScore = sess.Engine.GetScore()

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		if sess.Engine.IsGameOver() {
			result.StoppedReason = "game is already over"
			result.StopReasonCode = stopCode(sess.Engine.GetOutcome())
			result.StoppedOnMove = i + 1
			break
		}

		outcome, err := sess.Engine.Move(move)
		if err != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d invalid: %q", i+1, move)
			result.StopReasonCode = "invalid_direction"
			result.StoppedOnMove = i + 1
			break
		}

		result.MovesExecuted++
		if !outcome.Changed {
			result.NoOpMoves++
		}
		result.Events = append(result.Events, moveEvents(outcome, sess.Config)...)
		result.Steps = append(result.Steps, stepFrom(i+1, outcome, sess.Engine.GetScore()))

		if sess.Engine.IsGameOver() {
			result.StoppedReason = fmt.Sprintf("game ended on move %d", i+1)
			result.StopReasonCode = stopCode(outcome.Outcome)
			result.StoppedOnMove = i + 1
			break
		}
	}

	state := snapshot(sess)
	result.GameState = state
	result.EndScore = state.Score
	result.ScoreDelta = result.EndScore - result.StartScore
	result.GameOver = state.GameOver
	result.Outcome = engine.GetOutcome(state)
	result.Message = state.Message
	result.PossibleMoves = directionNames(sess.Engine.GetPossibleMoves())

	return result, nil
}

// Reset resets a game session to a fresh board
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	sess.Engine.Reset()

	return snapshot(sess), nil
}

// Hint suggests the move with the best immediate payoff
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID string) (*HintResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	greedy := strategy.NewGreedy()
	dir, err := greedy.Next(sess.Engine.GetState())
	if err != nil {
		return nil, fmt.Errorf("hint for %s: %w", sessionID, err)
	}

	return &HintResult{
		Direction:     dir,
		Strategy:      greedy.Name(),
		PossibleMoves: directionNames(sess.Engine.GetPossibleMoves()),
	}, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return snapshot(sess), nil
}

// ListConfigs returns available themes
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific theme
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      snapshot(sess),
		GameConfig:     sess.Config,
	}
}

// snapshot copies the session state so callers never share the live grid
func snapshot(sess *Session) *engine.GameState {
	return engine.Annotate(sess.Engine.GetState().Clone())
}

func newEvent(kind, message string) GameEvent {
	return GameEvent{
		ID:        uuid.NewString(),
		Type:      kind,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// moveEvents generates events from a move
func moveEvents(outcome engine.MoveOutcome, config *engine.GameConfig) []GameEvent {
	if config == nil {
		config = engine.DefaultConfig()
	}

	if !outcome.Changed {
		message := config.Messages.NoChange
		if outcome.Outcome != engine.OutcomeNone && outcome.Outcome != "" {
			message = "Game is over; start a new one to keep playing"
		} else if message == "" {
			message = fmt.Sprintf("Nothing moved %s", outcome.Direction)
		}
		return []GameEvent{newEvent(EventNoChange, message)}
	}

	events := []GameEvent{
		newEvent(EventMove, fmt.Sprintf("Moved %s (+%d)", outcome.Direction, outcome.ScoreDelta)),
	}

	if outcome.Merges > 0 {
		events = append(events, newEvent(EventMerge,
			fmt.Sprintf("%d merge(s) worth %d points", outcome.Merges, outcome.ScoreDelta)))
	}

	if spawn := outcome.Spawn; spawn != nil {
		ev := newEvent(EventSpawn, fmt.Sprintf("New %d %s tile at (%d,%d)",
			spawn.Tile.Value, spawn.Tile.Faction, spawn.Position.Row, spawn.Position.Col))
		pos, tile := spawn.Position, spawn.Tile
		ev.Position = &pos
		ev.Tile = &tile
		events = append(events, ev)
	}

	switch outcome.Outcome {
	case engine.OutcomeWon:
		events = append(events, newEvent(EventVictory, config.Messages.Victory))
	case engine.OutcomeLost:
		events = append(events, newEvent(EventGameOver, config.Messages.Defeat))
	}

	return events
}

func stepFrom(idx int, outcome engine.MoveOutcome, score int) StepInfo {
	return StepInfo{
		Idx:        idx,
		Dir:        string(outcome.Direction),
		Changed:    outcome.Changed,
		ScoreDelta: outcome.ScoreDelta,
		Merges:     outcome.Merges,
		Spawn:      outcome.Spawn,
		Score:      score,
		Outcome:    outcome.Outcome,
	}
}

func stopCode(outcome engine.Outcome) string {
	if outcome == engine.OutcomeWon {
		return "victory"
	}
	return "game_over"
}

func directionNames(dirs []engine.Direction) []string {
	names := make([]string, 0, len(dirs))
	for _, d := range dirs {
		names = append(names, string(d))
	}
	return names
}
