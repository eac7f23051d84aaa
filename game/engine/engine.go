package engine

import "fmt"

// GameEngine owns one state, its theme and the random source that state's
// spawns are drawn from.
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    RandomSource
}

// NewEngine creates a new game engine with the provided configuration.
// A nil rng is replaced by a freshly seeded one.
func NewEngine(config *GameConfig, rng RandomSource) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	var seed int64
	if rng == nil {
		s, err := NewSeed()
		if err != nil {
			return nil, err
		}
		seed = s
		rng = NewRandomSource(seed)
	}

	engine := &GameEngine{
		config: config,
		rng:    rng,
	}
	engine.state = InitGameStateFromConfig(config, rng)
	engine.state.Seed = seed
	return engine, nil
}

// NewSeededEngine creates an engine whose spawns are reproducible from seed
func NewSeededEngine(config *GameConfig, seed int64) (*GameEngine, error) {
	engine, err := NewEngine(config, NewRandomSource(seed))
	if err != nil {
		return nil, err
	}
	engine.state.Seed = seed
	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the built-in theme
func NewEngineWithDefaults(rng RandomSource) *GameEngine {
	engine, err := NewEngine(DefaultConfig(), rng)
	if err != nil {
		// the built-in theme always validates
		panic(err)
	}
	return engine
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if len(state.Grid) != CellCount {
		return fmt.Errorf("state grid must have %d cells, got %d", CellCount, len(state.Grid))
	}
	if state.Outcome == "" {
		state.Outcome = OutcomeNone
	}
	e.state = state
	return nil
}

// Reset starts a fresh game, continuing the same random stream
func (e *GameEngine) Reset() *GameState {
	seed := e.state.Seed
	e.state = InitGameStateFromConfig(e.config, e.rng)
	e.state.Seed = seed
	return e.state
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// IsVictory returns whether the player has won
func (e *GameEngine) IsVictory() bool {
	return e.state.Outcome == OutcomeWon
}

// GetOutcome returns none, won or lost
func (e *GameEngine) GetOutcome() Outcome {
	return GetOutcome(e.state)
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// Move parses direction and applies one move
func (e *GameEngine) Move(direction string) (MoveOutcome, error) {
	dir, err := ParseDirection(direction)
	if err != nil {
		return MoveOutcome{}, fmt.Errorf("move %q: %w", direction, err)
	}
	return e.state.ApplyMove(dir, e.rng, e.config)
}

// CanMove checks whether sliding in direction would change the grid
func (e *GameEngine) CanMove(direction Direction) bool {
	return e.state.CanSlide(direction)
}

// GetPossibleMoves returns all directions that would change the grid
func (e *GameEngine) GetPossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// GetConfig returns the current theme
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig swaps the theme and starts a new game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	e.Reset()
	return nil
}

// GetMaxTile returns the largest tile on the board
func (e *GameEngine) GetMaxTile() int {
	return MaxTile(e.state.Grid)
}

// GetEmptyCount returns the number of empty cells
func (e *GameEngine) GetEmptyCount() int {
	return len(e.state.Grid.EmptyCells())
}

// BulkMove executes multiple moves in sequence. It stops at the first
// invalid direction or once the game is over.
func (e *GameEngine) BulkMove(moves []string) ([]MoveOutcome, error) {
	results := make([]MoveOutcome, 0, len(moves))

	for _, direction := range moves {
		if e.IsGameOver() {
			break
		}

		result, err := e.Move(direction)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}
