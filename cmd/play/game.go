package main

import "github.com/wricardo/mcp-training/factionmerge/game/engine"

// Game is what the board view drives: an in-process engine or a session on
// a running server.
type Game interface {
	State() *engine.GameState
	Config() *engine.GameConfig
	Move(dir engine.Direction) (engine.MoveOutcome, error)
	Reset() error
}

// localGame plays against an in-process engine
type localGame struct {
	engine *engine.GameEngine
}

func newLocalGame(config *engine.GameConfig, seed int64) (*localGame, error) {
	var (
		e   *engine.GameEngine
		err error
	)
	if seed == 0 {
		e, err = engine.NewEngine(config, nil)
	} else {
		e, err = engine.NewSeededEngine(config, seed)
	}
	if err != nil {
		return nil, err
	}
	return &localGame{engine: e}, nil
}

func (g *localGame) State() *engine.GameState   { return g.engine.GetState() }
func (g *localGame) Config() *engine.GameConfig { return g.engine.GetConfig() }

func (g *localGame) Move(dir engine.Direction) (engine.MoveOutcome, error) {
	return g.engine.Move(string(dir))
}

func (g *localGame) Reset() error {
	g.engine.Reset()
	return nil
}
