package strategy

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/wricardo/mcp-training/factionmerge/game/engine"
)

const (
	scriptInitTimeout = 2 * time.Second
	scriptCallTimeout = 500 * time.Millisecond
)

// Script runs a user-supplied JavaScript strategy. The script must define
// nextMove(state) returning "up", "down", "left" or "right". The state
// argument carries grid (rows of {value, faction}), board, score, empty and
// moves (the directions that change the grid).
type Script struct {
	name    string
	runtime *goja.Runtime
	mu      sync.Mutex
}

// NewScript compiles source in a sandboxed runtime
func NewScript(name, source string) (*Script, error) {
	s := &Script{
		name:    name,
		runtime: goja.New(),
	}
	s.sandbox()

	err := s.runWithTimeout(scriptInitTimeout, func() error {
		if _, err := s.runtime.RunString(source); err != nil {
			return fmt.Errorf("script execution error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, ok := goja.AssertFunction(s.runtime.Get("nextMove")); !ok {
		return nil, fmt.Errorf("script %s: nextMove(state) is not defined", name)
	}
	return s, nil
}

func (s *Script) sandbox() {
	s.runtime.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		log.Printf("[script %s] %s", s.name, strings.Join(parts, " "))
		return goja.Undefined()
	})
	console := s.runtime.NewObject()
	console.Set("log", s.runtime.Get("log"))
	s.runtime.Set("console", console)

	s.runtime.Set("require", goja.Undefined())
	s.runtime.Set("eval", goja.Undefined())
	s.runtime.Set("Function", goja.Undefined())
}

func (s *Script) Name() string { return s.name }

// Next calls nextMove with a plain-object view of the state
func (s *Script) Next(state *engine.GameState) (engine.Direction, error) {
	moves := PossibleMoves(state)
	if state.GameOver || len(moves) == 0 {
		return "", ErrNoMove
	}

	var raw string
	err := s.runWithTimeout(scriptCallTimeout, func() error {
		fn, ok := goja.AssertFunction(s.runtime.Get("nextMove"))
		if !ok {
			return fmt.Errorf("nextMove is not a function")
		}
		result, err := fn(goja.Undefined(), s.runtime.ToValue(scriptView(state, moves)))
		if err != nil {
			return fmt.Errorf("nextMove() error: %w", err)
		}
		raw = result.String()
		return nil
	})
	if err != nil {
		return "", err
	}

	dir, err := engine.ParseDirection(raw)
	if err != nil {
		return "", fmt.Errorf("script %s returned %q: %w", s.name, raw, err)
	}
	return dir, nil
}

func scriptView(state *engine.GameState, moves []engine.Direction) map[string]interface{} {
	grid := make([]interface{}, engine.Side)
	for row := 0; row < engine.Side; row++ {
		cells := make([]interface{}, engine.Side)
		for col := 0; col < engine.Side; col++ {
			t := state.Grid[engine.Index(row, col)]
			cells[col] = map[string]interface{}{
				"value":   t.Value,
				"faction": string(t.Faction),
			}
		}
		grid[row] = cells
	}

	names := make([]interface{}, len(moves))
	for i, m := range moves {
		names[i] = string(m)
	}

	board := make([]interface{}, 0, engine.Side)
	for _, line := range engine.BuildBoard(state.Grid) {
		board = append(board, line)
	}

	return map[string]interface{}{
		"grid":  grid,
		"board": board,
		"score": state.Score,
		"empty": len(state.Grid.EmptyCells()),
		"moves": names,
	}
}

func (s *Script) runWithTimeout(timeout time.Duration, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runtime.ClearInterrupt()

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		s.runtime.Interrupt("script execution timeout")
		// the interrupted call always returns; wait so the runtime is idle again
		if err := <-done; err != nil {
			return fmt.Errorf("script timed out: %w", err)
		}
		return fmt.Errorf("script timed out")
	}
}
