package strategy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/mcp-training/factionmerge/game/engine"
)

func TestScriptPicksFirstMove(t *testing.T) {
	s, err := NewScript("first", `
		function nextMove(state) {
			return state.moves[0];
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "first", s.Name())

	state := &engine.GameState{Grid: engine.NewGrid()}
	state.Grid[engine.Index(0, 0)] = tile(2, engine.Benign)

	dir, err := s.Next(state)
	require.NoError(t, err)
	assert.Equal(t, engine.Down, dir)
}

func TestScriptSeesGrid(t *testing.T) {
	s, err := NewScript("reader", `
		function nextMove(state) {
			var cell = state.grid[0][0];
			if (cell.value === 4 && cell.faction === "hostile" && state.empty === 48) {
				return "RIGHT";
			}
			return "down";
		}
	`)
	require.NoError(t, err)

	state := &engine.GameState{Grid: engine.NewGrid()}
	state.Grid[0] = tile(4, engine.Hostile)

	dir, err := s.Next(state)
	require.NoError(t, err)
	assert.Equal(t, engine.Right, dir)
}

func TestScriptErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{"syntax error", `function nextMove( {`, "script execution error"},
		{"missing function", `var x = 1;`, "nextMove(state) is not defined"},
		{"require blocked", `require("fs"); function nextMove() { return "up"; }`, "script execution error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScript(tt.name, tt.source)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "got %v", err)
		})
	}
}

func TestScriptInvalidDirection(t *testing.T) {
	s, err := NewScript("bad", `function nextMove() { return "sideways"; }`)
	require.NoError(t, err)

	state := &engine.GameState{Grid: engine.NewGrid()}
	state.Grid[0] = tile(2, engine.Benign)

	_, err = s.Next(state)
	assert.ErrorIs(t, err, engine.ErrInvalidDirection)
}

func TestScriptTimeout(t *testing.T) {
	s, err := NewScript("spin", `function nextMove() { while (true) {} }`)
	require.NoError(t, err)

	state := &engine.GameState{Grid: engine.NewGrid()}
	state.Grid[0] = tile(2, engine.Benign)

	_, err = s.Next(state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestScriptNoMove(t *testing.T) {
	s, err := NewScript("any", `function nextMove() { return "up"; }`)
	require.NoError(t, err)

	_, err = s.Next(&engine.GameState{Grid: stuckGrid()})
	assert.ErrorIs(t, err, ErrNoMove)
}
