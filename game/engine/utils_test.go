package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlyphIndex(t *testing.T) {
	tests := []struct {
		value int
		want  int
	}{
		{0, -1},
		{1, -1},
		{2, 0},
		{4, 1},
		{6, -1},
		{64, 5},
		{128, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GlyphIndex(tt.value), "value %d", tt.value)
	}
}

func TestGlyphFor(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "·", GlyphFor(Tile{}, config))
	assert.Equal(t, config.Glyphs.Benign[0], GlyphFor(b(2), config))
	assert.Equal(t, config.Glyphs.Hostile[5], GlyphFor(h(64), config))
	assert.Equal(t, "128", GlyphFor(b(128), config))
	assert.Equal(t, "256", GlyphFor(h(256), nil))
}

func TestBuildBoard(t *testing.T) {
	g := NewGrid()
	g[Index(0, 0)] = b(4)
	g[Index(6, 6)] = h(16)

	board := BuildBoard(g)

	assert.Len(t, board, Side)
	assert.Equal(t, "4b . . . . . .", board[0])
	assert.Equal(t, ". . . . . . 16h", board[Side-1])
}

func TestAnnotate(t *testing.T) {
	state := &GameState{Grid: NewGrid()}
	state.Grid[3] = b(8)
	state.Grid[9] = h(32)

	Annotate(state)

	assert.Equal(t, 32, state.MaxTile)
	assert.Equal(t, CellCount-2, state.EmptyCells)
	assert.Len(t, state.Board, Side)
	assert.Nil(t, Annotate(nil))
}

func TestParseDirection(t *testing.T) {
	for _, input := range []string{"up", "Up", "UP", " down", "left\n", "right"} {
		_, err := ParseDirection(input)
		assert.NoError(t, err, input)
	}
	for _, input := range []string{"", "north", "u", "upp"} {
		_, err := ParseDirection(input)
		assert.ErrorIs(t, err, ErrInvalidDirection, input)
	}
}
