package engine

import (
	"math/bits"
	"strconv"
	"strings"
)

// CountTiles counts the non-empty cells in the grid
func CountTiles(grid Grid) int {
	count := 0
	for _, t := range grid {
		if !t.IsEmpty() {
			count++
		}
	}
	return count
}

// MaxTile returns the largest tile value on the grid, 0 when empty
func MaxTile(grid Grid) int {
	highest := 0
	for _, t := range grid {
		if t.Value > highest {
			highest = t.Value
		}
	}
	return highest
}

// GlyphIndex maps a tile value to its glyph table index: log2(value) - 1
func GlyphIndex(value int) int {
	if value < 2 || value&(value-1) != 0 {
		return -1
	}
	return bits.TrailingZeros(uint(value)) - 1
}

// GlyphFor returns the display glyph for a tile. Values without a glyph
// (128 and above) render as their number.
func GlyphFor(tile Tile, config *GameConfig) string {
	if tile.IsEmpty() {
		return "·"
	}
	if config == nil {
		config = DefaultConfig()
	}
	table := config.Glyphs.Benign
	if tile.Faction == Hostile {
		table = config.Glyphs.Hostile
	}
	if i := GlyphIndex(tile.Value); i >= 0 && i < len(table) {
		return table[i]
	}
	return strconv.Itoa(tile.Value)
}

// TileCode renders a tile compactly, e.g. "4b" or "16h", and "." for empty
func TileCode(tile Tile) string {
	if tile.IsEmpty() {
		return "."
	}
	suffix := "b"
	if tile.Faction == Hostile {
		suffix = "h"
	}
	return strconv.Itoa(tile.Value) + suffix
}

// BuildBoard renders the grid as Side rows of space-separated tile codes
func BuildBoard(grid Grid) []string {
	rows := make([]string, 0, Side)
	cells := make([]string, Side)
	for row := 0; row < Side; row++ {
		for col := 0; col < Side; col++ {
			cells[col] = TileCode(grid[Index(row, col)])
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return rows
}

// Annotate fills the computed helper views on a state
func Annotate(state *GameState) *GameState {
	if state == nil {
		return nil
	}
	state.MaxTile = MaxTile(state.Grid)
	state.EmptyCells = len(state.Grid.EmptyCells())
	state.Board = BuildBoard(state.Grid)
	return state
}
