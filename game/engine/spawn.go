package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// RandomSource is the randomness the engine draws spawns from.
// *math/rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// NewRandomSource returns a deterministic source for the given seed
func NewRandomSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// EmptyCells returns the indices of all empty cells in row-major order
func (g Grid) EmptyCells() []int {
	empty := make([]int, 0, len(g))
	for i, t := range g {
		if t.IsEmpty() {
			empty = append(empty, i)
		}
	}
	return empty
}

// SpawnTile places one random tile into a random empty cell.
// Draw order is position, value, then faction. It returns false when the
// grid is full.
func (gs *GameState) SpawnTile(rng RandomSource) (SpawnEvent, bool) {
	empty := gs.Grid.EmptyCells()
	if len(empty) == 0 {
		return SpawnEvent{}, false
	}

	i := empty[rng.Intn(len(empty))]
	value := SpawnHighValue
	if rng.Float64() < SpawnLowChance {
		value = SpawnLowValue
	}
	faction := Hostile
	if rng.Float64() < BenignChance {
		faction = Benign
	}

	tile := Tile{Value: value, Faction: faction}
	gs.Grid[i] = tile
	event := SpawnEvent{Index: i, Position: PositionOf(i), Tile: tile}
	gs.LastSpawn = &event
	return event, true
}
