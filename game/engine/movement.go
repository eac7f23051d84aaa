package engine

import "fmt"

// Slide collapses every line of the grid toward dir without spawning.
// It reports whether any cell changed, the score gained and the merge count.
// The state's score is not touched. An unknown direction changes nothing.
func (gs *GameState) Slide(dir Direction) (bool, int, int) {
	if !dir.Valid() {
		return false, 0, 0
	}
	before := gs.Grid.Clone()
	gained, merges := 0, 0

	line := make([]Tile, Side)
	for n := 0; n < Side; n++ {
		idx := lineIndices(dir, n)
		for k, i := range idx {
			line[k] = gs.Grid[i]
		}
		collapsed, g, m := CollapseLine(line)
		for k, i := range idx {
			gs.Grid[i] = collapsed[k]
		}
		gained += g
		merges += m
	}

	if gs.Grid.Equal(before) {
		// nothing moved, so nothing merged either
		return false, 0, 0
	}
	return true, gained, merges
}

// ApplyMove runs one full move: slide, score, spawn and terminal check.
// Terminal states and unchanged grids are left untouched. Directions
// outside Directions return ErrInvalidDirection and leave the state alone.
func (gs *GameState) ApplyMove(dir Direction, rng RandomSource, config *GameConfig) (MoveOutcome, error) {
	if !dir.Valid() {
		return MoveOutcome{}, fmt.Errorf("move %q: %w", dir, ErrInvalidDirection)
	}

	result := MoveOutcome{Direction: dir, Outcome: gs.Outcome}
	if gs.GameOver {
		return result, nil
	}

	changed, gained, merges := gs.Slide(dir)
	if !changed {
		if config != nil {
			gs.Message = config.Messages.NoChange
		}
		return result, nil
	}

	gs.Score += gained
	gs.TotalMoves++
	result.Changed = true
	result.ScoreDelta = gained
	result.Merges = merges

	if spawn, ok := gs.SpawnTile(rng); ok {
		result.Spawn = &spawn
	}

	result.Outcome = gs.EvaluateTerminal()
	gs.Message = messageFor(gs, config)
	return result, nil
}

// CanSlide reports whether sliding toward dir would change the grid
func (gs *GameState) CanSlide(dir Direction) bool {
	if gs.GameOver {
		return false
	}
	probe := &GameState{Grid: gs.Grid.Clone()}
	changed, _, _ := probe.Slide(dir)
	return changed
}

// messageFor picks the theme message matching the state's current outcome
func messageFor(gs *GameState, config *GameConfig) string {
	if config == nil {
		return gs.Message
	}
	switch gs.Outcome {
	case OutcomeWon:
		return config.Messages.Victory
	case OutcomeLost:
		return config.Messages.Defeat
	}
	return ""
}
