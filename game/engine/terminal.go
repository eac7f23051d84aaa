package engine

// EvaluateTerminal scans the grid once and updates GameOver and Outcome.
// A benign WinValue tile wins even when empty cells remain; a full grid
// with no adjacent matching pair loses.
func (gs *GameState) EvaluateTerminal() Outcome {
	hasEmpty := false
	for _, t := range gs.Grid {
		if t.Value == WinValue && t.Faction == Benign {
			gs.GameOver = true
			gs.Outcome = OutcomeWon
			return gs.Outcome
		}
		if t.IsEmpty() {
			hasEmpty = true
		}
	}

	if hasEmpty || HasAdjacentMatch(gs.Grid) {
		return gs.Outcome
	}

	gs.GameOver = true
	gs.Outcome = OutcomeLost
	return gs.Outcome
}

// HasAdjacentMatch reports whether any cell matches its right or bottom neighbour
func HasAdjacentMatch(g Grid) bool {
	for row := 0; row < Side; row++ {
		for col := 0; col < Side; col++ {
			current := g[Index(row, col)]
			if col < Side-1 && current.Matches(g[Index(row, col+1)]) {
				return true
			}
			if row < Side-1 && current.Matches(g[Index(row+1, col)]) {
				return true
			}
		}
	}
	return false
}

// GetOutcome returns the outcome of a state
func GetOutcome(gs *GameState) Outcome {
	if gs == nil || gs.Outcome == "" {
		return OutcomeNone
	}
	return gs.Outcome
}
