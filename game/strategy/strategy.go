package strategy

import (
	"errors"
	"fmt"

	"github.com/wricardo/mcp-training/factionmerge/game/engine"
)

// ErrNoMove is returned when no direction changes the grid
var ErrNoMove = errors.New("no move changes the grid")

// Strategy picks the next direction for a game state
type Strategy interface {
	Name() string
	Next(state *engine.GameState) (engine.Direction, error)
}

// PossibleMoves returns the directions that would change the grid, in fixed order
func PossibleMoves(state *engine.GameState) []engine.Direction {
	var moves []engine.Direction
	for _, dir := range engine.Directions {
		if state.CanSlide(dir) {
			moves = append(moves, dir)
		}
	}
	return moves
}

// ByName builds one of the built-in strategies. Script strategies are built
// with NewScript instead.
func ByName(name string, rng engine.RandomSource) (Strategy, error) {
	switch name {
	case "cycle":
		return NewCycle(), nil
	case "random":
		return NewRandom(rng), nil
	case "greedy":
		return NewGreedy(), nil
	}
	return nil, fmt.Errorf("unknown strategy %q (want cycle, random or greedy)", name)
}

// Cycle rotates through up, right, down and left, skipping directions
// that would not change the grid.
type Cycle struct {
	next int
}

var cycleOrder = []engine.Direction{engine.Up, engine.Right, engine.Down, engine.Left}

func NewCycle() *Cycle {
	return &Cycle{}
}

func (c *Cycle) Name() string { return "cycle" }

func (c *Cycle) Next(state *engine.GameState) (engine.Direction, error) {
	for i := 0; i < len(cycleOrder); i++ {
		dir := cycleOrder[(c.next+i)%len(cycleOrder)]
		if state.CanSlide(dir) {
			c.next = (c.next + i + 1) % len(cycleOrder)
			return dir, nil
		}
	}
	return "", ErrNoMove
}

// Random picks uniformly among the directions that change the grid
type Random struct {
	rng engine.RandomSource
}

func NewRandom(rng engine.RandomSource) *Random {
	if rng == nil {
		rng = engine.NewRandomSource(1)
	}
	return &Random{rng: rng}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Next(state *engine.GameState) (engine.Direction, error) {
	moves := PossibleMoves(state)
	if len(moves) == 0 {
		return "", ErrNoMove
	}
	return moves[r.rng.Intn(len(moves))], nil
}

// Greedy takes the largest immediate score gain. Ties go to the move leaving
// the most empty cells, then to the earlier direction in engine.Directions.
type Greedy struct{}

func NewGreedy() *Greedy {
	return &Greedy{}
}

func (g *Greedy) Name() string { return "greedy" }

func (g *Greedy) Next(state *engine.GameState) (engine.Direction, error) {
	if state.GameOver {
		return "", ErrNoMove
	}

	var best engine.Direction
	bestGain, bestEmpty := -1, -1

	for _, dir := range engine.Directions {
		probe := &engine.GameState{Grid: state.Grid.Clone()}
		changed, gained, _ := probe.Slide(dir)
		if !changed {
			continue
		}
		empty := len(probe.Grid.EmptyCells())
		if gained > bestGain || (gained == bestGain && empty > bestEmpty) {
			best, bestGain, bestEmpty = dir, gained, empty
		}
	}

	if best == "" {
		return "", ErrNoMove
	}
	return best, nil
}
