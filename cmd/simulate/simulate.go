package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/wricardo/mcp-training/factionmerge/game/engine"
	"github.com/wricardo/mcp-training/factionmerge/game/strategy"
)

// StrategyFactory builds a fresh strategy for one game. rng is that game's
// own random stream, for strategies that need one.
type StrategyFactory func(rng engine.RandomSource) (strategy.Strategy, error)

// Options controls a simulation run
type Options struct {
	Games    int
	Seed     int64
	MaxMoves int
	Verbose  bool
}

// GameResult is how one simulated game ended
type GameResult struct {
	Seed    int64
	Outcome engine.Outcome
	Score   int
	Moves   int
	MaxTile int
	Capped  bool
}

// Stats aggregates a run
type Stats struct {
	Strategy string
	Results  []GameResult

	Wins, Losses, Capped int
	BestScore, BestTile  int
	TotalScore           int
	TotalMoves           int
}

// simulate plays opts.Games games with seeds opts.Seed, opts.Seed+1, ...
func simulate(config *engine.GameConfig, factory StrategyFactory, opts Options) (*Stats, error) {
	if opts.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", opts.Games)
	}
	if opts.MaxMoves <= 0 {
		return nil, fmt.Errorf("max moves must be positive, got %d", opts.MaxMoves)
	}

	stats := &Stats{}
	for i := 0; i < opts.Games; i++ {
		seed := opts.Seed + int64(i)
		result, name, err := playOne(config, factory, seed, opts)
		if err != nil {
			return nil, fmt.Errorf("game %d (seed %d): %w", i+1, seed, err)
		}
		stats.Strategy = name
		stats.add(result)

		if opts.Verbose {
			log.Printf("Game %d: seed=%d outcome=%s score=%d moves=%d max=%d",
				i+1, seed, result.Outcome, result.Score, result.Moves, result.MaxTile)
		}
	}
	return stats, nil
}

func playOne(config *engine.GameConfig, factory StrategyFactory, seed int64, opts Options) (GameResult, string, error) {
	rng := engine.NewRandomSource(seed)
	game, err := engine.NewEngine(config, rng)
	if err != nil {
		return GameResult{}, "", err
	}
	// strategies draw from their own stream so they never shift the spawns
	picker, err := factory(engine.NewRandomSource(seed ^ 0x5eed))
	if err != nil {
		return GameResult{}, "", err
	}

	moves := 0
	for !game.IsGameOver() && moves < opts.MaxMoves {
		dir, err := picker.Next(game.GetState())
		if errors.Is(err, strategy.ErrNoMove) {
			break
		}
		if err != nil {
			return GameResult{}, "", err
		}
		if _, err := game.Move(string(dir)); err != nil {
			return GameResult{}, "", err
		}
		moves++
	}

	state := game.GetState()
	return GameResult{
		Seed:    seed,
		Outcome: game.GetOutcome(),
		Score:   state.Score,
		Moves:   state.TotalMoves,
		MaxTile: engine.MaxTile(state.Grid),
		Capped:  !state.GameOver,
	}, picker.Name(), nil
}

func (s *Stats) add(r GameResult) {
	s.Results = append(s.Results, r)
	switch {
	case r.Capped:
		s.Capped++
	case r.Outcome == engine.OutcomeWon:
		s.Wins++
	case r.Outcome == engine.OutcomeLost:
		s.Losses++
	}
	if r.Score > s.BestScore {
		s.BestScore = r.Score
	}
	if r.MaxTile > s.BestTile {
		s.BestTile = r.MaxTile
	}
	s.TotalScore += r.Score
	s.TotalMoves += r.Moves
}

// MedianScore returns the median game score
func (s *Stats) MedianScore() int {
	if len(s.Results) == 0 {
		return 0
	}
	scores := make([]int, len(s.Results))
	for i, r := range s.Results {
		scores[i] = r.Score
	}
	sort.Ints(scores)
	return scores[len(scores)/2]
}

// report prints the summary table
func report(w io.Writer, s *Stats) {
	games := len(s.Results)
	if games == 0 {
		fmt.Fprintln(w, "No games played")
		return
	}

	fmt.Fprintf(w, "=== %s: %d games ===\n", s.Strategy, games)
	fmt.Fprintf(w, "Wins:   %d (%.1f%%)\n", s.Wins, 100*float64(s.Wins)/float64(games))
	fmt.Fprintf(w, "Losses: %d\n", s.Losses)
	if s.Capped > 0 {
		fmt.Fprintf(w, "Capped: %d (hit the move limit)\n", s.Capped)
	}
	fmt.Fprintf(w, "Score:  avg %.1f, median %d, best %d\n",
		float64(s.TotalScore)/float64(games), s.MedianScore(), s.BestScore)
	fmt.Fprintf(w, "Moves:  avg %.1f\n", float64(s.TotalMoves)/float64(games))
	fmt.Fprintf(w, "Best tile: %d\n", s.BestTile)
}
