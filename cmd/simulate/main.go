// Command simulate plays many seeded faction merge games with one strategy
// and prints win/loss and score statistics.
//
//	go run ./cmd/simulate --strategy greedy --games 200
//	go run ./cmd/simulate --script corner.js --games 50 --verbose
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/factionmerge/game/engine"
	"github.com/wricardo/mcp-training/factionmerge/game/strategy"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "Run seeded games with a strategy and report statistics",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "strategy", Value: "greedy", Usage: "Built-in strategy: cycle, random or greedy"},
			&cli.StringFlag{Name: "script", Usage: "JavaScript file defining nextMove(state); overrides --strategy"},
			&cli.IntFlag{Name: "games", Value: 100, Usage: "Number of games"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "Seed of the first game; game i uses seed+i"},
			&cli.IntFlag{Name: "max-moves", Value: 5000, Usage: "Move cap per game"},
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing theme files"},
			&cli.StringFlag{Name: "theme", Usage: "Theme name inside config-dir (built-in theme when empty)"},
			&cli.BoolFlag{Name: "verbose", Usage: "Log every game"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			factory, err := strategyFactory(cmd.String("strategy"), cmd.String("script"))
			if err != nil {
				return err
			}

			config, err := engine.LoadConfigByName(cmd.String("config-dir"), cmd.String("theme"))
			if err != nil {
				return fmt.Errorf("load theme: %w", err)
			}

			stats, err := simulate(config, factory, Options{
				Games:    int(cmd.Int("games")),
				Seed:     int64(cmd.Int("seed")),
				MaxMoves: int(cmd.Int("max-moves")),
				Verbose:  cmd.Bool("verbose"),
			})
			if err != nil {
				return err
			}
			report(cmd.Root().Writer, stats)
			return nil
		},
	}
}

// strategyFactory resolves the strategy flags. Scripts are compiled once up
// front so syntax errors surface before any game starts.
func strategyFactory(name, scriptPath string) (StrategyFactory, error) {
	if scriptPath == "" {
		if _, err := strategy.ByName(name, nil); err != nil {
			return nil, err
		}
		return func(rng engine.RandomSource) (strategy.Strategy, error) {
			return strategy.ByName(name, rng)
		}, nil
	}

	source, err := os.ReadFile(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	scriptName := strings.TrimSuffix(filepath.Base(scriptPath), filepath.Ext(scriptPath))
	if _, err := strategy.NewScript(scriptName, string(source)); err != nil {
		return nil, err
	}
	return func(engine.RandomSource) (strategy.Strategy, error) {
		return strategy.NewScript(scriptName, string(source))
	}, nil
}
