// Command play runs a faction merge game in the terminal.
//
//	go run ./cmd/play --theme ocean --seed 42
//	go run ./cmd/play --server http://localhost:8080 --session a1b2
//
// Arrows, WASD or hjkl slide the tiles, r starts over and q quits. With
// --server the board is a session on a running game server; moves made there
// by other clients (an agent over MCP, say) show up live.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/factionmerge/game/engine"
)

func main() {
	cmd := &cli.Command{
		Name:  "play",
		Usage: "Play faction merge in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing theme files"},
			&cli.StringFlag{Name: "theme", Usage: "Theme name inside config-dir (built-in theme when empty)"},
			&cli.IntFlag{Name: "seed", Usage: "Seed for reproducible spawns (random when 0)"},
			&cli.StringFlag{Name: "server", Usage: "Game server URL; play a server session instead of a local game"},
			&cli.StringFlag{Name: "session", Usage: "Session id on --server"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	var (
		game  Game
		title string
		feed  *websocket.Conn
	)

	if server := cmd.String("server"); server != "" {
		sessionID := cmd.String("session")
		if sessionID == "" {
			return fmt.Errorf("--session is required with --server")
		}
		remote, err := connectRemote(ctx, server, sessionID)
		if err != nil {
			return err
		}
		if feed, err = remote.watch(ctx); err != nil {
			return err
		}
		defer feed.Close()
		game = remote
		title = fmt.Sprintf("Faction Merge · %s · session %s", remote.Config().Name, sessionID)
	} else {
		config, err := engine.LoadConfigByName(cmd.String("config-dir"), cmd.String("theme"))
		if err != nil {
			return err
		}
		local, err := newLocalGame(config, int64(cmd.Int("seed")))
		if err != nil {
			return err
		}
		game = local
		title = fmt.Sprintf("Faction Merge · %s", config.Name)
	}

	p := tea.NewProgram(newModel(game, title, feed), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}

	state := game.State()
	fmt.Printf("Final score %d after %d moves (seed %d, outcome %s)\n",
		state.Score, state.TotalMoves, state.Seed, state.Outcome)
	return nil
}
