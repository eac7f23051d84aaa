package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/factionmerge/game/engine"
	live "github.com/wricardo/mcp-training/factionmerge/transport/websocket"
)

// model is the bubbletea model for one game, local or remote
type model struct {
	game  Game
	title string
	feed  *websocket.Conn
	keys  KeyMap
	help  help.Model

	last   engine.MoveOutcome
	status string
}

func newModel(game Game, title string, feed *websocket.Conn) model {
	return model{
		game:   game,
		title:  title,
		feed:   feed,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		status: game.State().Message,
	}
}

func (m model) Init() tea.Cmd {
	if m.feed == nil {
		return nil
	}
	return waitForPush(m.feed)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case pushedMsg:
		m.applyPush(msg.message)
		return m, waitForPush(m.feed)

	case feedClosedMsg:
		m.feed = nil
		if msg.err != nil {
			m.status = fmt.Sprintf("Live feed lost: %v", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reset):
			m.reset()
		case key.Matches(msg, m.keys.Up):
			m.move(engine.Up)
		case key.Matches(msg, m.keys.Down):
			m.move(engine.Down)
		case key.Matches(msg, m.keys.Left):
			m.move(engine.Left)
		case key.Matches(msg, m.keys.Right):
			m.move(engine.Right)
		}
	}
	return m, nil
}

func (m *model) move(dir engine.Direction) {
	if m.game.State().GameOver {
		m.status = "Game is over, press r for a new one"
		return
	}
	outcome, err := m.game.Move(dir)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.last = outcome

	switch {
	case !m.last.Changed:
		m.status = fmt.Sprintf("%s changed nothing", dir)
	case m.last.Outcome != engine.OutcomeNone:
		m.status = m.game.State().Message
	case m.last.Merges > 0:
		m.status = fmt.Sprintf("%s: %d merge(s), +%d", dir, m.last.Merges, m.last.ScoreDelta)
	default:
		m.status = string(dir)
	}
}

func (m *model) reset() {
	if err := m.game.Reset(); err != nil {
		m.status = err.Error()
		return
	}
	m.last = engine.MoveOutcome{}
	m.status = m.game.State().Message
}

// applyPush takes a state someone else produced on a watched session
func (m *model) applyPush(message live.Message) {
	remote, ok := m.game.(*remoteGame)
	if !ok {
		return
	}
	if pushed := message.GameState; pushed != nil {
		// our own moves echo back unchanged
		current := remote.State()
		if pushed.Score != current.Score || !pushed.Grid.Equal(current.Grid) {
			m.status = fmt.Sprintf("Updated: score %d", pushed.Score)
		}
		remote.apply(pushed)
	}
	if message.Event != "" {
		m.status = fmt.Sprintf("%s: %v", message.Event, message.Data)
	}
}

func (m model) View() string {
	state := m.game.State()
	config := m.game.Config()

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Score %d   Moves %d   Max %d   Empty %d\n",
		state.Score, state.TotalMoves, engine.MaxTile(state.Grid), len(state.Grid.EmptyCells())))

	b.WriteString(boardStyle.Render(renderGrid(state.Grid, config)))
	b.WriteString("\n")

	switch state.Outcome {
	case engine.OutcomeWon:
		b.WriteString(wonStyle.Render(m.status))
	case engine.OutcomeLost:
		b.WriteString(lostStyle.Render(m.status))
	default:
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func renderGrid(grid engine.Grid, config *engine.GameConfig) string {
	rows := make([]string, 0, engine.Side)
	for row := 0; row < engine.Side; row++ {
		cells := make([]string, 0, engine.Side)
		for col := 0; col < engine.Side; col++ {
			cells = append(cells, renderTile(grid[engine.Index(row, col)], config))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderTile(tile engine.Tile, config *engine.GameConfig) string {
	if tile.IsEmpty() {
		return emptyStyle.Render(engine.GlyphFor(tile, config))
	}

	text := cellText(tile, config)
	if tile.Faction == engine.Hostile {
		return hostileStyle.Render(text)
	}
	return benignStyle.Render(text)
}

// cellText pairs the glyph with its value; glyph-less values show the number only
func cellText(tile engine.Tile, config *engine.GameConfig) string {
	glyph := engine.GlyphFor(tile, config)
	value := strconv.Itoa(tile.Value)
	if glyph == value {
		return value
	}
	return glyph + value
}
