package engine

import (
	"errors"
	"strings"
)

// Faction identifies which side a tile belongs to
type Faction string

const (
	Benign  Faction = "benign"
	Hostile Faction = "hostile"
)

// Direction is one of the four slide directions
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Outcome is the terminal result of a game
type Outcome string

const (
	OutcomeNone Outcome = "none"
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

const (
	// Grid geometry
	Side      = 7
	CellCount = Side * Side

	// WinValue is the benign tile value that ends the game in victory
	WinValue = 128

	// Spawn parameters
	SpawnLowValue  = 2
	SpawnHighValue = 4
	SpawnLowChance = 0.5
	BenignChance   = 0.5

	// GlyphCount is the number of glyphs per faction (values 2..64)
	GlyphCount = 6

	MaxBulkMoves        = 50
	WebSocketBufferSize = 256
)

// ErrInvalidDirection is returned for direction strings outside up/down/left/right
var ErrInvalidDirection = errors.New("invalid direction")

// Directions lists all directions in a fixed order
var Directions = []Direction{Up, Down, Left, Right}

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// ParseDirection converts user input into a Direction
func ParseDirection(s string) (Direction, error) {
	if d := Direction(strings.ToLower(strings.TrimSpace(s))); d.Valid() {
		return d, nil
	}
	return "", ErrInvalidDirection
}

// Tile is a single numbered piece. The zero Tile is an empty cell.
type Tile struct {
	Value   int     `json:"value,omitempty"`
	Faction Faction `json:"faction,omitempty"`
}

// IsEmpty reports whether the cell holds no tile
func (t Tile) IsEmpty() bool {
	return t.Value == 0
}

// Matches reports whether two non-empty tiles can merge
func (t Tile) Matches(o Tile) bool {
	return !t.IsEmpty() && t.Value == o.Value && t.Faction == o.Faction
}

// Grid is a row-major board of CellCount cells
type Grid []Tile

// NewGrid returns an all-empty grid
func NewGrid() Grid {
	return make(Grid, CellCount)
}

// Index maps (row, col) to a grid index
func Index(row, col int) int {
	return row*Side + col
}

// Position represents a row/col coordinate
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PositionOf maps a grid index back to (row, col)
func PositionOf(i int) Position {
	return Position{Row: i / Side, Col: i % Side}
}

// Clone returns an independent copy of the grid
func (g Grid) Clone() Grid {
	c := make(Grid, len(g))
	copy(c, g)
	return c
}

// Equal compares two grids cell by cell
func (g Grid) Equal(o Grid) bool {
	if len(g) != len(o) {
		return false
	}
	for i := range g {
		if g[i] != o[i] {
			return false
		}
	}
	return true
}

// SpawnEvent records where a new tile appeared
type SpawnEvent struct {
	Index    int      `json:"index"`
	Position Position `json:"position"`
	Tile     Tile     `json:"tile"`
}

// GameState is one game session: the grid, the score and the terminal flags
type GameState struct {
	Grid       Grid        `json:"grid"`
	Score      int         `json:"score"`
	GameOver   bool        `json:"game_over"`
	Outcome    Outcome     `json:"outcome"`
	Message    string      `json:"message"`
	ConfigName string      `json:"config_name"`
	Seed       int64       `json:"seed"`
	TotalMoves int         `json:"total_moves"`
	LastSpawn  *SpawnEvent `json:"last_spawn,omitempty"`

	// Computed helper views (not required for core game logic)
	MaxTile    int      `json:"max_tile,omitempty"`
	EmptyCells int      `json:"empty_cells,omitempty"`
	Board      []string `json:"board,omitempty"`
}

// Clone returns a deep copy of the state
func (gs *GameState) Clone() *GameState {
	c := *gs
	c.Grid = gs.Grid.Clone()
	if gs.LastSpawn != nil {
		s := *gs.LastSpawn
		c.LastSpawn = &s
	}
	if gs.Board != nil {
		c.Board = append([]string(nil), gs.Board...)
	}
	return &c
}

// MoveOutcome is what a single move produced
type MoveOutcome struct {
	Direction  Direction   `json:"direction"`
	Changed    bool        `json:"changed"`
	ScoreDelta int         `json:"score_delta"`
	Merges     int         `json:"merges"`
	Spawn      *SpawnEvent `json:"spawn,omitempty"`
	Outcome    Outcome     `json:"outcome"`
}
