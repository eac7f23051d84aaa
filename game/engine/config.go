package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Glyphs maps tile values 2..64 to display strings, one table per faction
type Glyphs struct {
	Benign  []string `json:"benign"`
	Hostile []string `json:"hostile"`
}

// GameConfig represents a game theme loaded from JSON
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Glyphs      Glyphs `json:"glyphs"`
	Messages    struct {
		Welcome  string `json:"welcome"`
		Victory  string `json:"victory"`
		Defeat   string `json:"defeat"`
		NoChange string `json:"no_change"`
	} `json:"messages"`
}

// ValidateGameConfig validates a theme for completeness
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	tables := []struct {
		faction Faction
		glyphs  []string
	}{
		{Benign, config.Glyphs.Benign},
		{Hostile, config.Glyphs.Hostile},
	}
	for _, table := range tables {
		if len(table.glyphs) != GlyphCount {
			return fmt.Errorf("config validation: glyphs.%s must have %d entries, got %d",
				table.faction, GlyphCount, len(table.glyphs))
		}
		for i, g := range table.glyphs {
			if strings.TrimSpace(g) == "" {
				return fmt.Errorf("config validation: glyphs.%s[%d] is empty", table.faction, i)
			}
		}
	}

	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}
	if config.Messages.Defeat == "" {
		return fmt.Errorf("config validation: messages.defeat is required")
	}

	return nil
}

// LoadGameConfig loads a theme from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", filename, err)
	}

	return &config, nil
}

// LoadConfigByName loads dir/name.json. An empty name, or "classic" with no
// file on disk, gives the built-in theme.
func LoadConfigByName(dir, configName string) (*GameConfig, error) {
	name := strings.TrimSuffix(configName, ".json")
	if name == "" {
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(dir, name+".json")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if name == DefaultConfig().Name {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("config file '%s.json' not found", name)
	}

	return LoadGameConfig(configPath)
}

// DefaultConfig returns the built-in theme
func DefaultConfig() *GameConfig {
	config := &GameConfig{
		Name:        "classic",
		Description: "Stars and rainbows against ghosts and skulls",
		Glyphs: Glyphs{
			Benign:  []string{"🌟", "🌈", "🦄", "🍀", "🌺", "🌞"},
			Hostile: []string{"👾", "👻", "💀", "🕷️", "🦂", "🦹"},
		},
	}
	config.Messages.Welcome = "Merge benign tiles up to 128 to win!"
	config.Messages.Victory = "You Win!"
	config.Messages.Defeat = "Game Over"
	config.Messages.NoChange = "Nothing moved"
	return config
}

// Initialize creates a fresh state and spawns the two starting tiles
func Initialize(rng RandomSource) *GameState {
	state := &GameState{
		Grid:    NewGrid(),
		Outcome: OutcomeNone,
	}
	state.SpawnTile(rng)
	state.SpawnTile(rng)
	return state
}

// InitGameStateFromConfig creates a new state labelled with the theme
func InitGameStateFromConfig(config *GameConfig, rng RandomSource) *GameState {
	if config == nil {
		config = DefaultConfig()
	}
	state := Initialize(rng)
	state.ConfigName = config.Name
	state.Message = config.Messages.Welcome
	return state
}

// Move applies one move to an explicit state. It is the functional form of
// GameEngine.Move for callers that own their own state.
func Move(state *GameState, dir Direction, rng RandomSource) (MoveOutcome, error) {
	return state.ApplyMove(dir, rng, nil)
}
