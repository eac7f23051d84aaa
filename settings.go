package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings is the process configuration read from the environment. Command
// line flags take their defaults from here and win when given.
type Settings struct {
	Port      int    `env:"PORT"       envDefault:"8080"`
	Host      string `env:"HOST"       envDefault:"localhost"`
	ConfigDir string `env:"CONFIG_DIR" envDefault:"configs"`
	Debug     bool   `env:"DEBUG"`

	// DefaultTheme names the theme for sessions created without one; empty
	// keeps the config manager's own pick
	DefaultTheme string `env:"DEFAULT_THEME"`

	// Sessions idle longer than SessionTTL are dropped every CleanupInterval
	SessionTTL      time.Duration `env:"SESSION_TTL"              envDefault:"24h"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`

	// APIURL is the server stdio-mcp tries before starting its own
	APIURL string `env:"FACTIONMERGE_API_URL" envDefault:"http://localhost:8080"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokAuthAlt   string `env:"NGROK_AUTH_TOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

// loadDotEnv reads .env into the environment when present
func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
		return
	}
	log.Println("Loaded environment variables from .env file")
}

// loadSettings parses Settings from the current environment
func loadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.NgrokAuthToken == "" {
		s.NgrokAuthToken = s.NgrokAuthAlt
	}
	if s.Port <= 0 || s.Port > 65535 {
		return Settings{}, fmt.Errorf("parse env: PORT %d out of range", s.Port)
	}
	return s, nil
}
