// Package config defines the server configuration and how it is loaded.
package config

import (
	"log/slog"
	"strings"
	"time"
)

// SeedPlayer is one entry of the roster a new board starts with
type SeedPlayer struct {
	Name  string `koanf:"name"`
	Score int    `koanf:"score"`
}

// Config contains process configuration
type Config struct {
	// Host and Port configure the HTTP listen address
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// LogLevel controls verbosity: debug, info, warn, error
	LogLevel string `koanf:"log_level"`

	// TickInterval is how often a running stopwatch is advanced
	TickInterval time.Duration `koanf:"tick_interval"`

	// BoardIdleTimeout is how long a board may go without activity before
	// the janitor removes it
	BoardIdleTimeout time.Duration `koanf:"board_idle_timeout"`

	// JanitorInterval is how often idle boards and empty SSE hubs are cleaned up
	JanitorInterval time.Duration `koanf:"janitor_interval"`

	// AllowBlankNames accepts whitespace-only player names
	AllowBlankNames bool `koanf:"allow_blank_names"`

	// SeedPlayers is the roster every new board starts with
	SeedPlayers []SeedPlayer `koanf:"seed_players"`

	// StaticDir is served under /static/ when set
	StaticDir string `koanf:"static_dir"`

	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New returns a Config holding the defaults
func New() *Config {
	return &Config{
		Host:             "",
		Port:             8080,
		LogLevel:         "info",
		TickInterval:     100 * time.Millisecond,
		BoardIdleTimeout: 2 * time.Hour,
		JanitorInterval:  time.Minute,
		AllowBlankNames:  false,
		SeedPlayers: []SeedPlayer{
			{Name: "Jim Hoskins", Score: 31},
			{Name: "Andrew Chalkley", Score: 20},
			{Name: "Alena Holligan", Score: 50},
		},
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// SlogLevel maps LogLevel onto a slog level. Unknown values are rejected by
// Validate, so they never reach here from Load.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return invalid("port must be between 1 and 65535, got %d", c.Port)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("unknown log_level %q", c.LogLevel)
	}
	if c.TickInterval <= 0 {
		return invalid("tick_interval must be positive")
	}
	if c.BoardIdleTimeout <= 0 {
		return invalid("board_idle_timeout must be positive")
	}
	if c.JanitorInterval <= 0 {
		return invalid("janitor_interval must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return invalid("shutdown_timeout must be positive")
	}
	for i, sp := range c.SeedPlayers {
		if strings.TrimSpace(sp.Name) == "" && !c.AllowBlankNames {
			return invalid("seed_players[%d] has a blank name", i)
		}
	}
	return nil
}
