// Package config loads rustycards settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RUSTYCARDS_LOGGING_LEVEL.
const EnvPrefix = "RUSTYCARDS"

// Config is the full configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Journal JournalConfig `mapstructure:"journal"`
	Replay  ReplayConfig  `mapstructure:"replay"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig holds rule defaults applied to every game.
type GameConfig struct {
	StartingHealth      int      `mapstructure:"starting_health"`
	Intellect           int      `mapstructure:"intellect"`
	ActionPointsPerTurn int      `mapstructure:"action_points_per_turn"`
	Seed                int64    `mapstructure:"seed"`
	Hero                string   `mapstructure:"hero"`
	Deck                []string `mapstructure:"deck"`
}

// CatalogConfig points at a directory of Lua card definitions. Empty uses
// the built-in catalog.
type CatalogConfig struct {
	Dir string `mapstructure:"dir"`
}

// JournalConfig configures the SQLite event journal.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ReplayConfig configures replay recording. An empty Dir keeps replays in
// memory.
type ReplayConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// Load reads path, if it exists, and applies environment overrides on top of
// the defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("game.starting_health", 40)
	v.SetDefault("game.intellect", 4)
	v.SetDefault("game.action_points_per_turn", 1)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.hero", "gold_fish")
	v.SetDefault("game.deck", []string{
		"basic_attack", "basic_attack", "shadow_jab", "barbed_slash",
		"OUT165", "quick_draw", "sink_below", "battle_cry",
		"basic_resource", "basic_resource", "basic_resource", "basic_resource",
	})

	v.SetDefault("catalog.dir", "")

	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.path", "rustycards.db")

	v.SetDefault("replay.enabled", false)
	v.SetDefault("replay.dir", "replays")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.address", ":9090")
}

// Validate rejects settings no game could start with.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	if c.Game.StartingHealth <= 0 {
		return fmt.Errorf("game.starting_health must be positive, got %d", c.Game.StartingHealth)
	}
	if c.Game.Intellect < 0 {
		return fmt.Errorf("game.intellect must not be negative, got %d", c.Game.Intellect)
	}
	if c.Game.ActionPointsPerTurn < 0 {
		return fmt.Errorf("game.action_points_per_turn must not be negative, got %d", c.Game.ActionPointsPerTurn)
	}
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) == "" {
		return errors.New("journal.path is required when the journal is enabled")
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return errors.New("metrics.address is required when metrics are enabled")
	}
	return nil
}
