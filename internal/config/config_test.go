package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 40, cfg.Game.StartingHealth)
	assert.Equal(t, 4, cfg.Game.Intellect)
	assert.Equal(t, 1, cfg.Game.ActionPointsPerTurn)
	assert.Equal(t, "gold_fish", cfg.Game.Hero)
	assert.Len(t, cfg.Game.Deck, 12)
	assert.False(t, cfg.Journal.Enabled)
	assert.Equal(t, "replays", cfg.Replay.Dir)
	assert.Equal(t, ":9090", cfg.Metrics.Address)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Game.StartingHealth)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
logging:
  level: debug
  format: json
game:
  starting_health: 20
  seed: 7
  deck: [basic_attack, basic_resource]
journal:
  enabled: true
  path: /tmp/games.db
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("RUSTYCARDS_GAME_INTELLECT", "5")
	t.Setenv("RUSTYCARDS_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level, "environment wins over the file")
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 20, cfg.Game.StartingHealth)
	assert.Equal(t, 5, cfg.Game.Intellect)
	assert.EqualValues(t, 7, cfg.Game.Seed)
	assert.Equal(t, []string{"basic_attack", "basic_resource"}, cfg.Game.Deck)
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, "/tmp/games.db", cfg.Journal.Path)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("load defaults: %v", err)
		}
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"no health", func(c *Config) { c.Game.StartingHealth = 0 }},
		{"negative intellect", func(c *Config) { c.Game.Intellect = -1 }},
		{"negative action points", func(c *Config) { c.Game.ActionPointsPerTurn = -1 }},
		{"journal without path", func(c *Config) { c.Journal.Enabled = true; c.Journal.Path = "" }},
		{"metrics without address", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Address = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, valid().Validate())
}
