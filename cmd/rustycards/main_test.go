package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/TrevorCOConnor/rusty-cards/internal/config"
	"github.com/TrevorCOConnor/rusty-cards/internal/game"
	"github.com/TrevorCOConnor/rusty-cards/internal/journal"
)

func TestInitLogger(t *testing.T) {
	logger, err := initLogger(config.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = initLogger(config.LoggingConfig{Level: "bogus", Format: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestPlayRecordsJournalAndReplay(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Game.StartingHealth = 3
	cfg.Journal.Enabled = true
	cfg.Journal.Path = filepath.Join(dir, "journal.db")
	cfg.Replay.Enabled = true
	cfg.Replay.Dir = dir

	playGameID = "scripted"
	playFirst = "alice"
	t.Cleanup(func() { playGameID, playFirst = "", "" })

	script := strings.Join([]string{
		`alice play "Shadow Jab" bob`,
		"alice pass", "bob pass",
		"alice pass", "bob pass",
		"bob block",
		"alice pass", "bob pass",
		"alice pass", "bob pass",
	}, "\n")
	var out bytes.Buffer
	require.NoError(t, play(context.Background(), cfg, zaptest.NewLogger(t), strings.NewReader(script), &out))
	assert.Contains(t, out.String(), "game scripted: alice goes first")
	assert.Contains(t, out.String(), "winner=alice")

	replay, err := game.LoadReplayFromFile(dir, "scripted")
	require.NoError(t, err)
	last := replay.StateAt(replay.Size() - 1)
	require.NotNil(t, last)
	assert.Equal(t, "alice", last.Winner)

	store, err := journal.NewStore(cfg.Journal.Path)
	require.NoError(t, err)
	defer store.Close()
	games, err := store.Games(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "scripted", games[0].GameID)
	assert.Equal(t, "alice", games[0].Winner)
}

func TestCatalogCommand(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "absent.yaml")
	t.Cleanup(func() { configPath = "config.yaml" })

	var out bytes.Buffer
	catalogCmd.SetOut(&out)
	require.NoError(t, catalogCmd.RunE(catalogCmd, nil))
	assert.Contains(t, out.String(), "gold_fish")
	assert.Contains(t, out.String(), "Toxicity")
	assert.Regexp(t, `OUT165\s+Toxicity.*hooks`, out.String())
}
