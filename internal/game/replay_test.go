package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestReplayCursor(t *testing.T) {
	replay := NewReplay("game-1")
	assert.Nil(t, replay.Skip(1))
	for turn := 1; turn <= 3; turn++ {
		replay.RecordState(&View{GameID: "game-1", Turn: turn})
	}
	require.Equal(t, 3, replay.Size())

	assert.Equal(t, 1, replay.Next().Turn)
	assert.Equal(t, 2, replay.Next().Turn)
	assert.Equal(t, 2, replay.Previous().Turn)
	assert.Equal(t, 3, replay.Skip(10).Turn)
	assert.Equal(t, 1, replay.Skip(-10).Turn)

	replay.Start()
	assert.Nil(t, replay.Previous())
	assert.Equal(t, 2, replay.StateAt(1).Turn)
	assert.Nil(t, replay.StateAt(3))
}

func TestReplayRecordsGame(t *testing.T) {
	dir := t.TempDir()
	recorder := NewReplayRecorder(zaptest.NewLogger(t), dir)
	h := newHarness(t, aliceHand, bobHand, Options{}, WithReplayRecorder(recorder))
	require.True(t, recorder.IsRecording(h.gameID))

	h.attack("Basic Attack", "Basic Resource")
	h.mustSubmit(DeclareBlocks("bob"))
	h.toResolution()

	replay, ok := recorder.Replay(h.gameID)
	require.True(t, ok)
	recorded := replay.Size()
	require.Greater(t, recorded, 5)

	current, err := h.view().Checksum()
	require.NoError(t, err)
	last, err := replay.StateAt(recorded - 1).Checksum()
	require.NoError(t, err)
	assert.Equal(t, current.Hash, last.Hash, "the last recorded view is the settled state")

	require.NoError(t, h.engine.EndGame(h.gameID))
	assert.False(t, recorder.IsRecording(h.gameID))

	loaded, err := LoadReplayFromFile(dir, h.gameID)
	require.NoError(t, err)
	assert.Equal(t, h.gameID, loaded.GameID)
	assert.Equal(t, []string{"alice", "bob"}, loaded.Players)
	require.Equal(t, recorded, loaded.Size())

	ok, err = loaded.StateAt(recorded - 1).VerifyChecksum(current)
	require.NoError(t, err)
	assert.True(t, ok)

	again, err := recorder.LoadReplay(h.gameID)
	require.NoError(t, err)
	assert.Equal(t, recorded, again.Size())
}

func TestReplayWithoutDirectoryStaysInMemory(t *testing.T) {
	recorder := NewReplayRecorder(zaptest.NewLogger(t), "")
	h := newHarness(t, aliceHand, bobHand, Options{}, WithReplayRecorder(recorder))

	require.NoError(t, h.engine.EndGame(h.gameID))
	replay, ok := recorder.Replay(h.gameID)
	require.True(t, ok)
	assert.Greater(t, replay.Size(), 0)
}

func TestReplaySkipsUnchangedViews(t *testing.T) {
	replay := NewReplay("game-1")
	added, err := replay.RecordState(&View{GameID: "game-1", Turn: 1, Tick: 1})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = replay.RecordState(&View{GameID: "game-1", Turn: 1, Tick: 2})
	require.NoError(t, err)
	assert.False(t, added, "the tick counter alone is not a change")
	assert.Equal(t, 1, replay.Size())
}

func TestLoadCorruptReplay(t *testing.T) {
	dir := t.TempDir()
	replay := NewReplay("tampered", "alice", "bob")
	_, err := replay.RecordState(&View{GameID: "tampered", Turn: 1})
	require.NoError(t, err)
	replay.Frames[0].View.Turn = 2
	require.NoError(t, replay.SaveToFile(dir))

	_, err = LoadReplayFromFile(dir, "tampered")
	assert.ErrorIs(t, err, ErrCorruptReplay)
}

func TestLoadMissingReplay(t *testing.T) {
	_, err := LoadReplayFromFile(t.TempDir(), "missing")
	assert.Error(t, err)
}
