package game

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNoReplay is returned when a game has no recorded replay.
	ErrNoReplay = errors.New("no replay recorded")
	// ErrCorruptReplay is returned when a saved frame no longer matches its
	// checksum.
	ErrCorruptReplay = errors.New("replay is corrupt")
)

// replayFormat is bumped whenever the file layout changes.
const replayFormat = 2

// Frame is one recorded view and the checksum it had when recorded.
type Frame struct {
	View     *View
	Checksum string
}

// Replay is a recorded game with a cursor for stepping through it. A view
// identical to the previous frame is not recorded again.
type Replay struct {
	GameID  string
	Players []string
	Frames  []Frame

	mu     sync.RWMutex
	cursor int
}

// NewReplay creates an empty replay.
func NewReplay(gameID string, players ...string) *Replay {
	return &Replay{
		GameID:  gameID,
		Players: append([]string(nil), players...),
	}
}

// RecordState appends view and reports whether it differed from the last
// frame.
func (r *Replay) RecordState(view *View) (bool, error) {
	sum, err := view.Checksum()
	if err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.Frames); n > 0 && r.Frames[n-1].Checksum == sum.Hash {
		return false, nil
	}
	r.Frames = append(r.Frames, Frame{View: view, Checksum: sum.Hash})
	return true, nil
}

// Start rewinds the cursor.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor = 0
}

// Next returns the view under the cursor and moves past it, or nil at the end.
func (r *Replay) Next() *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursor >= len(r.Frames) {
		return nil
	}
	r.cursor++
	return r.Frames[r.cursor-1].View
}

// Previous moves the cursor back and returns that view, or nil at the start.
func (r *Replay) Previous() *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursor == 0 {
		return nil
	}
	r.cursor--
	return r.Frames[r.cursor].View
}

// Skip moves the cursor by count, clamped to the recorded frames.
func (r *Replay) Skip(count int) *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Frames) == 0 {
		return nil
	}
	r.cursor = max(0, min(r.cursor+count, len(r.Frames)-1))
	return r.Frames[r.cursor].View
}

// Size returns the number of frames.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Frames)
}

// StateAt returns the view of frame index, or nil when out of range.
func (r *Replay) StateAt(index int) *View {
	if f, ok := r.Frame(index); ok {
		return f.View
	}
	return nil
}

// Frame returns frame index.
func (r *Replay) Frame(index int) (Frame, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.Frames) {
		return Frame{}, false
	}
	return r.Frames[index], true
}

// replayHeader precedes the frames in a saved replay.
type replayHeader struct {
	Format  int
	GameID  string
	Players []string
	SavedAt time.Time
	Frames  int
}

func replayPath(directory, gameID string) string {
	return filepath.Join(directory, gameID+".replay")
}

// SaveToFile writes the replay as gzipped gob frames into directory.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("create replay directory: %w", err)
	}
	path := replayPath(directory, r.GameID)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	gz.Name = r.GameID
	enc := gob.NewEncoder(gz)
	header := replayHeader{
		Format:  replayFormat,
		GameID:  r.GameID,
		Players: r.Players,
		SavedAt: time.Now(),
		Frames:  len(r.Frames),
	}
	if err := enc.Encode(&header); err != nil {
		return fmt.Errorf("encode replay header: %w", err)
	}
	for i := range r.Frames {
		if err := enc.Encode(&r.Frames[i]); err != nil {
			return fmt.Errorf("encode frame %d: %w", i, err)
		}
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile and checks every
// frame against its checksum.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	path := replayPath(directory, gameID)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer gz.Close()

	dec := gob.NewDecoder(gz)
	var header replayHeader
	if err := dec.Decode(&header); err != nil {
		return nil, fmt.Errorf("decode replay header: %w", err)
	}
	if header.Format != replayFormat {
		return nil, fmt.Errorf("%s: unsupported replay format %d", path, header.Format)
	}

	replay := NewReplay(header.GameID, header.Players...)
	replay.Frames = make([]Frame, 0, header.Frames)
	for i := 0; i < header.Frames; i++ {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode frame %d: %w", i, err)
		}
		if f.View == nil {
			return nil, fmt.Errorf("frame %d has no view: %w", i, ErrCorruptReplay)
		}
		ok, err := f.View.VerifyChecksum(&Checksum{Hash: f.Checksum})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("frame %d checksum mismatch: %w", i, ErrCorruptReplay)
		}
		replay.Frames = append(replay.Frames, f)
	}
	return replay, nil
}

// recording is one game's replay and whether frames are still accepted.
type recording struct {
	replay *Replay
	active bool
}

// ReplayRecorder keeps the replays of running games. With an empty directory
// replays stay in memory only.
type ReplayRecorder struct {
	logger *zap.Logger
	dir    string

	mu    sync.RWMutex
	games map[string]*recording
}

// NewReplayRecorder creates a recorder saving into dir.
func NewReplayRecorder(logger *zap.Logger, dir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger: logger,
		dir:    dir,
		games:  make(map[string]*recording),
	}
}

// Directory returns where replays are saved.
func (rr *ReplayRecorder) Directory() string {
	return rr.dir
}

// StartRecording begins a fresh replay of a game seated with players.
func (rr *ReplayRecorder) StartRecording(gameID string, players []string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.games[gameID] = &recording{replay: NewReplay(gameID, players...), active: true}
	rr.logger.Info("replay recording started",
		zap.String("game_id", gameID),
		zap.Strings("players", players),
	)
}

// StopRecording stops accepting frames for a game; the replay is kept.
func (rr *ReplayRecorder) StopRecording(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if rec, ok := rr.games[gameID]; ok {
		rec.active = false
	}
}

// RecordState appends a frame while the game is being recorded.
func (rr *ReplayRecorder) RecordState(gameID string, view *View) {
	rr.mu.RLock()
	rec, ok := rr.games[gameID]
	active := ok && rec.active
	rr.mu.RUnlock()
	if !active {
		return
	}

	added, err := rec.replay.RecordState(view)
	if err != nil {
		rr.logger.Warn("replay frame dropped", zap.String("game_id", gameID), zap.Error(err))
		return
	}
	if added {
		rr.logger.Debug("replay frame recorded",
			zap.String("game_id", gameID),
			zap.Int("tick", view.Tick),
			zap.Int("frames", rec.replay.Size()),
		)
	}
}

// Replay returns a game's replay while the recorder still holds it.
func (rr *ReplayRecorder) Replay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	rec, ok := rr.games[gameID]
	if !ok {
		return nil, false
	}
	return rec.replay, true
}

// IsRecording reports whether a game still accepts frames.
func (rr *ReplayRecorder) IsRecording(gameID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	rec, ok := rr.games[gameID]
	return ok && rec.active
}

// SaveReplay writes a game's replay to the directory and releases it.
// Without a directory nothing is written and the replay stays in memory.
func (rr *ReplayRecorder) SaveReplay(gameID string) error {
	if rr.dir == "" {
		return nil
	}
	rr.mu.Lock()
	rec, ok := rr.games[gameID]
	delete(rr.games, gameID)
	rr.mu.Unlock()
	if !ok {
		return fmt.Errorf("game %s: %w", gameID, ErrNoReplay)
	}

	if err := rec.replay.SaveToFile(rr.dir); err != nil {
		return err
	}
	rr.logger.Info("replay saved",
		zap.String("game_id", gameID),
		zap.Int("frames", rec.replay.Size()),
		zap.String("path", replayPath(rr.dir, gameID)),
	)
	return nil
}

// LoadReplay reads a saved replay from the recorder's directory.
func (rr *ReplayRecorder) LoadReplay(gameID string) (*Replay, error) {
	return LoadReplayFromFile(rr.dir, gameID)
}
