// Package game runs priority and combat for trading-card games. Each game is
// a State driven by intents; every intent is followed by ticks of guarded
// systems until nothing fires.
package game

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TrevorCOConnor/rusty-cards/internal/catalog"
	"github.com/TrevorCOConnor/rusty-cards/internal/game/effects"
	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
	"github.com/TrevorCOConnor/rusty-cards/internal/metrics"
)

// GameNotification is a coarse update for observers outside the engine.
type GameNotification struct {
	Type      string
	GameID    string
	PlayerID  string
	Timestamp time.Time
	Data      map[string]interface{}
}

// NotificationHandler receives game notifications.
type NotificationHandler func(notification GameNotification)

// EventRecorder persists rules events, e.g. to a journal.
type EventRecorder interface {
	Record(ctx context.Context, evt rules.Event) error
}

// Engine hosts running games.
type Engine struct {
	logger   *zap.Logger
	catalog  *catalog.Catalog
	hooks    *effects.Registry
	metrics  *metrics.Engine
	journal  EventRecorder
	replays  *ReplayRecorder
	defaults Options

	mu                  sync.RWMutex
	games               map[string]*State
	notificationHandler NotificationHandler
}

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog uses cat instead of the built-in catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(e *Engine) { e.catalog = cat }
}

// WithMetrics records engine metrics.
func WithMetrics(m *metrics.Engine) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithJournal persists every event of every game.
func WithJournal(j EventRecorder) Option {
	return func(e *Engine) { e.journal = j }
}

// WithReplayRecorder records a view after every tick that changed something.
func WithReplayRecorder(rr *ReplayRecorder) Option {
	return func(e *Engine) { e.replays = rr }
}

// WithDefaults sets the options used where a game leaves them zero.
func WithDefaults(opts Options) Option {
	return func(e *Engine) { e.defaults = opts }
}

// NewEngine creates an engine. Without WithCatalog the built-in catalog is
// loaded.
func NewEngine(logger *zap.Logger, opts ...Option) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger: logger,
		games:  make(map[string]*State),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		cat, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("load default catalog: %w", err)
		}
		e.catalog = cat
	}
	e.hooks = effects.NewDefaultRegistry(e.catalog)
	return e, nil
}

// Catalog returns the definitions games are built from.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// SetNotificationHandler sets the handler for game notifications.
func (e *Engine) SetNotificationHandler(handler NotificationHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notificationHandler = handler
}

// emitNotification hands the notification to the handler on its own
// goroutine; the handler may call back into the engine.
func (e *Engine) emitNotification(notification GameNotification) {
	e.mu.RLock()
	handler := e.notificationHandler
	e.mu.RUnlock()

	if handler != nil {
		go handler(notification)
	}
}

// StartGame seats the players, rolls for first and advances the new game to
// the first decision. An empty gameID is replaced by a generated one.
func (e *Engine) StartGame(gameID string, players []PlayerSetup, opts Options) (*View, error) {
	if gameID == "" {
		gameID = uuid.NewString()
	}
	opts = opts.merge(e.defaults)

	e.mu.Lock()
	if _, exists := e.games[gameID]; exists {
		e.mu.Unlock()
		return nil, fmt.Errorf("game %s: %w", gameID, ErrGameExists)
	}
	s := newState(gameID, e.hooks, e.logger, e.metrics)
	e.games[gameID] = s
	e.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	view, err := e.setup(s, players, opts)
	if err != nil {
		e.mu.Lock()
		delete(e.games, gameID)
		e.mu.Unlock()
		return nil, err
	}

	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	e.logger.Info("game started",
		zap.String("game_id", gameID),
		zap.Strings("players", names),
		zap.String("first_player", view.TurnPlayer),
	)
	e.emitNotification(GameNotification{
		Type:      "GAME_STATE_CHANGE",
		GameID:    gameID,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"state":   "started",
			"players": names,
		},
	})
	return view, nil
}

func (e *Engine) setup(s *State, players []PlayerSetup, opts Options) (*View, error) {
	s.notify = e.emitNotification
	s.actionPointsPerTurn = opts.ActionPointsPerTurn

	if e.journal != nil {
		s.bus.Subscribe(func(evt rules.Event) {
			if err := e.journal.Record(context.Background(), evt); err != nil {
				s.logger.Warn("journal write failed",
					zap.String("event", string(evt.Type)),
					zap.Error(err),
				)
			}
		})
	}

	seats, err := populate(s.store, e.catalog, players, opts)
	if err != nil {
		return nil, err
	}
	first, err := s.rollForFirst(seats, opts)
	if err != nil {
		return nil, err
	}
	s.publish(rules.NewEvent(rules.EventFirstPlayer, seats[first], "", ""))
	s.seat(seatOrder(seats, first))

	if e.replays != nil {
		e.replays.StartRecording(s.ID, seats)
		s.onTick = func(st *State) {
			e.replays.RecordState(st.ID, st.view())
		}
	}

	e.metrics.GameStarted()
	if err := s.advance(); err != nil {
		return nil, err
	}
	return s.view(), nil
}

func (e *Engine) game(gameID string) (*State, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
	}
	return s, nil
}

// Submit validates and applies one intent, then advances the game until it
// waits for input again. Illegal intents change nothing. A play refused by
// admission is reported after the engine settles.
func (e *Engine) Submit(gameID string, intent Intent) error {
	s, err := e.game(gameID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case StatusFinished:
		return ErrGameOver
	case StatusFailed:
		return fmt.Errorf("%w: %w", ErrGameFailed, s.failure)
	}

	kind := string(intent.Kind)
	s.rejection = nil
	if result := s.check(intent); !result.Legal {
		e.metrics.RecordIntent(kind, metrics.OutcomeRejected)
		s.logger.Info("intent rejected",
			zap.String("intent", intent.String()),
			zap.String("reason", result.Reason),
			zap.Error(result.Err),
		)
		return fmt.Errorf("%s: %w", intent, result.AsError())
	}
	e.metrics.RecordIntent(kind, metrics.OutcomeAccepted)

	if err := s.apply(intent); err != nil {
		if IsRejection(err) {
			return err
		}
		return s.fail(err)
	}
	if err := s.advance(); err != nil {
		return err
	}
	return s.rejection
}

// View returns a snapshot of a game.
func (e *Engine) View(gameID string) (*View, error) {
	s, err := e.game(gameID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

// Subscribe registers a listener on a game's event bus. Listeners run
// synchronously while the game is locked and must not call back into the
// engine.
func (e *Engine) Subscribe(gameID string, listener rules.Listener) (int, error) {
	s, err := e.game(gameID)
	if err != nil {
		return -1, err
	}
	return s.bus.Subscribe(listener), nil
}

// Resolve turns a player-typed token into an object ID. Card names prefer the
// owner's hand, so "alice play Basic Attack" picks a copy alice can play.
func (e *Engine) Resolve(gameID, token, owner string) (string, error) {
	s, err := e.game(gameID)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner != "" && !s.store.Exists(token) {
		if hero, err := s.store.Hero(owner); err == nil {
			for _, id := range hero.Hand {
				card, err := s.store.Card(id)
				if err == nil && strings.EqualFold(card.Name, token) {
					return id, nil
				}
			}
		}
	}
	return s.store.Resolve(token, owner)
}

// RemoveCard takes a card out of a running game, as when the object store
// drops it. References the rules still hold stop resolving; an attack or
// stack item built on it aborts when next examined.
func (e *Engine) RemoveCard(gameID, cardID string) error {
	s, err := e.game(gameID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case StatusFinished:
		return ErrGameOver
	case StatusFailed:
		return fmt.Errorf("%w: %w", ErrGameFailed, s.failure)
	}

	card, err := s.store.Card(cardID)
	if err != nil {
		return err
	}
	if owner, err := s.store.Hero(card.Owner); err == nil {
		owner.Forget(card.ID)
	}
	s.store.Remove(card.ID)
	s.logger.Info("card removed",
		zap.String("card", card.ID),
		zap.String("name", card.Name),
		zap.String("owner", card.Owner),
	)
	s.publish(rules.NewEvent(rules.EventCardRemoved, card.Owner, card.ID, ""))
	return nil
}

// EndGame removes a game. Its replay, if recorded, is saved.
func (e *Engine) EndGame(gameID string) error {
	e.mu.Lock()
	s, ok := e.games[gameID]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
	}
	delete(e.games, gameID)
	e.mu.Unlock()

	s.mu.Lock()
	if s.status == StatusRunning {
		s.status = StatusFinished
		e.metrics.GameEnded("ABANDONED")
	}
	s.mu.Unlock()

	e.logger.Info("game ended",
		zap.String("game_id", gameID),
		zap.String("winner", s.winner),
	)

	if e.replays != nil && e.replays.IsRecording(gameID) {
		e.replays.StopRecording(gameID)
		if e.replays.Directory() == "" {
			return nil
		}
		if err := e.replays.SaveReplay(gameID); err != nil {
			return fmt.Errorf("save replay: %w", err)
		}
	}
	return nil
}

// Games lists the running game IDs in sorted order.
func (e *Engine) Games() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.games))
	for id := range e.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
