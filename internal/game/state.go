package game

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/effects"
	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
	"github.com/TrevorCOConnor/rusty-cards/internal/game/store"
	"github.com/TrevorCOConnor/rusty-cards/internal/metrics"
)

// Status reports whether a game still accepts intents.
type Status int

const (
	StatusRunning Status = iota
	StatusFinished
	StatusFailed
)

var statusNames = map[Status]string{
	StatusRunning:  "RUNNING",
	StatusFinished: "FINISHED",
	StatusFailed:   "FAILED",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS_%d", int(s))
}

// proposal is a play waiting for admission. dirty is set whenever admission
// should evaluate it again.
type proposal struct {
	rules.Proposal
	dirty bool
}

// State is everything one game owns. Systems receive it explicitly; nothing
// about a game lives in package globals.
type State struct {
	ID string

	store    *store.Store
	priority *rules.PriorityTracker
	stack    *rules.ResolutionStack
	staging  *rules.AttackStaging
	chain    *rules.AttackChain
	turn     *rules.TurnState
	gate     *rules.AdmissionGate
	triggers *rules.TriggerManager
	bus      *rules.EventBus
	hooks    *effects.Registry

	logger  *zap.Logger
	metrics *metrics.Engine
	notify  func(GameNotification)
	onTick  func(*State)

	actionPointsPerTurn int

	pending    *proposal
	rejection  error
	tick       int
	damageTick int
	seen       map[string]watermark

	status    Status
	winner    string
	failure   error
	startedAt time.Time

	mu sync.Mutex
}

func newState(id string, hooks *effects.Registry, logger *zap.Logger, m *metrics.Engine) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hooks == nil {
		hooks = effects.NewRegistry()
	}
	return &State{
		ID:                  id,
		store:               store.New(),
		stack:               rules.NewResolutionStack(),
		staging:             rules.NewAttackStaging(),
		chain:               rules.NewAttackChain(),
		turn:                rules.NewTurnState(),
		triggers:            rules.NewTriggerManager(),
		bus:                 rules.NewEventBus(),
		hooks:               hooks,
		logger:              logger.With(zap.String("game_id", id)),
		metrics:             m,
		actionPointsPerTurn: 1,
		seen:                make(map[string]watermark),
		status:              StatusRunning,
		startedAt:           time.Now(),
	}
}

// seat creates the priority tracker over the participants in holding order
// and wires the admission gate to it. It must run before the first tick.
func (s *State) seat(participants []string) {
	s.priority = rules.NewPriorityTracker(participants...)
	s.gate = rules.NewAdmissionGate(s.priority, s.stack, s.staging)
}

// Store returns the game's object store.
func (s *State) Store() *store.Store { return s.store }

// Triggers returns the game's delayed triggers.
func (s *State) Triggers() *rules.TriggerManager { return s.triggers }

// Logger returns the game-scoped logger.
func (s *State) Logger() *zap.Logger { return s.logger }

// Priority returns the game's priority tracker.
func (s *State) Priority() *rules.PriorityTracker { return s.priority }

// Stack returns the game's resolution stack.
func (s *State) Stack() *rules.ResolutionStack { return s.stack }

// Staging returns the game's attack staging slot.
func (s *State) Staging() *rules.AttackStaging { return s.staging }

// Chain returns the game's attack chain.
func (s *State) Chain() *rules.AttackChain { return s.chain }

// Turn returns the game's phase and combat step.
func (s *State) Turn() *rules.TurnState { return s.turn }

// Bus returns the game's event bus.
func (s *State) Bus() *rules.EventBus { return s.bus }

// Status returns whether the game is running.
func (s *State) Status() Status { return s.status }

// Winner returns the surviving hero once the game is finished.
func (s *State) Winner() string { return s.winner }

// Failure returns the invariant violation that failed the game, if any.
func (s *State) Failure() error { return s.failure }

// LoseLife reduces a hero's health and ends the game when it reaches zero.
func (s *State) LoseLife(heroID string, amount int, sourceID string) error {
	hero, err := s.store.Hero(heroID)
	if err != nil {
		return err
	}
	lost := hero.LoseLife(amount)
	if lost == 0 {
		return nil
	}
	s.logger.Info("life lost",
		zap.String("hero", heroID),
		zap.String("source", sourceID),
		zap.Int("amount", lost),
		zap.Int("health", hero.Health),
	)
	s.publish(rules.NewEventWithAmount(rules.EventLifeLost, heroID, sourceID, heroID, lost))
	if hero.Health == 0 {
		s.defeated(heroID)
	}
	return nil
}

// GainActionPoints adds action points to a hero.
func (s *State) GainActionPoints(heroID string, amount int, sourceID string) error {
	hero, err := s.store.Hero(heroID)
	if err != nil {
		return err
	}
	hero.GainActionPoints(amount)
	s.logger.Debug("action points gained",
		zap.String("hero", heroID),
		zap.String("source", sourceID),
		zap.Int("amount", amount),
	)
	return nil
}

// GainResources adds resources to a hero.
func (s *State) GainResources(heroID string, amount int, sourceID string) error {
	hero, err := s.store.Hero(heroID)
	if err != nil {
		return err
	}
	hero.GainResources(amount)
	s.logger.Debug("resources gained",
		zap.String("hero", heroID),
		zap.String("source", sourceID),
		zap.Int("amount", amount),
	)
	return nil
}

var _ effects.Context = (*State)(nil)

// defeated finishes the game. The winner is the only hero left standing, if
// there is exactly one.
func (s *State) defeated(heroID string) {
	if s.status != StatusRunning {
		return
	}
	var standing []string
	for _, hero := range s.store.Heroes() {
		if hero.Health > 0 {
			standing = append(standing, hero.ID)
		}
	}
	if len(standing) == 1 {
		s.winner = standing[0]
	}
	s.status = StatusFinished
	s.metrics.GameEnded(s.status.String())
	s.logger.Info("game over",
		zap.String("defeated", heroID),
		zap.String("winner", s.winner),
	)
	evt := rules.NewEvent(rules.EventGameOver, s.winner, "", heroID)
	s.publish(evt)
	s.emit("GAME_OVER", map[string]interface{}{
		"winner":   s.winner,
		"defeated": heroID,
	})
}

// fail marks the game unusable after an invariant violation.
func (s *State) fail(err error) error {
	if s.status == StatusRunning {
		s.status = StatusFailed
		s.failure = err
		s.metrics.GameEnded(s.status.String())
		s.logger.Error("game failed", zap.Error(err))
		s.emit("GAME_FAILED", map[string]interface{}{"error": err.Error()})
	}
	return fmt.Errorf("%w: %w", ErrGameFailed, err)
}

// publish stamps the event with the game ID, delivers it to subscribers and
// then lets armed triggers react.
func (s *State) publish(evt rules.Event) {
	evt.GameID = s.ID
	s.bus.Publish(evt)
	if _, err := s.triggers.Handle(evt); err != nil {
		s.logger.Warn("trigger failed",
			zap.String("event", string(evt.Type)),
			zap.Error(err),
		)
	}
}

func (s *State) emit(kind string, data map[string]interface{}) {
	if s.notify == nil {
		return
	}
	s.notify(GameNotification{
		Type:      kind,
		GameID:    s.ID,
		Timestamp: time.Now(),
		Data:      data,
	})
}

func (s *State) setPhase(p rules.Phase) {
	from := s.turn.Phase()
	s.turn.SetPhase(p)
	s.logger.Debug("phase changed",
		zap.String("from", from.String()),
		zap.String("phase", p.String()),
	)
	evt := rules.NewEvent(rules.EventPhaseChanged, "", "", "")
	evt.Data = p.String()
	s.publish(evt)
	s.metrics.RecordPhase(p.String())
	s.emit("PHASE_CHANGE", map[string]interface{}{"phase": p.String()})
}

func (s *State) setStep(step rules.CombatStep) {
	from := s.turn.Step()
	s.turn.SetStep(step)
	s.logger.Debug("combat step changed",
		zap.String("from", from.String()),
		zap.String("step", step.String()),
	)
	evt := rules.NewEvent(rules.EventStepChanged, "", "", "")
	evt.Data = step.String()
	s.publish(evt)
	s.metrics.RecordStep(step.String())
	s.emit("STEP_CHANGE", map[string]interface{}{"step": step.String()})
}

// turnPlayer wraps the tracker's fatal error.
func (s *State) turnPlayer() (string, error) {
	p, err := s.priority.TurnPlayer()
	if err != nil {
		return "", rules.Invariant("turn_player", err)
	}
	return p, nil
}

// currentLink wraps the chain's fatal error.
func (s *State) currentLink(op string) (*rules.ChainLink, error) {
	link, err := s.chain.Current()
	if err != nil {
		return nil, rules.Invariant(op, err)
	}
	return link, nil
}

// toGraveyard moves cards to their owners' graveyards. Cards that no longer
// resolve are skipped.
func (s *State) toGraveyard(cardIDs ...string) {
	for _, id := range cardIDs {
		card, err := s.store.Card(id)
		if err != nil {
			continue
		}
		owner, err := s.store.Hero(card.Owner)
		if err != nil {
			continue
		}
		owner.RemoveFromHand(id)
		owner.Graveyard = append(owner.Graveyard, id)
	}
}

// runHook invokes a card hook. Hook failures are logged; a card that cannot
// finish its effect does not stop the game.
func (s *State) runHook(point string, hook effects.Hook, inv effects.Invocation) {
	if hook == nil {
		return
	}
	if err := hook(s, inv); err != nil {
		s.logger.Warn("card hook failed",
			zap.String("hook", point),
			zap.String("source", inv.Source),
			zap.Error(err),
		)
	}
}

func (s *State) hooksFor(cardID string) (effects.Hooks, bool) {
	card, err := s.store.Card(cardID)
	if err != nil {
		return effects.Hooks{}, false
	}
	return s.hooks.Lookup(card.Kind)
}
