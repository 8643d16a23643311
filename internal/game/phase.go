package game

import (
	"go.uber.org/zap"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
)

// startStartPhase begins a new turn.
func startStartPhase(s *State, o observed) (bool, error) {
	if !o.phaseChanged() || s.turn.Phase() != rules.PhaseStart {
		return false, nil
	}
	turn := s.turn.BeginTurn()
	s.logger.Info("turn begins", zap.Int("turn", turn))
	return true, nil
}

// endStartPhase leaves the upkeep phase once the stack is empty. No priority
// passing happens in Start.
func endStartPhase(s *State, _ observed) (bool, error) {
	if s.turn.Phase() != rules.PhaseStart || !s.stack.IsEmpty() {
		return false, nil
	}
	s.setPhase(rules.PhaseAction)
	return true, nil
}

// startActionPhase hands the turn to the next participant and grants their
// action points.
func startActionPhase(s *State, o observed) (bool, error) {
	if !o.phaseChanged() || s.turn.Phase() != rules.PhaseAction {
		return false, nil
	}
	s.priority.Cycle()
	turnPlayer, err := s.turnPlayer()
	if err != nil {
		return true, err
	}
	if hero, err := s.store.Hero(turnPlayer); err != nil {
		s.logger.Warn("turn player no longer exists", zap.String("hero", turnPlayer), zap.Error(err))
	} else {
		hero.SetActionPoints(s.actionPointsPerTurn)
	}
	s.logger.Info("action phase",
		zap.Int("turn", s.turn.Turn()),
		zap.String("turn_player", turnPlayer),
	)
	s.publish(rules.NewEventWithAmount(rules.EventTurnStarted, turnPlayer, "", "", s.turn.Turn()))
	return true, nil
}

// triggerEndPhase is the normal exit after an attack: the chain reached Close,
// the stack is empty and everyone just passed.
func triggerEndPhase(s *State, o observed) (bool, error) {
	if s.turn.Step() != rules.StepClose || !s.stack.IsEmpty() {
		return false, nil
	}
	if !o.priorityChanged() || !s.priority.AllPassed() {
		return false, nil
	}
	if err := s.leaveActionPhase(); err != nil {
		return true, err
	}
	return true, nil
}

// endActionPhase ends a turn in which nothing is left in flight and everyone
// just passed.
func endActionPhase(s *State, o observed) (bool, error) {
	if s.turn.Phase() != rules.PhaseAction {
		return false, nil
	}
	if !s.stack.IsEmpty() || s.staging.Occupied() || s.chain.Open() {
		return false, nil
	}
	if !o.priorityChanged() || !s.priority.AllPassed() {
		return false, nil
	}
	if err := s.leaveActionPhase(); err != nil {
		return true, err
	}
	return true, nil
}

func (s *State) leaveActionPhase() error {
	turnPlayer, err := s.turnPlayer()
	if err != nil {
		return err
	}
	if hero, err := s.store.Hero(turnPlayer); err == nil {
		hero.SetActionPoints(0)
	}
	if s.turn.Step() != rules.StepNone {
		s.setStep(rules.StepNone)
	}
	s.setPhase(rules.PhaseEnd)
	return nil
}

// startEndPhase wraps up the turn: the chain is resolved, end-of-turn effects
// expire, pitched cards go to the bottom of their decks and the turn player
// draws back up to intellect.
func startEndPhase(s *State, o observed) (bool, error) {
	if !o.phaseChanged() || s.turn.Phase() != rules.PhaseEnd {
		return false, nil
	}
	s.chain.Clear()
	if expired := s.triggers.ExpireEndOfTurn(); len(expired) > 0 {
		s.logger.Debug("end of turn triggers expired", zap.Int("count", len(expired)))
	}

	for _, hero := range s.store.Heroes() {
		if len(hero.Pitch) == 0 {
			continue
		}
		returned := len(hero.Pitch)
		hero.Deck = append(hero.Deck, hero.Pitch...)
		hero.Pitch = nil
		s.publish(rules.NewEventWithAmount(rules.EventPitchReturned, hero.ID, "", "", returned))
	}

	turnPlayer, err := s.turnPlayer()
	if err != nil {
		return true, err
	}
	hero, err := s.store.Hero(turnPlayer)
	if err != nil {
		s.logger.Warn("turn player no longer exists", zap.String("hero", turnPlayer), zap.Error(err))
		return true, nil
	}
	for _, id := range hero.Draw(hero.Intellect - len(hero.Hand)) {
		s.publish(rules.NewEvent(rules.EventCardDrawn, hero.ID, id, ""))
	}
	return true, nil
}

// endEndPhase empties the turn player's resource pool and returns to Start
// once the stack is empty.
func endEndPhase(s *State, _ observed) (bool, error) {
	if s.turn.Phase() != rules.PhaseEnd || !s.stack.IsEmpty() {
		return false, nil
	}
	turnPlayer, err := s.turnPlayer()
	if err != nil {
		return true, err
	}
	if hero, err := s.store.Hero(turnPlayer); err == nil {
		hero.SetResources(0)
	}
	s.setPhase(rules.PhaseStart)
	return true, nil
}
