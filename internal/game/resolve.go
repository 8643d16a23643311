package game

import (
	"go.uber.org/zap"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/effects"
	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
	"github.com/TrevorCOConnor/rusty-cards/internal/game/store"
)

// resolveStack resolves the top of the stack once everyone has passed, then
// hands priority back in turn order.
func resolveStack(s *State, _ observed) (bool, error) {
	if s.stack.IsEmpty() || !s.priority.AllPassed() {
		return false, nil
	}
	event, ok := s.stack.Pop()
	if !ok {
		return false, nil
	}
	defer s.priority.Reset()

	card, err := s.store.Card(event.Source)
	if err != nil {
		s.logger.Warn("stack item fizzled, source no longer resolves",
			zap.String("source", event.Source),
			zap.Error(err),
		)
		s.publish(rules.NewEvent(rules.EventStackItemFizzled, event.Actor, event.Source, event.Target))
		if event.IsAttack {
			s.abortAttack(event, "attack card does not resolve")
		}
		return true, nil
	}

	s.logger.Info("stack item resolved",
		zap.String("actor", event.Actor),
		zap.String("card", card.ID),
		zap.String("name", card.Name),
	)

	onChain := false
	switch card.Type {
	case store.TypeAttackReaction, store.TypeDefenseReaction:
		link, err := s.currentLink("resolve_stack")
		if err != nil {
			return true, err
		}
		if card.Type == store.TypeAttackReaction {
			link.AttackReactions = append(link.AttackReactions, card.ID)
		} else {
			link.DefenseReactions = append(link.DefenseReactions, card.ID)
		}
		onChain = true
	}

	if hooks, ok := s.hooks.Lookup(card.Kind); ok {
		var link *rules.ChainLink
		if onChain {
			link, _ = s.chain.Current()
		}
		s.runHook("on_play", hooks.OnPlay, effects.Invocation{
			Actor:  event.Actor,
			Source: card.ID,
			Target: event.Target,
			Link:   link,
		})
	}
	if s.status != StatusRunning {
		return true, nil
	}
	if card.GoAgain && card.Type == store.TypeAction {
		s.grantGoAgain(event.Actor, card.ID)
	}
	if !onChain {
		s.toGraveyard(card.ID)
	}
	s.publish(rules.NewEvent(rules.EventStackItemResolved, event.Actor, card.ID, event.Target))
	return true, nil
}
