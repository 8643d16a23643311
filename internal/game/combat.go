package game

import (
	"go.uber.org/zap"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/effects"
	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
	"github.com/TrevorCOConnor/rusty-cards/internal/game/store"
	"github.com/TrevorCOConnor/rusty-cards/internal/metrics"
)

// enterLayer moves a freshly staged attack into the Layer step and lets
// players respond. An attack staged in the middle of another attack is
// rejected and thrown away.
func enterLayer(s *State, o observed) (bool, error) {
	if !o.stagingChanged() || !s.staging.Occupied() {
		return false, nil
	}
	step := s.turn.Step()
	if step != rules.StepNone && step != rules.StepLink {
		event, _ := s.staging.Take()
		s.priority.Release()
		s.toGraveyard(event.Source)
		s.metrics.RecordAttack(metrics.AttackRefused)
		s.logger.Warn("attack rejected outside of an open chain link",
			zap.String("attack", event.Source),
			zap.String("step", step.String()),
		)
		s.publish(rules.NewEvent(rules.EventAttackRejected, event.Actor, event.Source, event.Target))
		return true, nil
	}
	s.priority.Release()
	s.setStep(rules.StepLayer)
	return true, nil
}

// enterAttack promotes the staged attack onto the chain once everyone passed
// in the Layer step. An attack whose target is gone is aborted to Close.
func enterAttack(s *State, o observed) (bool, error) {
	if s.turn.Step() != rules.StepLayer {
		return false, nil
	}
	if !o.priorityChanged() || !s.priority.AllPassed() {
		return false, nil
	}
	event, ok := s.staging.Take()
	if !ok {
		s.logger.Warn("layer step closed with nothing staged")
		s.abortAttack(rules.PendingEvent{}, "nothing staged")
		return true, nil
	}
	if !event.HasTarget() || !s.store.Exists(event.Target) {
		s.abortAttack(event, "target does not resolve")
		return true, nil
	}
	if !s.store.Exists(event.Source) {
		s.abortAttack(event, "attack card does not resolve")
		return true, nil
	}

	link := s.chain.OpenLink(event.Target, event.Actor, event.Source)
	s.logger.Info("attack declared",
		zap.String("attacker", event.Actor),
		zap.String("attack", event.Source),
		zap.String("target", event.Target),
		zap.Int("link", s.chain.Len()),
	)
	s.publish(rules.NewEventWithAmount(rules.EventChainLinkOpened, event.Actor, event.Source, event.Target, s.chain.Len()))
	s.publish(rules.NewEvent(rules.EventAttackDeclared, event.Actor, event.Source, event.Target))
	if hooks, ok := s.hooksFor(event.Source); ok {
		s.runHook("on_attack", hooks.OnAttack, effects.Invocation{
			Actor:  event.Actor,
			Source: event.Source,
			Target: event.Target,
			Link:   link,
		})
	}
	s.setStep(rules.StepAttack)
	s.priority.Reset()
	return true, nil
}

// abortAttack sends an attack straight to Close without damage.
func (s *State) abortAttack(event rules.PendingEvent, reason string) {
	s.logger.Warn("attack aborted",
		zap.String("attack", event.Source),
		zap.String("target", event.Target),
		zap.String("reason", reason),
	)
	s.metrics.RecordAttack(metrics.AttackAborted)
	if event.Source != "" {
		s.toGraveyard(event.Source)
	}
	evt := rules.NewEvent(rules.EventAttackAborted, event.Actor, event.Source, event.Target)
	evt.Data = reason
	s.publish(evt)
	s.setStep(rules.StepClose)
}

// enterDefend opens the block window for a hero target by passing priority
// around until the defender is at the head. Other targets get no window.
func enterDefend(s *State, o observed) (bool, error) {
	if s.turn.Step() != rules.StepAttack || !s.stack.IsEmpty() {
		return false, nil
	}
	if !o.priorityChanged() || !s.priority.AllPassed() {
		return false, nil
	}
	link, err := s.currentLink("defend_step")
	if err != nil {
		return true, err
	}
	s.priority.SetBlocksOnly(true)
	s.setStep(rules.StepDefend)

	if s.store.KindOf(link.Target) != store.KindHero {
		s.logger.Debug("no block window, target is not a hero", zap.String("target", link.Target))
		return true, nil
	}
	s.priority.Reset()
	for {
		holder, ok := s.priority.PriorityHolder()
		if !ok || holder == link.Target {
			break
		}
		if err := s.priority.Pass(holder); err != nil {
			return true, rules.Invariant("defend_step", err)
		}
	}
	return true, nil
}

// blocksDeclared closes the block window once the defender has declared.
func blocksDeclared(s *State, o observed) (bool, error) {
	if s.turn.Step() != rules.StepDefend || !s.priority.BlocksOnly() {
		return false, nil
	}
	if !o.priorityChanged() || !s.priority.AllPassed() {
		return false, nil
	}
	s.priority.SetBlocksOnly(false)
	s.priority.Reset()
	return true, nil
}

// enterReaction opens the reaction step after the block window.
func enterReaction(s *State, o observed) (bool, error) {
	if s.turn.Step() != rules.StepDefend || !s.stack.IsEmpty() {
		return false, nil
	}
	if !o.priorityChanged() || !s.priority.AllPassed() {
		return false, nil
	}
	s.setStep(rules.StepReaction)
	s.priority.Reset()
	return true, nil
}

// enterDamage compares the attack against blocks and defense reactions. The
// attack hits when its power is at least the total defense.
func enterDamage(s *State, o observed) (bool, error) {
	if s.turn.Step() != rules.StepReaction || !s.stack.IsEmpty() {
		return false, nil
	}
	if !o.priorityChanged() || !s.priority.AllPassed() {
		return false, nil
	}
	link, err := s.currentLink("damage_step")
	if err != nil {
		return true, err
	}
	s.priority.Hold()

	attack, err := s.store.Card(link.Attack)
	if err != nil {
		s.closeLink(link)
		s.priority.Release()
		s.abortAttack(rules.PendingEvent{Actor: link.Attacker, Source: link.Attack, Target: link.Target}, "attack card does not resolve")
		return true, nil
	}
	if !s.store.Exists(link.Target) {
		s.closeLink(link)
		s.priority.Release()
		s.abortAttack(rules.PendingEvent{Actor: link.Attacker, Source: link.Attack, Target: link.Target}, "target does not resolve")
		return true, nil
	}

	power := attack.Power() + s.sumStat(link.AttackReactions, (*store.Card).Power)
	defense := s.sumStat(link.Blocks, (*store.Card).DefenseValue) + s.sumStat(link.DefenseReactions, (*store.Card).DefenseValue)

	s.setStep(rules.StepDamage)
	s.damageTick = s.tick

	if power < defense {
		s.metrics.RecordAttack(metrics.AttackBlocked)
		s.logger.Info("attack blocked",
			zap.String("attack", link.Attack),
			zap.Int("power", power),
			zap.Int("defense", defense),
		)
		return true, nil
	}

	link.Hit = true
	link.Damage = power - defense
	s.metrics.RecordAttack(metrics.AttackHit)
	s.logger.Info("attack hit",
		zap.String("attack", link.Attack),
		zap.String("target", link.Target),
		zap.Int("power", power),
		zap.Int("defense", defense),
		zap.Int("damage", link.Damage),
	)
	s.publish(rules.NewEventWithAmount(rules.EventHit, link.Attacker, link.Attack, link.Target, link.Damage))

	if s.store.KindOf(link.Target) == store.KindHero && link.Damage > 0 {
		s.publish(rules.NewEventWithAmount(rules.EventDamageDealt, link.Attacker, link.Attack, link.Target, link.Damage))
		s.metrics.RecordDamage(link.Damage)
		if err := s.LoseLife(link.Target, link.Damage, link.Attack); err != nil {
			s.logger.Warn("damage not applied", zap.String("target", link.Target), zap.Error(err))
		}
	}
	if s.status != StatusRunning {
		return true, nil
	}
	if hooks, ok := s.hooksFor(link.Attack); ok {
		s.runHook("on_hit", hooks.OnHit, effects.Invocation{
			Actor:  link.Attacker,
			Source: link.Attack,
			Target: link.Target,
			Link:   link,
		})
	}
	return true, nil
}

// sumStat totals a stat over cards that still resolve.
func (s *State) sumStat(ids []string, stat func(*store.Card) int) int {
	total := 0
	for _, id := range ids {
		card, err := s.store.Card(id)
		if err != nil {
			s.logger.Debug("skipping card that no longer resolves", zap.String("card", id))
			continue
		}
		total += stat(card)
	}
	return total
}

// enterResolution closes the link on the tick after damage.
func enterResolution(s *State, _ observed) (bool, error) {
	if s.turn.Step() != rules.StepDamage || s.tick <= s.damageTick {
		return false, nil
	}
	link, err := s.currentLink("resolution_step")
	if err != nil {
		return true, err
	}
	s.closeLink(link)
	s.setStep(rules.StepResolution)
	s.priority.Reset()
	s.priority.Release()
	return true, nil
}

// closeLink marks the link closed and moves every card on it to the
// graveyard.
func (s *State) closeLink(link *rules.ChainLink) {
	if link.Closed {
		return
	}
	link.Closed = true
	cards := append([]string{link.Attack}, link.Blocks...)
	cards = append(cards, link.AttackReactions...)
	cards = append(cards, link.DefenseReactions...)
	s.toGraveyard(cards...)
	s.publish(rules.NewEventWithAmount(rules.EventChainLinkClosed, link.Attacker, link.Attack, link.Target, link.Damage))
}

// enterLink resolves go again and opens the window for another attack.
func enterLink(s *State, o observed) (bool, error) {
	if s.turn.Step() != rules.StepResolution || !s.stack.IsEmpty() {
		return false, nil
	}
	if !o.priorityChanged() || !s.priority.AllPassed() {
		return false, nil
	}
	link, err := s.currentLink("link_step")
	if err != nil {
		return true, err
	}
	if card, err := s.store.Card(link.Attack); err == nil && card.GoAgain {
		s.grantGoAgain(link.Attacker, card.ID)
	}
	s.setStep(rules.StepLink)
	s.priority.Reset()
	return true, nil
}

func (s *State) grantGoAgain(heroID, source string) {
	if err := s.GainActionPoints(heroID, 1, source); err != nil {
		s.logger.Warn("go again lost", zap.String("hero", heroID), zap.Error(err))
		return
	}
	s.publish(rules.NewEventWithAmount(rules.EventGoAgain, heroID, source, "", 1))
}

// enterClose ends the chain when nobody continues it.
func enterClose(s *State, o observed) (bool, error) {
	if s.turn.Step() != rules.StepLink || !s.stack.IsEmpty() {
		return false, nil
	}
	if !o.priorityChanged() || !s.priority.AllPassed() {
		return false, nil
	}
	s.setStep(rules.StepClose)
	s.priority.Reset()
	return true, nil
}
