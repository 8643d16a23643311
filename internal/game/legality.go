package game

import (
	"errors"
	"fmt"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
	"github.com/TrevorCOConnor/rusty-cards/internal/game/store"
)

// CheckPlay validates a play against priority, the card and the current
// phase and combat step. Affordability is left to admission.
func (s *State) CheckPlay(actor, source, target string) LegalityResult {
	if s.priority.Held() {
		return gameHolds("play", actor)
	}
	if !s.priority.HasPriority(actor) {
		return illegal(rules.ErrNotPriorityHolder, "play", map[string]string{
			"actor": actor,
		})
	}
	card, err := s.store.Card(source)
	if err != nil {
		return illegal(err, "play", map[string]string{"source": source})
	}
	if card.Owner != actor {
		return illegal(ErrNotPlayable, "card belongs to another hero", map[string]string{
			"source": source,
			"owner":  card.Owner,
		})
	}
	hero, err := s.store.Hero(actor)
	if err != nil {
		return illegal(err, "play", map[string]string{"actor": actor})
	}
	if !hero.InHand(card.ID) {
		return illegal(ErrNotInHand, "play", map[string]string{"source": source})
	}
	if !card.Type.Playable() {
		return illegal(ErrNotPlayable, fmt.Sprintf("%s cards are not played", card.Type), map[string]string{
			"source": source,
		})
	}
	if card.IsAttack() && target == "" {
		return illegal(ErrTargetRequired, "play", map[string]string{"source": source})
	}
	if result := s.checkTiming(actor, card); !result.Legal {
		return result
	}
	return legal()
}

// checkTiming decides whether the card's type may be played right now.
func (s *State) checkTiming(actor string, card *store.Card) LegalityResult {
	phase := s.turn.Phase()
	step := s.turn.Step()
	details := map[string]string{
		"source": card.ID,
		"type":   string(card.Type),
		"phase":  phase.String(),
		"step":   step.String(),
	}
	if phase != rules.PhaseAction {
		return illegal(ErrNotPlayable, "only the action phase allows plays", details)
	}

	switch card.Type {
	case store.TypeAction:
		turnPlayer, err := s.priority.TurnPlayer()
		if err != nil || turnPlayer != actor {
			return illegal(ErrNotPlayable, "action cards are played on your own turn", details)
		}
		if !s.stack.IsEmpty() || s.staging.Occupied() {
			return illegal(ErrNotPlayable, "action cards need an empty stack", details)
		}
		if step != rules.StepNone && step != rules.StepLink {
			return illegal(ErrNotPlayable, "action cards cannot be played during an attack", details)
		}
	case store.TypeAttackReaction, store.TypeDefenseReaction:
		if step != rules.StepReaction {
			return illegal(ErrNotPlayable, "reactions are played in the reaction step", details)
		}
		link, err := s.chain.Current()
		if err != nil {
			return illegal(ErrNotPlayable, "no attack to react to", details)
		}
		attacking := link.Attacker == actor
		if card.Type == store.TypeAttackReaction && !attacking {
			return illegal(ErrNotPlayable, "only the attacker plays attack reactions", details)
		}
		if card.Type == store.TypeDefenseReaction && attacking {
			return illegal(ErrNotPlayable, "the attacker cannot play defense reactions", details)
		}
	}
	return legal()
}

// CheckPass validates a pass. The defender must declare blocks, possibly
// none, instead of passing a block window.
func (s *State) CheckPass(actor string) LegalityResult {
	if s.priority.Held() {
		return gameHolds("pass", actor)
	}
	if s.priority.IsDeclaringBlocks(actor) {
		return illegal(rules.ErrNotPriorityHolder, "declare blocks instead of passing", map[string]string{
			"actor": actor,
		})
	}
	if !s.priority.HasPriority(actor) {
		return illegal(rules.ErrNotPriorityHolder, "pass", map[string]string{"actor": actor})
	}
	return legal()
}

// CheckPitch validates pitching a card towards the actor's pending play.
func (s *State) CheckPitch(actor, source string) LegalityResult {
	if s.priority.Held() {
		return gameHolds("pitch", actor)
	}
	if !s.priority.HasPriority(actor) {
		return illegal(rules.ErrNotPriorityHolder, "pitch", map[string]string{"actor": actor})
	}
	if s.pending == nil || s.pending.Event.Actor != actor {
		return illegal(ErrNothingToPitch, "pitch", map[string]string{"actor": actor})
	}
	if source == s.pending.Event.Source {
		return illegal(ErrCannotPitch, "the card being paid for cannot be pitched", map[string]string{
			"source": source,
		})
	}
	hero, err := s.store.Hero(actor)
	if err != nil {
		return illegal(err, "pitch", map[string]string{"actor": actor})
	}
	card, err := s.store.Card(source)
	if err != nil {
		return illegal(err, "pitch", map[string]string{"source": source})
	}
	if !hero.InHand(card.ID) {
		return illegal(ErrNotInHand, "pitch", map[string]string{"source": source})
	}
	if card.Color.Pitch() == 0 {
		return illegal(ErrCannotPitch, "card has no pitch value", map[string]string{
			"source": source,
			"color":  card.Color.String(),
		})
	}
	return legal()
}

// CheckBlocks validates a block declaration. Each blocker must be a card in
// the actor's hand with a defense value, listed once.
func (s *State) CheckBlocks(actor string, sources []string) LegalityResult {
	if s.priority.Held() {
		return gameHolds("declare blocks", actor)
	}
	if !s.priority.IsDeclaringBlocks(actor) {
		return illegal(rules.ErrNotDeclaringBlocks, "declare blocks", map[string]string{"actor": actor})
	}
	hero, err := s.store.Hero(actor)
	if err != nil {
		return illegal(err, "declare blocks", map[string]string{"actor": actor})
	}
	seen := make(map[string]bool, len(sources))
	for _, id := range sources {
		card, err := s.store.Card(id)
		if err != nil {
			return illegal(err, "declare blocks", map[string]string{"source": id})
		}
		if seen[id] {
			return illegal(ErrCannotBlock, "blocker listed twice", map[string]string{"source": id})
		}
		seen[id] = true
		if card.Owner != actor {
			return illegal(ErrCannotBlock, "blocker belongs to another hero", map[string]string{
				"source": id,
				"owner":  card.Owner,
			})
		}
		if !hero.InHand(card.ID) {
			return illegal(ErrCannotBlock, "blocker is not in hand", map[string]string{"source": id})
		}
		if !card.CanBlock() {
			return illegal(ErrCannotBlock, "blocker has no defense", map[string]string{"source": id})
		}
	}
	return legal()
}

// gameHolds refuses every participant while the game resolves something.
func gameHolds(op, actor string) LegalityResult {
	return illegal(rules.ErrNotPriorityHolder, op+" while the game holds priority", map[string]string{
		"actor": actor,
	})
}

// IsRejection reports whether err is an expected refusal of an intent rather
// than a failure of the engine.
func IsRejection(err error) bool {
	var shortfall *rules.ShortfallError
	switch {
	case errors.As(err, &shortfall):
		return true
	case errors.Is(err, rules.ErrNoActionPoints),
		errors.Is(err, rules.ErrNotPriorityHolder),
		errors.Is(err, rules.ErrNotDeclaringBlocks),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, ErrNotPlayable),
		errors.Is(err, ErrTargetRequired),
		errors.Is(err, ErrNothingToPitch),
		errors.Is(err, ErrCannotPitch),
		errors.Is(err, ErrNotInHand),
		errors.Is(err, ErrCannotBlock),
		errors.Is(err, ErrUnknownIntent):
		return true
	}
	return false
}
