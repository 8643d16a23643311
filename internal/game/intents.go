package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
)

// IntentKind names what an actor wants to do.
type IntentKind string

const (
	IntentPlay          IntentKind = "PLAY"
	IntentPass          IntentKind = "PASS"
	IntentPitch         IntentKind = "PITCH"
	IntentDeclareBlocks IntentKind = "DECLARE_BLOCKS"
)

// Intent is one external input. Target is only used by plays and Blocks
// only by block declarations.
type Intent struct {
	Kind   IntentKind
	Actor  string
	Source string
	Target string
	Blocks []string
}

// Play proposes playing a card, optionally at a target.
func Play(actor, source, target string) Intent {
	return Intent{Kind: IntentPlay, Actor: actor, Source: source, Target: target}
}

// Pass gives up priority.
func Pass(actor string) Intent {
	return Intent{Kind: IntentPass, Actor: actor}
}

// Pitch gains resources from a card in hand for the pending play.
func Pitch(actor, source string) Intent {
	return Intent{Kind: IntentPitch, Actor: actor, Source: source}
}

// DeclareBlocks defends the current attack with the given cards. An empty
// list declares no blocks.
func DeclareBlocks(actor string, sources ...string) Intent {
	return Intent{Kind: IntentDeclareBlocks, Actor: actor, Blocks: append([]string(nil), sources...)}
}

func (i Intent) String() string {
	switch i.Kind {
	case IntentPlay:
		if i.Target != "" {
			return fmt.Sprintf("%s play %s -> %s", i.Actor, i.Source, i.Target)
		}
		return fmt.Sprintf("%s play %s", i.Actor, i.Source)
	case IntentPitch:
		return fmt.Sprintf("%s pitch %s", i.Actor, i.Source)
	case IntentDeclareBlocks:
		return fmt.Sprintf("%s block [%s]", i.Actor, strings.Join(i.Blocks, " "))
	default:
		return fmt.Sprintf("%s %s", i.Actor, strings.ToLower(string(i.Kind)))
	}
}

// check validates an intent without mutating anything.
func (s *State) check(intent Intent) LegalityResult {
	switch intent.Kind {
	case IntentPlay:
		return s.CheckPlay(intent.Actor, intent.Source, intent.Target)
	case IntentPass:
		return s.CheckPass(intent.Actor)
	case IntentPitch:
		return s.CheckPitch(intent.Actor, intent.Source)
	case IntentDeclareBlocks:
		return s.CheckBlocks(intent.Actor, intent.Blocks)
	default:
		return illegal(ErrUnknownIntent, string(intent.Kind), nil)
	}
}

// apply performs an intent that passed its legality check.
func (s *State) apply(intent Intent) error {
	switch intent.Kind {
	case IntentPlay:
		return s.readPlay(intent)
	case IntentPass:
		return s.readPass(intent)
	case IntentPitch:
		return s.readPitch(intent)
	case IntentDeclareBlocks:
		return s.readBlocks(intent)
	default:
		return ErrUnknownIntent
	}
}

// readPlay turns a play into a pending proposal and holds priority until
// admission has paid for it. A new play replaces an unpaid one.
func (s *State) readPlay(intent Intent) error {
	card, err := s.store.Card(intent.Source)
	if err != nil {
		return err
	}
	if s.pending != nil {
		s.logger.Debug("pending play replaced",
			zap.String("actor", s.pending.Event.Actor),
			zap.String("card", s.pending.Event.Source),
		)
	}
	s.pending = &proposal{
		Proposal: rules.Proposal{
			Event: rules.PendingEvent{
				ID:       uuid.NewString(),
				Actor:    intent.Actor,
				Source:   card.ID,
				Target:   intent.Target,
				IsAttack: card.IsAttack(),
			},
			Cost:           card.Cost,
			ConsumesAction: card.Type.ConsumesAction(),
		},
		dirty: true,
	}
	s.priority.Hold()
	s.logger.Info("card proposed",
		zap.String("actor", intent.Actor),
		zap.String("card", card.ID),
		zap.String("name", card.Name),
		zap.String("target", intent.Target),
	)
	s.publish(rules.NewEventWithAmount(rules.EventCardProposed, intent.Actor, card.ID, intent.Target, card.Cost))
	return nil
}

// readPass drops the passer's unpaid play and passes priority.
func (s *State) readPass(intent Intent) error {
	if s.pending != nil && s.pending.Event.Actor == intent.Actor {
		s.logger.Debug("pending play abandoned",
			zap.String("actor", intent.Actor),
			zap.String("card", s.pending.Event.Source),
		)
		s.pending = nil
	}
	if err := s.priority.Pass(intent.Actor); err != nil {
		return err
	}
	s.logger.Debug("priority passed", zap.String("actor", intent.Actor))
	s.publish(rules.NewEvent(rules.EventPriorityPassed, intent.Actor, "", ""))
	return nil
}

// readPitch moves the card to the pitch zone, adds its resources and asks
// admission to look at the pending play again.
func (s *State) readPitch(intent Intent) error {
	hero, err := s.store.Hero(intent.Actor)
	if err != nil {
		return err
	}
	card, err := s.store.Card(intent.Source)
	if err != nil {
		return err
	}
	hero.RemoveFromHand(card.ID)
	hero.Pitch = append(hero.Pitch, card.ID)
	gained := card.Color.Pitch()
	hero.GainResources(gained)
	s.pending.dirty = true
	s.priority.Hold()
	s.logger.Info("card pitched",
		zap.String("actor", intent.Actor),
		zap.String("card", card.ID),
		zap.Int("resources", hero.Resources()),
	)
	s.publish(rules.NewEventWithAmount(rules.EventCardPitched, intent.Actor, card.ID, "", gained))
	return nil
}

// readBlocks records the blockers on the current link and passes the block
// window on.
func (s *State) readBlocks(intent Intent) error {
	link, err := s.currentLink("declare_blocks")
	if err != nil {
		return err
	}
	hero, err := s.store.Hero(intent.Actor)
	if err != nil {
		return err
	}
	for _, id := range intent.Blocks {
		hero.RemoveFromHand(id)
		link.Blocks = append(link.Blocks, id)
	}
	if err := s.priority.Pass(intent.Actor); err != nil {
		return err
	}
	s.logger.Info("blocks declared",
		zap.String("actor", intent.Actor),
		zap.Strings("blocks", intent.Blocks),
	)
	evt := rules.NewEventWithAmount(rules.EventBlocksDeclared, intent.Actor, "", link.Attack, len(intent.Blocks))
	evt.Data = strings.Join(intent.Blocks, ",")
	s.publish(evt)
	return nil
}
