package effects

import (
	"go.uber.org/zap"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
	"github.com/TrevorCOConnor/rusty-cards/internal/game/store"
)

// ToxicityKind is the catalog ID of Toxicity (red).
const ToxicityKind = "OUT165"

const toxicityLifeLoss = 3

// RegisterBuiltins registers the cards whose behaviour is written in Go.
func RegisterBuiltins(r *Registry) {
	r.Register(ToxicityKind, Hooks{OnPlay: toxicityOnPlay})
}

// toxicityOnPlay arms a watcher for the controller's next Assassin or Ranger
// attack this turn. When that attack is declared it arms an on-hit trigger
// that makes the attacked hero lose life.
func toxicityOnPlay(ctx Context, inv Invocation) error {
	ctx.Triggers().Register(rules.DelayedTrigger{
		SourceID:       inv.Source,
		Controller:     inv.Actor,
		EventType:      rules.EventAttackDeclared,
		Once:           true,
		UntilEndOfTurn: true,
		Condition: func(event rules.Event) bool {
			if event.PlayerID != inv.Actor {
				return false
			}
			card, err := ctx.Store().Card(event.SourceID)
			if err != nil {
				return false
			}
			return card.HasClass(store.ClassAssassin) || card.HasClass(store.ClassRanger)
		},
		Fire: func(attack rules.Event) error {
			ctx.Logger().Debug("toxicity armed on attack",
				zap.String("source", inv.Source),
				zap.String("attack", attack.SourceID),
			)
			ctx.Triggers().Register(rules.DelayedTrigger{
				SourceID:       inv.Source,
				Controller:     inv.Actor,
				EventType:      rules.EventHit,
				Once:           true,
				UntilEndOfTurn: true,
				Condition: func(hit rules.Event) bool {
					return hit.SourceID == attack.SourceID
				},
				Fire: func(hit rules.Event) error {
					if ctx.Store().KindOf(hit.TargetID) != store.KindHero {
						return nil
					}
					return ctx.LoseLife(hit.TargetID, toxicityLifeLoss, inv.Source)
				},
			})
			return nil
		},
	})
	return nil
}
