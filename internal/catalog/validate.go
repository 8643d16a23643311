package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/store"
)

var knownOps = map[Op]bool{
	OpLoseLife:      true,
	OpGainAction:    true,
	OpGainResources: true,
}

// validate checks the compiled catalog and reports every problem at once.
func validate(cat *Catalog) error {
	var errs []error

	heroIDs := make([]string, 0, len(cat.Heroes))
	for id := range cat.Heroes {
		heroIDs = append(heroIDs, id)
	}
	sort.Strings(heroIDs)
	for _, id := range heroIDs {
		hero := cat.Heroes[id]
		if hero.Health <= 0 {
			errs = append(errs, fmt.Errorf("hero %q: health must be positive", id))
		}
		if hero.Intellect < 0 {
			errs = append(errs, fmt.Errorf("hero %q: intellect must not be negative", id))
		}
	}

	for _, id := range cat.CardIDs() {
		card := cat.Cards[id]
		if card.Cost < 0 {
			errs = append(errs, fmt.Errorf("card %q: cost must not be negative", id))
		}
		if card.HasSubtype(store.SubtypeAttack) {
			if card.Type != store.TypeAction {
				errs = append(errs, fmt.Errorf("card %q: attacks must be actions", id))
			}
			if card.Attack == nil {
				errs = append(errs, fmt.Errorf("card %q: attack cards need an attack value", id))
			}
		}
		for _, group := range [][]Effect{card.OnPlay, card.OnAttack, card.OnHit} {
			for _, effect := range group {
				if !knownOps[effect.Op] {
					errs = append(errs, fmt.Errorf("card %q: unknown effect %q", id, effect.Op))
				}
				if effect.Amount < 0 {
					errs = append(errs, fmt.Errorf("card %q: effect %q amount must not be negative", id, effect.Op))
				}
			}
		}
	}

	return errors.Join(errs...)
}

// HasSubtype reports whether the definition carries the subtype.
func (d CardDef) HasSubtype(sub store.Subtype) bool {
	for _, s := range d.Subtypes {
		if s == sub {
			return true
		}
	}
	return false
}
