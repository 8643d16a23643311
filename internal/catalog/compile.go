package catalog

import (
	"fmt"
	"sort"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/store"
)

// Op names a declarative card effect.
type Op string

const (
	OpLoseLife      Op = "lose_life"
	OpGainAction    Op = "gain_action"
	OpGainResources Op = "gain_resources"
)

// Effect is one declarative step of a card ability.
type Effect struct {
	Op     Op
	Amount int
}

// HeroDef describes a hero.
type HeroDef struct {
	ID        string
	Name      string
	Health    int
	Intellect int
}

// CardDef describes a card before it is instantiated in a game.
type CardDef struct {
	ID       string
	Name     string
	Cost     int
	Color    store.Color
	Attack   *int
	Defense  *int
	Type     store.CardType
	Subtypes []store.Subtype
	Classes  []store.Class
	GoAgain  bool
	OnPlay   []Effect
	OnAttack []Effect
	OnHit    []Effect
}

// Instance creates a fresh card owned by owner.
func (d CardDef) Instance(owner string) *store.Card {
	card := &store.Card{
		Kind:     d.ID,
		Name:     d.Name,
		Owner:    owner,
		Cost:     d.Cost,
		Color:    d.Color,
		Type:     d.Type,
		Subtypes: append([]store.Subtype(nil), d.Subtypes...),
		Classes:  append([]store.Class(nil), d.Classes...),
		GoAgain:  d.GoAgain,
	}
	if d.Attack != nil {
		card.Attack = store.Int(*d.Attack)
	}
	if d.Defense != nil {
		card.Defense = store.Int(*d.Defense)
	}
	return card
}

// HasEffects reports whether any declarative effect is defined.
func (d CardDef) HasEffects() bool {
	return len(d.OnPlay)+len(d.OnAttack)+len(d.OnHit) > 0
}

// Catalog is the immutable set of definitions produced by a load.
type Catalog struct {
	Heroes map[string]HeroDef
	Cards  map[string]CardDef
}

// Hero looks up a hero definition.
func (c *Catalog) Hero(id string) (HeroDef, bool) {
	def, ok := c.Heroes[id]
	return def, ok
}

// Card looks up a card definition.
func (c *Catalog) Card(id string) (CardDef, bool) {
	def, ok := c.Cards[id]
	return def, ok
}

// CardIDs returns every card ID in sorted order.
func (c *Catalog) CardIDs() []string {
	ids := make([]string, 0, len(c.Cards))
	for id := range c.Cards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func compile(coll *collector) (*Catalog, error) {
	cat := &Catalog{
		Heroes: make(map[string]HeroDef, len(coll.heroes)),
		Cards:  make(map[string]CardDef, len(coll.cards)),
	}

	for _, raw := range coll.heroes {
		if _, dup := cat.Heroes[raw.id]; dup {
			return nil, fmt.Errorf("hero %q defined twice", raw.id)
		}
		cat.Heroes[raw.id] = HeroDef{
			ID:        raw.id,
			Name:      getString(raw.table, "name", raw.id),
			Health:    getInt(raw.table, "health", 0),
			Intellect: getInt(raw.table, "intellect", 0),
		}
	}

	for _, raw := range coll.cards {
		if _, dup := cat.Cards[raw.id]; dup {
			return nil, fmt.Errorf("card %q defined twice", raw.id)
		}
		def, err := compileCard(raw)
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", raw.id, err)
		}
		cat.Cards[raw.id] = def
	}

	return cat, nil
}

func compileCard(raw rawDef) (CardDef, error) {
	tbl := raw.table
	def := CardDef{
		ID:      raw.id,
		Name:    getString(tbl, "name", raw.id),
		Cost:    getInt(tbl, "cost", 0),
		Attack:  getOptionalInt(tbl, "attack"),
		Defense: getOptionalInt(tbl, "defense"),
		GoAgain: getBool(tbl, "go_again", false),
	}

	color, err := store.ParseColor(getString(tbl, "color", ""))
	if err != nil {
		return CardDef{}, err
	}
	def.Color = color

	cardType, err := store.ParseCardType(getString(tbl, "type", ""))
	if err != nil {
		return CardDef{}, err
	}
	def.Type = cardType

	for _, s := range getStrings(tbl, "subtypes") {
		def.Subtypes = append(def.Subtypes, store.Subtype(upper(s)))
	}
	for _, s := range getStrings(tbl, "classes") {
		def.Classes = append(def.Classes, store.Class(upper(s)))
	}
	if len(def.Classes) == 0 {
		def.Classes = []store.Class{store.ClassGeneric}
	}

	if def.OnPlay, err = getEffects(tbl, "on_play"); err != nil {
		return CardDef{}, err
	}
	if def.OnAttack, err = getEffects(tbl, "on_attack"); err != nil {
		return CardDef{}, err
	}
	if def.OnHit, err = getEffects(tbl, "on_hit"); err != nil {
		return CardDef{}, err
	}
	return def, nil
}
