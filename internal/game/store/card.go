package store

import (
	"fmt"
	"strings"
)

// Color determines how many resources a card gives when pitched.
type Color int

const (
	ColorNone Color = iota
	ColorRed
	ColorYellow
	ColorBlue
)

var colorNames = map[Color]string{
	ColorNone:   "NONE",
	ColorRed:    "RED",
	ColorYellow: "YELLOW",
	ColorBlue:   "BLUE",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("COLOR_%d", int(c))
}

// Pitch returns the resources gained by pitching a card of this color.
func (c Color) Pitch() int {
	switch c {
	case ColorRed:
		return 1
	case ColorYellow:
		return 2
	case ColorBlue:
		return 3
	default:
		return 0
	}
}

// ParseColor converts a color name into a Color.
func ParseColor(name string) (Color, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "" {
		return ColorNone, nil
	}
	for color, colorName := range colorNames {
		if colorName == upper {
			return color, nil
		}
	}
	return ColorNone, fmt.Errorf("unknown color %q", name)
}

// CardType is the card's category.
type CardType string

const (
	TypeAction          CardType = "ACTION"
	TypeInstant         CardType = "INSTANT"
	TypeAttackReaction  CardType = "ATTACK_REACTION"
	TypeDefenseReaction CardType = "DEFENSE_REACTION"
	TypeResource        CardType = "RESOURCE"
	TypeEquipment       CardType = "EQUIPMENT"
)

var cardTypes = []CardType{
	TypeAction,
	TypeInstant,
	TypeAttackReaction,
	TypeDefenseReaction,
	TypeResource,
	TypeEquipment,
}

// ParseCardType converts a type name into a CardType.
func ParseCardType(name string) (CardType, error) {
	upper := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
	for _, t := range cardTypes {
		if string(t) == upper {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown card type %q", name)
}

// Playable reports whether cards of this type can be played from hand.
func (t CardType) Playable() bool {
	switch t {
	case TypeAction, TypeInstant, TypeAttackReaction, TypeDefenseReaction:
		return true
	default:
		return false
	}
}

// ConsumesAction reports whether playing this type costs an action point.
func (t CardType) ConsumesAction() bool {
	return t == TypeAction
}

// Subtype refines a card type.
type Subtype string

const (
	SubtypeAttack Subtype = "ATTACK"
	SubtypeAura   Subtype = "AURA"
	SubtypeItem   Subtype = "ITEM"
)

// Class is a hero class a card belongs to.
type Class string

const (
	ClassGeneric  Class = "GENERIC"
	ClassAssassin Class = "ASSASSIN"
	ClassRanger   Class = "RANGER"
	ClassNinja    Class = "NINJA"
	ClassWarrior  Class = "WARRIOR"
)

// Card is a card instance in the game.
type Card struct {
	ID       string
	Kind     string
	Name     string
	Owner    string
	Cost     int
	Color    Color
	Attack   *int
	Defense  *int
	Type     CardType
	Subtypes []Subtype
	Classes  []Class
	GoAgain  bool
}

// Int returns a pointer to n, for optional card stats.
func Int(n int) *int {
	return &n
}

// HasSubtype reports whether the card carries the subtype.
func (c *Card) HasSubtype(sub Subtype) bool {
	for _, s := range c.Subtypes {
		if s == sub {
			return true
		}
	}
	return false
}

// HasClass reports whether the card belongs to the class.
func (c *Card) HasClass(class Class) bool {
	for _, cl := range c.Classes {
		if cl == class {
			return true
		}
	}
	return false
}

// IsAttack reports whether playing the card declares an attack.
func (c *Card) IsAttack() bool {
	return c.Type == TypeAction && c.HasSubtype(SubtypeAttack)
}

// Power returns the card's attack value, or 0 when it has none.
func (c *Card) Power() int {
	if c.Attack == nil {
		return 0
	}
	return *c.Attack
}

// CanBlock reports whether the card has a defense value.
func (c *Card) CanBlock() bool {
	return c.Defense != nil
}

// DefenseValue returns the card's defense, or 0 when it has none.
func (c *Card) DefenseValue() int {
	if c.Defense == nil {
		return 0
	}
	return *c.Defense
}
