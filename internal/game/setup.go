package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/TrevorCOConnor/rusty-cards/internal/catalog"
	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
	"github.com/TrevorCOConnor/rusty-cards/internal/game/store"
)

// Options tune a game's rules. Zero values fall back to the hero definition
// or the engine defaults.
type Options struct {
	StartingHealth      int
	Intellect           int
	ActionPointsPerTurn int
	// Seed drives the roll for first. Zero picks a time-based seed.
	Seed int64
	// FirstPlayer skips the roll when set to a player's Name.
	FirstPlayer string
}

// PlayerSetup describes one participant. Hero, Deck and Hand name catalog
// definitions; Hand is dealt before the opening draw up to intellect.
type PlayerSetup struct {
	Name string
	Hero string
	Deck []string
	Hand []string
}

func (o Options) merge(defaults Options) Options {
	if o.StartingHealth == 0 {
		o.StartingHealth = defaults.StartingHealth
	}
	if o.Intellect == 0 {
		o.Intellect = defaults.Intellect
	}
	if o.ActionPointsPerTurn == 0 {
		o.ActionPointsPerTurn = defaults.ActionPointsPerTurn
	}
	if o.Seed == 0 {
		o.Seed = defaults.Seed
	}
	if o.ActionPointsPerTurn == 0 {
		o.ActionPointsPerTurn = 1
	}
	return o
}

// populate creates every hero and card of a new game and returns the hero IDs
// in seat order.
func populate(st *store.Store, cat *catalog.Catalog, players []PlayerSetup, opts Options) ([]string, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("at least 2 players required, got %d", len(players))
	}
	names := make(map[string]bool, len(players))
	ids := make([]string, 0, len(players))
	for seat, p := range players {
		if p.Name == "" {
			return nil, fmt.Errorf("player %d: name is required", seat)
		}
		if names[p.Name] {
			return nil, fmt.Errorf("player %q: duplicate name", p.Name)
		}
		if store.IsGeneratedID(p.Name) {
			return nil, fmt.Errorf("player %q: name is reserved for card and hero IDs", p.Name)
		}
		names[p.Name] = true

		def, ok := cat.Hero(p.Hero)
		if !ok {
			return nil, fmt.Errorf("player %q: unknown hero %q", p.Name, p.Hero)
		}
		hero := &store.Hero{
			ID:        p.Name,
			Kind:      def.ID,
			Name:      p.Name,
			Health:    def.Health,
			Intellect: def.Intellect,
		}
		if opts.StartingHealth > 0 {
			hero.Health = opts.StartingHealth
		}
		if opts.Intellect > 0 {
			hero.Intellect = opts.Intellect
		}
		st.AddHero(hero)

		hand, err := instantiate(st, cat, hero.ID, p.Hand)
		if err != nil {
			return nil, fmt.Errorf("player %q hand: %w", p.Name, err)
		}
		deck, err := instantiate(st, cat, hero.ID, p.Deck)
		if err != nil {
			return nil, fmt.Errorf("player %q deck: %w", p.Name, err)
		}
		hero.Hand = hand
		hero.Deck = deck
		hero.Draw(hero.Intellect - len(hero.Hand))
		ids = append(ids, hero.ID)
	}
	return ids, nil
}

func instantiate(st *store.Store, cat *catalog.Catalog, owner string, defs []string) ([]string, error) {
	ids := make([]string, 0, len(defs))
	for _, id := range defs {
		def, ok := cat.Card(id)
		if !ok {
			return nil, fmt.Errorf("unknown card %q", id)
		}
		ids = append(ids, st.AddCard(def.Instance(owner)))
	}
	return ids, nil
}

// errNoRoll is returned when FirstPlayer names nobody at the table.
var errNoRoll = errors.New("first player is not seated")

// rollForFirst decides the first player. Every hero rolls two six-sided dice;
// the highest total goes first and tied leaders roll again.
func (s *State) rollForFirst(seats []string, opts Options) (int, error) {
	if opts.FirstPlayer != "" {
		for i, id := range seats {
			if id == opts.FirstPlayer {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: %q", errNoRoll, opts.FirstPlayer)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	contenders := make([]int, len(seats))
	for i := range seats {
		contenders[i] = i
	}
	for round := 1; len(contenders) > 1; round++ {
		best := -1
		var leaders []int
		for _, seat := range contenders {
			total := rng.Intn(6) + 1 + rng.Intn(6) + 1
			s.logger.Debug("die rolled",
				zap.String("hero", seats[seat]),
				zap.Int("round", round),
				zap.Int("total", total),
			)
			evt := rules.NewEventWithAmount(rules.EventDieRolled, seats[seat], "", "", total)
			evt.Data = fmt.Sprintf("round %d", round)
			s.publish(evt)
			switch {
			case total > best:
				best = total
				leaders = []int{seat}
			case total == best:
				leaders = append(leaders, seat)
			}
		}
		contenders = leaders
	}
	return contenders[0], nil
}

// seatOrder rotates seats so first comes first, then rotates right once so
// the opening Cycle of the action phase hands the turn to first.
func seatOrder(seats []string, first int) []string {
	n := len(seats)
	order := make([]string, 0, n)
	order = append(order, seats[first:]...)
	order = append(order, seats[:first]...)
	return append([]string{order[n-1]}, order[:n-1]...)
}
