// Package store holds the game objects the rules engine refers to by ID.
// Every lookup is fallible: an object may be removed while the engine still
// holds its reference.
package store

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ErrNotFound is returned when a reference no longer resolves.
var ErrNotFound = errors.New("object not found")

// Kind tells which record type a reference points at.
type Kind int

const (
	KindUnknown Kind = iota
	KindHero
	KindCard
)

// Hero is a participant and the target of attacks.
type Hero struct {
	ID           string
	Kind         string
	Name         string
	Health       int
	Intellect    int
	resources    int
	actionPoints int
	Hand         []string
	Pitch        []string
	Deck         []string
	Graveyard    []string
}

// Resources returns the hero's resource pool.
func (h *Hero) Resources() int { return h.resources }

// ActionPoints returns the hero's action-point balance.
func (h *Hero) ActionPoints() int { return h.actionPoints }

// Spend deducts resources and action points.
func (h *Hero) Spend(resources, actionPoints int) {
	h.resources -= resources
	h.actionPoints -= actionPoints
}

// GainResources adds to the resource pool.
func (h *Hero) GainResources(n int) { h.resources += n }

// SetResources overwrites the resource pool.
func (h *Hero) SetResources(n int) { h.resources = n }

// GainActionPoints adds action points.
func (h *Hero) GainActionPoints(n int) { h.actionPoints += n }

// SetActionPoints overwrites the action-point balance.
func (h *Hero) SetActionPoints(n int) { h.actionPoints = n }

// LoseLife reduces health, never below zero, and returns the amount lost.
func (h *Hero) LoseLife(n int) int {
	if n <= 0 {
		return 0
	}
	if n > h.Health {
		n = h.Health
	}
	h.Health -= n
	return n
}

// InHand reports whether the card is in the hero's hand.
func (h *Hero) InHand(cardID string) bool {
	return indexOf(h.Hand, cardID) >= 0
}

// RemoveFromHand takes the card out of hand and reports whether it was there.
func (h *Hero) RemoveFromHand(cardID string) bool {
	idx := indexOf(h.Hand, cardID)
	if idx < 0 {
		return false
	}
	h.Hand = append(h.Hand[:idx], h.Hand[idx+1:]...)
	return true
}

// Forget takes the card out of every zone and reports whether it was in one.
func (h *Hero) Forget(cardID string) bool {
	found := false
	for _, zone := range []*[]string{&h.Hand, &h.Pitch, &h.Deck, &h.Graveyard} {
		if idx := indexOf(*zone, cardID); idx >= 0 {
			*zone = append((*zone)[:idx], (*zone)[idx+1:]...)
			found = true
		}
	}
	return found
}

// Draw moves up to n cards from the top of the deck into hand and returns
// the cards drawn.
func (h *Hero) Draw(n int) []string {
	if n > len(h.Deck) {
		n = len(h.Deck)
	}
	if n <= 0 {
		return nil
	}
	drawn := append([]string(nil), h.Deck[:n]...)
	h.Deck = h.Deck[n:]
	h.Hand = append(h.Hand, drawn...)
	return drawn
}

func indexOf(ids []string, id string) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}

// Store is a registry of heroes and cards keyed by ID.
type Store struct {
	mu     sync.RWMutex
	heroes map[string]*Hero
	cards  map[string]*Card
	order  []string
	nextID int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		heroes: make(map[string]*Hero),
		cards:  make(map[string]*Card),
	}
}

// IsGeneratedID reports whether id has the shape of an assigned ID, "hN" or
// "cN".
func IsGeneratedID(id string) bool {
	if len(id) < 2 || (id[0] != 'h' && id[0] != 'c') {
		return false
	}
	_, err := strconv.ParseUint(id[1:], 10, 64)
	return err == nil
}

// assign returns the next free ID with prefix. Callers hold the lock.
func (s *Store) assign(prefix string) string {
	for {
		s.nextID++
		id := prefix + strconv.Itoa(s.nextID)
		if _, ok := s.heroes[id]; ok {
			continue
		}
		if _, ok := s.cards[id]; ok {
			continue
		}
		return id
	}
}

// AddHero registers a hero. An empty ID is assigned as "hN".
func (s *Store) AddHero(h *Hero) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID == "" {
		h.ID = s.assign("h")
	}
	s.heroes[h.ID] = h
	s.order = append(s.order, h.ID)
	return h.ID
}

// AddCard registers a card. An empty ID is assigned as "cN".
func (s *Store) AddCard(c *Card) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = s.assign("c")
	}
	s.cards[c.ID] = c
	s.order = append(s.order, c.ID)
	return c.ID
}

// Hero looks up a hero.
func (s *Store) Hero(id string) (*Hero, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.heroes[id]
	if !ok {
		return nil, fmt.Errorf("hero %s: %w", id, ErrNotFound)
	}
	return h, nil
}

// Card looks up a card.
func (s *Store) Card(id string) (*Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[id]
	if !ok {
		return nil, fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// KindOf reports which record type id refers to.
func (s *Store) KindOf(id string) Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.heroes[id]; ok {
		return KindHero
	}
	if _, ok := s.cards[id]; ok {
		return KindCard
	}
	return KindUnknown
}

// Exists reports whether id still resolves.
func (s *Store) Exists(id string) bool {
	return s.KindOf(id) != KindUnknown
}

// Remove deletes an object. Removing a missing object is not an error.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.heroes, id)
	delete(s.cards, id)
	if idx := indexOf(s.order, id); idx >= 0 {
		s.order = append(s.order[:idx], s.order[idx+1:]...)
	}
}

// Heroes returns every hero in registration order.
func (s *Store) Heroes() []*Hero {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Hero, 0, len(s.heroes))
	for _, id := range s.order {
		if h, ok := s.heroes[id]; ok {
			out = append(out, h)
		}
	}
	return out
}

// Cards returns every card sorted by ID.
func (s *Store) Cards() []*Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Card, 0, len(s.cards))
	for _, c := range s.cards {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Resolve finds an object by ID or, failing that, by case-insensitive name.
// Name matches prefer heroes, then cards in registration order; owner narrows
// card matches when non-empty.
func (s *Store) Resolve(token, owner string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.heroes[token]; ok {
		return token, nil
	}
	if _, ok := s.cards[token]; ok {
		return token, nil
	}
	for _, id := range s.order {
		if h, ok := s.heroes[id]; ok && strings.EqualFold(h.Name, token) {
			return id, nil
		}
	}
	for _, id := range s.order {
		c, ok := s.cards[id]
		if !ok || !strings.EqualFold(c.Name, token) {
			continue
		}
		if owner == "" || c.Owner == owner {
			return id, nil
		}
	}
	return "", fmt.Errorf("%q: %w", token, ErrNotFound)
}
