package game

import (
	"fmt"
	"strings"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
)

// View is a read-only snapshot of a game. It holds only plain values so it
// can be gob-encoded into replays.
type View struct {
	GameID            string
	Status            string
	Winner            string
	Tick              int
	Turn              int
	Phase             string
	Step              string
	AnyoneHasPriority bool
	PriorityHolder    string
	TurnPlayer        string
	BlocksOnly        bool
	GameHolds         bool
	Holding           []string
	Passed            []string
	Stack             []rules.PendingEvent
	Staged            *rules.PendingEvent
	Chain             []rules.ChainLink
	Heroes            []HeroView
	Cards             []CardView
}

// HeroView is one hero's public state.
type HeroView struct {
	ID           string
	Name         string
	Health       int
	Intellect    int
	Resources    int
	ActionPoints int
	Hand         []string
	Pitch        []string
	DeckSize     int
	Graveyard    []string
}

// CardView names a card so drivers can print it.
type CardView struct {
	ID      string
	Name    string
	Owner   string
	Type    string
	Cost    int
	Color   string
	Attack  int
	Defense int
}

// Hero returns the named hero's view.
func (v *View) Hero(id string) (HeroView, bool) {
	for _, h := range v.Heroes {
		if h.ID == id {
			return h, true
		}
	}
	return HeroView{}, false
}

// Card returns the card's view.
func (v *View) Card(id string) (CardView, bool) {
	for _, c := range v.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return CardView{}, false
}

// Summary renders the view on one line.
func (v *View) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "turn %d %s", v.Turn, v.Phase)
	if v.Step != rules.StepNone.String() {
		fmt.Fprintf(&b, "/%s", v.Step)
	}
	if v.AnyoneHasPriority {
		fmt.Fprintf(&b, " priority=%s", v.PriorityHolder)
		if v.BlocksOnly {
			b.WriteString(" (blocks)")
		}
	}
	for _, h := range v.Heroes {
		fmt.Fprintf(&b, " | %s hp=%d res=%d ap=%d hand=%d", h.Name, h.Health, h.Resources, h.ActionPoints, len(h.Hand))
	}
	if v.Status != StatusRunning.String() {
		fmt.Fprintf(&b, " | %s", v.Status)
		if v.Winner != "" {
			fmt.Fprintf(&b, " winner=%s", v.Winner)
		}
	}
	return b.String()
}

func (s *State) view() *View {
	v := &View{
		GameID:            s.ID,
		Status:            s.status.String(),
		Winner:            s.winner,
		Tick:              s.tick,
		Turn:              s.turn.Turn(),
		Phase:             s.turn.Phase().String(),
		Step:              s.turn.Step().String(),
		AnyoneHasPriority: s.priority.AnyoneHasPriority(),
		BlocksOnly:        s.priority.BlocksOnly(),
		GameHolds:         s.priority.Held(),
		Holding:           s.priority.Holding(),
		Passed:            s.priority.Passed(),
		Stack:             s.stack.List(),
		Chain:             s.chain.Links(),
	}
	if holder, ok := s.priority.PriorityHolder(); ok {
		v.PriorityHolder = holder
	}
	if tp, err := s.priority.TurnPlayer(); err == nil {
		v.TurnPlayer = tp
	}
	if staged, ok := s.staging.Peek(); ok {
		v.Staged = &staged
	}
	for _, h := range s.store.Heroes() {
		v.Heroes = append(v.Heroes, HeroView{
			ID:           h.ID,
			Name:         h.Name,
			Health:       h.Health,
			Intellect:    h.Intellect,
			Resources:    h.Resources(),
			ActionPoints: h.ActionPoints(),
			Hand:         append([]string(nil), h.Hand...),
			Pitch:        append([]string(nil), h.Pitch...),
			DeckSize:     len(h.Deck),
			Graveyard:    append([]string(nil), h.Graveyard...),
		})
	}
	for _, c := range s.store.Cards() {
		v.Cards = append(v.Cards, CardView{
			ID:      c.ID,
			Name:    c.Name,
			Owner:   c.Owner,
			Type:    string(c.Type),
			Cost:    c.Cost,
			Color:   c.Color.String(),
			Attack:  c.Power(),
			Defense: c.DefenseValue(),
		})
	}
	return v
}
