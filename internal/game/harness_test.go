package game

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
)

// recordingJournal captures every event, including the ones published while
// a game is being set up.
type recordingJournal struct {
	mu     sync.Mutex
	events []rules.Event
}

func (j *recordingJournal) Record(_ context.Context, evt rules.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, evt)
	return nil
}

func (j *recordingJournal) ofType(eventType rules.EventType) []rules.Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []rules.Event
	for _, evt := range j.events {
		if evt.Type == eventType {
			out = append(out, evt)
		}
	}
	return out
}

// harness drives one two-player game between alice and bob. alice goes first.
type harness struct {
	t       *testing.T
	engine  *Engine
	gameID  string
	journal *recordingJournal
}

func newHarness(t *testing.T, aliceHand, bobHand []string, opts Options, engineOpts ...Option) *harness {
	t.Helper()
	journal := &recordingJournal{}
	engineOpts = append([]Option{WithJournal(journal)}, engineOpts...)
	engine, err := NewEngine(zaptest.NewLogger(t), engineOpts...)
	require.NoError(t, err)

	if opts.FirstPlayer == "" && opts.Seed == 0 {
		opts.FirstPlayer = "alice"
	}
	deck := []string{"basic_resource", "basic_resource", "basic_resource", "basic_resource"}
	_, err = engine.StartGame("test-game", []PlayerSetup{
		{Name: "alice", Hero: "gold_fish", Hand: aliceHand, Deck: deck},
		{Name: "bob", Hero: "gold_fish", Hand: bobHand, Deck: deck},
	}, opts)
	require.NoError(t, err)

	return &harness{t: t, engine: engine, gameID: "test-game", journal: journal}
}

func (h *harness) view() *View {
	h.t.Helper()
	v, err := h.engine.View(h.gameID)
	require.NoError(h.t, err)
	return v
}

func (h *harness) state() *State {
	h.t.Helper()
	s, err := h.engine.game(h.gameID)
	require.NoError(h.t, err)
	return s
}

func (h *harness) hero(id string) HeroView {
	h.t.Helper()
	hero, ok := h.view().Hero(id)
	require.True(h.t, ok, "hero %s", id)
	return hero
}

// inHand returns the ID of the first card named name in owner's hand.
func (h *harness) inHand(owner, name string) string {
	h.t.Helper()
	v := h.view()
	hero, ok := v.Hero(owner)
	require.True(h.t, ok, "hero %s", owner)
	for _, id := range hero.Hand {
		if card, ok := v.Card(id); ok && strings.EqualFold(card.Name, name) {
			return id
		}
	}
	h.t.Fatalf("%s has no %q in hand: %v", owner, name, hero.Hand)
	return ""
}

func (h *harness) submit(intent Intent) error {
	h.t.Helper()
	return h.engine.Submit(h.gameID, intent)
}

func (h *harness) mustSubmit(intent Intent) {
	h.t.Helper()
	if err := h.submit(intent); err != nil {
		h.t.Fatalf("%s: %v", intent, err)
	}
}

func (h *harness) play(actor, name, target string) error {
	h.t.Helper()
	return h.submit(Play(actor, h.inHand(actor, name), target))
}

func (h *harness) pitch(actor, name string) {
	h.t.Helper()
	h.mustSubmit(Pitch(actor, h.inHand(actor, name)))
}

func (h *harness) pass(actors ...string) {
	h.t.Helper()
	for _, actor := range actors {
		h.mustSubmit(Pass(actor))
	}
}

func (h *harness) block(actor string, names ...string) {
	h.t.Helper()
	ids := make([]string, 0, len(names))
	for _, name := range names {
		ids = append(ids, h.inHand(actor, name))
	}
	h.mustSubmit(DeclareBlocks(actor, ids...))
}

func (h *harness) requireStep(step rules.CombatStep) {
	h.t.Helper()
	if got := h.view().Step; got != step.String() {
		h.t.Fatalf("expected step %s, got %s", step, got)
	}
}

// toBlockWindow passes the Layer and Attack steps of a staged attack.
func (h *harness) toBlockWindow() {
	h.t.Helper()
	h.requireStep(rules.StepLayer)
	h.pass("alice", "bob")
	h.requireStep(rules.StepAttack)
	h.pass("alice", "bob")
	h.requireStep(rules.StepDefend)

	v := h.view()
	require.True(h.t, v.BlocksOnly)
	require.Equal(h.t, "bob", v.PriorityHolder)
}

// toResolution passes the Defend and Reaction steps after blocks.
func (h *harness) toResolution() {
	h.t.Helper()
	h.requireStep(rules.StepDefend)
	h.pass("alice", "bob")
	h.requireStep(rules.StepReaction)
	h.pass("alice", "bob")
	h.requireStep(rules.StepResolution)
}

// attack stages a card from alice's hand at bob, pitching if it needs paying
// for, and moves on to bob's block window.
func (h *harness) attack(name, pitch string) {
	h.t.Helper()
	err := h.play("alice", name, "bob")
	if pitch != "" {
		require.True(h.t, IsRejection(err), "expected a shortfall, got %v", err)
		h.pitch("alice", pitch)
	} else {
		require.NoError(h.t, err)
	}
	h.toBlockWindow()
}
