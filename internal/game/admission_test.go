package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
)

var (
	aliceHand = []string{"basic_attack", "basic_resource", "battle_cry", "OUT165"}
	bobHand   = []string{"basic_attack", "sink_below", "basic_resource", "quick_draw"}
)

func TestPlayNonAttackKeepsPriority(t *testing.T) {
	h := newHarness(t, aliceHand, bobHand, Options{})
	battleCry := h.inHand("alice", "Battle Cry")

	err := h.play("alice", "Battle Cry", "")
	var shortfall *rules.ShortfallError
	require.True(t, errors.As(err, &shortfall), "expected a shortfall, got %v", err)
	assert.Equal(t, 1, shortfall.Shortfall())

	v := h.view()
	assert.Empty(t, v.Stack)
	assert.False(t, v.GameHolds, "a rejected play releases priority")
	assert.Equal(t, "alice", v.PriorityHolder)
	rejected := h.journal.ofType(rules.EventPlayRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, 1, rejected[0].Amount)

	h.pitch("alice", "Basic Resource")

	v = h.view()
	alice, _ := v.Hero("alice")
	assert.Equal(t, 1, alice.Resources)
	assert.Equal(t, 0, alice.ActionPoints)
	assert.NotContains(t, alice.Hand, battleCry)
	assert.Len(t, alice.Pitch, 1)
	require.Len(t, v.Stack, 1)
	assert.Equal(t, battleCry, v.Stack[0].Source)
	assert.Equal(t, "alice", v.PriorityHolder, "the actor keeps priority after a play")
	assert.True(t, v.AnyoneHasPriority)
	assert.True(t, h.state().priority.ActionOccurred())
	assert.Len(t, h.journal.ofType(rules.EventCostPaid), 1)

	h.pass("alice", "bob")

	v = h.view()
	alice, _ = v.Hero("alice")
	assert.Empty(t, v.Stack)
	// One from its own effect and one from go again.
	assert.Equal(t, 2, alice.ActionPoints)
	assert.Contains(t, alice.Graveyard, battleCry)
	assert.Equal(t, "alice", v.PriorityHolder)
	assert.Len(t, h.journal.ofType(rules.EventStackItemResolved), 1)
	assert.Len(t, h.journal.ofType(rules.EventGoAgain), 1)
}

func TestNobodyActsWhileTheGameHolds(t *testing.T) {
	h := newHarness(t, aliceHand, bobHand, Options{})
	attack := h.inHand("alice", "Basic Attack")
	resource := h.inHand("alice", "Basic Resource")

	s := h.state()
	s.mu.Lock()
	s.priority.Hold()
	require.True(t, s.priority.HasPriority("alice"), "holding leaves alice at the head")
	s.mu.Unlock()

	for _, intent := range []Intent{
		Pass("alice"),
		Play("alice", attack, "bob"),
		Pitch("alice", resource),
		DeclareBlocks("alice"),
	} {
		err := h.submit(intent)
		require.ErrorIs(t, err, rules.ErrNotPriorityHolder, "%s", intent)
		assert.Contains(t, err.Error(), "while the game holds priority", "%s", intent)
	}
	assert.Empty(t, h.journal.ofType(rules.EventPriorityPassed))

	s.mu.Lock()
	s.priority.Release()
	s.mu.Unlock()
	h.pass("alice")
	assert.Equal(t, "bob", h.view().PriorityHolder)
}

func TestNoActionPointsRejectsPlay(t *testing.T) {
	h := newHarness(t, aliceHand, bobHand, Options{})
	hero, err := h.state().Store().Hero("alice")
	require.NoError(t, err)
	hero.SetActionPoints(0)

	before := h.hero("alice")
	err = h.play("alice", "Basic Attack", "bob")
	require.ErrorIs(t, err, rules.ErrNoActionPoints)

	v := h.view()
	after, _ := v.Hero("alice")
	assert.Equal(t, before.Hand, after.Hand)
	assert.Equal(t, before.Resources, after.Resources)
	assert.Empty(t, v.Stack)
	assert.Nil(t, v.Staged)
	assert.False(t, v.GameHolds)
	assert.Equal(t, "alice", v.PriorityHolder)
	assert.Nil(t, h.state().pending, "the play is dropped, not kept for pitching")
	assert.False(t, h.state().priority.ActionOccurred())
}

func TestShortfallKeepsPlayPendingUntilPass(t *testing.T) {
	h := newHarness(t, aliceHand, bobHand, Options{})

	err := h.play("alice", "Basic Attack", "bob")
	require.True(t, IsRejection(err))
	require.NotNil(t, h.state().pending)

	h.pass("alice")
	assert.Nil(t, h.state().pending)
	assert.Equal(t, "bob", h.view().PriorityHolder)

	err = h.submit(Pitch("alice", h.inHand("alice", "Basic Resource")))
	assert.ErrorIs(t, err, rules.ErrNotPriorityHolder)
}

func TestPitchLegality(t *testing.T) {
	h := newHarness(t, aliceHand, bobHand, Options{})

	err := h.submit(Pitch("alice", h.inHand("alice", "Basic Resource")))
	assert.ErrorIs(t, err, ErrNothingToPitch)

	attack := h.inHand("alice", "Basic Attack")
	require.True(t, IsRejection(h.submit(Play("alice", attack, "bob"))))

	err = h.submit(Pitch("alice", attack))
	assert.ErrorIs(t, err, ErrCannotPitch)

	err = h.submit(Pitch("alice", h.inHand("bob", "Basic Resource")))
	assert.ErrorIs(t, err, ErrNotInHand)

	err = h.submit(Pitch("alice", "c999"))
	assert.True(t, IsRejection(err), "unknown cards are refused, got %v", err)
}

func TestRejectedIntentsChangeNothing(t *testing.T) {
	h := newHarness(t, aliceHand, bobHand, Options{})
	before, err := h.view().Checksum()
	require.NoError(t, err)

	cases := []struct {
		name   string
		intent Intent
		want   error
	}{
		{"play without priority", Play("bob", h.inHand("bob", "Basic Attack"), "alice"), rules.ErrNotPriorityHolder},
		{"play another hero's card", Play("alice", h.inHand("bob", "Basic Attack"), "bob"), ErrNotPlayable},
		{"attack without target", Play("alice", h.inHand("alice", "Basic Attack"), ""), ErrTargetRequired},
		{"resource card", Play("alice", h.inHand("alice", "Basic Resource"), ""), ErrNotPlayable},
		{"pass without priority", Pass("bob"), rules.ErrNotPriorityHolder},
		{"blocks outside a window", DeclareBlocks("alice"), rules.ErrNotDeclaringBlocks},
		{"unknown intent", Intent{Kind: "DANCE", Actor: "alice"}, ErrUnknownIntent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := h.submit(tc.intent)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !IsRejection(err) {
				t.Fatalf("expected a rejection, got %v", err)
			}
		})
	}

	after, err := h.view().Checksum()
	require.NoError(t, err)
	assert.Equal(t, before.Hash, after.Hash)
}

func TestReactionTiming(t *testing.T) {
	h := newHarness(t, []string{"basic_attack", "basic_resource", "quick_draw", "sink_below"}, bobHand, Options{})

	err := h.play("alice", "Quick Draw", "")
	assert.ErrorIs(t, err, ErrNotPlayable, "reactions wait for the reaction step")

	h.attack("Basic Attack", "Basic Resource")
	h.mustSubmit(DeclareBlocks("bob"))
	h.pass("alice", "bob")
	h.requireStep(rules.StepReaction)

	err = h.play("alice", "Sink Below", "")
	assert.ErrorIs(t, err, ErrNotPlayable, "the attacker cannot defend")

	h.pass("alice")
	err = h.play("bob", "Quick Draw", "")
	assert.ErrorIs(t, err, ErrNotPlayable, "only the attacker plays attack reactions")

	err = h.play("bob", "Basic Attack", "alice")
	assert.ErrorIs(t, err, ErrNotPlayable, "action cards are not played during an attack")
}
