package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrevorCOConnor/rusty-cards/internal/game/rules"
)

func TestToxicityDrainsOnNextAssassinHit(t *testing.T) {
	h := newHarness(t, []string{"OUT165", "shadow_jab", "basic_resource", "basic_resource"}, bobHand, Options{})

	require.NoError(t, h.play("alice", "Toxicity", ""))
	assert.Equal(t, 0, h.hero("alice").ActionPoints)
	h.pass("alice", "bob")
	assert.Equal(t, 1, h.hero("alice").ActionPoints, "toxicity has go again")
	assert.Equal(t, 1, h.state().Triggers().Armed())

	h.attack("Shadow Jab", "")
	h.mustSubmit(DeclareBlocks("bob"))
	h.toResolution()

	assert.Equal(t, 34, h.hero("bob").Health, "3 from the hit and 3 from toxicity")
	lost := h.journal.ofType(rules.EventLifeLost)
	require.Len(t, lost, 2)
	assert.Equal(t, 0, h.state().Triggers().Armed())
}

func TestToxicityIgnoresOtherClasses(t *testing.T) {
	h := newHarness(t, []string{"OUT165", "basic_attack", "basic_resource", "basic_resource"}, bobHand, Options{})

	require.NoError(t, h.play("alice", "Toxicity", ""))
	h.pass("alice", "bob")

	h.attack("Basic Attack", "Basic Resource")
	h.mustSubmit(DeclareBlocks("bob"))
	h.toResolution()

	assert.Equal(t, 37, h.hero("bob").Health)
	assert.Equal(t, 1, h.state().Triggers().Armed(), "still waiting for an assassin or ranger attack")

	h.pass("alice", "bob")
	h.pass("alice", "bob")
	h.pass("alice", "bob")
	assert.Equal(t, 2, h.view().Turn)
	assert.Equal(t, 0, h.state().Triggers().Armed(), "expired at end of turn")
}

func TestDeclarativeOnHit(t *testing.T) {
	h := newHarness(t, []string{"barbed_slash", "basic_resource", "basic_resource", "basic_resource"}, bobHand, Options{})

	h.attack("Barbed Slash", "")
	h.mustSubmit(DeclareBlocks("bob"))
	h.toResolution()

	assert.Equal(t, 37, h.hero("bob").Health, "2 from the hit and 1 from the on-hit effect")
}

func TestLethalDamageEndsGame(t *testing.T) {
	h := newHarness(t, aliceHand, bobHand, Options{StartingHealth: 3})
	notifications := make(chan GameNotification, 256)
	h.engine.SetNotificationHandler(func(n GameNotification) { notifications <- n })

	h.attack("Basic Attack", "Basic Resource")
	h.mustSubmit(DeclareBlocks("bob"))
	h.pass("alice", "bob")
	h.requireStep(rules.StepReaction)
	h.pass("alice", "bob")

	v := h.view()
	assert.Equal(t, StatusFinished.String(), v.Status)
	assert.Equal(t, "alice", v.Winner)
	bob, _ := v.Hero("bob")
	assert.Equal(t, 0, bob.Health)

	over := h.journal.ofType(rules.EventGameOver)
	require.Len(t, over, 1)
	assert.Equal(t, "alice", over[0].PlayerID)
	assert.Equal(t, "bob", over[0].TargetID)

	err := h.submit(Pass("alice"))
	assert.ErrorIs(t, err, ErrGameOver)

	timeout := time.After(2 * time.Second)
	for {
		select {
		case n := <-notifications:
			if n.Type == "GAME_OVER" {
				assert.Equal(t, "alice", n.Data["winner"])
				return
			}
		case <-timeout:
			t.Fatalf("no GAME_OVER notification")
		}
	}
}
