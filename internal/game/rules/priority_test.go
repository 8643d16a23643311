package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityTrackerPassOrder(t *testing.T) {
	pt := NewPriorityTracker("alice", "bob")

	assert.True(t, pt.HasPriority("alice"))
	assert.False(t, pt.HasPriority("bob"))

	err := pt.Pass("bob")
	require.ErrorIs(t, err, ErrNotPriorityHolder)
	assert.Equal(t, []string{"alice", "bob"}, pt.Holding(), "a refused pass must not move anyone")

	require.NoError(t, pt.Pass("alice"))
	assert.Equal(t, []string{"bob"}, pt.Holding())
	assert.Equal(t, []string{"alice"}, pt.Passed())
	assert.True(t, pt.HasPriority("bob"))
	assert.False(t, pt.AllPassed())

	require.NoError(t, pt.Pass("bob"))
	assert.True(t, pt.AllPassed())
	assert.False(t, pt.AnyoneHasPriority())
	assert.Equal(t, []string{"alice", "bob"}, pt.Passed())

	holder, ok := pt.PriorityHolder()
	assert.False(t, ok)
	assert.Empty(t, holder)
}

func TestPriorityTrackerPassWithNobodyHolding(t *testing.T) {
	pt := NewPriorityTracker("alice", "bob")
	require.NoError(t, pt.Pass("alice"))
	require.NoError(t, pt.Pass("bob"))

	// Nobody is left to compare against, so the pass is accepted as a no-op.
	require.NoError(t, pt.Pass("carol"))
	assert.Empty(t, pt.Holding())
	assert.Equal(t, []string{"alice", "bob"}, pt.Passed())
}

func TestPriorityTrackerPassResetsAfterAction(t *testing.T) {
	pt := NewPriorityTracker()
	pt.MarkActionOccurred()

	// passed stays empty with an action recorded, so the reset runs. With
	// nothing passed it leaves the order as it was.
	require.NoError(t, pt.Pass("alice"))
	assert.Empty(t, pt.Holding())
	assert.Empty(t, pt.Passed())
	assert.True(t, pt.ActionOccurred(), "the reset keeps the action flag")

	// With someone holding the same pass moves them instead.
	pt = NewPriorityTracker("alice", "bob")
	pt.MarkActionOccurred()
	require.NoError(t, pt.Pass("alice"))
	assert.Equal(t, []string{"bob"}, pt.Holding())
	assert.Equal(t, []string{"alice"}, pt.Passed())
}

func TestPriorityTrackerKeepsParticipants(t *testing.T) {
	type step struct {
		op, who string
	}
	tests := []struct {
		name  string
		steps []step
	}{
		{"pass round", []step{{"pass", "alice"}, {"pass", "bob"}, {"pass", "carol"}}},
		{"refused pass", []step{{"pass", "bob"}, {"pass", "alice"}, {"pass", "alice"}}},
		{"reset midway", []step{{"pass", "alice"}, {"reset", ""}, {"pass", "alice"}, {"pass", "bob"}}},
		{"cycle", []step{{"pass", "alice"}, {"cycle", ""}, {"pass", "bob"}, {"cycle", ""}}},
		{"action then drain", []step{{"action", ""}, {"pass", "alice"}, {"pass", "bob"}, {"pass", "carol"}, {"pass", "alice"}}},
		{"blocks and hold", []step{{"blocks", ""}, {"hold", ""}, {"pass", "alice"}, {"release", ""}, {"reset", ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt := NewPriorityTracker("alice", "bob", "carol")
			for i, st := range tt.steps {
				switch st.op {
				case "pass":
					_ = pt.Pass(st.who)
				case "reset":
					pt.Reset()
				case "cycle":
					pt.Cycle()
				case "action":
					pt.MarkActionOccurred()
				case "blocks":
					pt.SetBlocksOnly(true)
				case "hold":
					pt.Hold()
				case "release":
					pt.Release()
				}
				require.ElementsMatch(t, []string{"alice", "bob", "carol"}, pt.Participants(), "after step %d (%s)", i, st.op)
				require.Len(t, pt.Participants(), 3, "after step %d (%s)", i, st.op)
			}
		})
	}
}

func TestPriorityTrackerReset(t *testing.T) {
	pt := NewPriorityTracker("alice", "bob", "carol")
	require.NoError(t, pt.Pass("alice"))

	pt.Reset()
	assert.Equal(t, []string{"alice", "bob", "carol"}, pt.Holding())
	assert.Empty(t, pt.Passed())

	pt.Reset()
	assert.Equal(t, []string{"alice", "bob", "carol"}, pt.Holding(), "reset must be idempotent")
}

func TestPriorityTrackerCycle(t *testing.T) {
	pt := NewPriorityTracker("alice", "bob", "carol")
	pt.MarkActionOccurred()
	require.NoError(t, pt.Pass("alice"))

	pt.Cycle()
	assert.Equal(t, []string{"bob", "carol", "alice"}, pt.Holding())
	assert.False(t, pt.ActionOccurred())

	tp, err := pt.TurnPlayer()
	require.NoError(t, err)
	assert.Equal(t, "bob", tp)
}

func TestPriorityTrackerTurnPlayerFallsBackToPassed(t *testing.T) {
	pt := NewPriorityTracker("alice", "bob")
	require.NoError(t, pt.Pass("alice"))
	require.NoError(t, pt.Pass("bob"))

	tp, err := pt.TurnPlayer()
	require.NoError(t, err)
	assert.Equal(t, "alice", tp)

	_, err = NewPriorityTracker().TurnPlayer()
	if !errors.Is(err, ErrNoParticipants) {
		t.Fatalf("expected ErrNoParticipants, got %v", err)
	}
}

func TestPriorityTrackerHold(t *testing.T) {
	pt := NewPriorityTracker("alice", "bob")

	pt.Hold()
	assert.True(t, pt.Held())
	assert.True(t, pt.HasPriority("alice"), "holding does not move the head")
	assert.False(t, pt.AnyoneHasPriority())

	require.NoError(t, pt.Pass("alice"))
	require.NoError(t, pt.Pass("bob"))
	assert.False(t, pt.AllPassed(), "all passed never holds while the game holds priority")

	pt.Release()
	assert.True(t, pt.AllPassed())
}

func TestPriorityTrackerBlocksOnly(t *testing.T) {
	pt := NewPriorityTracker("alice", "bob")
	require.NoError(t, pt.Pass("alice"))
	pt.SetBlocksOnly(true)

	assert.False(t, pt.HasPriority("bob"))
	assert.True(t, pt.IsDeclaringBlocks("bob"))
	assert.False(t, pt.IsDeclaringBlocks("alice"))

	pt.Hold()
	assert.True(t, pt.IsDeclaringBlocks("bob"))
	pt.Release()

	pt.SetBlocksOnly(false)
	assert.True(t, pt.HasPriority("bob"))
	assert.False(t, pt.IsDeclaringBlocks("bob"))
}

func TestPriorityTrackerVersion(t *testing.T) {
	pt := NewPriorityTracker("alice", "bob")
	before := pt.Version()

	_ = pt.HasPriority("alice")
	_ = pt.Holding()
	if pt.Version() != before {
		t.Fatalf("reads must not bump the version")
	}

	pt.Hold()
	pt.Release()
	if got := pt.Version(); got != before+2 {
		t.Fatalf("expected version %d, got %d", before+2, got)
	}
}

func TestPriorityTrackerParticipants(t *testing.T) {
	pt := NewPriorityTracker("alice", "bob", "carol")
	require.NoError(t, pt.Pass("alice"))
	assert.ElementsMatch(t, []string{"alice", "bob", "carol"}, pt.Participants())
}
