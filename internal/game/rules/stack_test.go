package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolutionStackLIFO(t *testing.T) {
	rs := NewResolutionStack()
	rs.Push(PendingEvent{ID: "first", Actor: "alice", Source: "c1"})
	rs.Push(PendingEvent{ID: "second", Actor: "bob", Source: "c2"})

	if rs.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", rs.Len())
	}
	if list := rs.List(); list[len(list)-1].ID != "second" {
		t.Fatalf("expected second listed last, got %+v", list)
	}

	item, ok := rs.Pop()
	if !ok || item.ID != "second" {
		t.Fatalf("expected LIFO order (second), got %+v", item)
	}
	item, ok = rs.Pop()
	if !ok || item.ID != "first" {
		t.Fatalf("expected remaining item to be first, got %+v", item)
	}
	if !rs.IsEmpty() {
		t.Fatalf("expected stack to be empty")
	}
	if _, ok := rs.Pop(); ok {
		t.Fatalf("pop on an empty stack must report false")
	}
}

func TestResolutionStackVersion(t *testing.T) {
	rs := NewResolutionStack()
	v := rs.Version()
	rs.Push(PendingEvent{ID: "a"})
	rs.Pop()
	rs.Pop()
	assert.Equal(t, v+2, rs.Version(), "an empty pop must not bump the version")
}

func TestAttackStaging(t *testing.T) {
	as := NewAttackStaging()
	assert.False(t, as.Occupied())

	v := as.Version()
	as.Stage(PendingEvent{ID: "a1", Source: "c1", Target: "bob", IsAttack: true})
	assert.True(t, as.Occupied())
	assert.Equal(t, v+1, as.Version())

	staged, ok := as.Peek()
	assert.True(t, ok)
	assert.Equal(t, "bob", staged.Target)
	assert.True(t, staged.HasTarget())

	as.Stage(PendingEvent{ID: "a2", Source: "c2", Target: "bob", IsAttack: true})
	taken, ok := as.Take()
	assert.True(t, ok)
	assert.Equal(t, "a2", taken.ID, "staging holds a single attack")
	assert.False(t, as.Occupied())

	_, ok = as.Take()
	assert.False(t, ok)
}
