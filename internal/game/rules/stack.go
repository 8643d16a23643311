package rules

import (
	"sync"
)

// PendingEvent is an action that passed legality checks and cost payment and
// now waits to resolve. Target is empty when the action has none.
type PendingEvent struct {
	ID       string
	Actor    string
	Source   string
	Target   string
	IsAttack bool
}

// HasTarget reports whether the event names a target.
func (e PendingEvent) HasTarget() bool {
	return e.Target != ""
}

// ResolutionStack holds pending events; the last pushed resolves first.
type ResolutionStack struct {
	mu      sync.Mutex
	items   []PendingEvent
	version uint64
}

// NewResolutionStack creates an empty stack.
func NewResolutionStack() *ResolutionStack {
	return &ResolutionStack{
		items:   make([]PendingEvent, 0, 8),
		version: 1,
	}
}

// Push adds an event to the top of the stack.
func (rs *ResolutionStack) Push(event PendingEvent) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.items = append(rs.items, event)
	rs.version++
}

// Pop removes the top event.
func (rs *ResolutionStack) Pop() (PendingEvent, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if len(rs.items) == 0 {
		return PendingEvent{}, false
	}

	idx := len(rs.items) - 1
	event := rs.items[idx]
	rs.items = rs.items[:idx]
	rs.version++
	return event, true
}

// List returns a copy of all events (topmost last).
func (rs *ResolutionStack) List() []PendingEvent {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	cpy := make([]PendingEvent, len(rs.items))
	copy(cpy, rs.items)
	return cpy
}

// IsEmpty returns whether the stack is empty.
func (rs *ResolutionStack) IsEmpty() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.items) == 0
}

// Len returns the number of pending events.
func (rs *ResolutionStack) Len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.items)
}

// Version increases on every push and pop.
func (rs *ResolutionStack) Version() uint64 {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.version
}
