package rules

import "sync"

// AttackStaging is the single slot an attack waits in before it enters the
// chain. Staging is paired with PriorityTracker.Hold by the admission gate.
type AttackStaging struct {
	mu      sync.Mutex
	event   *PendingEvent
	version uint64
}

// NewAttackStaging creates an empty staging slot.
func NewAttackStaging() *AttackStaging {
	return &AttackStaging{version: 1}
}

// Stage stores the event, replacing anything already staged.
func (as *AttackStaging) Stage(event PendingEvent) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.event = &event
	as.version++
}

// Take removes and returns the staged event.
func (as *AttackStaging) Take() (PendingEvent, bool) {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.event == nil {
		return PendingEvent{}, false
	}
	event := *as.event
	as.event = nil
	as.version++
	return event, true
}

// Peek returns the staged event without removing it.
func (as *AttackStaging) Peek() (PendingEvent, bool) {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.event == nil {
		return PendingEvent{}, false
	}
	return *as.event, true
}

// Occupied reports whether an attack is staged.
func (as *AttackStaging) Occupied() bool {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.event != nil
}

// Version increases on every stage and take.
func (as *AttackStaging) Version() uint64 {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.version
}
