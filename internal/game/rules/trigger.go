package rules

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// DelayedTrigger reacts to a rules event for a limited time. Fire runs with
// the manager unlocked, so it may register or unregister other triggers.
type DelayedTrigger struct {
	ID             string
	SourceID       string
	Controller     string
	EventType      EventType
	Condition      func(Event) bool
	Fire           func(Event) error
	Once           bool
	UntilEndOfTurn bool
	order          int
}

// TriggerManager stores armed triggers and evaluates them against events.
type TriggerManager struct {
	mu       sync.Mutex
	triggers map[string]DelayedTrigger
	next     int
}

// NewTriggerManager creates an empty trigger manager.
func NewTriggerManager() *TriggerManager {
	return &TriggerManager{
		triggers: make(map[string]DelayedTrigger),
	}
}

// Register arms a trigger and returns its ID.
func (tm *TriggerManager) Register(trigger DelayedTrigger) string {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if trigger.ID == "" {
		trigger.ID = uuid.NewString()
	}
	tm.next++
	trigger.order = tm.next
	tm.triggers[trigger.ID] = trigger
	return trigger.ID
}

// Unregister removes a trigger by ID.
func (tm *TriggerManager) Unregister(id string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	delete(tm.triggers, id)
}

// Armed returns the number of armed triggers.
func (tm *TriggerManager) Armed() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.triggers)
}

// ArmedFor returns the armed triggers watching the given event type, in
// registration order.
func (tm *TriggerManager) ArmedFor(eventType EventType) []DelayedTrigger {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.matching(Event{Type: eventType}, false)
}

func (tm *TriggerManager) matching(event Event, checkCondition bool) []DelayedTrigger {
	var matched []DelayedTrigger
	for _, trigger := range tm.triggers {
		if trigger.EventType != event.Type {
			continue
		}
		if checkCondition && trigger.Condition != nil && !trigger.Condition(event) {
			continue
		}
		matched = append(matched, trigger)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].order < matched[j].order })
	return matched
}

// Handle fires every trigger whose event type and condition match. Once
// triggers are disarmed before they fire. The first error stops evaluation.
func (tm *TriggerManager) Handle(event Event) (int, error) {
	tm.mu.Lock()
	matched := tm.matching(event, true)
	for _, trigger := range matched {
		if trigger.Once {
			delete(tm.triggers, trigger.ID)
		}
	}
	tm.mu.Unlock()

	fired := 0
	for _, trigger := range matched {
		if trigger.Fire == nil {
			continue
		}
		if err := trigger.Fire(event); err != nil {
			return fired, err
		}
		fired++
	}
	return fired, nil
}

// ExpireEndOfTurn disarms every trigger that lasts until end of turn and
// returns their IDs.
func (tm *TriggerManager) ExpireEndOfTurn() []string {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	var expired []string
	for id, trigger := range tm.triggers {
		if trigger.UntilEndOfTurn {
			expired = append(expired, id)
			delete(tm.triggers, id)
		}
	}
	sort.Strings(expired)
	return expired
}
