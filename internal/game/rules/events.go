package rules

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType names what happened.
type EventType string

const (
	// Turn events
	EventTurnStarted   EventType = "TURN_STARTED"
	EventPhaseChanged  EventType = "PHASE_CHANGED"
	EventStepChanged   EventType = "STEP_CHANGED"
	EventDieRolled     EventType = "DIE_ROLLED"
	EventFirstPlayer   EventType = "FIRST_PLAYER"
	EventCardDrawn     EventType = "CARD_DRAWN"
	EventPitchReturned EventType = "PITCH_RETURNED"

	// Intent events
	EventPriorityPassed EventType = "PRIORITY_PASSED"
	EventCardProposed   EventType = "CARD_PROPOSED"
	EventCardPitched    EventType = "CARD_PITCHED"
	EventBlocksDeclared EventType = "BLOCKS_DECLARED"

	// Admission events
	EventCostPaid     EventType = "COST_PAID"
	EventPlayRejected EventType = "PLAY_REJECTED"
	EventAttackStaged EventType = "ATTACK_STAGED"

	// Combat events
	EventAttackRejected  EventType = "ATTACK_REJECTED"
	EventAttackAborted   EventType = "ATTACK_ABORTED"
	EventAttackDeclared  EventType = "ATTACK_DECLARED"
	EventChainLinkOpened EventType = "CHAIN_LINK_OPENED"
	EventChainLinkClosed EventType = "CHAIN_LINK_CLOSED"
	EventHit             EventType = "HIT"
	EventDamageDealt     EventType = "DAMAGE_DEALT"
	EventGoAgain         EventType = "GO_AGAIN"

	// Stack events
	EventStackItemResolved EventType = "STACK_ITEM_RESOLVED"
	EventStackItemFizzled  EventType = "STACK_ITEM_FIZZLED"

	// Store events
	EventCardRemoved EventType = "CARD_REMOVED"

	// Life events
	EventLifeLost EventType = "LIFE_LOST"
	EventGameOver EventType = "GAME_OVER"
)

// Event is a state change other parts of the game react to. Seq is stamped
// by the bus that published it and orders every event of one game.
type Event struct {
	Type      EventType
	ID        string
	Seq       uint64
	GameID    string
	PlayerID  string
	SourceID  string
	TargetID  string
	Amount    int
	Data      string
	Timestamp time.Time
}

// Listener reacts to a published event.
type Listener func(Event)

type subscription struct {
	handle int
	filter EventType // empty matches every type
	fn     Listener
}

// EventBus delivers events synchronously to its subscribers in the order
// they subscribed.
type EventBus struct {
	mu         sync.RWMutex
	subs       []subscription
	nextHandle int
	seq        uint64
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for every event and returns its handle, or
// -1 for a nil listener.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.add("", listener)
}

// SubscribeTyped registers a listener for one event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) int {
	return bus.add(eventType, listener)
}

func (bus *EventBus) add(filter EventType, fn Listener) int {
	if fn == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.subs = append(bus.subs, subscription{handle: handle, filter: filter, fn: fn})
	return handle
}

// Unsubscribe removes a listener. Unknown handles are ignored.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subs = slices.DeleteFunc(bus.subs, func(s subscription) bool { return s.handle == handle })
}

// Publish stamps the event's sequence number and hands it to every matching
// listener. Listeners run outside the bus lock and may subscribe further
// listeners, which see the next event.
func (bus *EventBus) Publish(event Event) {
	bus.mu.Lock()
	bus.seq++
	event.Seq = bus.seq
	subs := slices.Clone(bus.subs)
	bus.mu.Unlock()

	for _, s := range subs {
		if s.filter == "" || s.filter == event.Type {
			s.fn(event)
		}
	}
}

// NewEvent creates an event with a generated ID and the current time.
func NewEvent(eventType EventType, playerID, sourceID, targetID string) Event {
	return Event{
		Type:      eventType,
		ID:        uuid.NewString(),
		PlayerID:  playerID,
		SourceID:  sourceID,
		TargetID:  targetID,
		Timestamp: time.Now(),
	}
}

// NewEventWithAmount creates an event carrying an amount.
func NewEventWithAmount(eventType EventType, playerID, sourceID, targetID string, amount int) Event {
	evt := NewEvent(eventType, playerID, sourceID, targetID)
	evt.Amount = amount
	return evt
}
