package rules

import (
	"testing"
)

func TestEventBusSubscribeTyped(t *testing.T) {
	bus := NewEventBus()

	hits := 0
	lifeLost := 0

	handle1 := bus.SubscribeTyped(EventHit, func(e Event) {
		hits++
	})
	handle2 := bus.SubscribeTyped(EventLifeLost, func(e Event) {
		lifeLost++
	})

	bus.Publish(NewEvent(EventHit, "alice", "c1", "bob"))
	if hits != 1 {
		t.Fatalf("expected hit count 1, got %d", hits)
	}
	if lifeLost != 0 {
		t.Fatalf("expected life lost count 0, got %d", lifeLost)
	}

	bus.Publish(NewEventWithAmount(EventLifeLost, "bob", "c1", "bob", 3))
	if lifeLost != 1 {
		t.Fatalf("expected life lost count 1, got %d", lifeLost)
	}

	bus.Unsubscribe(handle1)
	bus.Publish(NewEvent(EventHit, "alice", "c2", "bob"))
	if hits != 1 {
		t.Fatalf("expected hit count still 1 after unsubscribe, got %d", hits)
	}

	bus.Unsubscribe(handle2)
	bus.Publish(NewEventWithAmount(EventLifeLost, "bob", "c2", "bob", 2))
	if lifeLost != 1 {
		t.Fatalf("expected life lost count still 1 after unsubscribe, got %d", lifeLost)
	}
}

func TestEventBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		bus.Subscribe(func(Event) { order = append(order, i) })
	}
	bus.Publish(NewEvent(EventTurnStarted, "alice", "", ""))

	for i, got := range order {
		if got != i {
			t.Fatalf("listener %d ran at position %d", got, i)
		}
	}
	if len(order) != 5 {
		t.Fatalf("expected 5 deliveries, got %d", len(order))
	}
}

func TestEventBusIgnoresNilListeners(t *testing.T) {
	bus := NewEventBus()
	if h := bus.Subscribe(nil); h != -1 {
		t.Fatalf("expected -1 for a nil listener, got %d", h)
	}
	if h := bus.SubscribeTyped(EventHit, nil); h != -1 {
		t.Fatalf("expected -1 for a nil typed listener, got %d", h)
	}
	bus.Publish(NewEvent(EventHit, "", "", ""))
}

func TestNewEventWithAmount(t *testing.T) {
	evt := NewEventWithAmount(EventDamageDealt, "alice", "c1", "bob", 4)
	if evt.ID == "" || evt.Timestamp.IsZero() {
		t.Fatalf("expected generated ID and timestamp")
	}
	if evt.Amount != 4 || evt.TargetID != "bob" {
		t.Fatalf("unexpected event %+v", evt)
	}
	if evt.Seq != 0 {
		t.Fatalf("sequence is assigned on publish, got %d", evt.Seq)
	}
}

func TestEventBusStampsSequence(t *testing.T) {
	bus := NewEventBus()
	var seqs []uint64
	bus.Subscribe(func(e Event) { seqs = append(seqs, e.Seq) })
	bus.SubscribeTyped(EventHit, func(e Event) {
		if e.Seq != 2 {
			t.Fatalf("typed listener saw seq %d, want 2", e.Seq)
		}
	})

	bus.Publish(NewEvent(EventTurnStarted, "alice", "", ""))
	bus.Publish(NewEvent(EventHit, "alice", "c1", "bob"))
	bus.Publish(NewEvent(EventLifeLost, "bob", "c1", "bob"))

	if len(seqs) != 3 || seqs[0] != 1 || seqs[2] != 3 {
		t.Fatalf("unexpected sequence %v", seqs)
	}
}
