package events

import "testing"

func TestBusPublish(t *testing.T) {
	bus := NewBus()

	var calls []string
	bus.Subscribe(FlashcardsUpdated, func() { calls = append(calls, "first") })
	bus.Subscribe(FlashcardsUpdated, func() { calls = append(calls, "second") })
	bus.Subscribe("other", func() { calls = append(calls, "other") })

	bus.Publish(FlashcardsUpdated)

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("Unexpected handler calls: %v", calls)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	unsubscribe := bus.Subscribe(FlashcardsUpdated, func() { count++ })

	bus.Publish(FlashcardsUpdated)
	unsubscribe()
	unsubscribe() // second call is a no-op
	bus.Publish(FlashcardsUpdated)

	if count != 1 {
		t.Errorf("Expected 1 call, got %d", count)
	}
	if n := bus.Subscribers(FlashcardsUpdated); n != 0 {
		t.Errorf("Expected 0 subscribers, got %d", n)
	}
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	bus.Publish(FlashcardsUpdated) // must not panic
}

func TestBusUnsubscribeDuringPublish(t *testing.T) {
	bus := NewBus()

	count := 0
	var unsubscribe func()
	unsubscribe = bus.Subscribe(FlashcardsUpdated, func() {
		count++
		unsubscribe()
	})
	bus.Subscribe(FlashcardsUpdated, func() { count++ })

	bus.Publish(FlashcardsUpdated)
	bus.Publish(FlashcardsUpdated)

	if count != 3 {
		t.Errorf("Expected 3 calls, got %d", count)
	}
}
