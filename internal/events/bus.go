// Package events provides a small publish/subscribe bus scoped to the
// lifetime of the application. It replaces an ambient global broadcast:
// whoever creates the bus decides who can publish and listen.
package events

import "sync"

// FlashcardsUpdated is published whenever the saved words or flashcards change
const FlashcardsUpdated = "flashcards:updated"

// Publisher sends payload-less notifications
type Publisher interface {
	Publish(topic string)
}

// Subscriber registers handlers for a topic
type Subscriber interface {
	Subscribe(topic string, handler func()) (unsubscribe func())
}

// Bus is a fire-and-forget notification bus. Handlers run synchronously
// on the publishing goroutine in subscription order.
type Bus struct {
	mu       sync.Mutex
	nextID   int
	handlers map[string][]subscription
}

type subscription struct {
	id      int
	handler func()
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]subscription)}
}

// Subscribe adds a handler for topic. The returned func removes it and is
// safe to call more than once.
func (b *Bus) Subscribe(topic string, handler func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[topic] = append(b.handlers[topic], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

func (b *Bus) remove(topic string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[topic]
	for i, s := range subs {
		if s.id == id {
			b.handlers[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[topic]) == 0 {
		delete(b.handlers, topic)
	}
}

// Publish notifies every handler of topic. Handlers may subscribe or
// unsubscribe while being notified.
func (b *Bus) Publish(topic string) {
	b.mu.Lock()
	subs := append([]subscription(nil), b.handlers[topic]...)
	b.mu.Unlock()

	for _, s := range subs {
		s.handler()
	}
}

// Subscribers returns the number of handlers registered for topic
func (b *Bus) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[topic])
}
