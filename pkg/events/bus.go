// Package events provides an in-process publish/subscribe bus for
// application notifications such as generated recommendations.
package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Topics published by loan-match.
const (
	TopicRecommendationsGenerated = "recommendations.generated"
	TopicApplicationSubmitted     = "application.submitted"
)

// Event is a single notification.
type Event struct {
	ID         string                 `json:"id"`
	Topic      string                 `json:"topic"`
	OccurredAt time.Time              `json:"occurredAt"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// NewEvent creates an event with a generated ID and the current time.
func NewEvent(topic string, payload map[string]interface{}) Event {
	return Event{
		ID:         uuid.New().String(),
		Topic:      topic,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Handler receives published events.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus delivers events synchronously to the topic's subscribers in
// subscription order. A panicking handler is logged and does not stop
// delivery to the others.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]subscription
	nextID uint64
	logger *zap.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[string][]subscription),
		logger: logger,
	}
}

// Subscribe registers handler for topic and returns a function that removes
// it. Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(topic string, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(topic, id) })
	}
}

func (b *Bus) unsubscribe(topic string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
}

// Subscribers reports how many handlers are registered for topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Publish creates an event for topic and delivers it.
func (b *Bus) Publish(topic string, payload map[string]interface{}) Event {
	event := NewEvent(topic, payload)
	b.Deliver(event)
	return event
}

// Deliver sends an existing event to the subscribers of its topic.
func (b *Bus) Deliver(event Event) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs[event.Topic]...)
	b.mu.RUnlock()

	for _, s := range subs {
		b.invoke(s, event)
	}
}

func (b *Bus) invoke(s subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("op", "events.Deliver"),
				zap.String("topic", event.Topic),
				zap.String("eventID", event.ID),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	s.handler(event)
}
