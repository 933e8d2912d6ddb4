// Package bus fans printer events out to application observers: every
// applied state snapshot and every connection status change becomes one
// Event delivered to all current subscribers.
package bus

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType classifies a printer event.
type EventType string

const (
	EventSnapshot EventType = "snapshot"
	EventStatus   EventType = "status"
)

// Event is the envelope delivered to subscribers. For EventSnapshot,
// Data is the full merged state; for EventStatus it is the link status
// string ("connected" / "disconnected" / ...).
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type subscriber struct {
	id string
	ch chan Event
}

// Bus is a fan-out of printer events. Slow consumers are skipped when
// their buffer is full so the client's receive loop is never stalled;
// they can recover from the next full snapshot.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]*subscriber
}

// New constructs a ready Bus.
func New() *Bus {
	return &Bus{subs: make(map[string]*subscriber)}
}

// Subscribe registers an observer. It returns the subscriber id, a
// receive channel, and an unsubscribe function that must be called when
// the observer goes away (it closes the channel).
func (b *Bus) Subscribe() (string, <-chan Event, func()) {
	s := &subscriber{id: uuid.NewString(), ch: make(chan Event, 64)}
	b.mu.Lock()
	b.subs[s.id] = s
	b.mu.Unlock()

	unsub := func() {
		b.mu.Lock()
		if _, ok := b.subs[s.id]; ok {
			delete(b.subs, s.id)
			close(s.ch)
		}
		b.mu.Unlock()
	}
	return s.id, s.ch, unsub
}

// Publish delivers e to all current subscribers.
func (b *Bus) Publish(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		select {
		case s.ch <- e:
		default:
			// Slow consumer, drop.
		}
	}
}

// PublishSnapshot wraps a merged state snapshot in an EventSnapshot.
func (b *Bus) PublishSnapshot(snap map[string]any) {
	b.Publish(Event{Type: EventSnapshot, Data: snap})
}

// PublishStatus wraps a link status change in an EventStatus.
func (b *Bus) PublishStatus(status string) {
	b.Publish(Event{Type: EventStatus, Data: status})
}

// Len returns the current subscriber count.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
