package auth

import (
	"sync"
	"time"
)

// EventKind tells listeners what changed.
type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

// Event is delivered to every subscriber when a session starts or ends.
type Event struct {
	Kind       EventKind
	User       User
	OccurredAt time.Time
}

// Listener receives auth events. It runs on the caller's goroutine and should return quickly.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Hub fans auth events out to subscribers in subscription order.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers fn and returns the function that removes it again.
// Calling the returned function more than once is harmless.
func (h *Hub) Subscribe(fn Listener) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, s := range h.subs {
		if s.id == id {
			h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
			return
		}
	}
}

// Len reports the number of current subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publish delivers e synchronously. Listeners are snapshotted first, so a listener may
// subscribe or unsubscribe without deadlocking.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	subs := make([]subscription, len(h.subs))
	copy(subs, h.subs)
	h.mu.Unlock()

	for _, s := range subs {
		s.fn(e)
	}
}
