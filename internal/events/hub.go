// Package events fans user change notifications out to live subscribers
// such as websocket clients.
package events

import (
	"sync"
	"time"

	"github.com/alfagnish/users-api/internal/users"
	"github.com/google/uuid"
)

// Type identifies what happened to a record.
type Type string

const (
	TypeCreated = Type(users.ChangeCreated)
	TypeUpdated = Type(users.ChangeUpdated)
	TypeDeleted = Type(users.ChangeDeleted)
)

// Event describes a single change to the user store.
type Event struct {
	ID   string     `json:"id"`
	Type Type       `json:"type"`
	User users.User `json:"user"`
	Time time.Time  `json:"time"`
}

// DefaultBuffer is the per-subscriber queue length used by NewHub when
// a non-positive size is given.
const DefaultBuffer = 32

// Hub is a thread-safe broadcaster. A subscriber whose queue is full is
// dropped and its channel closed, so Publish never blocks.
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]chan Event
	nextID uint64
	buffer int
}

// NewHub creates a hub with the given per-subscriber buffer size.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   make(map[uint64]chan Event),
		buffer: buffer,
	}
}

// Subscribe registers a new listener. The returned cancel func removes
// it and is safe to call more than once.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.buffer)
	h.subs[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.remove(id)
	}
}

// Publish stamps an event for u and delivers it to every subscriber.
func (h *Hub) Publish(t Type, u users.User) Event {
	evt := Event{
		ID:   uuid.New().String(),
		Type: t,
		User: u,
		Time: time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- evt:
		default:
			h.remove(id)
		}
	}
	return evt
}

// Observe publishes a store change. It has the users.ChangeFunc shape so
// a hub can be attached with store.OnChange(hub.Observe).
func (h *Hub) Observe(kind users.ChangeKind, u users.User) {
	h.Publish(Type(kind), u)
}

// Subscribers returns the number of active listeners.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// remove must be called with mu held.
func (h *Hub) remove(id uint64) {
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}
