package browser

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType names a controller state transition.
type EventType string

const (
	EventLaunched   EventType = "launched"
	EventTerminated EventType = "terminated"
	EventExited     EventType = "exited"
	EventRetracted  EventType = "retracted"
	EventReset      EventType = "reset"
)

// Event is published on every table change and process notification.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Kind       Kind      `json:"kind"`
	InstanceID string    `json:"instance_id,omitempty"`
	PID        int       `json:"pid,omitempty"`
	Running    bool      `json:"running"`
	Error      string    `json:"error,omitempty"`
	Time       time.Time `json:"time"`
}

// Hub fans controller events out to subscribers. Slow subscribers lose
// events rather than stall the controller.
type Hub struct {
	mu     sync.RWMutex
	subs   map[chan Event]struct{}
	buffer int
	closed bool
}

// NewHub creates a hub whose subscriber channels hold buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:   make(map[chan Event]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber. The returned cancel func
// unsubscribes and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
			h.mu.Unlock()
		})
	}
}

// Publish stamps ev and delivers it to every subscriber without blocking.
func (h *Hub) Publish(ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close closes every subscriber channel and rejects new subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
