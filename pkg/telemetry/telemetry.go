// Package telemetry publishes shell events and exposes Prometheus metrics.
package telemetry

import (
	"sync"
	"time"
)

// EventType identifies the kind of telemetry event.
type EventType string

const (
	EventWindowCreated   EventType = "window.created"
	EventWindowClosed    EventType = "window.closed"
	EventWindowMinimized EventType = "window.minimized"
	EventWindowMaximized EventType = "window.maximized"
	EventWindowRestored  EventType = "window.restored"
	EventFocusChanged    EventType = "focus.changed"
	EventDragStarted     EventType = "drag.started"
	EventDragCommitted   EventType = "drag.committed"
	EventConfigReloaded  EventType = "config.reloaded"
)

// Event describes something the shell did that observers may care about.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	WindowID  string         `json:"windowId,omitempty"`
	Title     string         `json:"title,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// SubscriberBuffer is the per-subscriber channel capacity.
const SubscriberBuffer = 64

// Hub fans out events to any number of subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	closed      bool
}

// NewHub constructs a telemetry hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan Event]struct{})}
}

// Publish notifies all subscribers. Non-blocking; slow subscribers miss events.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe returns a channel of future events and a cleanup func.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		empty := make(chan Event)
		close(empty)
		return empty, func() {}
	}
	ch := make(chan Event, SubscriberBuffer)
	h.subscribers[ch] = struct{}{}
	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
	return ch, unsubscribe
}

// Close unsubscribes all listeners and prevents future publications.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, ch)
	}
}
