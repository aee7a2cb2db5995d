package session

import "sync"

// EventName identifies a broadcast notification.
type EventName string

const (
	// EventLogout fires after the session clears on logout.
	EventLogout EventName = "logout"
	// EventResetUI asks listeners to drop transient UI state after logout.
	EventResetUI EventName = "resetUi"
)

// Emitter is a broadcast bus for global notifications. Unlike hooks,
// listeners are fire-and-forget: every listener runs, in registration
// order, and cannot veto or fail the emit.
type Emitter struct {
	mu        sync.RWMutex
	listeners map[EventName][]func()
}

// NewEmitter returns an empty event emitter.
func NewEmitter() *Emitter {
	return &Emitter{
		listeners: make(map[EventName][]func()),
	}
}

// On registers a listener for the event.
func (e *Emitter) On(name EventName, fn func()) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[name] = append(e.listeners[name], fn)
}

// Emit runs every listener registered for the event.
func (e *Emitter) Emit(name EventName) {
	e.mu.RLock()
	listeners := make([]func(), len(e.listeners[name]))
	copy(listeners, e.listeners[name])
	e.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}
