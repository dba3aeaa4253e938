// Package messaging implements the in-memory notification event bus.
// It fans out progression events (course completions, team invites, streak
// milestones) to registered listeners with no persistence or replay.
package messaging

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ecolearn-hub/ecolearn-progression/internal/domain/shared"

	"github.com/google/uuid"
)

// Listener receives fully-populated notification events.
type Listener func(event shared.Event) error

// UnsubscribeFunc removes a previously registered listener.
// Calling it more than once is safe.
type UnsubscribeFunc func()

// Bus is a process-wide, in-memory fan-out hub. Publish is fully synchronous:
// every listener registered at the moment of the call is invoked before
// Publish returns. Events published with no subscribers are silently dropped.
type Bus struct {
	mu        sync.RWMutex
	listeners []subscription
	nextID    uint64
	logger    *slog.Logger
}

type subscription struct {
	id       uint64
	listener Listener
}

// NewBus creates a new event bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger}
}

// Subscribe registers a listener and returns its de-registration capability.
func (b *Bus) Subscribe(listener Listener) (UnsubscribeFunc, error) {
	if listener == nil {
		return nil, errors.New("listener cannot be nil")
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, subscription{id: id, listener: listener})
	b.mu.Unlock()

	b.logger.Debug("subscribed listener", "listener_id", id)

	return func() { b.unsubscribe(id) }, nil
}

// unsubscribe removes the listener with the given id. Idempotent.
func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.listeners {
		if sub.id == id {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			b.logger.Debug("unsubscribed listener", "listener_id", id)
			return
		}
	}
}

// Publish delivers the event to every currently registered listener in
// registration order. A failing or panicking listener is logged and does not
// prevent delivery to subsequent listeners or propagate to the publisher.
// Dispatch iterates over a snapshot of the listener set, so subscriptions
// added during dispatch are not delivered to for this call and
// unsubscriptions during dispatch cannot break the loop.
func (b *Bus) Publish(event shared.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	event = stamped(event)

	b.mu.RLock()
	snapshot := make([]subscription, len(b.listeners))
	copy(snapshot, b.listeners)
	b.mu.RUnlock()

	if len(snapshot) == 0 {
		b.logger.Debug("no listeners for event", "event_type", event.EventType())
		return nil
	}

	for _, sub := range snapshot {
		if err := b.invoke(sub, event); err != nil {
			b.logger.Error("listener error",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"listener_id", sub.id,
				"error", err,
			)
		}
	}

	return nil
}

// invoke runs a single listener with panic recovery.
func (b *Bus) invoke(sub subscription, event shared.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panic: %v", r)
		}
	}()
	return sub.listener(event)
}

// Count returns the number of registered listeners.
func (b *Bus) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// stamped guarantees the event carries an id and timestamp. Events built
// through the shared constructors already do; this covers hand-built values.
func stamped(event shared.Event) shared.Event {
	if event.EventID() != "" && !event.OccurredAt().IsZero() {
		return event
	}
	return stampedEvent{
		Event: event,
		id:    uuid.NewString(),
		ts:    time.Now().UTC(),
	}
}

type stampedEvent struct {
	shared.Event
	id string
	ts time.Time
}

func (e stampedEvent) EventID() string {
	if inner := e.Event.EventID(); inner != "" {
		return inner
	}
	return e.id
}

func (e stampedEvent) OccurredAt() time.Time {
	if inner := e.Event.OccurredAt(); !inner.IsZero() {
		return inner
	}
	return e.ts
}
