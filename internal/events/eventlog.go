// Package events provides the append-only audit log for the simulation.
// Every mutation the engine performs — ticks, purchases, prestiges, story
// triggers — leaves an immutable record here.
package events

import (
	"math/rand"
	"sync"
	"time"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeTimeTick          EventType = "TIME_TICK"
	EventTypeClick             EventType = "CLICK"
	EventTypeResourceChange    EventType = "RESOURCE_CHANGE"
	EventTypeGeneratorPurchase EventType = "GENERATOR_PURCHASE"
	EventTypeUpgradePurchase   EventType = "UPGRADE_PURCHASE"
	EventTypePrestige          EventType = "PRESTIGE"
	EventTypeTaskCompleted     EventType = "TASK_COMPLETED"
	EventTypeNarrative         EventType = "NARRATIVE_TRIGGERED"
)

// GameEvent represents an immutable record of something that happened.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`  // Who performed the action
	TargetID  string      `json:"target_id"` // What was affected (optional)
	Payload   interface{} `json:"payload"`   // Event-specific data
	Tick      int64       `json:"tick"`      // Simulation tick the event belongs to
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of game events.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
	writeCh   chan GameEvent
	drained   chan struct{}
	closeOnce sync.Once
}

// NewEventLog creates a new event log with an optional persister. Persisted
// writes go through a single writer goroutine so storage order matches
// append order.
func NewEventLog(persister EventPersister) *EventLog {
	el := &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
	if persister != nil {
		el.writeCh = make(chan GameEvent, 256)
		el.drained = make(chan struct{})
		go el.writeLoop()
	}
	return el
}

func (el *EventLog) writeLoop() {
	for e := range el.writeCh {
		_ = el.persister.Append(e)
	}
	close(el.drained)
}

// Append adds a new event to the log. Events are immutable once appended.
// The channel send stays under the lock so the persister sees the same
// order as the in-memory log.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.events = append(el.events, event)

	if el.writeCh != nil {
		el.writeCh <- event
	}
}

// Close stops the writer goroutine and blocks until every queued event has
// been handed to the persister. Append must not be called after Close.
func (el *EventLog) Close() {
	if el.writeCh == nil {
		return
	}
	el.closeOnce.Do(func() {
		close(el.writeCh)
	})
	<-el.drained
}

// GetByType returns all events of a specific type.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// GetSinceTick returns all events at or after a given simulation tick.
func (el *EventLog) GetSinceTick(tick int64) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Tick >= tick {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns the full history of events for state reconstruction.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.events
}

// Len returns the number of events appended so far.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomSuffix()
}

// randomSuffix generates a short random string.
func randomSuffix() string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 6)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
