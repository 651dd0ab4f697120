package timekeeper

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State represents the lifecycle position of a TimeKeeper.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateStopped State = "stopped"
	StateExpired State = "expired"
)

// Mode selects whether the TimeKeeper counts down or up.
type Mode string

const (
	ModeCountdown Mode = "countdown"
	ModeStopwatch Mode = "stopwatch"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventIdlePause   EventType = "idle_pause"
	EventIdleError   EventType = "idle_error"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type    EventType
	Session uuid.UUID
	Mode    Mode
	State   State
	Seconds int
	Label   string
	Message string
	At      time.Time
}

// Publisher receives events emitted by the tick loop. Publish must not block.
type Publisher interface {
	Publish(event Event)
}

// Hub fans events out to channel subscribers. A Hub outlives the individual
// timer sessions that publish into it.
type Hub struct {
	mu     sync.Mutex
	events []chan Event
	closed bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers a new observer channel.
func (hub *Hub) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.closed {
		close(ch)
		return ch
	}
	hub.events = append(hub.events, ch)
	return ch
}

// Publish delivers the event without blocking. A full subscriber loses
// progress events; any other event evicts the oldest buffered one so state
// changes always arrive.
func (hub *Hub) Publish(event Event) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for _, ch := range hub.events {
		select {
		case ch <- event:
			continue
		default:
		}
		if event.Type == EventProgress {
			continue
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- event:
		default:
		}
	}
}

// Close closes every subscriber channel.
func (hub *Hub) Close() {
	hub.mu.Lock()
	events := hub.events
	hub.events = nil
	hub.closed = true
	hub.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

type discardPublisher struct{}

func (discardPublisher) Publish(Event) {}
