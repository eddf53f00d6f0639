package game

import (
	"sync"
	"time"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeGameStarted  EventType = "game_started"
	EventTypeMoveAccepted EventType = "move_accepted"
	EventTypeMoveRejected EventType = "move_rejected"
	EventTypeGameEnded    EventType = "game_ended"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything the engine reports to its collaborators
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// GameStartedEvent is published when Start accepts a deal
type GameStartedEvent struct {
	GameID      string
	FirstPlayer int
	CardCounts  [Seats]int
	timestamp   time.Time
}

func (e GameStartedEvent) EventType() EventType { return EventTypeGameStarted }
func (e GameStartedEvent) Timestamp() time.Time { return e.timestamp }

// MoveAcceptedEvent is published for every accepted play or pass. NextPlayer
// is -1 once the move ended the game.
type MoveAcceptedEvent struct {
	GameID     string
	Move       Move
	NextPlayer int
	CardsLeft  int
	timestamp  time.Time
}

func (e MoveAcceptedEvent) EventType() EventType { return EventTypeMoveAccepted }
func (e MoveAcceptedEvent) Timestamp() time.Time { return e.timestamp }

// MoveRejectedEvent is published when SubmitMove refuses an illegal move
type MoveRejectedEvent struct {
	GameID    string
	Player    int
	Err       *MoveError
	timestamp time.Time
}

func (e MoveRejectedEvent) EventType() EventType { return EventTypeMoveRejected }
func (e MoveRejectedEvent) Timestamp() time.Time { return e.timestamp }

// GameEndedEvent is published when a player runs out of cards
type GameEndedEvent struct {
	GameID    string
	Winner    int
	Results   []PlayerResult
	timestamp time.Time
}

func (e GameEndedEvent) EventType() EventType { return EventTypeGameEnded }
func (e GameEndedEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus. Subscribers run on
// the publishing goroutine in subscription order.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := append([]EventSubscriber(nil), bus.subscribers...)
	bus.mu.RUnlock()
	for _, sub := range subs {
		sub.OnEvent(event)
	}
}
