// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-starcruiser/pkg/physics"
)

// Type represents the type of event
type Type string

// Game event types
const (
	ShipSpawned        Type = "ship_spawned"
	ShipDestroyed      Type = "ship_destroyed"
	TorpedoLaunched    Type = "torpedo_launched"
	TorpedoDetonated   Type = "torpedo_detonated"
	ClientConnected    Type = "client_connected"
	ClientDisconnected Type = "client_disconnected"
	ClientJoinedShip   Type = "client_joined_ship"
	GamePaused         Type = "game_paused"
	GameResumed        Type = "game_resumed"
	GameRestarted      Type = "game_restarted"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

type subscriber struct {
	id      uint64
	handler Handler
}

// Subscription identifies a registered handler. Cancel removes it from the
// bus; calling it twice is a no-op.
type Subscription struct {
	ID     uint64
	Cancel func()
}

// Bus manages event subscriptions and dispatching. Handlers run on the
// publisher's goroutine.
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})
	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// ShipEvent contains information about ship-related events
type ShipEvent struct {
	BaseEvent
	ShipID  physics.ObjectID
	Faction string
}

// NewShipEvent creates a new ship event
func NewShipEvent(eventType Type, source interface{}, shipID physics.ObjectID, faction string) *ShipEvent {
	return &ShipEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		ShipID:  shipID,
		Faction: faction,
	}
}

// TorpedoEvent contains information about a torpedo launch or detonation.
// HitShip is empty for launches and for torpedoes that burnt out.
type TorpedoEvent struct {
	BaseEvent
	TorpedoID  physics.ObjectID
	LaunchedBy physics.ObjectID
	HitShip    physics.ObjectID
}

// NewTorpedoEvent creates a new torpedo event
func NewTorpedoEvent(eventType Type, source interface{}, torpedoID, launchedBy, hitShip physics.ObjectID) *TorpedoEvent {
	return &TorpedoEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		TorpedoID:  torpedoID,
		LaunchedBy: launchedBy,
		HitShip:    hitShip,
	}
}

// ClientEvent contains information about a client connection
type ClientEvent struct {
	BaseEvent
	ClientID physics.ObjectID
	ShipID   physics.ObjectID
}

// NewClientEvent creates a new client event
func NewClientEvent(eventType Type, source interface{}, clientID, shipID physics.ObjectID) *ClientEvent {
	return &ClientEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		ClientID: clientID,
		ShipID:   shipID,
	}
}
