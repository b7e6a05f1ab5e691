package game

import (
	"time"

	"github.com/lox/blackjackforbots/internal/deck"
)

// HandID identifies a hand within a round for event consumers
type HandID string

const (
	DealerHand    HandID = "dealer"
	PlayerHandOne HandID = "player-1"
	PlayerHandTwo HandID = "player-2"
)

// EventType represents a table event type with type safety
type EventType string

const (
	EventTypePhaseChanged     EventType = "phase_changed"
	EventTypeHandDealt        EventType = "hand_dealt"
	EventTypeHandTotalChanged EventType = "hand_total_changed"
	EventTypeSettlement       EventType = "settlement_computed"
	EventTypeBonusSettled     EventType = "bonus_settled"
	EventTypeShoeReshuffled   EventType = "shoe_reshuffled"
	EventTypeBalanceChanged   EventType = "balance_changed"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// TableEvent represents any event emitted by the table
type TableEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// PhaseChangedEvent is published on every phase transition
type PhaseChangedEvent struct {
	From      Phase
	To        Phase
	timestamp time.Time
}

func (e PhaseChangedEvent) EventType() EventType { return EventTypePhaseChanged }
func (e PhaseChangedEvent) Timestamp() time.Time { return e.timestamp }

// HandDealtEvent is published when a hand receives its cards. The
// dealer's hole card is omitted until it is revealed.
type HandDealtEvent struct {
	Hand      HandID
	Cards     []deck.Card
	timestamp time.Time
}

func (e HandDealtEvent) EventType() EventType { return EventTypeHandDealt }
func (e HandDealtEvent) Timestamp() time.Time { return e.timestamp }

// HandTotalChangedEvent is published whenever a visible total changes
type HandTotalChangedEvent struct {
	Hand      HandID
	Total     Total
	timestamp time.Time
}

func (e HandTotalChangedEvent) EventType() EventType { return EventTypeHandTotalChanged }
func (e HandTotalChangedEvent) Timestamp() time.Time { return e.timestamp }

// SettlementEvent is published per player hand when the round settles
type SettlementEvent struct {
	Hand      HandID
	Outcome   Outcome
	Payout    int
	timestamp time.Time
}

func (e SettlementEvent) EventType() EventType { return EventTypeSettlement }
func (e SettlementEvent) Timestamp() time.Time { return e.timestamp }

// BonusSettledEvent is published right after the initial deal when a
// bonus bet was riding on it
type BonusSettledEvent struct {
	Category  BonusCategory
	Bet       int
	Payout    int
	timestamp time.Time
}

func (e BonusSettledEvent) EventType() EventType { return EventTypeBonusSettled }
func (e BonusSettledEvent) Timestamp() time.Time { return e.timestamp }

// ShoeReshuffledEvent is published when the shoe is rebuilt
type ShoeReshuffledEvent struct {
	Remaining int
	timestamp time.Time
}

func (e ShoeReshuffledEvent) EventType() EventType { return EventTypeShoeReshuffled }
func (e ShoeReshuffledEvent) Timestamp() time.Time { return e.timestamp }

// BalanceChangedEvent is published whenever the player balance moves
type BalanceChangedEvent struct {
	Balance   int
	Delta     int
	timestamp time.Time
}

func (e BalanceChangedEvent) EventType() EventType { return EventTypeBalanceChanged }
func (e BalanceChangedEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to table events
type EventSubscriber interface {
	OnEvent(event TableEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event TableEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event TableEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
