// Package protocol defines the JSON messages exchanged between the
// table server and bot clients over the websocket transport.
package protocol

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of message
type MessageType string

const (
	// Client -> Server
	TypeJoin      MessageType = "join"
	TypeBet       MessageType = "bet"
	TypeBonusBet  MessageType = "bonus_bet"
	TypeRemoveBet MessageType = "remove_bet"
	TypeReady     MessageType = "ready"
	TypeHit       MessageType = "hit"
	TypeStand     MessageType = "stand"
	TypeDouble    MessageType = "double"
	TypeSplit     MessageType = "split"
	TypeNewHand   MessageType = "new_hand"
	TypeSetDecks  MessageType = "set_decks"

	// Server -> Client
	TypeWelcome    MessageType = "welcome"
	TypeTableState MessageType = "table_state"
	TypeRejected   MessageType = "rejected"
	TypeSettlement MessageType = "settlement"
	TypeBonus      MessageType = "bonus_result"
	TypeReshuffled MessageType = "reshuffled"
	TypeError      MessageType = "error"
)

// Envelope is the base websocket message structure
type Envelope struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEnvelope wraps a payload with its type and the current timestamp
func NewEnvelope(messageType MessageType, data interface{}) (*Envelope, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &Envelope{
		Type:      messageType,
		Data:      raw,
		Timestamp: time.Now(),
	}, nil
}

// Client -> Server Messages

// Join is sent by a client when connecting to a table
type Join struct {
	Name string `json:"name"`
}

// Bet stakes an amount, either the main wager or a bonus wager
type Bet struct {
	Amount int `json:"amount"`
}

// SetDecks changes the shoe size between rounds
type SetDecks struct {
	Count int `json:"count"`
}

// Server -> Client Messages

// Welcome confirms a join and describes the table
type Welcome struct {
	SessionID string `json:"sessionId"`
	Balance   int    `json:"balance"`
	DeckCount int    `json:"deckCount"`
	MinBet    int    `json:"minBet"`
	MaxBet    int    `json:"maxBet"`
}

// HandState is one hand as visible to the client
type HandState struct {
	ID      string   `json:"id"`
	Cards   []string `json:"cards"`
	Value   int      `json:"value"`
	Soft    bool     `json:"soft"`
	Bet     int      `json:"bet,omitempty"`
	Stood   bool     `json:"stood,omitempty"`
	Doubled bool     `json:"doubled,omitempty"`
	Busted  bool     `json:"busted,omitempty"`
}

// TableState is the full view of the table, sent after every accepted
// command so clients never need to track incremental updates
type TableState struct {
	Phase      string      `json:"phase"`
	Balance    int         `json:"balance"`
	MainBet    int         `json:"mainBet"`
	BonusBet   int         `json:"bonusBet,omitempty"`
	Dealer     HandState   `json:"dealer"`
	Hands      []HandState `json:"hands"`
	ActiveHand string      `json:"activeHand,omitempty"`
	Remaining  int         `json:"remaining"`
	DeckCount  int         `json:"deckCount"`
}

// Rejected reports a refused command with the reason
type Rejected struct {
	Command MessageType `json:"command"`
	Reason  string      `json:"reason"`
}

// HandSettlement is the result for a single player hand
type HandSettlement struct {
	Hand     string `json:"hand"`
	Outcome  string `json:"outcome"`
	Payout   int    `json:"payout"`
	Returned int    `json:"returned"`
}

// Settlement is sent when a round completes
type Settlement struct {
	Hands   []HandSettlement `json:"hands"`
	Dealer  HandState        `json:"dealer"`
	Balance int              `json:"balance"`
}

// BonusResult reports the side bet settlement after the deal
type BonusResult struct {
	Category string `json:"category"`
	Odds     int    `json:"odds"`
	Payout   int    `json:"payout"`
	Balance  int    `json:"balance"`
}

// Reshuffled signals that the shoe was rebuilt before a deal
type Reshuffled struct {
	DeckCount int `json:"deckCount"`
	Remaining int `json:"remaining"`
}

// Error reports a protocol level failure
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
