package game

import (
	"strings"

	"github.com/lox/blackjackforbots/internal/deck"
)

// Total is a blackjack hand total. Soft means an ace is still counted
// as 11.
type Total struct {
	Value int
	Soft  bool
}

// Hand is an ordered set of cards belonging to the dealer or a player
// hand. Totals are always recomputed from the full card list, never
// cached across mutations.
type Hand struct {
	Cards []deck.Card
}

// AddCard appends a card to the hand
func (h *Hand) AddCard(card deck.Card) {
	h.Cards = append(h.Cards, card)
}

// Total computes the best blackjack total. Aces start at 11 and are
// downgraded to 1 one at a time, only while the total exceeds 21.
func (h *Hand) Total() Total {
	value := 0
	aces := 0
	for _, c := range h.Cards {
		value += c.Value()
		if c.IsAce() {
			aces++
		}
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return Total{Value: value, Soft: aces > 0}
}

// IsBlackjack reports a natural: exactly two cards, an ace plus a
// ten-value card. A 21 made of three or more cards is not a natural.
func (h *Hand) IsBlackjack() bool {
	if len(h.Cards) != 2 {
		return false
	}
	a, b := h.Cards[0], h.Cards[1]
	return (a.IsAce() && b.IsTenValue()) || (b.IsAce() && a.IsTenValue())
}

// IsBust reports whether the best total exceeds 21
func (h *Hand) IsBust() bool {
	return h.Total().Value > 21
}

// String returns the hand as space-separated cards (e.g. "A♠ K♥")
func (h *Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// PlayerHand is a player hand in play: the cards plus its bet and the
// per-hand flags the round machine tracks.
type PlayerHand struct {
	Hand
	Bet        int
	HasHit     bool
	HasStood   bool
	HasDoubled bool
	Busted     bool
	FromSplit  bool

	// doubleCard is the face-down card drawn on a double. It joins the
	// hand only when the dealer finishes, mirroring the table reveal.
	doubleCard *deck.Card
}

// Terminal reports whether this hand is done acting (stood or busted)
func (ph *PlayerHand) Terminal() bool {
	return ph.HasStood || ph.Busted
}

// IsNatural reports whether this hand settles at blackjack odds.
// A two-card 21 made after a split pays even money, not 3:2.
func (ph *PlayerHand) IsNatural() bool {
	return ph.IsBlackjack() && !ph.FromSplit
}

// revealDouble moves the face-down double card into the hand and
// returns true if there was one.
func (ph *PlayerHand) revealDouble() bool {
	if ph.doubleCard == nil {
		return false
	}
	ph.AddCard(*ph.doubleCard)
	ph.doubleCard = nil
	if ph.IsBust() {
		ph.Busted = true
	}
	return true
}
