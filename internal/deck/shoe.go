package deck

import (
	"fmt"
	rand "math/rand/v2"
)

// LowWaterMark is the remaining-card threshold below which the shoe
// must be reshuffled before any new deal sequence begins.
const LowWaterMark = 6

// validDeckCounts are the shoe sizes the table supports.
var validDeckCounts = map[int]bool{1: true, 2: true, 4: true, 6: true}

// Shoe holds one or more shuffled 52-card decks that cards are drawn from.
type Shoe struct {
	cards     []Card
	deckCount int
	rng       *rand.Rand
}

// NewShoe builds deckCount concatenated standard decks and shuffles them.
// deckCount must be 1, 2, 4 or 6.
func NewShoe(deckCount int, rng *rand.Rand) (*Shoe, error) {
	if !validDeckCounts[deckCount] {
		return nil, fmt.Errorf("invalid deck count %d: must be 1, 2, 4 or 6", deckCount)
	}
	if rng == nil {
		return nil, fmt.Errorf("rng is required")
	}

	s := &Shoe{
		cards:     make([]Card, 0, deckCount*52),
		deckCount: deckCount,
		rng:       rng,
	}
	s.rebuild()
	return s, nil
}

// rebuild fills the shoe with deckCount fresh decks and shuffles.
func (s *Shoe) rebuild() {
	s.cards = s.cards[:0]
	for d := 0; d < s.deckCount; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
	s.shuffle()
}

// shuffle performs a Fisher-Yates permutation of the remaining cards.
func (s *Shoe) shuffle() {
	if s.rng == nil {
		// Stacked shoes keep their dealt order.
		return
	}
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the front card. Drawing from an empty shoe is a
// programmer error: the round machine reshuffles before any deal sequence
// that could exhaust the shoe, so this cannot happen in correct use.
func (s *Shoe) Draw() Card {
	if len(s.cards) == 0 {
		panic("draw from empty shoe: caller must reshuffle first")
	}
	card := s.cards[0]
	s.cards = s.cards[1:]
	return card
}

// Reshuffle rebuilds the full multi-deck shoe and re-randomizes it.
func (s *Shoe) Reshuffle() {
	s.rebuild()
}

// NeedsReshuffle reports whether remaining cards have dropped below the
// low-water mark. Stacked shoes never reshuffle; they deal exactly the
// cards they were built with.
func (s *Shoe) NeedsReshuffle() bool {
	return s.rng != nil && len(s.cards) < LowWaterMark
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// DeckCount returns the number of decks the shoe was built from
func (s *Shoe) DeckCount() int {
	return s.deckCount
}

// Stacked returns a shoe that deals the given cards in order without
// shuffling. Used for deterministic tests and fixed-hand overrides.
func Stacked(cards ...Card) *Shoe {
	return &Shoe{
		cards:     append([]Card(nil), cards...),
		deckCount: 1,
	}
}
