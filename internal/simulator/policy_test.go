package simulator

import (
	"testing"

	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/game"
)

func card(rank deck.Rank, suit deck.Suit) deck.Card {
	return deck.Card{Rank: rank, Suit: suit}
}

func handOf(cards ...deck.Card) *game.PlayerHand {
	hand := &game.PlayerHand{}
	for _, c := range cards {
		hand.AddCard(c)
	}
	return hand
}

func TestDealerMimic(t *testing.T) {
	policy := &DealerMimic{}
	up := card(deck.Six, deck.Spades)

	if got := policy.Decide(handOf(card(deck.Ten, deck.Hearts), card(deck.Six, deck.Clubs)), up, true); got != ActionHit {
		t.Errorf("16 should hit, got %v", got)
	}
	if got := policy.Decide(handOf(card(deck.Ten, deck.Hearts), card(deck.Seven, deck.Clubs)), up, true); got != ActionStand {
		t.Errorf("17 should stand, got %v", got)
	}
	if got := policy.Decide(handOf(card(deck.Ace, deck.Hearts), card(deck.Six, deck.Clubs)), up, true); got != ActionStand {
		t.Errorf("soft 17 should stand, got %v", got)
	}
}

func TestBasicStrategy(t *testing.T) {
	policy := &BasicStrategy{}

	tests := []struct {
		name     string
		hand     *game.PlayerHand
		dealerUp deck.Card
		canSplit bool
		want     Action
	}{
		{
			name:     "split aces",
			hand:     handOf(card(deck.Ace, deck.Hearts), card(deck.Ace, deck.Spades)),
			dealerUp: card(deck.Ten, deck.Clubs),
			canSplit: true,
			want:     ActionSplit,
		},
		{
			name:     "split eights",
			hand:     handOf(card(deck.Eight, deck.Hearts), card(deck.Eight, deck.Spades)),
			dealerUp: card(deck.Six, deck.Clubs),
			canSplit: true,
			want:     ActionSplit,
		},
		{
			name:     "no resplit of eights",
			hand:     handOf(card(deck.Eight, deck.Hearts), card(deck.Eight, deck.Spades)),
			dealerUp: card(deck.Six, deck.Clubs),
			canSplit: false,
			want:     ActionStand,
		},
		{
			name:     "never split tens",
			hand:     handOf(card(deck.Ten, deck.Hearts), card(deck.Ten, deck.Spades)),
			dealerUp: card(deck.Six, deck.Clubs),
			canSplit: true,
			want:     ActionStand,
		},
		{
			name:     "double eleven",
			hand:     handOf(card(deck.Six, deck.Hearts), card(deck.Five, deck.Spades)),
			dealerUp: card(deck.Ten, deck.Clubs),
			canSplit: true,
			want:     ActionDouble,
		},
		{
			name:     "double ten against weak dealer",
			hand:     handOf(card(deck.Six, deck.Hearts), card(deck.Four, deck.Spades)),
			dealerUp: card(deck.Nine, deck.Clubs),
			canSplit: true,
			want:     ActionDouble,
		},
		{
			name:     "hit ten against dealer ten",
			hand:     handOf(card(deck.Six, deck.Hearts), card(deck.Four, deck.Spades)),
			dealerUp: card(deck.King, deck.Clubs),
			canSplit: true,
			want:     ActionHit,
		},
		{
			name:     "double soft seventeen against six",
			hand:     handOf(card(deck.Ace, deck.Hearts), card(deck.Six, deck.Spades)),
			dealerUp: card(deck.Six, deck.Clubs),
			canSplit: true,
			want:     ActionDouble,
		},
		{
			name:     "hit soft seventeen against strong dealer",
			hand:     handOf(card(deck.Ace, deck.Hearts), card(deck.Six, deck.Spades)),
			dealerUp: card(deck.Ten, deck.Clubs),
			canSplit: true,
			want:     ActionHit,
		},
		{
			name:     "stand soft nineteen",
			hand:     handOf(card(deck.Ace, deck.Hearts), card(deck.Eight, deck.Spades)),
			dealerUp: card(deck.Ten, deck.Clubs),
			canSplit: true,
			want:     ActionStand,
		},
		{
			name:     "stand stiff against weak dealer",
			hand:     handOf(card(deck.Ten, deck.Hearts), card(deck.Four, deck.Spades)),
			dealerUp: card(deck.Five, deck.Clubs),
			canSplit: true,
			want:     ActionStand,
		},
		{
			name:     "hit stiff against strong dealer",
			hand:     handOf(card(deck.Ten, deck.Hearts), card(deck.Six, deck.Spades)),
			dealerUp: card(deck.Ten, deck.Clubs),
			canSplit: true,
			want:     ActionHit,
		},
		{
			name:     "hit twelve against two",
			hand:     handOf(card(deck.Ten, deck.Hearts), card(deck.Two, deck.Spades)),
			dealerUp: card(deck.Two, deck.Clubs),
			canSplit: true,
			want:     ActionHit,
		},
		{
			name:     "stand hard seventeen",
			hand:     handOf(card(deck.Ten, deck.Hearts), card(deck.Seven, deck.Spades)),
			dealerUp: card(deck.Ace, deck.Clubs),
			canSplit: true,
			want:     ActionStand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Decide(tt.hand, tt.dealerUp, tt.canSplit); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewPolicy(t *testing.T) {
	if _, err := NewPolicy("basic"); err != nil {
		t.Errorf("basic should resolve: %v", err)
	}
	if _, err := NewPolicy("mimic"); err != nil {
		t.Errorf("mimic should resolve: %v", err)
	}
	if _, err := NewPolicy("gut-feel"); err == nil {
		t.Error("unknown policy should error")
	}
}
