package game

import "github.com/lox/blackjackforbots/internal/deck"

// Outcome is the per-hand settlement result
type Outcome int

const (
	Loss Outcome = iota
	Push
	Win
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Push:
		return "push"
	default:
		return "unknown"
	}
}

// Settlement is the result of settling a single player hand. Returned
// is the stake that goes back to the balance: bet plus payout on a win,
// the bet alone on a push, nothing on a loss.
type Settlement struct {
	Hand     HandID
	Outcome  Outcome
	Payout   int
	Returned int
}

// blackjackPayout is the 3:2 natural payout, truncated to whole chips
func blackjackPayout(bet int) int {
	return bet * 3 / 2
}

// settleHand settles one player hand against the final dealer hand.
// It is a pure function of its inputs.
func settleHand(id HandID, ph *PlayerHand, dealer *Hand) Settlement {
	s := Settlement{Hand: id}

	switch {
	case ph.Busted:
		// Player bust loses even when the dealer also busts.
		s.Outcome = Loss

	case dealer.IsBust():
		s.Outcome = Win
		if ph.IsNatural() {
			s.Payout = blackjackPayout(ph.Bet)
		} else {
			s.Payout = ph.Bet
		}

	case ph.IsNatural() && dealer.IsBlackjack():
		s.Outcome = Push

	case ph.IsNatural():
		s.Outcome = Win
		s.Payout = blackjackPayout(ph.Bet)

	default:
		playerTotal := ph.Total().Value
		dealerTotal := dealer.Total().Value
		switch {
		case playerTotal > dealerTotal:
			s.Outcome = Win
			s.Payout = ph.Bet
		case playerTotal < dealerTotal:
			s.Outcome = Loss
		default:
			s.Outcome = Push
		}
	}

	switch s.Outcome {
	case Win:
		s.Returned = ph.Bet + s.Payout
	case Push:
		s.Returned = ph.Bet
	}
	return s
}

// Settle computes independent settlements for every player hand
func Settle(dealer *Hand, hands []*PlayerHand) []Settlement {
	results := make([]Settlement, len(hands))
	for i, ph := range hands {
		results[i] = settleHand(PlayerHandID(i), ph, dealer)
	}
	return results
}

// PlayerHandID maps a hand index to its event identifier
func PlayerHandID(i int) HandID {
	if i == 1 {
		return PlayerHandTwo
	}
	return PlayerHandOne
}

// BonusCategory classifies the first two player cards for the bonus
// side bet
type BonusCategory int

const (
	BonusNone BonusCategory = iota
	BonusAnySuited
	BonusMixedPair
	BonusColoredPair
	BonusRoyalMatch
	BonusPerfectPair
)

// String returns the string representation of a bonus category
func (b BonusCategory) String() string {
	switch b {
	case BonusPerfectPair:
		return "perfect_pair"
	case BonusRoyalMatch:
		return "royal_match"
	case BonusColoredPair:
		return "colored_pair"
	case BonusMixedPair:
		return "mixed_pair"
	case BonusAnySuited:
		return "any_suited"
	default:
		return "none"
	}
}

// Odds returns the payout multiplier for the category
func (b BonusCategory) Odds() int {
	switch b {
	case BonusPerfectPair:
		return 30
	case BonusRoyalMatch:
		return 25
	case BonusColoredPair:
		return 10
	case BonusMixedPair:
		return 5
	case BonusAnySuited:
		return 3
	default:
		return 0
	}
}

// ClassifyBonus returns the highest-paying category the two initial
// player cards qualify for, or BonusNone. Evaluated immediately
// after the deal; the main hand outcome never affects it.
func ClassifyBonus(a, b deck.Card) BonusCategory {
	sameRank := a.Rank == b.Rank
	sameSuit := a.Suit == b.Suit
	sameColor := a.IsRed() == b.IsRed()
	royal := (a.Rank == deck.King && b.Rank == deck.Queen) ||
		(a.Rank == deck.Queen && b.Rank == deck.King)

	switch {
	case sameRank && sameSuit:
		return BonusPerfectPair
	case royal && sameSuit:
		return BonusRoyalMatch
	case sameRank && sameColor:
		return BonusColoredPair
	case sameRank:
		return BonusMixedPair
	case sameSuit:
		return BonusAnySuited
	default:
		return BonusNone
	}
}

// SettleBonus returns the payout for a bonus bet on the given cards
func SettleBonus(bet int, a, b deck.Card) (BonusCategory, int) {
	category := ClassifyBonus(a, b)
	return category, bet * category.Odds()
}
