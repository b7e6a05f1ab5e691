package simulator

import (
	"fmt"

	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/game"
)

// Action is a playing decision for one hand
type Action int

const (
	ActionStand Action = iota
	ActionHit
	ActionDouble
	ActionSplit
)

// Policy decides how a simulated player plays its hands
type Policy interface {
	Name() string
	Decide(hand *game.PlayerHand, dealerUp deck.Card, canSplit bool) Action
}

// NewPolicy creates a policy by name
func NewPolicy(name string) (Policy, error) {
	switch name {
	case "mimic":
		return &DealerMimic{}, nil
	case "basic":
		return &BasicStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown policy: %s", name)
	}
}

// DealerMimic plays exactly like the dealer: hit below 17, stand
// otherwise. Never doubles or splits.
type DealerMimic struct{}

func (p *DealerMimic) Name() string { return "mimic" }

func (p *DealerMimic) Decide(hand *game.PlayerHand, dealerUp deck.Card, canSplit bool) Action {
	if hand.Total().Value < 17 {
		return ActionHit
	}
	return ActionStand
}

// BasicStrategy is a condensed version of the standard strategy chart.
// It covers pair splits for aces and eights, doubles on 10 and 11 and
// strong soft hands, and the stand-on-stiff rules against weak up
// cards.
type BasicStrategy struct{}

func (p *BasicStrategy) Name() string { return "basic" }

func (p *BasicStrategy) Decide(hand *game.PlayerHand, dealerUp deck.Card, canSplit bool) Action {
	total := hand.Total()
	up := dealerUp.Value()
	twoCards := len(hand.Cards) == 2 && !hand.HasHit

	if canSplit && twoCards && hand.Cards[0].Rank == hand.Cards[1].Rank {
		switch hand.Cards[0].Rank {
		case deck.Ace, deck.Eight:
			return ActionSplit
		}
	}

	if total.Soft {
		switch {
		case twoCards && total.Value >= 13 && total.Value <= 18 && up >= 5 && up <= 6:
			return ActionDouble
		case total.Value <= 17:
			return ActionHit
		default:
			return ActionStand
		}
	}

	switch {
	case twoCards && total.Value == 11:
		return ActionDouble
	case twoCards && total.Value == 10 && up < 10:
		return ActionDouble
	case total.Value <= 11:
		return ActionHit
	case total.Value == 12 && (up == 2 || up == 3 || up >= 7):
		return ActionHit
	case total.Value <= 16 && up >= 7:
		return ActionHit
	default:
		return ActionStand
	}
}
