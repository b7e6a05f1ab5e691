package game

// Phase represents the state of a blackjack round
type Phase int

const (
	WaitingForBet Phase = iota
	ReadyToDeal
	Dealing
	PlayerTurn
	DealerTurn
	GameOver
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case WaitingForBet:
		return "waiting_for_bet"
	case ReadyToDeal:
		return "ready_to_deal"
	case Dealing:
		return "dealing"
	case PlayerTurn:
		return "player_turn"
	case DealerTurn:
		return "dealer_turn"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// RejectReason explains why a command was refused. Commands never error;
// an illegal command leaves the table unchanged and reports why.
type RejectReason int

const (
	RejectNone RejectReason = iota
	RejectWrongPhase
	RejectInvalidAmount
	RejectInsufficientBalance
	RejectHandStood
	RejectNotTwoCards
	RejectAlreadyHit
	RejectAlreadyDoubled
	RejectRanksDiffer
	RejectAlreadySplit
	RejectInvalidDeckCount
)

// Accepted reports whether the command was applied
func (r RejectReason) Accepted() bool {
	return r == RejectNone
}

// String returns the string representation of a reject reason
func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "ok"
	case RejectWrongPhase:
		return "wrong_phase"
	case RejectInvalidAmount:
		return "invalid_amount"
	case RejectInsufficientBalance:
		return "insufficient_balance"
	case RejectHandStood:
		return "hand_stood"
	case RejectNotTwoCards:
		return "not_two_cards"
	case RejectAlreadyHit:
		return "already_hit"
	case RejectAlreadyDoubled:
		return "already_doubled"
	case RejectRanksDiffer:
		return "ranks_differ"
	case RejectAlreadySplit:
		return "already_split"
	case RejectInvalidDeckCount:
		return "invalid_deck_count"
	default:
		return "unknown"
	}
}
