// Package statistics accumulates per-round blackjack session metrics
// and derives a descriptive player-type label from them. The label is
// purely informational; nothing here feeds back into gameplay.
package statistics

import "github.com/lox/blackjackforbots/internal/game"

// RoundResult captures everything the session tracker needs from one
// completed round.
type RoundResult struct {
	MainBet       int  // total main-bet stake this round (doubles included)
	BonusBet      int  // bonus side-bet stake
	Hands         int  // 1, or 2 after a split
	Doubled       bool // any hand doubled down
	Split         bool // round was split
	Blackjack     bool // player held a natural
	Busted        int  // player hands that busted
	Wins          int  // hands won
	Losses        int  // hands lost
	Pushes        int  // hands pushed
	BalanceBefore int  // balance when the round's first bet was placed
	BalanceAfter  int  // balance once the round settled
}

// NetResult returns the balance movement for the round
func (r RoundResult) NetResult() int {
	return r.BalanceAfter - r.BalanceBefore
}

// Outcomes folds per-hand settlements into a RoundResult
func (r *RoundResult) Outcomes(settlements []game.Settlement) {
	for _, s := range settlements {
		switch s.Outcome {
		case game.Win:
			r.Wins++
		case game.Loss:
			r.Losses++
		case game.Push:
			r.Pushes++
		}
	}
}

// Session accumulates statistics across the rounds of one sitting
type Session struct {
	Rounds     int
	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Doubles    int
	Splits     int
	Busts      int

	MainBetTotal  int
	BonusBetTotal int
	LargestBet    int

	// ConcurrentHWM is the most simultaneous stakes seen in one round:
	// main bet, plus one for a split hand, plus one for a bonus bet.
	ConcurrentHWM int

	// BetsAfterLoss counts rounds whose bet was placed while the
	// balance sat below where it was before the previous round.
	BetsAfterLoss int

	// MaxBetFraction is the largest single bet as a fraction of the
	// balance it was drawn from.
	MaxBetFraction float64

	prevBalanceBefore int
	hasPrev           bool
}

// NewSession creates an empty session accumulator
func NewSession() *Session {
	return &Session{}
}

// Add incorporates a completed round into the session
func (s *Session) Add(result RoundResult) {
	s.Rounds++
	s.Wins += result.Wins
	s.Losses += result.Losses
	s.Pushes += result.Pushes
	s.Busts += result.Busted
	if result.Blackjack {
		s.Blackjacks++
	}
	if result.Doubled {
		s.Doubles++
	}
	if result.Split {
		s.Splits++
	}

	s.MainBetTotal += result.MainBet
	s.BonusBetTotal += result.BonusBet
	if result.MainBet > s.LargestBet {
		s.LargestBet = result.MainBet
	}

	concurrent := result.Hands
	if result.BonusBet > 0 {
		concurrent++
	}
	if concurrent > s.ConcurrentHWM {
		s.ConcurrentHWM = concurrent
	}

	if s.hasPrev && result.BalanceBefore < s.prevBalanceBefore {
		s.BetsAfterLoss++
	}
	s.prevBalanceBefore = result.BalanceBefore
	s.hasPrev = true

	// BalanceBefore is taken before the round's bets are staked, so it
	// is the full amount the bet was drawn from.
	if result.BalanceBefore > 0 {
		fraction := float64(result.MainBet+result.BonusBet) / float64(result.BalanceBefore)
		if fraction > s.MaxBetFraction {
			s.MaxBetFraction = fraction
		}
	}
}

// WinRate returns hands won as a fraction of hands played
func (s *Session) WinRate() float64 {
	hands := s.Wins + s.Losses + s.Pushes
	if hands == 0 {
		return 0
	}
	return float64(s.Wins) / float64(hands)
}

// AverageBet returns the mean main bet per round
func (s *Session) AverageBet() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.MainBetTotal) / float64(s.Rounds)
}

// ChaseRate returns the fraction of rounds bet while down on the
// previous round
func (s *Session) ChaseRate() float64 {
	if s.Rounds < 2 {
		return 0
	}
	return float64(s.BetsAfterLoss) / float64(s.Rounds-1)
}

// TacticalRate returns the fraction of rounds using a double or split
func (s *Session) TacticalRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Doubles+s.Splits) / float64(s.Rounds)
}

// BonusRate returns bonus stake as a fraction of all stake
func (s *Session) BonusRate() float64 {
	total := s.MainBetTotal + s.BonusBetTotal
	if total == 0 {
		return 0
	}
	return float64(s.BonusBetTotal) / float64(total)
}
