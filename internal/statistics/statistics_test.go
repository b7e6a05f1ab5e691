package statistics

import (
	"testing"

	"github.com/lox/blackjackforbots/internal/game"
)

func TestSessionAdd(t *testing.T) {
	s := NewSession()

	s.Add(RoundResult{
		MainBet: 10, Hands: 1, Wins: 1, Blackjack: true,
		BalanceBefore: 1000, BalanceAfter: 1015,
	})
	s.Add(RoundResult{
		MainBet: 20, BonusBet: 5, Hands: 2, Split: true, Wins: 1, Losses: 1,
		BalanceBefore: 1015, BalanceAfter: 1010,
	})
	s.Add(RoundResult{
		MainBet: 20, Hands: 1, Doubled: true, Losses: 1, Busted: 1,
		BalanceBefore: 1010, BalanceAfter: 990,
	})

	if s.Rounds != 3 {
		t.Errorf("Rounds = %d, want 3", s.Rounds)
	}
	if s.Wins != 2 || s.Losses != 2 {
		t.Errorf("wins/losses = %d/%d, want 2/2", s.Wins, s.Losses)
	}
	if s.Blackjacks != 1 || s.Splits != 1 || s.Doubles != 1 || s.Busts != 1 {
		t.Errorf("unexpected counters: %+v", s)
	}
	if s.MainBetTotal != 50 || s.BonusBetTotal != 5 {
		t.Errorf("bet totals = %d/%d, want 50/5", s.MainBetTotal, s.BonusBetTotal)
	}
	if s.LargestBet != 20 {
		t.Errorf("LargestBet = %d, want 20", s.LargestBet)
	}
	// Split round: two hands plus a bonus stake riding at once.
	if s.ConcurrentHWM != 3 {
		t.Errorf("ConcurrentHWM = %d, want 3", s.ConcurrentHWM)
	}
}

func TestBetsAfterLoss(t *testing.T) {
	s := NewSession()

	s.Add(RoundResult{MainBet: 10, Hands: 1, Losses: 1, BalanceBefore: 1000, BalanceAfter: 990})
	// Betting again from 990, below the previous round's 1000.
	s.Add(RoundResult{MainBet: 10, Hands: 1, Losses: 1, BalanceBefore: 990, BalanceAfter: 980})
	s.Add(RoundResult{MainBet: 10, Hands: 1, Wins: 1, BalanceBefore: 980, BalanceAfter: 990})
	// 990 is above the prior round's 980 starting point, not a chase.
	s.Add(RoundResult{MainBet: 10, Hands: 1, Wins: 1, BalanceBefore: 990, BalanceAfter: 1000})

	if s.BetsAfterLoss != 2 {
		t.Errorf("BetsAfterLoss = %d, want 2", s.BetsAfterLoss)
	}
	if got := s.ChaseRate(); got < 0.66 || got > 0.67 {
		t.Errorf("ChaseRate() = %f, want 2/3", got)
	}
}

func TestMaxBetFraction(t *testing.T) {
	s := NewSession()
	s.Add(RoundResult{MainBet: 100, Hands: 1, Losses: 1, BalanceBefore: 1000, BalanceAfter: 900})

	// 100 staked out of a 1000 balance.
	if got := s.MaxBetFraction; got < 0.099 || got > 0.101 {
		t.Errorf("MaxBetFraction = %f, want 0.1", got)
	}
}

func TestRoundResultOutcomes(t *testing.T) {
	r := RoundResult{}
	r.Outcomes([]game.Settlement{
		{Outcome: game.Win, Payout: 10},
		{Outcome: game.Loss},
	})

	if r.Wins != 1 || r.Losses != 1 || r.Pushes != 0 {
		t.Errorf("unexpected outcome counts: %+v", r)
	}
}

func TestWinRate(t *testing.T) {
	s := NewSession()
	if s.WinRate() != 0 {
		t.Error("empty session should have zero win rate")
	}

	s.Add(RoundResult{MainBet: 10, Hands: 1, Wins: 1, BalanceBefore: 1000, BalanceAfter: 1010})
	s.Add(RoundResult{MainBet: 10, Hands: 1, Losses: 1, BalanceBefore: 1010, BalanceAfter: 1000})
	s.Add(RoundResult{MainBet: 10, Hands: 1, Pushes: 1, BalanceBefore: 1000, BalanceAfter: 1000})

	if got := s.WinRate(); got < 0.33 || got > 0.34 {
		t.Errorf("WinRate() = %f, want 1/3", got)
	}
}
