package simulator

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/randutil"
	"github.com/lox/blackjackforbots/internal/session"
	"github.com/lox/blackjackforbots/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds          int
	Policy          string
	Seed            int64
	DeckCount       int
	StartingBalance int
	Bet             int
	BonusBet        int
	Logger          *log.Logger
}

// Report is the outcome of a simulation run
type Report struct {
	Policy         string
	RoundsPlayed   int
	Record         *session.Record
	Session        *statistics.Session
	Classification statistics.Classification
}

// Simulator plays rounds against the table with a fixed policy
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	return &Simulator{config: config}
}

// Run executes the simulation and returns results. The run stops
// early when the balance can no longer cover the bet.
func (s *Simulator) Run() (*Report, error) {
	policy, err := NewPolicy(s.config.Policy)
	if err != nil {
		return nil, err
	}

	table, err := game.NewTable(s.config.Logger,
		game.WithRNG(randutil.New(s.config.Seed)),
		game.WithDeckCount(s.config.DeckCount),
		game.WithBalance(s.config.StartingBalance),
	)
	if err != nil {
		return nil, err
	}

	tracker := session.NewTracker(s.config.Logger, table.Balance())

	played := 0
	for round := 0; round < s.config.Rounds; round++ {
		if table.Balance() < s.config.Bet {
			s.config.Logger.Info("Balance exhausted, stopping early",
				"round", round, "balance", table.Balance())
			break
		}

		result, err := s.playRound(table, policy)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round+1, err)
		}
		tracker.RecordRound(result)
		played++

		if reject := table.NewHand(); !reject.Accepted() {
			return nil, fmt.Errorf("round %d: new hand rejected: %s", round+1, reject)
		}
	}

	sess := tracker.Session()
	return &Report{
		Policy:         policy.Name(),
		RoundsPlayed:   played,
		Record:         tracker.Snapshot(),
		Session:        sess,
		Classification: statistics.Classify(sess),
	}, nil
}

// playRound takes one round from bet to settlement
func (s *Simulator) playRound(table *game.Table, policy Policy) (statistics.RoundResult, error) {
	balanceBefore := table.Balance()
	mainBet := s.config.Bet
	bonusBet := s.config.BonusBet

	if reject := table.PlaceBet(mainBet); !reject.Accepted() {
		return statistics.RoundResult{}, fmt.Errorf("bet rejected: %s", reject)
	}
	if bonusBet > 0 {
		if reject := table.PlaceBonusBet(bonusBet); !reject.Accepted() {
			// Bonus is optional, the round continues without it
			bonusBet = 0
		}
	}
	if reject := table.Ready(); !reject.Accepted() {
		return statistics.RoundResult{}, fmt.Errorf("deal rejected: %s", reject)
	}

	for table.Phase() == game.PlayerTurn {
		hand := table.ActiveHand()
		if hand == nil {
			break
		}

		dealerUp := table.VisibleDealer()[0]
		canSplit := len(table.Hands()) == 1

		var reject game.RejectReason
		switch policy.Decide(hand, dealerUp, canSplit) {
		case ActionHit:
			reject = table.Hit()
		case ActionDouble:
			reject = table.Double()
		case ActionSplit:
			reject = table.Split()
		default:
			reject = table.Stand()
		}

		// Tactical moves can fail on funds; fall back to standing so
		// the round always terminates.
		if !reject.Accepted() {
			if reject = table.Stand(); !reject.Accepted() {
				return statistics.RoundResult{}, fmt.Errorf("stand rejected: %s", reject)
			}
		}
	}

	if table.Phase() != game.GameOver {
		return statistics.RoundResult{}, fmt.Errorf("round ended in phase %s", table.Phase())
	}

	// Doubles and splits grow the stake after the deal, so the main bet
	// is summed from the hands as they stand at settlement.
	mainBet = 0
	for _, hand := range table.Hands() {
		mainBet += hand.Bet
	}

	result := statistics.RoundResult{
		MainBet:       mainBet,
		BonusBet:      bonusBet,
		Hands:         len(table.Hands()),
		BalanceBefore: balanceBefore,
		BalanceAfter:  table.Balance(),
	}
	for _, hand := range table.Hands() {
		if hand.HasDoubled {
			result.Doubled = true
		}
		if hand.FromSplit {
			result.Split = true
		}
		if hand.IsNatural() {
			result.Blackjack = true
		}
		if hand.Busted {
			result.Busted++
		}
	}
	result.Outcomes(table.Settlements())
	return result, nil
}
