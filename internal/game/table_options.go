package game

import (
	rand "math/rand/v2"

	"github.com/lox/blackjackforbots/internal/deck"
)

// TableOption configures a Table during creation.
type TableOption func(*tableConfig)

type tableConfig struct {
	rng       *rand.Rand
	deckCount int
	balance   int
	rebet     bool
	shoe      *deck.Shoe
	events    EventBus
}

func defaultTableConfig() *tableConfig {
	return &tableConfig{
		deckCount: 1,
		balance:   1000,
	}
}

// WithRNG sets the random source used for shuffling. Required unless a
// pre-built shoe is supplied.
func WithRNG(rng *rand.Rand) TableOption {
	return func(c *tableConfig) {
		c.rng = rng
	}
}

// WithDeckCount sets the number of decks in the shoe (1, 2, 4 or 6)
func WithDeckCount(n int) TableOption {
	return func(c *tableConfig) {
		c.deckCount = n
	}
}

// WithBalance sets the starting balance. Default is 1000.
func WithBalance(balance int) TableOption {
	return func(c *tableConfig) {
		c.balance = balance
	}
}

// WithRebet re-stages the previous main bet on each new hand when the
// balance allows it
func WithRebet(enabled bool) TableOption {
	return func(c *tableConfig) {
		c.rebet = enabled
	}
}

// WithShoe sets a specific pre-built shoe. Combine with deck.Stacked
// for deterministic tests and fixed-hand overrides.
func WithShoe(shoe *deck.Shoe) TableOption {
	return func(c *tableConfig) {
		c.shoe = shoe
	}
}

// WithEventBus sets the bus events are published on. A fresh bus is
// created when none is supplied.
func WithEventBus(events EventBus) TableOption {
	return func(c *tableConfig) {
		c.events = events
	}
}
