package main

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjackforbots/cmd/blackjackforbots/shared"
	"github.com/lox/blackjackforbots/internal/server"
)

// ServerCmd runs the websocket table server
type ServerCmd struct {
	Config string `kong:"default='blackjack.hcl',help='HCL configuration file'"`
	Addr   string `kong:"help='Listen address, overrides the config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed for all tables (optional)'"`
}

func (c *ServerCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		seed = time.Now().UnixNano()
	}

	s := server.NewServer(addr, logger)
	s.SetTableService(server.NewTableService(cfg, logger, seed))

	logger.Info("Starting blackjack server",
		"address", addr,
		"deck_count", cfg.Table.DeckCount,
		"starting_balance", cfg.Table.StartingBalance,
		"min_bet", cfg.Table.MinBet,
		"max_bet", cfg.Table.MaxBet,
		"bonus_enabled", cfg.Table.BonusEnabled,
	)

	ctx := shared.SetupSignalHandlerWithLogger(logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(s.Start)
	g.Go(func() error {
		<-ctx.Done()
		return s.Stop()
	})
	return g.Wait()
}
