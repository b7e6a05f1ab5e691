package main

import (
	"fmt"

	"github.com/lox/blackjackforbots/cmd/blackjackforbots/shared"
	"github.com/lox/blackjackforbots/internal/client"
	"github.com/lox/blackjackforbots/internal/simulator"
)

// BotCmd connects a bot to a running server
type BotCmd struct {
	URL    string `kong:"default='http://localhost:8080',help='Server URL'"`
	Name   string `kong:"default='bot',help='Player name'"`
	Policy string `kong:"default='basic',help='Playing policy: basic or mimic'"`
	Bet    int    `kong:"default='10',help='Bet per round'"`
	Rounds int    `kong:"default='100',help='Rounds to play before disconnecting'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *BotCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	policy, err := simulator.NewPolicy(c.Policy)
	if err != nil {
		return err
	}

	ws := client.NewClient(c.URL, logger)
	if err := ws.Connect(); err != nil {
		return err
	}
	defer func() { _ = ws.Disconnect() }()

	bot := client.NewBot(ws, client.BotConfig{
		Name:   c.Name,
		Policy: policy,
		Bet:    c.Bet,
		Rounds: c.Rounds,
	}, logger)

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	report, err := bot.Play(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%d rounds: %d won, %d lost, %d pushed, final balance $%d\n",
		report.Rounds, report.Wins, report.Losses, report.Pushes, report.Balance)
	return nil
}
