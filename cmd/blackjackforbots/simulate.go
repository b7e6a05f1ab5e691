package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/lox/blackjackforbots/cmd/blackjackforbots/shared"
	"github.com/lox/blackjackforbots/internal/simulator"
	"github.com/lox/blackjackforbots/internal/statistics"
)

// SimulateCmd plays rounds against the house with a fixed policy
type SimulateCmd struct {
	Rounds   int    `kong:"default='1000',help='Number of rounds to play'"`
	Policy   string `kong:"default='basic',help='Playing policy: basic or mimic'"`
	Decks    int    `kong:"default='6',help='Number of decks in the shoe'"`
	Balance  int    `kong:"default='1000',help='Starting balance'"`
	Bet      int    `kong:"default='10',help='Bet per round'"`
	BonusBet int    `kong:"default='0',help='Bonus bet per round'"`
	Seed     *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Debug    bool   `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	report, err := simulator.New(simulator.Config{
		Rounds:          c.Rounds,
		Policy:          c.Policy,
		Seed:            seed,
		DeckCount:       c.Decks,
		StartingBalance: c.Balance,
		Bet:             c.Bet,
		BonusBet:        c.BonusBet,
		Logger:          logger,
	}).Run()
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

// printReport renders the run summary, degrading colors to the
// capabilities of the terminal.
func printReport(report *simulator.Report) {
	output := termenv.NewOutput(os.Stdout)

	header := func(s string) termenv.Style {
		return output.String(s).Bold().Foreground(output.Color("#7D56F4"))
	}
	good := func(s string) termenv.Style {
		return output.String(s).Foreground(output.Color("#96CEB4"))
	}
	bad := func(s string) termenv.Style {
		return output.String(s).Foreground(output.Color("#FF6B6B"))
	}
	label := func(s string) termenv.Style {
		return output.String(s).Foreground(output.Color("#626262"))
	}

	record := report.Record
	sess := report.Session
	net := record.EndingBalance - record.StartingBalance

	netText := fmt.Sprintf("$%+d ($%d -> $%d)", net, record.StartingBalance, record.EndingBalance)
	netStyled := good(netText)
	if net < 0 {
		netStyled = bad(netText)
	}

	fmt.Println(header(fmt.Sprintf("simulation: %s, %d rounds", report.Policy, report.RoundsPlayed)))
	fmt.Printf("%s %s\n", label("net:"), netStyled)
	fmt.Printf("%s %d won, %d lost, %d pushed (%.1f%% win rate)\n",
		label("hands:"), sess.Wins, sess.Losses, sess.Pushes, sess.WinRate()*100)
	fmt.Printf("%s %d blackjacks, %d doubles, %d splits, %d busts\n",
		label("plays:"), sess.Blackjacks, sess.Doubles, sess.Splits, sess.Busts)
	fmt.Printf("%s $%d main, $%d bonus, $%d largest\n",
		label("staked:"), sess.MainBetTotal, sess.BonusBetTotal, sess.LargestBet)
	fmt.Println(label(strings.Repeat("-", 40)))

	profileText := string(report.Classification.Type)
	var profileStyled termenv.Style
	switch report.Classification.Type {
	case statistics.Reckless, statistics.Aggressive:
		profileStyled = bad(profileText)
	case statistics.Conservative, statistics.Strategic:
		profileStyled = good(profileText)
	default:
		profileStyled = label(profileText)
	}
	fmt.Printf("%s %s (%.0f%% confidence)\n",
		label("profile:"), profileStyled, report.Classification.Confidence*100)
}
