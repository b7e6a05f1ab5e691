package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjackforbots/cmd/blackjackforbots/shared"
	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/randutil"
	"github.com/lox/blackjackforbots/internal/session"
	"github.com/lox/blackjackforbots/internal/tui"
)

// PlayCmd runs an interactive table in the terminal
type PlayCmd struct {
	Decks     int    `kong:"default='1',help='Number of decks in the shoe (1, 2, 4 or 6)'"`
	Balance   int    `kong:"default='1000',help='Starting balance'"`
	Rebet     bool   `kong:"help='Re-stage the previous bet each round'"`
	RecordDir string `kong:"default='sessions',help='Directory for session records'"`
	Seed      *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Debug     bool   `kong:"help='Enable debug logging to blackjack-play.log'"`
	LogFile   string `kong:"default='blackjack-play.log',help='Log file while the TUI is active'"`
}

func (c *PlayCmd) Run() error {
	// The TUI owns the terminal, logs go to a file
	logger, closeLog := shared.SetupFileLogger(c.LogFile, c.Debug)
	defer closeLog()

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	table, err := game.NewTable(logger,
		game.WithRNG(randutil.New(seed)),
		game.WithDeckCount(c.Decks),
		game.WithBalance(c.Balance),
		game.WithRebet(c.Rebet),
	)
	if err != nil {
		return err
	}

	tracker := session.NewTracker(logger, table.Balance(),
		session.WithWriter(session.NewFileRecordWriter(c.RecordDir)))

	model := tui.NewModel(table, tracker, logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return err
	}

	if err := tracker.Close(); err != nil {
		return err
	}

	record := tracker.Snapshot()
	fmt.Printf("session %s: %d hands, $%d -> $%d (%s)\n",
		record.ID, record.HandCount,
		record.StartingBalance, record.EndingBalance, record.PlayerType)
	return nil
}
