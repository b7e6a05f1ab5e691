package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/session"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func card(rank deck.Rank, suit deck.Suit) deck.Card {
	return deck.Card{Rank: rank, Suit: suit}
}

func newTestModel(t *testing.T, cards ...deck.Card) *Model {
	t.Helper()
	table, err := game.NewTable(testLogger(), game.WithShoe(deck.Stacked(cards...)))
	require.NoError(t, err)
	tracker := session.NewTracker(testLogger(), table.Balance())
	return NewModel(table, tracker, testLogger())
}

func typeCommand(m *Model, command string) {
	m.commandInput.SetValue(command)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestCommandsDriveTable(t *testing.T) {
	// Player 7,9 then hits into 5; dealer K+9 stands.
	m := newTestModel(t,
		card(deck.Seven, deck.Hearts),
		card(deck.King, deck.Spades),
		card(deck.Nine, deck.Clubs),
		card(deck.Nine, deck.Diamonds),
		card(deck.Five, deck.Hearts),
	)

	typeCommand(m, "bet 50")
	assert.Equal(t, game.ReadyToDeal, m.table.Phase())
	assert.Equal(t, 950, m.table.Balance())

	typeCommand(m, "deal")
	assert.Equal(t, game.PlayerTurn, m.table.Phase())

	typeCommand(m, "hit")
	typeCommand(m, "stand")
	assert.Equal(t, game.GameOver, m.table.Phase())

	// 21 beats dealer 19
	assert.Equal(t, 1050, m.table.Balance())
	assert.Equal(t, 1, m.tracker.Session().Rounds)
	assert.Equal(t, 1, m.tracker.Session().Wins)
}

func TestDoubledBetRecordedInSession(t *testing.T) {
	// Player 5+6 doubles into a ten; the doubled stake is what the
	// session records, not the pre-deal bet.
	m := newTestModel(t,
		card(deck.Five, deck.Spades),
		card(deck.King, deck.Spades),
		card(deck.Six, deck.Diamonds),
		card(deck.Queen, deck.Diamonds),
		card(deck.Ten, deck.Clubs),
	)

	typeCommand(m, "bet 10")
	typeCommand(m, "deal")
	typeCommand(m, "double")
	require.Equal(t, game.GameOver, m.table.Phase())

	// 21 beats dealer 20 at even money on the doubled bet
	assert.Equal(t, 1020, m.table.Balance())
	assert.Equal(t, 20, m.tracker.Session().MainBetTotal)
	assert.Equal(t, 20, m.tracker.Session().LargestBet)
}

func TestRejectedCommandShowsStatus(t *testing.T) {
	m := newTestModel(t)

	typeCommand(m, "hit")

	assert.Contains(t, m.status, game.RejectWrongPhase.String())
	assert.Equal(t, game.WaitingForBet, m.table.Phase())
}

func TestUnknownCommandShowsStatus(t *testing.T) {
	m := newTestModel(t)

	typeCommand(m, "flip")

	assert.Contains(t, m.status, "unknown command")
}

func TestEventsAppearInLog(t *testing.T) {
	m := newTestModel(t,
		card(deck.Seven, deck.Hearts),
		card(deck.King, deck.Spades),
		card(deck.Nine, deck.Clubs),
		card(deck.Nine, deck.Diamonds),
	)

	typeCommand(m, "bet 50")
	typeCommand(m, "deal")
	typeCommand(m, "stand")

	require.NotEmpty(t, m.gameLog)
	content := m.renderLog()
	assert.Contains(t, content, "player-1")
	assert.Contains(t, content, "dealer")
	assert.Contains(t, content, "loss")
}

func TestViewShowsTableState(t *testing.T) {
	m := newTestModel(t,
		card(deck.Seven, deck.Hearts),
		card(deck.King, deck.Spades),
		card(deck.Nine, deck.Clubs),
		card(deck.Nine, deck.Diamonds),
	)
	typeCommand(m, "bet 50")
	typeCommand(m, "deal")

	view := m.View()
	assert.Contains(t, view, "dealer")
	assert.Contains(t, view, "player-1")
	assert.Contains(t, view, "[hole]")
	assert.Contains(t, view, "balance $950")
}

func TestQuitCommand(t *testing.T) {
	m := newTestModel(t)

	m.commandInput.SetValue("quit")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
