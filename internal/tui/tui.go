// Package tui is the interactive table client. A single player plays
// rounds against the house with typed commands, with the table state
// rendered after every command.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/session"
	"github.com/lox/blackjackforbots/internal/statistics"
)

const logLines = 12

// Model is the Bubble Tea model for the blackjack table
type Model struct {
	table   *game.Table
	tracker *session.Tracker
	logger  *log.Logger

	commandInput textinput.Model
	gameLog      []string
	status       string

	// stakes captured when the deal is accepted, for round recording
	balanceBefore int
	bonusBet      int
	roundRecorded bool

	width    int
	height   int
	quitting bool
}

// NewModel creates a TUI model around an existing table and tracker
func NewModel(table *game.Table, tracker *session.Tracker, logger *log.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "bet 50, deal, hit, stand, double, split, next, quit"
	ti.Focus()
	ti.CharLimit = 60
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	m := &Model{
		table:        table,
		tracker:      tracker,
		logger:       logger.WithPrefix("tui"),
		commandInput: ti,
	}
	table.Events().Subscribe(m)
	return m
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// OnEvent feeds table events into the game log. Commands run inside
// Update, so events arrive on the same goroutine.
func (m *Model) OnEvent(event game.TableEvent) {
	switch e := event.(type) {
	case game.HandDealtEvent:
		m.addLog(fmt.Sprintf("%s: %s", e.Hand, m.formatCards(e.Cards)))
	case game.SettlementEvent:
		line := fmt.Sprintf("%s: %s", e.Hand, e.Outcome)
		if e.Payout > 0 {
			line += fmt.Sprintf(" +$%d", e.Payout)
		}
		m.addLog(line)
	case game.BonusSettledEvent:
		if e.Payout > 0 {
			m.addLog(SuccessStyle.Render(fmt.Sprintf("bonus %s pays $%d", e.Category, e.Payout)))
		} else {
			m.addLog(InfoStyle.Render(fmt.Sprintf("bonus lost ($%d)", e.Bet)))
		}
	case game.ShoeReshuffledEvent:
		m.addLog(InfoStyle.Render(fmt.Sprintf("shoe reshuffled, %d cards", e.Remaining)))
	}
}

func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	if len(m.gameLog) > 200 {
		m.gameLog = m.gameLog[len(m.gameLog)-200:]
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			command := strings.TrimSpace(m.commandInput.Value())
			m.commandInput.SetValue("")
			if command == "" {
				return m, nil
			}
			return m.handleCommand(command)
		}
	}

	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

// handleCommand parses and applies one typed command
func (m *Model) handleCommand(command string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(command)
	verb := strings.ToLower(fields[0])

	amount := 0
	if len(fields) > 1 {
		amount, _ = strconv.Atoi(fields[1])
	}

	var reject game.RejectReason
	switch verb {
	case "quit", "q", "exit":
		m.quitting = true
		return m, tea.Quit
	case "bet", "b":
		reject = m.table.PlaceBet(amount)
	case "bonus":
		reject = m.table.PlaceBonusBet(amount)
	case "clear":
		reject = m.table.RemoveBet(m.table.MainBet())
	case "deal", "d", "ready":
		m.balanceBefore = m.table.Balance() + m.table.MainBet() + m.table.BonusBet()
		m.bonusBet = m.table.BonusBet()
		m.roundRecorded = false
		reject = m.table.Ready()
	case "hit", "h":
		reject = m.table.Hit()
	case "stand", "s":
		reject = m.table.Stand()
	case "double":
		reject = m.table.Double()
	case "split":
		reject = m.table.Split()
	case "next", "n":
		reject = m.table.NewHand()
	case "decks":
		reject = m.table.SetDeckCount(amount)
	default:
		m.status = ErrorStyle.Render(fmt.Sprintf("unknown command: %s", verb))
		return m, nil
	}

	if !reject.Accepted() {
		m.status = ErrorStyle.Render(reject.String())
		return m, nil
	}
	m.status = ""

	if m.table.Phase() == game.GameOver && !m.roundRecorded {
		m.recordRound()
	}
	return m, nil
}

// recordRound folds the finished round into the session tracker
func (m *Model) recordRound() {
	m.roundRecorded = true
	if m.tracker == nil {
		return
	}

	// Doubles and splits grow the stake after the deal, so the main bet
	// is summed from the hands as they stand at settlement.
	mainBet := 0
	for _, hand := range m.table.Hands() {
		mainBet += hand.Bet
	}

	result := statistics.RoundResult{
		MainBet:       mainBet,
		BonusBet:      m.bonusBet,
		Hands:         len(m.table.Hands()),
		BalanceBefore: m.balanceBefore,
		BalanceAfter:  m.table.Balance(),
	}
	for _, hand := range m.table.Hands() {
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
	result.Outcomes(m.table.Settlements())
	m.tracker.RecordRound(result)
}

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" blackjackforbots "))
	b.WriteString("\n\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderLog())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(m.commandInput.View())
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(m.helpText()))
	return b.String()
}

func (m *Model) renderTable() string {
	var b strings.Builder

	dealer := m.table.VisibleDealer()
	dealerLine := "dealer: " + m.formatCards(dealer)
	if len(dealer) > 0 && len(dealer) < len(m.table.Dealer().Cards) {
		dealerLine += " " + InfoStyle.Render("[hole]")
	} else if len(dealer) >= 2 {
		dealerLine += fmt.Sprintf("  (%s)", totalString(m.table.Dealer().Total()))
	}
	b.WriteString(HandInfoStyle.Render(dealerLine))
	b.WriteString("\n")

	for i, hand := range m.table.Hands() {
		marker := "  "
		if m.table.ActiveHand() == hand {
			marker = ActionsStyle.Render("> ")
		}
		line := fmt.Sprintf("%s%s: %s (%s) $%d",
			marker, game.PlayerHandID(i), m.formatCards(hand.Cards),
			totalString(hand.Total()), hand.Bet)
		if hand.Busted {
			line += " " + ErrorStyle.Render("bust")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\nbalance $%d", m.table.Balance()))
	if m.table.MainBet() > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("  bet $%d", m.table.MainBet())))
	}
	if m.table.BonusBet() > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("  bonus $%d", m.table.BonusBet())))
	}
	b.WriteString(InfoStyle.Render(fmt.Sprintf("  shoe %d/%d decks",
		m.table.Shoe().Remaining(), m.table.Shoe().DeckCount())))
	return b.String()
}

func (m *Model) renderLog() string {
	start := 0
	if len(m.gameLog) > logLines {
		start = len(m.gameLog) - logLines
	}
	return strings.Join(m.gameLog[start:], "\n")
}

func (m *Model) helpText() string {
	switch m.table.Phase() {
	case game.WaitingForBet, game.ReadyToDeal:
		return "bet <n> • bonus <n> • clear • deal • decks <n> • quit"
	case game.PlayerTurn:
		return "hit • stand • double • split • quit"
	case game.GameOver:
		return "next • quit"
	default:
		return "quit"
	}
}

// formatCards formats cards with colors
func (m *Model) formatCards(cards []deck.Card) string {
	var formatted []string
	for _, card := range cards {
		if card.IsRed() {
			formatted = append(formatted, RedCardStyle.Render(card.String()))
		} else {
			formatted = append(formatted, BlackCardStyle.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func totalString(total game.Total) string {
	if total.Soft {
		return fmt.Sprintf("soft %d", total.Value)
	}
	return strconv.Itoa(total.Value)
}
