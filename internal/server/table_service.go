package server

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/protocol"
	"github.com/lox/blackjackforbots/internal/randutil"
	"github.com/lox/blackjackforbots/internal/session"
	"github.com/lox/blackjackforbots/internal/statistics"
)

// TableService gives each connected player their own table and keeps
// a session tracker alongside it. Commands arrive from connection
// read pumps; a mutex serialises them.
type TableService struct {
	logger   *log.Logger
	config   *ServerConfig
	writer   session.RecordWriter
	nextSeed int64
	mu       sync.Mutex
	players  map[*Connection]*playerSession
}

type playerSession struct {
	name    string
	table   *game.Table
	tracker *session.Tracker

	// stakes captured when the deal is accepted, for round recording
	balanceBefore int
	bonusBet      int
}

// NewTableService creates the service backing all connections
func NewTableService(config *ServerConfig, logger *log.Logger, seed int64) *TableService {
	var writer session.RecordWriter = &session.NoOpRecordWriter{}
	if config.Table.RecordDir != "" {
		writer = session.NewFileRecordWriter(config.Table.RecordDir)
	}

	return &TableService{
		logger:   logger.WithPrefix("tables"),
		config:   config,
		writer:   writer,
		nextSeed: seed,
		players:  make(map[*Connection]*playerSession),
	}
}

// HandleMessage dispatches one client message
func (s *TableService) HandleMessage(conn *Connection, env *protocol.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if env.Type == protocol.TypeJoin {
		s.handleJoin(conn, env)
		return
	}

	ps, ok := s.players[conn]
	if !ok {
		s.sendError(conn, "not_joined", "send a join message first")
		return
	}
	s.handleCommand(conn, ps, env)
}

// Leave tears down a player's table and writes their session record
func (s *TableService) Leave(conn *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, ok := s.players[conn]
	if !ok {
		return
	}
	delete(s.players, conn)

	if err := ps.tracker.Close(); err != nil {
		s.logger.Error("Failed to write session record", "player", ps.name, "error", err)
	}
	s.logger.Info("Player left", "player", ps.name, "balance", ps.table.Balance())
}

func (s *TableService) handleJoin(conn *Connection, env *protocol.Envelope) {
	var join protocol.Join
	if err := json.Unmarshal(env.Data, &join); err != nil || join.Name == "" {
		s.sendError(conn, "bad_join", "join requires a player name")
		return
	}
	if _, ok := s.players[conn]; ok {
		s.sendError(conn, "already_joined", "connection already has a table")
		return
	}

	seed := s.nextSeed
	s.nextSeed++

	table, err := game.NewTable(s.logger,
		game.WithRNG(randutil.New(seed)),
		game.WithDeckCount(s.config.Table.DeckCount),
		game.WithBalance(s.config.Table.StartingBalance),
		game.WithRebet(s.config.Table.Rebet),
	)
	if err != nil {
		s.sendError(conn, "table_failed", err.Error())
		return
	}

	tracker := session.NewTracker(s.logger, table.Balance(), session.WithWriter(s.writer))

	conn.SetPlayer(join.Name)
	s.players[conn] = &playerSession{
		name:    join.Name,
		table:   table,
		tracker: tracker,
	}

	s.logger.Info("Player joined", "player", join.Name, "session", tracker.ID())
	s.send(conn, protocol.TypeWelcome, protocol.Welcome{
		SessionID: tracker.ID(),
		Balance:   table.Balance(),
		DeckCount: table.Shoe().DeckCount(),
		MinBet:    s.config.Table.MinBet,
		MaxBet:    s.config.Table.MaxBet,
	})
	s.send(conn, protocol.TypeTableState, tableState(table))
}

func (s *TableService) handleCommand(conn *Connection, ps *playerSession, env *protocol.Envelope) {
	table := ps.table
	shoeBefore := table.Shoe()
	remainingBefore := shoeBefore.Remaining()

	reject := game.RejectNone
	switch env.Type {
	case protocol.TypeBet:
		var bet protocol.Bet
		if err := json.Unmarshal(env.Data, &bet); err != nil {
			s.sendError(conn, "bad_payload", "bet requires an amount")
			return
		}
		if bet.Amount < s.config.Table.MinBet || table.MainBet()+bet.Amount > s.config.Table.MaxBet {
			s.sendRejected(conn, env.Type, game.RejectInvalidAmount)
			return
		}
		reject = table.PlaceBet(bet.Amount)

	case protocol.TypeBonusBet:
		var bet protocol.Bet
		if err := json.Unmarshal(env.Data, &bet); err != nil {
			s.sendError(conn, "bad_payload", "bonus_bet requires an amount")
			return
		}
		if !s.config.Table.BonusEnabled {
			s.sendError(conn, "bonus_disabled", "bonus bets are not offered on this table")
			return
		}
		reject = table.PlaceBonusBet(bet.Amount)

	case protocol.TypeRemoveBet:
		var bet protocol.Bet
		if err := json.Unmarshal(env.Data, &bet); err != nil {
			s.sendError(conn, "bad_payload", "remove_bet requires an amount")
			return
		}
		reject = table.RemoveBet(bet.Amount)

	case protocol.TypeReady:
		ps.balanceBefore = table.Balance() + table.MainBet() + table.BonusBet()
		ps.bonusBet = table.BonusBet()
		reject = table.Ready()

	case protocol.TypeHit:
		reject = table.Hit()
	case protocol.TypeStand:
		reject = table.Stand()
	case protocol.TypeDouble:
		reject = table.Double()
	case protocol.TypeSplit:
		reject = table.Split()
	case protocol.TypeNewHand:
		reject = table.NewHand()

	case protocol.TypeSetDecks:
		var decks protocol.SetDecks
		if err := json.Unmarshal(env.Data, &decks); err != nil {
			s.sendError(conn, "bad_payload", "set_decks requires a count")
			return
		}
		reject = table.SetDeckCount(decks.Count)

	default:
		s.sendError(conn, "unknown_type", string(env.Type))
		return
	}

	if !reject.Accepted() {
		s.sendRejected(conn, env.Type, reject)
		return
	}

	// The deal reshuffles or swaps the shoe before drawing
	if table.Shoe() != shoeBefore || table.Shoe().Remaining() > remainingBefore {
		s.send(conn, protocol.TypeReshuffled, protocol.Reshuffled{
			DeckCount: table.Shoe().DeckCount(),
			Remaining: table.Shoe().Remaining(),
		})
	}

	s.sendState(conn, ps)

	if env.Type == protocol.TypeReady && ps.bonusBet > 0 {
		s.sendBonus(conn, ps)
	}
	if table.Phase() == game.GameOver && env.Type != protocol.TypeNewHand {
		s.finishRound(conn, ps)
	}
}

// finishRound records the round in the session and reports settlement
func (s *TableService) finishRound(conn *Connection, ps *playerSession) {
	table := ps.table

	// Doubles and splits grow the stake after the deal, so the main bet
	// is summed from the hands as they stand at settlement.
	mainBet := 0
	for _, hand := range table.Hands() {
		mainBet += hand.Bet
	}

	result := statistics.RoundResult{
		MainBet:       mainBet,
		BonusBet:      ps.bonusBet,
		Hands:         len(table.Hands()),
		BalanceBefore: ps.balanceBefore,
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
	ps.tracker.RecordRound(result)

	settlement := protocol.Settlement{
		Dealer:  dealerState(table),
		Balance: table.Balance(),
	}
	for _, st := range table.Settlements() {
		settlement.Hands = append(settlement.Hands, protocol.HandSettlement{
			Hand:     string(st.Hand),
			Outcome:  st.Outcome.String(),
			Payout:   st.Payout,
			Returned: st.Returned,
		})
	}
	s.send(conn, protocol.TypeSettlement, settlement)
}

func (s *TableService) sendBonus(conn *Connection, ps *playerSession) {
	// The bonus settles during the deal. Reclassifying the dealt cards
	// reproduces the same result without replaying the event bus.
	hand := ps.table.Hands()[0]
	category, payout := game.SettleBonus(ps.bonusBet, hand.Cards[0], hand.Cards[1])
	s.send(conn, protocol.TypeBonus, protocol.BonusResult{
		Category: category.String(),
		Odds:     category.Odds(),
		Payout:   payout,
		Balance:  ps.table.Balance(),
	})
}

func (s *TableService) sendState(conn *Connection, ps *playerSession) {
	s.send(conn, protocol.TypeTableState, tableState(ps.table))
}

func (s *TableService) sendRejected(conn *Connection, command protocol.MessageType, reason game.RejectReason) {
	s.send(conn, protocol.TypeRejected, protocol.Rejected{
		Command: command,
		Reason:  reason.String(),
	})
}

func (s *TableService) sendError(conn *Connection, code, message string) {
	s.send(conn, protocol.TypeError, protocol.Error{Code: code, Message: message})
}

func (s *TableService) send(conn *Connection, messageType protocol.MessageType, data interface{}) {
	env, err := protocol.NewEnvelope(messageType, data)
	if err != nil {
		s.logger.Error("Failed to build message", "type", messageType, "error", err)
		return
	}
	if err := conn.Send(env); err != nil {
		s.logger.Debug("Failed to send message", "type", messageType, "error", err)
	}
}

// tableState snapshots the table as the client is allowed to see it
func tableState(table *game.Table) protocol.TableState {
	state := protocol.TableState{
		Phase:     table.Phase().String(),
		Balance:   table.Balance(),
		MainBet:   table.MainBet(),
		BonusBet:  table.BonusBet(),
		Dealer:    dealerVisibleState(table),
		Hands:     []protocol.HandState{},
		Remaining: table.Shoe().Remaining(),
		DeckCount: table.Shoe().DeckCount(),
	}
	for i, hand := range table.Hands() {
		state.Hands = append(state.Hands, playerHandState(table, i, hand))
	}
	if active := table.ActiveHand(); active != nil {
		state.ActiveHand = string(table.ActiveHandID())
	}
	return state
}

func playerHandState(table *game.Table, index int, hand *game.PlayerHand) protocol.HandState {
	total := hand.Total()
	return protocol.HandState{
		ID:      string(game.PlayerHandID(index)),
		Cards:   cardStrings(hand.Cards),
		Value:   total.Value,
		Soft:    total.Soft,
		Bet:     hand.Bet,
		Stood:   hand.HasStood,
		Doubled: hand.HasDoubled,
		Busted:  hand.Busted,
	}
}

// dealerVisibleState hides the hole card until the dealer turn
func dealerVisibleState(table *game.Table) protocol.HandState {
	visible := table.VisibleDealer()
	hand := game.Hand{Cards: visible}
	total := hand.Total()
	return protocol.HandState{
		ID:    string(game.DealerHand),
		Cards: cardStrings(visible),
		Value: total.Value,
		Soft:  total.Soft,
	}
}

// dealerState shows the full dealer hand, for settlement reports
func dealerState(table *game.Table) protocol.HandState {
	hand := table.Dealer()
	total := hand.Total()
	return protocol.HandState{
		ID:    string(game.DealerHand),
		Cards: cardStrings(hand.Cards),
		Value: total.Value,
		Soft:  total.Soft,
	}
}

func cardStrings(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
