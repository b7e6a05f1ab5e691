package server

import (
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/protocol"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestService(t *testing.T, mutate ...func(*ServerConfig)) (*TableService, *Connection) {
	t.Helper()
	config := DefaultServerConfig()
	config.Table.RecordDir = ""
	for _, m := range mutate {
		m(config)
	}
	require.NoError(t, config.Validate())

	service := NewTableService(config, testLogger(), 42)
	// The connection is never started, so outbound messages stay
	// queued on its send channel for inspection.
	conn := NewConnection(nil, testLogger(), service)
	return service, conn
}

func drain(conn *Connection) []*protocol.Envelope {
	var msgs []*protocol.Envelope
	for {
		select {
		case msg := <-conn.send:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func lastOfType(msgs []*protocol.Envelope, messageType protocol.MessageType) *protocol.Envelope {
	var found *protocol.Envelope
	for _, msg := range msgs {
		if msg.Type == messageType {
			found = msg
		}
	}
	return found
}

func sendCommand(t *testing.T, service *TableService, conn *Connection, messageType protocol.MessageType, data interface{}) {
	t.Helper()
	env, err := protocol.NewEnvelope(messageType, data)
	require.NoError(t, err)
	service.HandleMessage(conn, env)
}

func join(t *testing.T, service *TableService, conn *Connection, name string) {
	t.Helper()
	sendCommand(t, service, conn, protocol.TypeJoin, protocol.Join{Name: name})
}

func decode[T any](t *testing.T, env *protocol.Envelope) T {
	t.Helper()
	require.NotNil(t, env)
	var payload T
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	return payload
}

func TestJoinCreatesTable(t *testing.T) {
	service, conn := newTestService(t)

	join(t, service, conn, "bot-1")

	msgs := drain(conn)
	welcome := decode[protocol.Welcome](t, lastOfType(msgs, protocol.TypeWelcome))
	assert.NotEmpty(t, welcome.SessionID)
	assert.Equal(t, 1000, welcome.Balance)
	assert.Equal(t, 1, welcome.DeckCount)

	state := decode[protocol.TableState](t, lastOfType(msgs, protocol.TypeTableState))
	assert.Equal(t, "waiting_for_bet", state.Phase)
	assert.Equal(t, 52, state.Remaining)
	assert.Equal(t, "bot-1", conn.GetPlayer())
}

func TestCommandBeforeJoin(t *testing.T) {
	service, conn := newTestService(t)

	sendCommand(t, service, conn, protocol.TypeHit, nil)

	msgs := drain(conn)
	errMsg := decode[protocol.Error](t, lastOfType(msgs, protocol.TypeError))
	assert.Equal(t, "not_joined", errMsg.Code)
}

func TestDoubleJoinRejected(t *testing.T) {
	service, conn := newTestService(t)

	join(t, service, conn, "bot-1")
	drain(conn)
	join(t, service, conn, "bot-1")

	msgs := drain(conn)
	errMsg := decode[protocol.Error](t, lastOfType(msgs, protocol.TypeError))
	assert.Equal(t, "already_joined", errMsg.Code)
}

func TestBetUpdatesState(t *testing.T) {
	service, conn := newTestService(t)
	join(t, service, conn, "bot-1")
	drain(conn)

	sendCommand(t, service, conn, protocol.TypeBet, protocol.Bet{Amount: 50})

	msgs := drain(conn)
	state := decode[protocol.TableState](t, lastOfType(msgs, protocol.TypeTableState))
	assert.Equal(t, "ready_to_deal", state.Phase)
	assert.Equal(t, 50, state.MainBet)
	assert.Equal(t, 950, state.Balance)
}

func TestBetOutsideLimits(t *testing.T) {
	service, conn := newTestService(t, func(c *ServerConfig) {
		c.Table.MinBet = 10
		c.Table.MaxBet = 100
	})
	join(t, service, conn, "bot-1")
	drain(conn)

	sendCommand(t, service, conn, protocol.TypeBet, protocol.Bet{Amount: 5})
	msgs := drain(conn)
	rejected := decode[protocol.Rejected](t, lastOfType(msgs, protocol.TypeRejected))
	assert.Equal(t, protocol.TypeBet, rejected.Command)

	sendCommand(t, service, conn, protocol.TypeBet, protocol.Bet{Amount: 150})
	msgs = drain(conn)
	require.NotNil(t, lastOfType(msgs, protocol.TypeRejected))
}

func TestBonusBetDisabled(t *testing.T) {
	service, conn := newTestService(t, func(c *ServerConfig) {
		c.Table.BonusEnabled = false
	})
	join(t, service, conn, "bot-1")
	drain(conn)

	sendCommand(t, service, conn, protocol.TypeBonusBet, protocol.Bet{Amount: 10})

	msgs := drain(conn)
	errMsg := decode[protocol.Error](t, lastOfType(msgs, protocol.TypeError))
	assert.Equal(t, "bonus_disabled", errMsg.Code)
}

func TestRejectedCommandReportsReason(t *testing.T) {
	service, conn := newTestService(t)
	join(t, service, conn, "bot-1")
	drain(conn)

	sendCommand(t, service, conn, protocol.TypeHit, nil)

	msgs := drain(conn)
	rejected := decode[protocol.Rejected](t, lastOfType(msgs, protocol.TypeRejected))
	assert.Equal(t, protocol.TypeHit, rejected.Command)
	assert.Equal(t, game.RejectWrongPhase.String(), rejected.Reason)
}

// playRound stands every hand until the round settles
func playRound(t *testing.T, service *TableService, conn *Connection, bet int) []*protocol.Envelope {
	t.Helper()
	sendCommand(t, service, conn, protocol.TypeBet, protocol.Bet{Amount: bet})
	sendCommand(t, service, conn, protocol.TypeReady, nil)

	var all []*protocol.Envelope
	for i := 0; i < 10; i++ {
		msgs := drain(conn)
		all = append(all, msgs...)
		state := decode[protocol.TableState](t, lastOfType(msgs, protocol.TypeTableState))
		if state.Phase == "game_over" {
			return all
		}
		sendCommand(t, service, conn, protocol.TypeStand, nil)
	}
	t.Fatal("round did not finish")
	return nil
}

func TestFullRoundSettles(t *testing.T) {
	service, conn := newTestService(t)
	join(t, service, conn, "bot-1")
	drain(conn)

	msgs := playRound(t, service, conn, 50)

	settlement := decode[protocol.Settlement](t, lastOfType(msgs, protocol.TypeSettlement))
	require.Len(t, settlement.Hands, 1)
	assert.Equal(t, "player-1", settlement.Hands[0].Hand)
	assert.GreaterOrEqual(t, len(settlement.Dealer.Cards), 2)
	assert.Contains(t, []string{"win", "loss", "push"}, settlement.Hands[0].Outcome)

	// Settlement hands outcome and balance stay consistent
	switch settlement.Hands[0].Outcome {
	case "win":
		assert.Greater(t, settlement.Balance, 950)
	case "loss":
		assert.Equal(t, 950, settlement.Balance)
	case "push":
		assert.Equal(t, 1000, settlement.Balance)
	}
}

func TestRoundsAccumulateInSession(t *testing.T) {
	service, conn := newTestService(t)
	join(t, service, conn, "bot-1")
	drain(conn)

	playRound(t, service, conn, 50)
	sendCommand(t, service, conn, protocol.TypeNewHand, nil)
	drain(conn)
	playRound(t, service, conn, 25)

	service.mu.Lock()
	ps := service.players[conn]
	service.mu.Unlock()
	require.NotNil(t, ps)
	assert.Equal(t, 2, ps.tracker.Session().Rounds)
	assert.Equal(t, 50, ps.tracker.Session().LargestBet)
}

func TestLeaveWritesSessionRecord(t *testing.T) {
	dir := t.TempDir()
	service, conn := newTestService(t, func(c *ServerConfig) {
		c.Table.RecordDir = dir
	})
	join(t, service, conn, "bot-1")
	drain(conn)
	playRound(t, service, conn, 50)

	service.Leave(conn)

	records, err := filepath.Glob(filepath.Join(dir, "session_*.json"))
	require.NoError(t, err)
	require.Len(t, records, 1)

	service.mu.Lock()
	_, stillThere := service.players[conn]
	service.mu.Unlock()
	assert.False(t, stillThere)
}

func TestSetDecksRebuildsShoe(t *testing.T) {
	service, conn := newTestService(t)
	join(t, service, conn, "bot-1")
	drain(conn)

	sendCommand(t, service, conn, protocol.TypeSetDecks, protocol.SetDecks{Count: 6})

	msgs := drain(conn)
	state := decode[protocol.TableState](t, lastOfType(msgs, protocol.TypeTableState))
	assert.Equal(t, 6, state.DeckCount)
	assert.Equal(t, 312, state.Remaining)
	require.NotNil(t, lastOfType(msgs, protocol.TypeReshuffled))
}
