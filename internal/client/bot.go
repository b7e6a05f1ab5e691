package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/protocol"
	"github.com/lox/blackjackforbots/internal/simulator"
)

// BotConfig configures a bot run
type BotConfig struct {
	Name   string
	Policy simulator.Policy
	Bet    int
	Rounds int
}

// BotReport summarises a finished bot run
type BotReport struct {
	Rounds  int
	Wins    int
	Losses  int
	Pushes  int
	Balance int
}

// Bot plays rounds against the server with a fixed policy, reading
// table state messages and answering with commands.
type Bot struct {
	client *Client
	config BotConfig
	logger *log.Logger
}

// NewBot creates a bot around a connected client
func NewBot(client *Client, config BotConfig, logger *log.Logger) *Bot {
	return &Bot{
		client: client,
		config: config,
		logger: logger.WithPrefix("bot"),
	}
}

// Play joins the table and plays the configured number of rounds
func (b *Bot) Play(ctx context.Context) (*BotReport, error) {
	if err := b.client.Send(protocol.TypeJoin, protocol.Join{Name: b.config.Name}); err != nil {
		return nil, err
	}

	report := &BotReport{}
	for {
		select {
		case <-ctx.Done():
			return report, ctx.Err()

		case env, ok := <-b.client.Receive():
			if !ok {
				return report, fmt.Errorf("connection closed after %d rounds", report.Rounds)
			}

			done, err := b.handleMessage(env, report)
			if err != nil {
				return report, err
			}
			if done {
				return report, nil
			}
		}
	}
}

func (b *Bot) handleMessage(env *protocol.Envelope, report *BotReport) (bool, error) {
	switch env.Type {
	case protocol.TypeWelcome:
		var welcome protocol.Welcome
		if err := json.Unmarshal(env.Data, &welcome); err != nil {
			return false, err
		}
		b.logger.Info("Joined table", "session", welcome.SessionID, "balance", welcome.Balance)
		return false, nil

	case protocol.TypeTableState:
		var state protocol.TableState
		if err := json.Unmarshal(env.Data, &state); err != nil {
			return false, err
		}
		return b.act(state, report)

	case protocol.TypeSettlement:
		var settlement protocol.Settlement
		if err := json.Unmarshal(env.Data, &settlement); err != nil {
			return false, err
		}
		for _, hand := range settlement.Hands {
			switch hand.Outcome {
			case "win":
				report.Wins++
			case "loss":
				report.Losses++
			case "push":
				report.Pushes++
			}
		}
		report.Balance = settlement.Balance
		return false, nil

	case protocol.TypeRejected:
		var rejected protocol.Rejected
		if err := json.Unmarshal(env.Data, &rejected); err != nil {
			return false, err
		}
		// Tactical moves can fail on funds; stand instead so the
		// round always terminates.
		if rejected.Command == protocol.TypeDouble || rejected.Command == protocol.TypeSplit {
			return false, b.client.Send(protocol.TypeStand, nil)
		}
		return false, fmt.Errorf("command %s rejected: %s", rejected.Command, rejected.Reason)

	case protocol.TypeError:
		var serverErr protocol.Error
		if err := json.Unmarshal(env.Data, &serverErr); err != nil {
			return false, err
		}
		return false, fmt.Errorf("server error %s: %s", serverErr.Code, serverErr.Message)

	default:
		// Bonus results and reshuffles need no response
		return false, nil
	}
}

// act answers a table state with the next command
func (b *Bot) act(state protocol.TableState, report *BotReport) (bool, error) {
	switch state.Phase {
	case "waiting_for_bet":
		if report.Rounds >= b.config.Rounds {
			return true, nil
		}
		if state.Balance < b.config.Bet {
			b.logger.Info("Balance exhausted", "balance", state.Balance)
			return true, nil
		}
		return false, b.client.Send(protocol.TypeBet, protocol.Bet{Amount: b.config.Bet})

	case "ready_to_deal":
		report.Rounds++
		return false, b.client.Send(protocol.TypeReady, nil)

	case "player_turn":
		return false, b.decide(state)

	case "game_over":
		if report.Rounds >= b.config.Rounds {
			return true, nil
		}
		return false, b.client.Send(protocol.TypeNewHand, nil)

	default:
		return false, nil
	}
}

// decide replays the active hand through the policy
func (b *Bot) decide(state protocol.TableState) error {
	var active *protocol.HandState
	for i := range state.Hands {
		if state.Hands[i].ID == state.ActiveHand {
			active = &state.Hands[i]
			break
		}
	}
	if active == nil {
		return fmt.Errorf("no active hand in state")
	}
	if len(state.Dealer.Cards) == 0 {
		return fmt.Errorf("no dealer cards in state")
	}

	hand, err := parseHand(active)
	if err != nil {
		return err
	}
	dealerUp, err := deck.Parse(state.Dealer.Cards[0])
	if err != nil {
		return err
	}

	canSplit := len(state.Hands) == 1
	switch b.config.Policy.Decide(hand, dealerUp, canSplit) {
	case simulator.ActionHit:
		return b.client.Send(protocol.TypeHit, nil)
	case simulator.ActionDouble:
		return b.client.Send(protocol.TypeDouble, nil)
	case simulator.ActionSplit:
		return b.client.Send(protocol.TypeSplit, nil)
	default:
		return b.client.Send(protocol.TypeStand, nil)
	}
}

// parseHand rebuilds a policy-facing hand from wire strings
func parseHand(state *protocol.HandState) (*game.PlayerHand, error) {
	hand := &game.PlayerHand{Bet: state.Bet, FromSplit: false}
	for _, s := range state.Cards {
		card, err := deck.Parse(s)
		if err != nil {
			return nil, err
		}
		hand.AddCard(card)
	}
	hand.HasHit = len(hand.Cards) > 2
	return hand, nil
}
