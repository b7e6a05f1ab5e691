package game

import (
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackforbots/internal/deck"
)

// Table is the authoritative blackjack round state machine. The UI (or
// any other client) issues commands against it; the table validates
// them, mutates state, and publishes events. All commands are
// synchronous: one command runs to completion before the next.
type Table struct {
	logger *log.Logger
	events EventBus
	rng    *rand.Rand

	shoe      *deck.Shoe
	deckCount int

	phase   Phase
	dealer  *Hand
	hands   []*PlayerHand
	active  int
	holeUp  bool // dealer hole card revealed
	balance int

	pendingBet   int // main bet staged before the deal
	pendingBonus int // bonus bet staged before the deal
	lastBet      int // previous round's main bet, for rebet
	rebet        bool

	settlements []Settlement // results of the last completed round
}

// NewTable creates a table with the given options applied
func NewTable(logger *log.Logger, opts ...TableOption) (*Table, error) {
	cfg := defaultTableConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	shoe := cfg.shoe
	if shoe == nil {
		var err error
		shoe, err = deck.NewShoe(cfg.deckCount, cfg.rng)
		if err != nil {
			return nil, err
		}
	}

	events := cfg.events
	if events == nil {
		events = NewEventBus()
	}

	return &Table{
		logger:    logger.WithPrefix("table"),
		events:    events,
		rng:       cfg.rng,
		shoe:      shoe,
		deckCount: cfg.deckCount,
		phase:     WaitingForBet,
		dealer:    &Hand{},
		balance:   cfg.balance,
		rebet:     cfg.rebet,
	}, nil
}

// Events returns the bus table events are published on
func (t *Table) Events() EventBus { return t.events }

// Phase returns the current round phase
func (t *Table) Phase() Phase { return t.phase }

// Balance returns the player's current balance
func (t *Table) Balance() int { return t.balance }

// MainBet returns the staged main bet amount
func (t *Table) MainBet() int { return t.pendingBet }

// BonusBet returns the staged bonus bet amount
func (t *Table) BonusBet() int { return t.pendingBonus }

// Dealer returns the dealer's hand. Before the hole card is revealed
// only the up-card portion should be shown to players; VisibleDealer
// handles that.
func (t *Table) Dealer() *Hand { return t.dealer }

// VisibleDealer returns the dealer cards a player may see
func (t *Table) VisibleDealer() []deck.Card {
	if t.holeUp || len(t.dealer.Cards) < 2 {
		return t.dealer.Cards
	}
	// Hole card is dealt first and stays hidden.
	return t.dealer.Cards[1:]
}

// Hands returns the player hands in play
func (t *Table) Hands() []*PlayerHand { return t.hands }

// ActiveHand returns the hand currently in focus, or nil outside of
// the player turn
func (t *Table) ActiveHand() *PlayerHand {
	if t.phase != PlayerTurn || t.active >= len(t.hands) {
		return nil
	}
	return t.hands[t.active]
}

// ActiveHandID returns the event identifier of the hand in focus
func (t *Table) ActiveHandID() HandID {
	return PlayerHandID(t.active)
}

// Shoe returns the live shoe
func (t *Table) Shoe() *deck.Shoe { return t.shoe }

// Settlements returns the results of the last completed round, or nil
// if no round has settled since the last NewHand
func (t *Table) Settlements() []Settlement { return t.settlements }

// PlaceBet stages chips on the main bet. Legal while waiting to deal;
// moving the bet above zero advances the phase to ReadyToDeal.
func (t *Table) PlaceBet(amount int) RejectReason {
	if t.phase != WaitingForBet && t.phase != ReadyToDeal {
		return RejectWrongPhase
	}
	if amount <= 0 {
		return RejectInvalidAmount
	}
	if amount > t.balance {
		return RejectInsufficientBalance
	}

	t.adjustBalance(-amount)
	t.pendingBet += amount
	if t.phase == WaitingForBet {
		t.setPhase(ReadyToDeal)
	}
	return RejectNone
}

// RemoveBet takes chips back off the main bet. Removing everything
// drops the phase back to WaitingForBet.
func (t *Table) RemoveBet(amount int) RejectReason {
	if t.phase != ReadyToDeal {
		return RejectWrongPhase
	}
	if amount <= 0 || amount > t.pendingBet {
		return RejectInvalidAmount
	}

	t.pendingBet -= amount
	t.adjustBalance(amount)
	if t.pendingBet == 0 {
		t.setPhase(WaitingForBet)
	}
	return RejectNone
}

// PlaceBonusBet stages a bonus side bet on the first two player cards
func (t *Table) PlaceBonusBet(amount int) RejectReason {
	if t.phase != WaitingForBet && t.phase != ReadyToDeal {
		return RejectWrongPhase
	}
	if amount <= 0 {
		return RejectInvalidAmount
	}
	if amount > t.balance {
		return RejectInsufficientBalance
	}

	t.adjustBalance(-amount)
	t.pendingBonus += amount
	return RejectNone
}

// Ready deals the round: player, dealer hole, player, dealer up. A
// shoe below the low-water mark is reshuffled first so the whole deal
// comes from one shoe state.
func (t *Table) Ready() RejectReason {
	if t.phase != ReadyToDeal {
		return RejectWrongPhase
	}

	t.setPhase(Dealing)
	t.reshuffleIfNeeded()

	hand := &PlayerHand{Bet: t.pendingBet}
	t.hands = []*PlayerHand{hand}
	t.active = 0
	t.dealer = &Hand{}
	t.holeUp = false
	t.lastBet = t.pendingBet
	t.pendingBet = 0

	hand.AddCard(t.shoe.Draw())
	t.dealer.AddCard(t.shoe.Draw()) // hole card
	hand.AddCard(t.shoe.Draw())
	t.dealer.AddCard(t.shoe.Draw()) // up card

	t.publish(HandDealtEvent{Hand: PlayerHandOne, Cards: hand.Cards, timestamp: time.Now()})
	t.publish(HandDealtEvent{Hand: DealerHand, Cards: t.VisibleDealer(), timestamp: time.Now()})
	t.publishTotal(PlayerHandOne, hand.Total())

	t.settleBonus(hand)

	t.logger.Debug("dealt",
		"player", hand.String(),
		"dealerUp", t.dealer.Cards[1].String(),
		"remaining", t.shoe.Remaining())

	// A two-card 21 auto-stands straight into the dealer turn.
	if hand.Total().Value == 21 {
		hand.HasStood = true
		t.setPhase(PlayerTurn)
		t.finishPlayerTurn()
		return RejectNone
	}

	t.setPhase(PlayerTurn)
	return RejectNone
}

// Hit draws one card for the hand in focus
func (t *Table) Hit() RejectReason {
	hand := t.ActiveHand()
	if hand == nil {
		return RejectWrongPhase
	}
	if hand.HasStood {
		return RejectHandStood
	}

	t.reshuffleIfNeeded()
	hand.AddCard(t.shoe.Draw())
	hand.HasHit = true

	total := hand.Total()
	t.publishTotal(t.ActiveHandID(), total)

	switch {
	case total.Value > 21:
		hand.Busted = true
	case total.Value == 21:
		hand.HasStood = true
	}

	t.advanceFocus()
	return RejectNone
}

// Stand marks the hand in focus as standing
func (t *Table) Stand() RejectReason {
	hand := t.ActiveHand()
	if hand == nil {
		return RejectWrongPhase
	}
	if hand.HasStood {
		return RejectHandStood
	}

	hand.HasStood = true
	t.advanceFocus()
	return RejectNone
}

// Double doubles the bet on a two-card hand, draws one face-down card
// and stands. The card is revealed after the dealer finishes.
func (t *Table) Double() RejectReason {
	hand := t.ActiveHand()
	if hand == nil {
		return RejectWrongPhase
	}
	switch {
	case hand.HasStood:
		return RejectHandStood
	case hand.HasDoubled:
		return RejectAlreadyDoubled
	case hand.HasHit:
		return RejectAlreadyHit
	case len(hand.Cards) != 2:
		return RejectNotTwoCards
	case t.balance < hand.Bet:
		return RejectInsufficientBalance
	}

	t.adjustBalance(-hand.Bet)
	hand.Bet *= 2
	hand.HasDoubled = true

	t.reshuffleIfNeeded()
	card := t.shoe.Draw()
	hand.doubleCard = &card
	hand.HasStood = true

	t.advanceFocus()
	return RejectNone
}

// Split divides a two-card pair into two independently played hands,
// each seeded with one of the original cards plus one fresh card.
// Only a single split level is supported.
func (t *Table) Split() RejectReason {
	hand := t.ActiveHand()
	if hand == nil {
		return RejectWrongPhase
	}
	switch {
	case len(t.hands) > 1:
		return RejectAlreadySplit
	case hand.HasStood:
		return RejectHandStood
	case hand.HasHit:
		return RejectAlreadyHit
	case len(hand.Cards) != 2:
		return RejectNotTwoCards
	case hand.Cards[0].Rank != hand.Cards[1].Rank:
		return RejectRanksDiffer
	case t.balance < hand.Bet:
		return RejectInsufficientBalance
	}

	t.adjustBalance(-hand.Bet)

	second := &PlayerHand{Bet: hand.Bet, FromSplit: true}
	second.AddCard(hand.Cards[1])
	hand.Cards = hand.Cards[:1]
	hand.FromSplit = true
	t.hands = append(t.hands, second)

	t.reshuffleIfNeeded()
	hand.AddCard(t.shoe.Draw())
	second.AddCard(t.shoe.Draw())

	t.publish(HandDealtEvent{Hand: PlayerHandOne, Cards: hand.Cards, timestamp: time.Now()})
	t.publish(HandDealtEvent{Hand: PlayerHandTwo, Cards: second.Cards, timestamp: time.Now()})
	t.publishTotal(PlayerHandOne, hand.Total())
	t.publishTotal(PlayerHandTwo, second.Total())

	// A split hand that lands on 21 is done acting immediately.
	for _, ph := range t.hands {
		if ph.Total().Value == 21 {
			ph.HasStood = true
		}
	}

	t.active = 0
	t.advanceFocus()
	return RejectNone
}

// NewHand resets for the next round. With rebet enabled the previous
// main bet is staged again when the balance allows it.
func (t *Table) NewHand() RejectReason {
	if t.phase != GameOver {
		return RejectWrongPhase
	}

	t.hands = nil
	t.dealer = &Hand{}
	t.active = 0
	t.holeUp = false
	t.pendingBonus = 0
	t.settlements = nil
	t.setPhase(WaitingForBet)

	if t.rebet && t.lastBet > 0 && t.lastBet <= t.balance {
		t.PlaceBet(t.lastBet)
	}
	return RejectNone
}

// SetDeckCount rebuilds the shoe with a new deck count. Rejected
// mid-round; the shoe only changes between hands.
func (t *Table) SetDeckCount(n int) RejectReason {
	switch t.phase {
	case WaitingForBet, ReadyToDeal, GameOver:
	default:
		return RejectWrongPhase
	}

	shoe, err := deck.NewShoe(n, t.rng)
	if err != nil {
		return RejectInvalidDeckCount
	}
	t.deckCount = n
	t.shoe = shoe
	t.publish(ShoeReshuffledEvent{Remaining: t.shoe.Remaining(), timestamp: time.Now()})
	return RejectNone
}

// advanceFocus moves play to the next live hand, or starts the dealer
// turn once every hand is terminal.
func (t *Table) advanceFocus() {
	for t.active < len(t.hands) && t.hands[t.active].Terminal() {
		t.active++
	}
	if t.active >= len(t.hands) {
		t.finishPlayerTurn()
	}
}

// finishPlayerTurn reveals the hole card, plays out the dealer and
// settles the round.
func (t *Table) finishPlayerTurn() {
	t.setPhase(DealerTurn)
	t.holeUp = true
	t.publish(HandDealtEvent{Hand: DealerHand, Cards: t.dealer.Cards, timestamp: time.Now()})
	t.publishTotal(DealerHand, t.dealer.Total())

	t.playDealer()

	// Face-down double cards join their hands only now.
	for i, ph := range t.hands {
		if ph.revealDouble() {
			t.publishTotal(PlayerHandID(i), ph.Total())
		}
	}

	t.settle()
	t.setPhase(GameOver)
}

// playDealer applies the house policy: hit below 17, stand at 17 or
// better, soft 17 included. With a natural against a lone player hand
// the dealer does not draw at all.
func (t *Table) playDealer() {
	if len(t.hands) == 1 && t.hands[0].IsNatural() {
		return
	}
	if t.allHandsBusted() {
		// Nothing left to beat.
		return
	}

	for t.dealer.Total().Value < 17 {
		t.reshuffleIfNeeded()
		t.dealer.AddCard(t.shoe.Draw())
		t.publishTotal(DealerHand, t.dealer.Total())
	}
}

func (t *Table) allHandsBusted() bool {
	for _, ph := range t.hands {
		if !ph.Busted {
			return false
		}
	}
	return true
}

// settle computes and applies the round settlements
func (t *Table) settle() {
	t.settlements = Settle(t.dealer, t.hands)
	for _, s := range t.settlements {
		if s.Returned > 0 {
			t.adjustBalance(s.Returned)
		}
		t.publish(SettlementEvent{
			Hand:      s.Hand,
			Outcome:   s.Outcome,
			Payout:    s.Payout,
			timestamp: time.Now(),
		})
		t.logger.Debug("settled", "hand", s.Hand, "outcome", s.Outcome, "payout", s.Payout)
	}
}

// settleBonus resolves the bonus side bet against the first two player
// cards, independent of the main hand outcome.
func (t *Table) settleBonus(hand *PlayerHand) {
	if t.pendingBonus == 0 {
		return
	}

	bet := t.pendingBonus
	t.pendingBonus = 0
	category, payout := SettleBonus(bet, hand.Cards[0], hand.Cards[1])
	if payout > 0 {
		t.adjustBalance(bet + payout)
	}
	t.publish(BonusSettledEvent{
		Category:  category,
		Bet:       bet,
		Payout:    payout,
		timestamp: time.Now(),
	})
}

func (t *Table) reshuffleIfNeeded() {
	if !t.shoe.NeedsReshuffle() {
		return
	}
	t.shoe.Reshuffle()
	t.publish(ShoeReshuffledEvent{Remaining: t.shoe.Remaining(), timestamp: time.Now()})
	t.logger.Debug("shoe reshuffled", "remaining", t.shoe.Remaining())
}

func (t *Table) setPhase(p Phase) {
	if p == t.phase {
		return
	}
	from := t.phase
	t.phase = p
	t.publish(PhaseChangedEvent{From: from, To: p, timestamp: time.Now()})
}

func (t *Table) adjustBalance(delta int) {
	if delta == 0 {
		return
	}
	t.balance += delta
	t.publish(BalanceChangedEvent{Balance: t.balance, Delta: delta, timestamp: time.Now()})
}

func (t *Table) publishTotal(id HandID, total Total) {
	t.publish(HandTotalChangedEvent{Hand: id, Total: total, timestamp: time.Now()})
}

func (t *Table) publish(event TableEvent) {
	t.events.Publish(event)
}
