package session

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjackforbots/internal/sessionid"
	"github.com/lox/blackjackforbots/internal/statistics"
)

// Tracker accumulates a live session and produces the final record.
// It is not safe for concurrent use; callers feed it from the table's
// command loop.
type Tracker struct {
	id              string
	clock           quartz.Clock
	logger          *log.Logger
	started         time.Time
	startingBalance int
	handCount       int
	balanceHistory  []int
	betSizeHistory  []int
	session         *statistics.Session
	writer          RecordWriter
	closed          bool
}

// TrackerOption configures a Tracker
type TrackerOption func(*Tracker)

// WithClock sets the clock used for session duration
func WithClock(clock quartz.Clock) TrackerOption {
	return func(t *Tracker) {
		t.clock = clock
	}
}

// WithID overrides the generated session ID
func WithID(id string) TrackerOption {
	return func(t *Tracker) {
		t.id = id
	}
}

// WithWriter sets the record writer used on Close
func WithWriter(writer RecordWriter) TrackerOption {
	return func(t *Tracker) {
		t.writer = writer
	}
}

// NewTracker starts a session at the given balance
func NewTracker(logger *log.Logger, startingBalance int, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		id:              sessionid.Generate(),
		clock:           quartz.NewReal(),
		logger:          logger.WithPrefix("session"),
		startingBalance: startingBalance,
		balanceHistory:  []int{startingBalance},
		session:         statistics.NewSession(),
		writer:          &NoOpRecordWriter{},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.started = t.clock.Now()
	return t
}

// ID returns the session identifier
func (t *Tracker) ID() string {
	return t.id
}

// Session exposes the underlying statistics accumulator
func (t *Tracker) Session() *statistics.Session {
	return t.session
}

// RecordRound folds one settled round into the session
func (t *Tracker) RecordRound(result statistics.RoundResult) {
	t.session.Add(result)
	t.handCount += result.Hands
	t.balanceHistory = append(t.balanceHistory, result.BalanceAfter)
	t.betSizeHistory = append(t.betSizeHistory, result.MainBet)
	t.logger.Debug("recorded round",
		"rounds", t.session.Rounds,
		"balance", result.BalanceAfter,
	)
}

// Snapshot builds the record for the session as it stands now
func (t *Tracker) Snapshot() *Record {
	endingBalance := t.startingBalance
	if len(t.balanceHistory) > 0 {
		endingBalance = t.balanceHistory[len(t.balanceHistory)-1]
	}

	record := &Record{
		ID:              t.id,
		Date:            t.started,
		DurationSeconds: t.clock.Now().Sub(t.started).Seconds(),
		StartingBalance: t.startingBalance,
		EndingBalance:   endingBalance,
		HandCount:       t.handCount,
		BalanceHistory:  append([]int(nil), t.balanceHistory...),
		BetSizeHistory:  append([]int(nil), t.betSizeHistory...),
	}
	record.FromSession(t.session)
	return record
}

// Close writes the final record. Calling Close twice is a no-op.
func (t *Tracker) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	record := t.Snapshot()
	if err := t.writer.WriteRecord(record); err != nil {
		return err
	}
	t.logger.Info("session closed",
		"id", t.id,
		"rounds", t.session.Rounds,
		"net", record.EndingBalance-record.StartingBalance,
		"playerType", record.PlayerType,
	)
	return nil
}
