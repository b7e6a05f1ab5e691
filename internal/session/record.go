// Package session tracks one sitting at the table and persists a flat
// record of it when the session closes.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lox/blackjackforbots/internal/fileutil"
	"github.com/lox/blackjackforbots/internal/statistics"
)

// BlackjackMetrics is the per-game metric block embedded in a record
type BlackjackMetrics struct {
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	Pushes        int `json:"pushes"`
	Blackjacks    int `json:"blackjacks"`
	Doubles       int `json:"doubles"`
	Splits        int `json:"splits"`
	Busts         int `json:"busts"`
	MainBetTotal  int `json:"mainBetTotal"`
	BonusBetTotal int `json:"bonusBetTotal"`
	LargestBet    int `json:"largestBet"`
}

// Record is the flat session snapshot written at session end. No
// incremental replay is kept; this is everything that survives.
type Record struct {
	ID              string           `json:"id"`
	Date            time.Time        `json:"date"`
	DurationSeconds float64          `json:"durationSeconds"`
	StartingBalance int              `json:"startingBalance"`
	EndingBalance   int              `json:"endingBalance"`
	HandCount       int              `json:"handCount"`
	BalanceHistory  []int            `json:"balanceHistory"`
	BetSizeHistory  []int            `json:"betSizeHistory"`
	Blackjack       BlackjackMetrics `json:"blackjackMetrics"`
	PlayerType      string           `json:"playerType"`
}

// FromSession fills the metric block from a statistics session
func (r *Record) FromSession(s *statistics.Session) {
	r.Blackjack = BlackjackMetrics{
		Wins:          s.Wins,
		Losses:        s.Losses,
		Pushes:        s.Pushes,
		Blackjacks:    s.Blackjacks,
		Doubles:       s.Doubles,
		Splits:        s.Splits,
		Busts:         s.Busts,
		MainBetTotal:  s.MainBetTotal,
		BonusBetTotal: s.BonusBetTotal,
		LargestBet:    s.LargestBet,
	}
	r.PlayerType = string(statistics.Classify(s).Type)
}

// RecordWriter persists completed session records
type RecordWriter interface {
	WriteRecord(record *Record) error
}

// FileRecordWriter writes session records as JSON files
type FileRecordWriter struct {
	directory string
}

// NewFileRecordWriter creates a writer targeting the given directory
func NewFileRecordWriter(directory string) *FileRecordWriter {
	return &FileRecordWriter{directory: directory}
}

// WriteRecord writes the record to session_<id>.json
func (w *FileRecordWriter) WriteRecord(record *Record) error {
	if err := os.MkdirAll(w.directory, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	filename := filepath.Join(w.directory, fmt.Sprintf("session_%s.json", record.ID))
	if err := fileutil.WriteFileAtomic(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}
	return nil
}

// NoOpRecordWriter discards records (for tests and simulations)
type NoOpRecordWriter struct{}

// WriteRecord does nothing
func (w *NoOpRecordWriter) WriteRecord(record *Record) error {
	return nil
}
