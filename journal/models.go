// Package journal defines the append-only operation log. Entries are
// buffered in memory and flushed to the store in batches.
package journal

import (
	"time"

	"github.com/xraph/streamledger/id"
)

// Operation kinds recorded in the journal.
const (
	OpDeposit        = "deposit"
	OpStreamCreated  = "stream.created"
	OpStreamCanceled = "stream.canceled"
	OpStreamModified = "stream.modified"
	OpWithdraw       = "withdrawal"
	OpPayerWithdraw  = "payer.withdrawal"
	OpRebalance      = "rebalance"
	OpSettled        = "settlement"
	OpStarved        = "settlement.starved"
	OpYieldAccrued   = "yield.accrued"
)

// Entry is a single journal record.
type Entry struct {
	ID        id.JournalID      `json:"id"`
	Account   string            `json:"account"`
	Op        string            `json:"op"`
	Amount    uint64            `json:"amount"`
	StreamID  string            `json:"stream_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
