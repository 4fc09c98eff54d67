// Package payout replays a period's charge and fee records against a running
// balance and decides when the processor would have paid the balance out.
package payout

import "time"

// Kind classifies a ledger record
type Kind string

const (
	KindCharge Kind = "charge"
	KindFee    Kind = "fee"
	KindPayout Kind = "payout"
)

// DefaultSettlementLag is the delay between the record that crosses the
// threshold and the simulated disbursement.
const DefaultSettlementLag = 24 * time.Hour

// SkipReasonAfterCutoff marks a payout that was withheld because its record
// settled after the cutoff.
const SkipReasonAfterCutoff = "after_cutoff"

// TransactionRecord is one signed movement on the processor balance
type TransactionRecord struct {
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	Kind        Kind      `json:"kind" bson:"kind"`
	Amount      int64     `json:"amount" bson:"amount"` // Stored in cents/minor units
	AccountID   string    `json:"account_id" bson:"account_id"`
	ExternalRef string    `json:"external_ref,omitempty" bson:"external_ref,omitempty"`
}

// PayoutEvent is a disbursement decided by the replay, not yet persisted
type PayoutEvent struct {
	TriggeredAt time.Time `json:"triggered_at" bson:"triggered_at"`
	Amount      int64     `json:"amount" bson:"amount"`
	Sequence    int       `json:"sequence" bson:"sequence"`
}

// SkippedPayout records a payout the threshold would have triggered but the
// cutoff withheld. The balance carries forward.
type SkippedPayout struct {
	RecordTimestamp time.Time `json:"record_timestamp" bson:"record_timestamp"`
	WouldBeAt       time.Time `json:"would_be_at" bson:"would_be_at"`
	Amount          int64     `json:"amount" bson:"amount"`
	Reason          string    `json:"reason" bson:"reason"`
}

// Step is the running balance right after a record was applied
type Step struct {
	Record  TransactionRecord `json:"record" bson:"record"`
	Balance int64             `json:"balance" bson:"balance"`
}

// ReplayResult is the outcome of one replay
type ReplayResult struct {
	Payouts  []PayoutEvent   `json:"payouts" bson:"payouts"`
	Skipped  []SkippedPayout `json:"skipped" bson:"skipped"`
	Balance  int64           `json:"balance" bson:"balance"`
	Consumed int             `json:"consumed" bson:"consumed"`
	Steps    []Step          `json:"steps,omitempty" bson:"-"`
}

// TotalPaidOut sums the emitted payouts
func (r *ReplayResult) TotalPaidOut() int64 {
	var total int64
	for _, p := range r.Payouts {
		total += p.Amount
	}
	return total
}
