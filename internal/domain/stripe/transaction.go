package stripe

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/payout-reconciler/internal/domain/payout"
)

// TransactionType mirrors the processor's balance transaction types
type TransactionType string

const (
	TransactionTypeCharge     TransactionType = "charge"
	TransactionTypeRefund     TransactionType = "refund"
	TransactionTypePayout     TransactionType = "payout"
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

// TransactionStatus mirrors the processor's transaction states
type TransactionStatus string

const (
	TransactionStatusSucceeded TransactionStatus = "succeeded"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
	TransactionStatusCanceled  TransactionStatus = "canceled"
)

// Transaction is a single processor transaction stored for an account
type Transaction struct {
	ID            uuid.UUID         `json:"id"`
	StripeID      string            `json:"stripe_id"`
	AccountID     uuid.UUID         `json:"account_id"`
	Amount        int64             `json:"amount"` // Stored in cents/minor units
	Fee           int64             `json:"fee"`    // Positive, cents/minor units
	Currency      string            `json:"currency"`
	Status        TransactionStatus `json:"status"`
	Type          TransactionType   `json:"type"`
	StripeCreated time.Time         `json:"stripe_created"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	Description   string            `json:"description,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// NetAmount is the amount after the processing fee
func (t *Transaction) NetAmount() int64 {
	return t.Amount - t.Fee
}

// IsSucceededCharge reports whether the transaction takes part in payout replay
func (t *Transaction) IsSucceededCharge() bool {
	return t.Type == TransactionTypeCharge && t.Status == TransactionStatusSucceeded
}

// ReplayRecords converts a succeeded charge into a charge record followed by
// its fee record. The fee record is omitted when no fee was taken. Any other
// transaction yields no records.
func (t *Transaction) ReplayRecords(accountRef string) []payout.TransactionRecord {
	if !t.IsSucceededCharge() {
		return nil
	}

	records := []payout.TransactionRecord{{
		Timestamp:   t.StripeCreated,
		Kind:        payout.KindCharge,
		Amount:      t.Amount,
		AccountID:   accountRef,
		ExternalRef: t.StripeID,
	}}
	if t.Fee > 0 {
		records = append(records, payout.TransactionRecord{
			Timestamp:   t.StripeCreated,
			Kind:        payout.KindFee,
			Amount:      -t.Fee,
			AccountID:   accountRef,
			ExternalRef: t.StripeID,
		})
	}
	return records
}

// ReplayRecords flattens the transactions in the order given
func ReplayRecords(accountRef string, txns []*Transaction) []payout.TransactionRecord {
	records := make([]payout.TransactionRecord, 0, len(txns)*2)
	for _, txn := range txns {
		records = append(records, txn.ReplayRecords(accountRef)...)
	}
	return records
}

// SimulatedPayoutID names a payout as <prefix>_<YYYYMM>_<processor id>_<NNN>.
// The same run over the same data always yields the same ids.
func SimulatedPayoutID(prefix string, period payout.Period, processorID string, sequence int) string {
	return fmt.Sprintf("%s_%s_%s_%03d", prefix, period.Key(), processorID, sequence)
}

// NewPayoutTransaction builds the stored form of an emitted payout
func NewPayoutTransaction(accountID uuid.UUID, stripeID string, event payout.PayoutEvent, currency, description string) *Transaction {
	return &Transaction{
		ID:            uuid.New(),
		StripeID:      stripeID,
		AccountID:     accountID,
		Amount:        event.Amount,
		Fee:           0,
		Currency:      currency,
		Status:        TransactionStatusSucceeded,
		Type:          TransactionTypePayout,
		StripeCreated: event.TriggeredAt,
		Description:   description,
		Metadata:      map[string]string{"sequence": strconv.Itoa(event.Sequence)},
		CreatedAt:     time.Now(),
	}
}
