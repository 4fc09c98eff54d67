package shared

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingAccount    = errors.New("account reference is required")
	ErrInvalidMonth      = errors.New("month must be between 1 and 12")
	ErrInvalidYear       = errors.New("year is out of range")
	ErrNegativeThreshold = errors.New("threshold cannot be negative")
	ErrInvalidCutoffDay  = errors.New("cutoff day must be between 1 and 31")
)

// ReconciliationRequest defines a Kafka message asking for a payout calculation
type ReconciliationRequest struct {
	RequestID     uuid.UUID `json:"request_id"`
	Account       string    `json:"account"` // uuid, processor account id or name
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	Threshold     int64     `json:"threshold,omitempty"`  // Minor units, zero means configured default
	CutoffDay     int       `json:"cutoff_day,omitempty"` // Zero means no cutoff
	DryRun        bool      `json:"dry_run"`
	CorrelationID string    `json:"correlation_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// PayoutCreatedEvent is published once a simulated payout has been stored
type PayoutCreatedEvent struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	StripeID      string    `json:"stripe_id"`
	AccountID     uuid.UUID `json:"account_id"`
	RunID         uuid.UUID `json:"run_id"`
	Amount        int64     `json:"amount"` // Stored in cents/minor units
	Currency      string    `json:"currency"`
	Sequence      int       `json:"sequence"`
	TriggeredAt   time.Time `json:"triggered_at"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
