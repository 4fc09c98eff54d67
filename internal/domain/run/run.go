// Package run records every payout replay so operators can review what was
// calculated, what was written and what the cutoff deferred.
package run

import (
	"time"

	"github.com/google/uuid"
	"github.com/payout-reconciler/internal/domain/payout"
	"github.com/payout-reconciler/internal/domain/shared"
)

// Run is the audit document of one reconciliation
type Run struct {
	RunID         uuid.UUID              `json:"run_id" bson:"run_id"`
	RequestID     uuid.UUID              `json:"request_id,omitempty" bson:"request_id,omitempty"`
	AccountID     uuid.UUID              `json:"account_id" bson:"account_id"`
	ProcessorID   string                 `json:"processor_id" bson:"processor_id"`
	Year          int                    `json:"year" bson:"year"`
	Month         int                    `json:"month" bson:"month"`
	Threshold     int64                  `json:"threshold" bson:"threshold"`
	CutoffDay     int                    `json:"cutoff_day,omitempty" bson:"cutoff_day,omitempty"`
	Cutoff        *time.Time             `json:"cutoff,omitempty" bson:"cutoff,omitempty"`
	SettlementLag time.Duration          `json:"settlement_lag" bson:"settlement_lag"`
	DryRun        bool                   `json:"dry_run" bson:"dry_run"`
	Status        shared.RunStatus       `json:"status" bson:"status"`
	FailureReason string                 `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	ChargesLoaded int                    `json:"charges_loaded" bson:"charges_loaded"`
	Consumed      int                    `json:"consumed" bson:"consumed"`
	Payouts       []payout.PayoutEvent   `json:"payouts" bson:"payouts"`
	Skipped       []payout.SkippedPayout `json:"skipped" bson:"skipped"`
	Balance       int64                  `json:"balance" bson:"balance"` // Undisbursed at the end of the replay
	TotalPaidOut  int64                  `json:"total_paid_out" bson:"total_paid_out"`
	CreatedIDs    []string               `json:"created_ids,omitempty" bson:"created_ids,omitempty"`
	ExistingIDs   []string               `json:"existing_ids,omitempty" bson:"existing_ids,omitempty"`
	CorrelationID string                 `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	CreatedAt     time.Time              `json:"created_at" bson:"created_at"`
}

// FromRequest starts a run document for a reconciliation request. The
// processor id holds the raw account reference until the account is bound.
func FromRequest(req *shared.ReconciliationRequest) *Run {
	return &Run{
		RunID:         uuid.New(),
		RequestID:     req.RequestID,
		ProcessorID:   req.Account,
		Year:          req.Year,
		Month:         req.Month,
		Threshold:     req.Threshold,
		CutoffDay:     req.CutoffDay,
		DryRun:        req.DryRun,
		CorrelationID: req.CorrelationID,
		Payouts:       []payout.PayoutEvent{},
		Skipped:       []payout.SkippedPayout{},
		CreatedAt:     time.Now(),
	}
}

// BindAccount attaches the resolved account
func (r *Run) BindAccount(accountID uuid.UUID, processorID string) {
	r.AccountID = accountID
	r.ProcessorID = processorID
}

// ApplyResult copies a replay result into the run
func (r *Run) ApplyResult(result *payout.ReplayResult) {
	r.Status = shared.RunStatusCompleted
	r.Consumed = result.Consumed
	r.Payouts = result.Payouts
	r.Skipped = result.Skipped
	r.Balance = result.Balance
	r.TotalPaidOut = result.TotalPaidOut()
}

// MarkFailed records why the run did not complete
func (r *Run) MarkFailed(reason shared.FailureReason, err error) {
	r.Status = shared.RunStatusFailed
	r.FailureReason = string(reason)
	if err != nil {
		r.FailureReason += ": " + err.Error()
	}
}
