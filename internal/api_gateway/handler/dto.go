package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/payout-reconciler/internal/domain/payout"
	"github.com/payout-reconciler/internal/domain/run"
)

// ReconciliationRequestBody represents a request to reconcile one account month
type ReconciliationRequestBody struct {
	Account   string `json:"account" binding:"required"`
	Year      int    `json:"year" binding:"required,min=1970,max=9999"`
	Month     int    `json:"month" binding:"required,min=1,max=12"`
	Threshold int64  `json:"threshold" binding:"min=0"`         // Minor units, zero means configured default
	CutoffDay int    `json:"cutoff_day" binding:"min=0,max=31"` // Zero means no cutoff
	DryRun    bool   `json:"dry_run"`
}

// GenerateStatementRequest represents a request to build a monthly statement
type GenerateStatementRequest struct {
	Year           int    `json:"year" binding:"required,min=1970,max=9999"`
	Month          int    `json:"month" binding:"required,min=1,max=12"`
	OpeningBalance *int64 `json:"opening_balance,omitempty"`
}

// PayoutResponse represents an emitted payout
type PayoutResponse struct {
	Sequence    int    `json:"sequence"`
	TriggeredAt string `json:"triggered_at"`
	Amount      int64  `json:"amount"`
}

// SkippedPayoutResponse represents a payout withheld by the cutoff
type SkippedPayoutResponse struct {
	RecordTimestamp string `json:"record_timestamp"`
	WouldBeAt       string `json:"would_be_at"`
	Amount          int64  `json:"amount"`
	Reason          string `json:"reason"`
}

// RunResponse represents a reconciliation run in API responses
type RunResponse struct {
	RunID         string                  `json:"run_id"`
	RequestID     string                  `json:"request_id,omitempty"`
	AccountID     string                  `json:"account_id,omitempty"`
	ProcessorID   string                  `json:"processor_id"`
	Year          int                     `json:"year"`
	Month         int                     `json:"month"`
	Threshold     int64                   `json:"threshold"`
	Cutoff        string                  `json:"cutoff,omitempty"`
	DryRun        bool                    `json:"dry_run"`
	Status        string                  `json:"status"`
	FailureReason string                  `json:"failure_reason,omitempty"`
	ChargesLoaded int                     `json:"charges_loaded"`
	Payouts       []PayoutResponse        `json:"payouts"`
	Skipped       []SkippedPayoutResponse `json:"skipped"`
	Balance       int64                   `json:"balance"`
	TotalPaidOut  int64                   `json:"total_paid_out"`
	CreatedIDs    []string                `json:"created_ids,omitempty"`
	ExistingIDs   []string                `json:"existing_ids,omitempty"`
	CreatedAt     string                  `json:"created_at"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// mapRunToResponse maps a run document to a run response DTO
func mapRunToResponse(r *run.Run) RunResponse {
	resp := RunResponse{
		RunID:         r.RunID.String(),
		ProcessorID:   r.ProcessorID,
		Year:          r.Year,
		Month:         r.Month,
		Threshold:     r.Threshold,
		DryRun:        r.DryRun,
		Status:        string(r.Status),
		FailureReason: r.FailureReason,
		ChargesLoaded: r.ChargesLoaded,
		Payouts:       mapPayouts(r.Payouts),
		Skipped:       mapSkipped(r.Skipped),
		Balance:       r.Balance,
		TotalPaidOut:  r.TotalPaidOut,
		CreatedIDs:    r.CreatedIDs,
		ExistingIDs:   r.ExistingIDs,
		CreatedAt:     formatTime(r.CreatedAt),
	}
	if r.RequestID != uuid.Nil {
		resp.RequestID = r.RequestID.String()
	}
	if r.AccountID != uuid.Nil {
		resp.AccountID = r.AccountID.String()
	}
	if r.Cutoff != nil {
		resp.Cutoff = formatTime(*r.Cutoff)
	}
	return resp
}

func mapPayouts(events []payout.PayoutEvent) []PayoutResponse {
	out := make([]PayoutResponse, 0, len(events))
	for _, e := range events {
		out = append(out, PayoutResponse{
			Sequence:    e.Sequence,
			TriggeredAt: formatTime(e.TriggeredAt),
			Amount:      e.Amount,
		})
	}
	return out
}

func mapSkipped(skipped []payout.SkippedPayout) []SkippedPayoutResponse {
	out := make([]SkippedPayoutResponse, 0, len(skipped))
	for _, s := range skipped {
		out = append(out, SkippedPayoutResponse{
			RecordTimestamp: formatTime(s.RecordTimestamp),
			WouldBeAt:       formatTime(s.WouldBeAt),
			Amount:          s.Amount,
			Reason:          s.Reason,
		})
	}
	return out
}

// StepResponse represents one record of the running-balance trace
type StepResponse struct {
	Timestamp   string `json:"timestamp"`
	Kind        string `json:"kind"`
	Amount      int64  `json:"amount"`
	ExternalRef string `json:"external_ref,omitempty"`
	Balance     int64  `json:"balance"`
}

// PreviewResponse represents a synchronous dry-run replay
type PreviewResponse struct {
	RunResponse
	AccountName string         `json:"account_name,omitempty"`
	Period      string         `json:"period"`
	Trace       []StepResponse `json:"trace,omitempty"`
}

func mapSteps(steps []payout.Step) []StepResponse {
	out := make([]StepResponse, 0, len(steps))
	for _, s := range steps {
		out = append(out, StepResponse{
			Timestamp:   formatTime(s.Record.Timestamp),
			Kind:        string(s.Record.Kind),
			Amount:      s.Record.Amount,
			ExternalRef: s.Record.ExternalRef,
			Balance:     s.Balance,
		})
	}
	return out
}
