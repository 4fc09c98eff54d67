package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/payout-reconciler/internal/domain/payout"
	"github.com/payout-reconciler/internal/domain/run"
	"github.com/payout-reconciler/internal/domain/shared"
	"github.com/payout-reconciler/internal/domain/statement"
	"github.com/payout-reconciler/internal/domain/stripe"
)

// PayoutService replays one account month and persists the resulting payouts
type PayoutService interface {
	Calculate(ctx context.Context, request *shared.ReconciliationRequest) (*Calculation, error)
}

// ProcessingService defines the interface for processing reconciliation requests from Kafka
type ProcessingService interface {
	ProcessRequest(ctx context.Context, request *shared.ReconciliationRequest) error
}

// StatementService builds and stores monthly statements
type StatementService interface {
	Generate(ctx context.Context, request *StatementRequest) (*statement.Statement, error)
	Get(ctx context.Context, accountRef string, year, month int) (*statement.Statement, error)
}

// RequestValidator validates reconciliation requests before any lookup
type RequestValidator interface {
	Validate(ctx context.Context, request *shared.ReconciliationRequest) error
}

// PayoutWriter stores emitted payouts as processor transactions together with their outbox messages
type PayoutWriter interface {
	WritePayouts(ctx context.Context, tx pgx.Tx, batch *PayoutBatch) (*WriteResult, error)
}

// RunRecorder stores the audit document of a run
type RunRecorder interface {
	Record(ctx context.Context, r *run.Run) error
}

// PayoutBatch is the set of payouts emitted by one run
type PayoutBatch struct {
	RunID         uuid.UUID
	Account       *stripe.Account
	Period        payout.Period
	Payouts       []payout.PayoutEvent
	CorrelationID string
}

// WriteResult lists the payout ids that were written and those that already existed
type WriteResult struct {
	Created  []string
	Existing []string
}

// Calculation is everything a caller needs to report on a run
type Calculation struct {
	Run     *run.Run
	Account *stripe.Account
	Period  payout.Period
	Charges []*stripe.Transaction
	Result  *payout.ReplayResult
	Writes  *WriteResult
}

// StatementRequest asks for the statement of one account month. A nil opening
// balance is taken from the previous month's closing balance.
type StatementRequest struct {
	Account        string
	Year           int
	Month          int
	OpeningBalance *int64
	CorrelationID  string
}
