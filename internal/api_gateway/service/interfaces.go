package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/payout-reconciler/internal/domain/run"
	"github.com/payout-reconciler/internal/domain/shared"
	recon "github.com/payout-reconciler/internal/reconciliation/service"
)

// ReconciliationService defines the gateway's reconciliation operations
type ReconciliationService interface {
	// Preview replays the month synchronously. Nothing is written except the
	// dry-run audit document.
	Preview(ctx context.Context, request *shared.ReconciliationRequest) (*recon.Calculation, error)

	// Submit hands the request to the reconciliation worker
	Submit(ctx context.Context, request *shared.ReconciliationRequest) error
}

// RunService defines read access to recorded reconciliation runs
type RunService interface {
	// GetRun returns nil if the run does not exist
	GetRun(ctx context.Context, runID uuid.UUID) (*run.Run, error)

	// GetRunsByAccount returns one page of runs, newest first, and the total count
	GetRunsByAccount(ctx context.Context, accountRef string, page, perPage int) ([]*run.Run, int64, error)
}
