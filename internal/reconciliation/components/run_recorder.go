package components

import (
	"context"
	"errors"
	"log/slog"

	"github.com/payout-reconciler/internal/domain/run"
	"github.com/payout-reconciler/internal/reconciliation/service"
)

type RunRecorderImpl struct {
	runRepo run.Repository
	logger  *slog.Logger
}

func NewRunRecorder(runRepo run.Repository, logger *slog.Logger) service.RunRecorder {
	return &RunRecorderImpl{
		runRepo: runRepo,
		logger:  logger,
	}
}

// Record stores the run document. A run that was already stored is not an error.
func (r *RunRecorderImpl) Record(ctx context.Context, doc *run.Run) error {
	logger := r.logger
	if doc.CorrelationID != "" {
		logger = r.logger.With("correlation_id", doc.CorrelationID)
	}

	err := r.runRepo.Create(ctx, doc)
	var dup run.ErrDuplicateRun
	if errors.As(err, &dup) {
		logger.Info("Reconciliation run already recorded", "run_id", doc.RunID.String())
		return nil
	}
	if err != nil {
		logger.Error("Failed to record reconciliation run", "run_id", doc.RunID.String(), "error", err)
		return err
	}

	logger.Info("Recorded reconciliation run",
		"run_id", doc.RunID.String(),
		"status", doc.Status,
		"dry_run", doc.DryRun,
		"payouts", len(doc.Payouts),
		"skipped", len(doc.Skipped),
	)
	return nil
}
