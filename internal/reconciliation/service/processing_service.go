package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/payout-reconciler/internal/domain/shared"
)

type ProcessingServiceImpl struct {
	payouts PayoutService
	logger  *slog.Logger
}

func NewProcessingService(payouts PayoutService, logger *slog.Logger) ProcessingService {
	return &ProcessingServiceImpl{
		payouts: payouts,
		logger:  logger,
	}
}

// ProcessRequest runs a queued reconciliation. Requests that can never succeed
// are acknowledged after their failed run was recorded; anything else is
// returned so the message is redelivered.
func (s *ProcessingServiceImpl) ProcessRequest(ctx context.Context, request *shared.ReconciliationRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Processing reconciliation request",
		"request_id", request.RequestID.String(),
		"account", request.Account,
		"year", request.Year,
		"month", request.Month,
		"dry_run", request.DryRun,
	)

	calc, err := s.payouts.Calculate(ctx, request)
	if err != nil {
		if IsPermanent(err) {
			logger.Warn("Reconciliation request rejected",
				"request_id", request.RequestID.String(),
				"reason", FailureReasonFor(err),
				"error", err,
			)
			return nil // Return nil to Kafka consumer to acknowledge the message
		}
		return fmt.Errorf("reconciliation request %s failed: %w", request.RequestID.String(), err)
	}

	logger.Info("Reconciliation request processed",
		"request_id", request.RequestID.String(),
		"run_id", calc.Run.RunID.String(),
		"status", calc.Run.Status,
		"payouts", len(calc.Run.Payouts),
		"created", len(calc.Run.CreatedIDs),
		"existing", len(calc.Run.ExistingIDs),
	)
	return nil
}
