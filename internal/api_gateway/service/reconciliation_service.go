package service

import (
	"context"
	"log/slog"

	"github.com/payout-reconciler/internal/domain/shared"
	"github.com/payout-reconciler/internal/platform/messaging/producers"
	recon "github.com/payout-reconciler/internal/reconciliation/service"
)

// ReconciliationServiceImpl implements the ReconciliationService interface
type ReconciliationServiceImpl struct {
	payouts  recon.PayoutService
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(logger *slog.Logger, payouts recon.PayoutService, producer producers.MessagePublisher) ReconciliationService {
	return &ReconciliationServiceImpl{
		payouts:  payouts,
		producer: producer,
		logger:   logger,
	}
}

// Preview always runs as a dry run, whatever the request says
func (s *ReconciliationServiceImpl) Preview(ctx context.Context, request *shared.ReconciliationRequest) (*recon.Calculation, error) {
	preview := *request
	preview.DryRun = true
	return s.payouts.Calculate(ctx, &preview)
}

// Submit publishes the request keyed by account so requests for one account
// are consumed in order
func (s *ReconciliationServiceImpl) Submit(ctx context.Context, request *shared.ReconciliationRequest) error {
	if err := s.producer.Publish(ctx, request.Account, request); err != nil {
		s.logger.Error("Failed to publish reconciliation request",
			"request_id", request.RequestID.String(),
			"account", request.Account,
			"error", err,
		)
		return err
	}

	s.logger.Info("Reconciliation request published",
		"request_id", request.RequestID.String(),
		"account", request.Account,
		"year", request.Year,
		"month", request.Month,
		"dry_run", request.DryRun,
	)
	return nil
}
