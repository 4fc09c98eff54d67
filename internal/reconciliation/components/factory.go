package components

import (
	"log/slog"

	"github.com/payout-reconciler/internal/config"
	"github.com/payout-reconciler/internal/domain/outbox"
	"github.com/payout-reconciler/internal/domain/run"
	"github.com/payout-reconciler/internal/domain/statement"
	"github.com/payout-reconciler/internal/domain/stripe"
	"github.com/payout-reconciler/internal/platform/persistence"
	"github.com/payout-reconciler/internal/reconciliation/service"
)

// Repositories groups the stores the reconciliation services depend on
type Repositories struct {
	Accounts     stripe.AccountRepository
	Transactions stripe.TransactionRepository
	Statements   statement.Repository
	Outbox       outbox.Repository
	Runs         run.Repository
}

// CreatePayoutService creates a new PayoutService with all its dependencies.
func CreatePayoutService(
	db persistence.TxBeginner,
	repos Repositories,
	logger *slog.Logger,
	cfg *config.Config,
) service.PayoutService {
	validator := NewRequestValidator(logger)
	writer := NewPayoutWriter(repos.Transactions, repos.Outbox, cfg.Payout, logger)
	recorder := NewRunRecorder(repos.Runs, logger)

	return service.NewPayoutService(
		db,
		repos.Accounts,
		repos.Transactions,
		validator,
		writer,
		recorder,
		cfg.Payout,
		logger.With("component", "payout_service"),
	)
}

// CreateStatementService creates a new StatementService.
func CreateStatementService(repos Repositories, logger *slog.Logger, cfg *config.Config) service.StatementService {
	return service.NewStatementService(
		repos.Accounts,
		repos.Transactions,
		repos.Statements,
		cfg.Payout,
		logger.With("component", "statement_service"),
	)
}

// CreateProcessingService wraps the payout service for queued requests and
// runs it on the worker pool.
func CreateProcessingService(
	payouts service.PayoutService,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	baseService := service.NewProcessingService(payouts, logger)

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)

	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
