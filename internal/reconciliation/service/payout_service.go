package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/payout-reconciler/internal/config"
	"github.com/payout-reconciler/internal/domain/payout"
	"github.com/payout-reconciler/internal/domain/run"
	"github.com/payout-reconciler/internal/domain/shared"
	"github.com/payout-reconciler/internal/domain/stripe"
	"github.com/payout-reconciler/internal/platform/persistence"
)

type PayoutServiceImpl struct {
	db          persistence.TxBeginner
	accountRepo stripe.AccountRepository
	txnRepo     stripe.TransactionRepository
	validator   RequestValidator
	writer      PayoutWriter
	recorder    RunRecorder
	cfg         config.PayoutConfig
	logger      *slog.Logger
}

func NewPayoutService(
	db persistence.TxBeginner,
	accountRepo stripe.AccountRepository,
	txnRepo stripe.TransactionRepository,
	validator RequestValidator,
	writer PayoutWriter,
	recorder RunRecorder,
	cfg config.PayoutConfig,
	logger *slog.Logger,
) PayoutService {
	return &PayoutServiceImpl{
		db:          db,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		validator:   validator,
		writer:      writer,
		recorder:    recorder,
		cfg:         cfg,
		logger:      logger,
	}
}

// Calculate loads the succeeded charges of the requested month, replays them
// and, unless the request is a dry run, stores every emitted payout. A run
// document is recorded in every case, including failures. The returned
// Calculation is never nil.
func (s *PayoutServiceImpl) Calculate(ctx context.Context, request *shared.ReconciliationRequest) (*Calculation, error) {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	doc := run.FromRequest(request)
	if doc.Threshold == 0 {
		doc.Threshold = s.cfg.Threshold
	}
	doc.SettlementLag = s.cfg.SettlementLag
	calc := &Calculation{Run: doc}

	// 1. Validate the request
	if err := s.validator.Validate(ctx, request); err != nil {
		return calc, s.fail(ctx, logger, doc, FailureReasonFor(err), err)
	}

	// 2. Resolve the account
	acc, err := s.accountRepo.Resolve(ctx, request.Account)
	if err != nil {
		return calc, s.fail(ctx, logger, doc, FailureReasonFor(err), err)
	}
	if !acc.IsActive {
		err = stripe.ErrInactiveAccount{Ref: request.Account}
		return calc, s.fail(ctx, logger, doc, shared.FailureReasonAccountInactive, err)
	}
	doc.BindAccount(acc.ID, acc.ProcessorID)
	calc.Account = acc
	logger = logger.With("account_id", acc.ID.String(), "run_id", doc.RunID.String())

	// 3. Period and cutoff
	loc, err := s.cfg.Location()
	if err != nil {
		return calc, s.fail(ctx, logger, doc, shared.FailureReasonInvalidConfig, err)
	}
	period, err := payout.NewPeriod(request.Year, request.Month, loc)
	if err != nil {
		return calc, s.fail(ctx, logger, doc, FailureReasonFor(err), err)
	}
	calc.Period = period

	replayCfg := payout.ReplayConfig{
		Threshold:     doc.Threshold,
		SettlementLag: s.cfg.SettlementLag,
		Period:        &period,
	}
	if request.CutoffDay > 0 {
		cutoff, err := period.CutoffForDay(request.CutoffDay)
		if err != nil {
			return calc, s.fail(ctx, logger, doc, FailureReasonFor(err), err)
		}
		replayCfg.Cutoff = &cutoff
		doc.Cutoff = &cutoff
	}

	// 4. Load charges and replay
	charges, err := s.txnRepo.ListByPeriod(ctx, acc.ID, period.Start(), period.End(), stripe.SucceededCharges())
	if err != nil {
		err = fmt.Errorf("failed to load charges for %s: %w", period, err)
		return calc, s.fail(ctx, logger, doc, shared.FailureReasonUnknownError, err)
	}
	calc.Charges = charges
	doc.ChargesLoaded = len(charges)

	result, err := payout.Replay(stripe.ReplayRecords(acc.ProcessorID, charges), replayCfg)
	if err != nil {
		return calc, s.fail(ctx, logger, doc, FailureReasonFor(err), err)
	}
	calc.Result = result
	doc.ApplyResult(result)

	if len(charges) == 0 {
		logger.Warn("No succeeded charges found for period", "period", period.String())
		doc.Status = shared.RunStatusNoData
		s.record(ctx, logger, doc)
		return calc, nil
	}

	logger.Info("Replay finished",
		"period", period.String(),
		"charges", len(charges),
		"payouts", len(result.Payouts),
		"skipped", len(result.Skipped),
		"balance", result.Balance,
	)

	// 5. Persist payouts and their outbox messages atomically
	if !request.DryRun && len(result.Payouts) > 0 {
		writes, err := s.persist(ctx, logger, &PayoutBatch{
			RunID:         doc.RunID,
			Account:       acc,
			Period:        period,
			Payouts:       result.Payouts,
			CorrelationID: request.CorrelationID,
		})
		if err != nil {
			return calc, s.fail(ctx, logger, doc, shared.FailureReasonCommitFailed, err)
		}
		calc.Writes = writes
		doc.CreatedIDs = writes.Created
		doc.ExistingIDs = writes.Existing
	}

	s.record(ctx, logger, doc)
	return calc, nil
}

func (s *PayoutServiceImpl) persist(ctx context.Context, logger *slog.Logger, batch *PayoutBatch) (writes *WriteResult, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin database transaction", "error", err)
		return nil, fmt.Errorf("failed to begin DB transaction for run %s: %w", batch.RunID, err)
	}
	defer func() {
		if p := recover(); p != nil {
			logger.Error("Panic recovered, rolling back transaction", "panic", p)
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				logger.Error("Failed to rollback transaction after error", "rollback_error", rbErr, "original_error", err)
			}
		}
	}()

	writes, err = s.writer.WritePayouts(ctx, tx, batch)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		logger.Error("Failed to commit database transaction", "error", err)
		return nil, fmt.Errorf("failed to commit DB transaction for run %s: %w", batch.RunID, err)
	}

	logger.Info("Payouts committed", "created", len(writes.Created), "existing", len(writes.Existing))
	return writes, nil
}

func (s *PayoutServiceImpl) fail(ctx context.Context, logger *slog.Logger, doc *run.Run, reason shared.FailureReason, err error) error {
	logger.Error("Reconciliation run failed", "run_id", doc.RunID.String(), "reason", reason, "error", err)
	doc.MarkFailed(reason, err)
	s.record(ctx, logger, doc)
	return err
}

// record never fails the run: the stored payouts are the source of truth
func (s *PayoutServiceImpl) record(ctx context.Context, logger *slog.Logger, doc *run.Run) {
	if err := s.recorder.Record(ctx, doc); err != nil {
		logger.Error("Failed to record reconciliation run", "run_id", doc.RunID.String(), "error", err)
	}
}

// FailureReasonFor classifies an error returned by Calculate
func FailureReasonFor(err error) shared.FailureReason {
	var (
		inactive  stripe.ErrInactiveAccount
		inputErr  *payout.InvalidInputError
		configErr *payout.ConfigurationError
	)
	switch {
	case errors.Is(err, stripe.ErrAccountNotFound{}):
		return shared.FailureReasonAccountNotFound
	case errors.As(err, &inactive):
		return shared.FailureReasonAccountInactive
	case errors.As(err, &inputErr),
		errors.Is(err, shared.ErrMissingAccount),
		errors.Is(err, shared.ErrInvalidMonth),
		errors.Is(err, shared.ErrInvalidYear),
		errors.Is(err, shared.ErrNegativeThreshold),
		errors.Is(err, shared.ErrInvalidCutoffDay):
		return shared.FailureReasonInvalidInput
	case errors.As(err, &configErr):
		return shared.FailureReasonInvalidConfig
	default:
		return shared.FailureReasonUnknownError
	}
}

// IsPermanent reports whether a retry of the same request fails the same way
func IsPermanent(err error) bool {
	switch FailureReasonFor(err) {
	case shared.FailureReasonAccountNotFound,
		shared.FailureReasonAccountInactive,
		shared.FailureReasonInvalidInput,
		shared.FailureReasonInvalidConfig:
		return true
	}
	return false
}
