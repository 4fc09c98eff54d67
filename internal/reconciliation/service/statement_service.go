package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/payout-reconciler/internal/config"
	"github.com/payout-reconciler/internal/domain/payout"
	"github.com/payout-reconciler/internal/domain/statement"
	"github.com/payout-reconciler/internal/domain/stripe"
)

type StatementServiceImpl struct {
	accountRepo   stripe.AccountRepository
	txnRepo       stripe.TransactionRepository
	statementRepo statement.Repository
	cfg           config.PayoutConfig
	logger        *slog.Logger
}

func NewStatementService(
	accountRepo stripe.AccountRepository,
	txnRepo stripe.TransactionRepository,
	statementRepo statement.Repository,
	cfg config.PayoutConfig,
	logger *slog.Logger,
) StatementService {
	return &StatementServiceImpl{
		accountRepo:   accountRepo,
		txnRepo:       txnRepo,
		statementRepo: statementRepo,
		cfg:           cfg,
		logger:        logger,
	}
}

// Generate builds the statement from every transaction of the month and
// replaces any stored statement for the same month.
func (s *StatementServiceImpl) Generate(ctx context.Context, request *StatementRequest) (*statement.Statement, error) {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	acc, err := s.accountRepo.Resolve(ctx, request.Account)
	if err != nil {
		return nil, err
	}

	loc, err := s.cfg.Location()
	if err != nil {
		return nil, err
	}
	period, err := payout.NewPeriod(request.Year, request.Month, loc)
	if err != nil {
		return nil, err
	}

	logger = logger.With("account_id", acc.ID.String(), "period", period.String())

	opening, err := s.openingBalance(ctx, acc, period, request.OpeningBalance)
	if err != nil {
		return nil, err
	}

	txns, err := s.txnRepo.ListByPeriod(ctx, acc.ID, period.Start(), period.End(), stripe.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for statement: %w", err)
	}

	st := statement.Build(acc.ID, period, opening, txns, s.cfg.Description)

	inserted, err := s.statementRepo.Upsert(ctx, st)
	if err != nil {
		logger.Error("Failed to store statement", "error", err)
		return nil, fmt.Errorf("failed to store statement: %w", err)
	}

	logger.Info("Statement generated",
		"statement_id", st.ID.String(),
		"lines", len(st.Lines),
		"opening_balance", st.OpeningBalance,
		"closing_balance", st.ClosingBalance,
		"new", inserted,
	)
	return st, nil
}

// openingBalance carries the previous month's closing balance forward when none was given
func (s *StatementServiceImpl) openingBalance(ctx context.Context, acc *stripe.Account, period payout.Period, given *int64) (int64, error) {
	if given != nil {
		return *given, nil
	}

	prev := period.Start().AddDate(0, -1, 0)
	previous, err := s.statementRepo.Get(ctx, acc.ID, prev.Year(), int(prev.Month()))
	if err != nil {
		if errors.Is(err, statement.ErrStatementNotFound{}) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load previous statement: %w", err)
	}
	return previous.ClosingBalance, nil
}

// Get returns the stored statement for the month
func (s *StatementServiceImpl) Get(ctx context.Context, accountRef string, year, month int) (*statement.Statement, error) {
	acc, err := s.accountRepo.Resolve(ctx, accountRef)
	if err != nil {
		return nil, err
	}
	return s.statementRepo.Get(ctx, acc.ID, year, month)
}
