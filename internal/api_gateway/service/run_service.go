package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/payout-reconciler/internal/domain/run"
	"github.com/payout-reconciler/internal/domain/stripe"
)

// RunServiceImpl implements the RunService interface
type RunServiceImpl struct {
	runRepo     run.Repository
	accountRepo stripe.AccountRepository
	logger      *slog.Logger
}

// NewRunService creates a new run service
func NewRunService(logger *slog.Logger, runRepo run.Repository, accountRepo stripe.AccountRepository) RunService {
	return &RunServiceImpl{
		runRepo:     runRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// GetRun retrieves a run by its ID. Returns nil if not found
func (s *RunServiceImpl) GetRun(ctx context.Context, runID uuid.UUID) (*run.Run, error) {
	res, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, run.ErrRunNotFound{}) {
			s.logger.Info("Run not found", "run_id", runID.String())
			return nil, nil
		}
		s.logger.Error("Failed to get run by ID", "run_id", runID.String(), "error", err)
		return nil, err
	}
	return res, nil
}

// GetRunsByAccount resolves the account and returns one page of its runs
func (s *RunServiceImpl) GetRunsByAccount(ctx context.Context, accountRef string, page, perPage int) ([]*run.Run, int64, error) {
	acc, err := s.accountRepo.Resolve(ctx, accountRef)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage

	runs, err := s.runRepo.GetByAccountID(ctx, acc.ID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.runRepo.CountByAccountID(ctx, acc.ID)
	if err != nil {
		return nil, 0, err
	}

	return runs, total, nil
}
