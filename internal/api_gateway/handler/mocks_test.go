package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/payout-reconciler/internal/domain/run"
	"github.com/payout-reconciler/internal/domain/shared"
	"github.com/payout-reconciler/internal/domain/statement"
	recon "github.com/payout-reconciler/internal/reconciliation/service"
	"github.com/stretchr/testify/mock"
)

// PaginatedResponse is a generic version of Response for testing paginated data
type PaginatedResponse[T any] struct {
	Data          []T        `json:"data"`
	Error         *ErrorInfo `json:"error,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
	Meta          *MetaInfo  `json:"meta,omitempty"`
}

// DataResponse is a generic version of Response for testing single objects
type DataResponse[T any] struct {
	Data          T          `json:"data"`
	Error         *ErrorInfo `json:"error,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
}

type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) Preview(ctx context.Context, request *shared.ReconciliationRequest) (*recon.Calculation, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recon.Calculation), args.Error(1)
}

func (m *MockReconciliationService) Submit(ctx context.Context, request *shared.ReconciliationRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

type MockRunService struct {
	mock.Mock
}

func (m *MockRunService) GetRun(ctx context.Context, runID uuid.UUID) (*run.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*run.Run), args.Error(1)
}

func (m *MockRunService) GetRunsByAccount(ctx context.Context, accountRef string, page, perPage int) ([]*run.Run, int64, error) {
	args := m.Called(ctx, accountRef, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*run.Run), args.Get(1).(int64), args.Error(2)
}

type MockStatementService struct {
	mock.Mock
}

func (m *MockStatementService) Generate(ctx context.Context, request *recon.StatementRequest) (*statement.Statement, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*statement.Statement), args.Error(1)
}

func (m *MockStatementService) Get(ctx context.Context, accountRef string, year, month int) (*statement.Statement, error) {
	args := m.Called(ctx, accountRef, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*statement.Statement), args.Error(1)
}
