package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/payout-reconciler/internal/domain/run"
	"github.com/payout-reconciler/internal/domain/shared"
	"github.com/payout-reconciler/internal/domain/statement"
	"github.com/payout-reconciler/internal/domain/stripe"
	"github.com/stretchr/testify/mock"
)

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, account *stripe.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*stripe.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Account), args.Error(1)
}

func (m *MockAccountRepo) GetByName(ctx context.Context, name string) (*stripe.Account, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Account), args.Error(1)
}

func (m *MockAccountRepo) GetByProcessorID(ctx context.Context, processorID string) (*stripe.Account, error) {
	args := m.Called(ctx, processorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Account), args.Error(1)
}

func (m *MockAccountRepo) Resolve(ctx context.Context, ref string) (*stripe.Account, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Account), args.Error(1)
}

func (m *MockAccountRepo) WithTx(tx pgx.Tx) stripe.AccountRepository {
	args := m.Called(tx)
	return args.Get(0).(stripe.AccountRepository)
}

type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, txn *stripe.Transaction) (bool, error) {
	args := m.Called(ctx, txn)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepo) ExistsByStripeID(ctx context.Context, stripeID string) (bool, error) {
	args := m.Called(ctx, stripeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepo) ListByPeriod(ctx context.Context, accountID uuid.UUID, start, end time.Time, filter stripe.TransactionFilter) ([]*stripe.Transaction, error) {
	args := m.Called(ctx, accountID, start, end, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stripe.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) WithTx(tx pgx.Tx) stripe.TransactionRepository {
	args := m.Called(tx)
	return args.Get(0).(stripe.TransactionRepository)
}

type MockStatementRepo struct {
	mock.Mock
}

func (m *MockStatementRepo) Upsert(ctx context.Context, st *statement.Statement) (bool, error) {
	args := m.Called(ctx, st)
	return args.Bool(0), args.Error(1)
}

func (m *MockStatementRepo) Get(ctx context.Context, accountID uuid.UUID, year, month int) (*statement.Statement, error) {
	args := m.Called(ctx, accountID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*statement.Statement), args.Error(1)
}

func (m *MockStatementRepo) WithTx(tx pgx.Tx) statement.Repository {
	args := m.Called(tx)
	return args.Get(0).(statement.Repository)
}

type MockRequestValidator struct {
	mock.Mock
}

func (m *MockRequestValidator) Validate(ctx context.Context, request *shared.ReconciliationRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

type MockPayoutWriter struct {
	mock.Mock
}

func (m *MockPayoutWriter) WritePayouts(ctx context.Context, tx pgx.Tx, batch *PayoutBatch) (*WriteResult, error) {
	args := m.Called(ctx, tx, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WriteResult), args.Error(1)
}

type MockRunRecorder struct {
	mock.Mock
}

func (m *MockRunRecorder) Record(ctx context.Context, r *run.Run) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type MockPayoutService struct {
	mock.Mock
}

func (m *MockPayoutService) Calculate(ctx context.Context, request *shared.ReconciliationRequest) (*Calculation, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Calculation), args.Error(1)
}

// MockProcessingService mocks the ProcessingService interface
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessRequest(ctx context.Context, request *shared.ReconciliationRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}
