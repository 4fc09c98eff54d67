package importer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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
