package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/payout-reconciler/internal/domain/statement"
	"github.com/payout-reconciler/internal/domain/stripe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStatementService_Generate(t *testing.T) {
	ctx := context.Background()

	setup := func() (*MockAccountRepo, *MockTransactionRepo, *MockStatementRepo, StatementService) {
		accounts := &MockAccountRepo{}
		txns := &MockTransactionRepo{}
		statements := &MockStatementRepo{}
		svc := NewStatementService(accounts, txns, statements, testPayoutConfig(), slog.Default())
		return accounts, txns, statements, svc
	}

	monthTxns := func(acc *stripe.Account) []*stripe.Transaction {
		return []*stripe.Transaction{
			charge(acc.ID, "ch_1", 5, 9642, 412),
			{
				StripeID:      "po_sim_202509_tutor_hub_001",
				AccountID:     acc.ID,
				Amount:        9230,
				Status:        stripe.TransactionStatusSucceeded,
				Type:          stripe.TransactionTypePayout,
				StripeCreated: time.Date(2025, time.September, 6, 10, 0, 0, 0, time.UTC),
			},
		}
	}

	t.Run("CarriesPreviousClosingBalance", func(t *testing.T) {
		accounts, txns, statements, svc := setup()
		acc := testAccount()

		accounts.On("Resolve", ctx, "tutor_hub").Return(acc, nil).Once()
		statements.On("Get", ctx, acc.ID, 2025, 8).Return(&statement.Statement{ClosingBalance: 1500}, nil).Once()
		txns.On("ListByPeriod", ctx, acc.ID, septemberStart, septemberEnd, stripe.TransactionFilter{}).
			Return(monthTxns(acc), nil).Once()
		statements.On("Upsert", ctx, mock.AnythingOfType("*statement.Statement")).Return(true, nil).Once()

		st, err := svc.Generate(ctx, &StatementRequest{Account: "tutor_hub", Year: 2025, Month: 9})
		require.NoError(t, err)

		assert.Equal(t, int64(1500), st.OpeningBalance)
		assert.Equal(t, int64(1500), st.ClosingBalance)
		assert.Equal(t, int64(9230), st.TotalPayouts)
		require.Len(t, st.Lines, 3)
		assert.Equal(t, "BOC(HK)", st.Lines[2].Description)

		accounts.AssertExpectations(t)
		txns.AssertExpectations(t)
		statements.AssertExpectations(t)
	})

	t.Run("FirstStatementOpensAtZero", func(t *testing.T) {
		accounts, txns, statements, svc := setup()
		acc := testAccount()

		accounts.On("Resolve", ctx, "tutor_hub").Return(acc, nil).Once()
		statements.On("Get", ctx, acc.ID, 2025, 8).Return(nil, statement.ErrStatementNotFound{AccountID: acc.ID, Year: 2025, Month: 8}).Once()
		txns.On("ListByPeriod", ctx, acc.ID, septemberStart, septemberEnd, stripe.TransactionFilter{}).
			Return([]*stripe.Transaction{}, nil).Once()
		statements.On("Upsert", ctx, mock.Anything).Return(true, nil).Once()

		st, err := svc.Generate(ctx, &StatementRequest{Account: "tutor_hub", Year: 2025, Month: 9})
		require.NoError(t, err)
		assert.Equal(t, int64(0), st.OpeningBalance)
		assert.Empty(t, st.Lines)
	})

	t.Run("ExplicitOpeningBalance", func(t *testing.T) {
		accounts, txns, statements, svc := setup()
		acc := testAccount()
		opening := int64(2500)

		accounts.On("Resolve", ctx, "tutor_hub").Return(acc, nil).Once()
		txns.On("ListByPeriod", ctx, acc.ID, septemberStart, septemberEnd, stripe.TransactionFilter{}).
			Return(monthTxns(acc), nil).Once()
		statements.On("Upsert", ctx, mock.Anything).Return(false, nil).Once()

		st, err := svc.Generate(ctx, &StatementRequest{Account: "tutor_hub", Year: 2025, Month: 9, OpeningBalance: &opening})
		require.NoError(t, err)
		assert.Equal(t, int64(2500), st.ClosingBalance)
		statements.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UpsertFailure", func(t *testing.T) {
		accounts, txns, statements, svc := setup()
		acc := testAccount()
		opening := int64(0)

		accounts.On("Resolve", ctx, "tutor_hub").Return(acc, nil).Once()
		txns.On("ListByPeriod", ctx, acc.ID, septemberStart, septemberEnd, stripe.TransactionFilter{}).
			Return([]*stripe.Transaction{}, nil).Once()
		statements.On("Upsert", ctx, mock.Anything).Return(false, errors.New("db down")).Once()

		_, err := svc.Generate(ctx, &StatementRequest{Account: "tutor_hub", Year: 2025, Month: 9, OpeningBalance: &opening})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to store statement")
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		accounts, _, _, svc := setup()
		accounts.On("Resolve", ctx, "nobody").Return(nil, stripe.ErrAccountNotFound{Ref: "nobody"}).Once()

		_, err := svc.Generate(ctx, &StatementRequest{Account: "nobody", Year: 2025, Month: 9})
		assert.ErrorIs(t, err, stripe.ErrAccountNotFound{})
	})

	t.Run("JanuaryLooksAtPreviousDecember", func(t *testing.T) {
		accounts, txns, statements, svc := setup()
		acc := testAccount()

		accounts.On("Resolve", ctx, "tutor_hub").Return(acc, nil).Once()
		statements.On("Get", ctx, acc.ID, 2024, 12).Return(&statement.Statement{ClosingBalance: 42}, nil).Once()
		txns.On("ListByPeriod", ctx, acc.ID, mock.Anything, mock.Anything, stripe.TransactionFilter{}).
			Return([]*stripe.Transaction{}, nil).Once()
		statements.On("Upsert", ctx, mock.Anything).Return(true, nil).Once()

		st, err := svc.Generate(ctx, &StatementRequest{Account: "tutor_hub", Year: 2025, Month: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(42), st.OpeningBalance)
		statements.AssertExpectations(t)
	})
}

func TestStatementService_Get(t *testing.T) {
	ctx := context.Background()
	accounts := &MockAccountRepo{}
	statements := &MockStatementRepo{}
	svc := NewStatementService(accounts, &MockTransactionRepo{}, statements, testPayoutConfig(), slog.Default())

	acc := testAccount()
	stored := &statement.Statement{AccountID: acc.ID, Year: 2025, Month: 9, ClosingBalance: 99955}
	accounts.On("Resolve", ctx, acc.ID.String()).Return(acc, nil).Once()
	statements.On("Get", ctx, acc.ID, 2025, 9).Return(stored, nil).Once()

	st, err := svc.Get(ctx, acc.ID.String(), 2025, 9)
	require.NoError(t, err)
	assert.Equal(t, stored, st)
}
