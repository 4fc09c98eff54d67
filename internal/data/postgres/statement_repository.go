package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/payout-reconciler/internal/domain/statement"
	"github.com/payout-reconciler/internal/platform/persistence"
)

// StatementRepository implements the statement.Repository interface for PostgreSQL
type StatementRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewStatementRepository creates a new PostgreSQL statement repository
func NewStatementRepository(logger *slog.Logger, db *persistence.PostgresDB) statement.Repository {
	return &StatementRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction
func (r *StatementRepository) WithTx(tx pgx.Tx) statement.Repository {
	return &StatementRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Upsert writes the statement for its account and month. On conflict the
// stored row keeps its id and creation time, which are copied back into st.
func (r *StatementRepository) Upsert(ctx context.Context, st *statement.Statement) (bool, error) {
	query := `
		INSERT INTO stripe_monthly_statements (id, account_id, year, month, opening_balance, closing_balance,
			total_charges, total_refunds, total_fees, total_payouts, is_reconciled, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (account_id, year, month) DO UPDATE SET
			opening_balance = EXCLUDED.opening_balance,
			closing_balance = EXCLUDED.closing_balance,
			total_charges = EXCLUDED.total_charges,
			total_refunds = EXCLUDED.total_refunds,
			total_fees = EXCLUDED.total_fees,
			total_payouts = EXCLUDED.total_payouts,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.querier.QueryRow(ctx, query,
		st.ID,
		st.AccountID,
		st.Year,
		st.Month,
		st.OpeningBalance,
		st.ClosingBalance,
		st.TotalCharges,
		st.TotalRefunds,
		st.TotalFees,
		st.TotalPayouts,
		st.IsReconciled,
		st.Notes,
		st.CreatedAt,
		st.UpdatedAt,
	).Scan(&st.ID, &st.CreatedAt, &inserted)
	if err != nil {
		r.logger.Error("Failed to upsert statement",
			"account_id", st.AccountID.String(),
			"year", st.Year,
			"month", st.Month,
			"error", err,
		)
		return false, fmt.Errorf("failed to upsert statement: %w", err)
	}

	return inserted, nil
}

// Get retrieves the stored statement of an account for one month
func (r *StatementRepository) Get(ctx context.Context, accountID uuid.UUID, year, month int) (*statement.Statement, error) {
	query := `
		SELECT id, account_id, year, month, opening_balance, closing_balance, total_charges,
			total_refunds, total_fees, total_payouts, is_reconciled, notes, created_at, updated_at
		FROM stripe_monthly_statements
		WHERE account_id = $1 AND year = $2 AND month = $3
	`

	var st statement.Statement
	err := r.querier.QueryRow(ctx, query, accountID, year, month).Scan(
		&st.ID,
		&st.AccountID,
		&st.Year,
		&st.Month,
		&st.OpeningBalance,
		&st.ClosingBalance,
		&st.TotalCharges,
		&st.TotalRefunds,
		&st.TotalFees,
		&st.TotalPayouts,
		&st.IsReconciled,
		&st.Notes,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, statement.ErrStatementNotFound{AccountID: accountID, Year: year, Month: month}
		}
		r.logger.Error("Failed to get statement", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to get statement: %w", err)
	}

	return &st, nil
}
