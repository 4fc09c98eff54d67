package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/payout-reconciler/internal/domain/stripe"
	"github.com/payout-reconciler/internal/platform/persistence"
)

// TransactionRepository implements the stripe.TransactionRepository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) stripe.TransactionRepository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction
func (r *TransactionRepository) WithTx(tx pgx.Tx) stripe.TransactionRepository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create inserts the transaction unless its processor id is already stored
func (r *TransactionRepository) Create(ctx context.Context, txn *stripe.Transaction) (bool, error) {
	query := `
		INSERT INTO stripe_transactions (id, stripe_id, account_id, amount, fee, currency, status, type,
			stripe_created, customer_email, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (stripe_id) DO NOTHING
	`

	metadata := txn.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	result, err := r.querier.Exec(ctx, query,
		txn.ID,
		txn.StripeID,
		txn.AccountID,
		txn.Amount,
		txn.Fee,
		txn.Currency,
		txn.Status,
		txn.Type,
		txn.StripeCreated,
		txn.CustomerEmail,
		txn.Description,
		metadata,
		txn.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transaction", "stripe_id", txn.StripeID, "error", err)
		return false, fmt.Errorf("failed to create transaction: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// ExistsByStripeID reports whether a transaction with the processor id is stored
func (r *TransactionRepository) ExistsByStripeID(ctx context.Context, stripeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM stripe_transactions WHERE stripe_id = $1)`

	var exists bool
	if err := r.querier.QueryRow(ctx, query, stripeID).Scan(&exists); err != nil {
		r.logger.Error("Failed to check transaction existence", "stripe_id", stripeID, "error", err)
		return false, fmt.Errorf("failed to check transaction existence: %w", err)
	}

	return exists, nil
}

// ListByPeriod returns the account's transactions in [start, end), oldest first
func (r *TransactionRepository) ListByPeriod(
	ctx context.Context,
	accountID uuid.UUID,
	start, end time.Time,
	filter stripe.TransactionFilter,
) ([]*stripe.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, stripe_id, account_id, amount, fee, currency, status, type,
			stripe_created, customer_email, description, metadata, created_at
		FROM stripe_transactions
		WHERE account_id = $1 AND stripe_created >= $2 AND stripe_created < $3`)
	args := []interface{}{accountID, start, end}

	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		args = append(args, types)
		fmt.Fprintf(&sb, " AND type = ANY($%d)", len(args))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		fmt.Fprintf(&sb, " AND status = ANY($%d)", len(args))
	}
	sb.WriteString(" ORDER BY stripe_created ASC, stripe_id ASC")

	rows, err := r.querier.Query(ctx, sb.String(), args...)
	if err != nil {
		r.logger.Error("Failed to list transactions", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := []*stripe.Transaction{}
	for rows.Next() {
		var txn stripe.Transaction
		err := rows.Scan(
			&txn.ID,
			&txn.StripeID,
			&txn.AccountID,
			&txn.Amount,
			&txn.Fee,
			&txn.Currency,
			&txn.Status,
			&txn.Type,
			&txn.StripeCreated,
			&txn.CustomerEmail,
			&txn.Description,
			&txn.Metadata,
			&txn.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan transaction", "error", err)
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, &txn)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over transactions", "error", err)
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}

	return txns, nil
}
