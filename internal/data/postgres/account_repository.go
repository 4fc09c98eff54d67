// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations for processor accounts, their transactions,
// monthly statements and the payout outbox.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/payout-reconciler/internal/domain/stripe"
	"github.com/payout-reconciler/internal/platform/persistence"
)

const accountColumns = `id, name, processor_id, currency, is_active, created_at, updated_at`

// AccountRepository implements the stripe.AccountRepository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) stripe.AccountRepository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction
func (r *AccountRepository) WithTx(tx pgx.Tx) stripe.AccountRepository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new account. Name and processor id are unique.
func (r *AccountRepository) Create(ctx context.Context, acc *stripe.Account) error {
	query := `
		INSERT INTO stripe_accounts (id, name, processor_id, currency, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.Name,
		acc.ProcessorID,
		acc.Currency,
		acc.IsActive,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create account", "processor_id", acc.ProcessorID, "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*stripe.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM stripe_accounts WHERE id = $1`

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, stripe.ErrAccountNotFound{Ref: id.String()}
		}
		r.logger.Error("Failed to get account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return acc, nil
}

// GetByName retrieves an account by its display name
func (r *AccountRepository) GetByName(ctx context.Context, name string) (*stripe.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM stripe_accounts WHERE name = $1`

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get account by name", "name", name, "error", err)
		return nil, fmt.Errorf("failed to get account by name: %w", err)
	}

	return acc, nil
}

// GetByProcessorID retrieves an account by its processor account id
func (r *AccountRepository) GetByProcessorID(ctx context.Context, processorID string) (*stripe.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM stripe_accounts WHERE processor_id = $1`

	acc, err := scanAccount(r.querier.QueryRow(ctx, query, processorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get account by processor id", "processor_id", processorID, "error", err)
		return nil, fmt.Errorf("failed to get account by processor id: %w", err)
	}

	return acc, nil
}

// Resolve looks the reference up as a uuid, then as a name, then as a processor id
func (r *AccountRepository) Resolve(ctx context.Context, ref string) (*stripe.Account, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return r.GetByID(ctx, id)
	}

	acc, err := r.GetByName(ctx, ref)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		return acc, nil
	}

	acc, err = r.GetByProcessorID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, stripe.ErrAccountNotFound{Ref: ref}
	}
	return acc, nil
}

func scanAccount(row pgx.Row) (*stripe.Account, error) {
	var acc stripe.Account
	err := row.Scan(
		&acc.ID,
		&acc.Name,
		&acc.ProcessorID,
		&acc.Currency,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
