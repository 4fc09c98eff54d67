package stripe

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepository defines processor account persistence operations
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetByName and GetByProcessorID return nil, nil when nothing matches
	GetByName(ctx context.Context, name string) (*Account, error)
	GetByProcessorID(ctx context.Context, processorID string) (*Account, error)

	// Resolve accepts a uuid, a processor account id or an account name
	Resolve(ctx context.Context, ref string) (*Account, error)
	WithTx(tx pgx.Tx) AccountRepository
}

// TransactionFilter narrows a period listing. Empty slices match everything.
type TransactionFilter struct {
	Types    []TransactionType
	Statuses []TransactionStatus
}

// SucceededCharges selects the transactions that feed payout replay
func SucceededCharges() TransactionFilter {
	return TransactionFilter{
		Types:    []TransactionType{TransactionTypeCharge},
		Statuses: []TransactionStatus{TransactionStatusSucceeded},
	}
}

// TransactionRepository manages processor transaction persistence
type TransactionRepository interface {
	// Create reports false when a transaction with the same processor id already exists
	Create(ctx context.Context, txn *Transaction) (bool, error)
	ExistsByStripeID(ctx context.Context, stripeID string) (bool, error)

	// ListByPeriod returns transactions created in [start, end) ordered by processor timestamp
	ListByPeriod(ctx context.Context, accountID uuid.UUID, start, end time.Time, filter TransactionFilter) ([]*Transaction, error)
	WithTx(tx pgx.Tx) TransactionRepository
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	Ref string
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.Ref
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	return t.Ref == "" || t.Ref == e.Ref
}

// ErrDuplicateAccount indicates processor account id uniqueness violation
type ErrDuplicateAccount struct {
	ProcessorID string
}

func (e ErrDuplicateAccount) Error() string {
	return "account with processor id already exists: " + e.ProcessorID
}

// ErrInactiveAccount is returned when work is requested for a disabled account
type ErrInactiveAccount struct {
	Ref string
}

func (e ErrInactiveAccount) Error() string {
	return "account is inactive: " + e.Ref
}
