package statement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages monthly statement persistence
type Repository interface {
	// Upsert replaces the statement for (account, year, month) and reports whether it was new
	Upsert(ctx context.Context, st *Statement) (bool, error)
	Get(ctx context.Context, accountID uuid.UUID, year, month int) (*Statement, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrStatementNotFound indicates no statement stored for the period
type ErrStatementNotFound struct {
	AccountID uuid.UUID
	Year      int
	Month     int
}

func (e ErrStatementNotFound) Error() string {
	return fmt.Sprintf("statement not found: account %s, %04d-%02d", e.AccountID, e.Year, e.Month)
}

// Is implements the errors.Is interface for ErrStatementNotFound
func (e ErrStatementNotFound) Is(target error) bool {
	t, ok := target.(ErrStatementNotFound)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e == t
}
