package run

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages reconciliation run persistence with pagination support
type Repository interface {
	Create(ctx context.Context, r *Run) error
	GetByID(ctx context.Context, runID uuid.UUID) (*Run, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Run, error)
	CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error)
}

// ErrRunNotFound indicates missing run document
type ErrRunNotFound struct {
	RunID uuid.UUID
}

func (e ErrRunNotFound) Error() string {
	return "reconciliation run not found: " + e.RunID.String()
}

// Is implements the errors.Is interface for ErrRunNotFound
func (e ErrRunNotFound) Is(target error) bool {
	t, ok := target.(ErrRunNotFound)
	if !ok {
		return false
	}
	// If the target RunID is empty, consider it a match for any ErrRunNotFound
	if t.RunID == uuid.Nil {
		return true
	}
	return e.RunID == t.RunID
}

// ErrDuplicateRun indicates run id uniqueness violation
type ErrDuplicateRun struct {
	RunID uuid.UUID
}

func (e ErrDuplicateRun) Error() string {
	return "duplicate reconciliation run: " + e.RunID.String()
}
