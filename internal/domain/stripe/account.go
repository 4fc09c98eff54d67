package stripe

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyAccountName      = errors.New("account name cannot be empty")
	ErrEmptyProcessorID      = errors.New("processor account id cannot be empty")
	ErrInvalidCurrencyFormat = errors.New("currency must be a 3-letter code")
)

// Account is a merchant account held at the payment processor
type Account struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ProcessorID string    `json:"processor_id"` // Stripe account id, unique
	Currency    string    `json:"currency"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAccount creates an active account
func NewAccount(name, processorID, currency string) (*Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyAccountName
	}
	if strings.TrimSpace(processorID) == "" {
		return nil, ErrEmptyProcessorID
	}
	if len(currency) != 3 {
		return nil, ErrInvalidCurrencyFormat
	}

	now := time.Now()
	return &Account{
		ID:          uuid.New(),
		Name:        name,
		ProcessorID: processorID,
		Currency:    strings.ToLower(currency),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ProcessorIDFromName derives the id used for accounts created during import
func ProcessorIDFromName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
