package payout

import (
	"errors"
	"fmt"
)

var (
	ErrNonPositiveThreshold = errors.New("payout threshold must be greater than 0")
	ErrOutOfOrder           = errors.New("records are not sorted by timestamp")
	ErrWrongSign            = errors.New("amount sign does not match record kind")
	ErrUnknownKind          = errors.New("unknown record kind")
	ErrPayoutInInput        = errors.New("payout records cannot be replayed")
	ErrCutoffOutsidePeriod  = errors.New("cutoff falls outside the period")
	ErrInvalidCutoffDay     = errors.New("cutoff day is not a day of the month")
	ErrInvalidPeriod        = errors.New("invalid statement period")
)

// InvalidInputError rejects a replay before any record is processed.
// Index is -1 when the problem is not tied to a record.
type InvalidInputError struct {
	Index int
	Err   error
}

func (e *InvalidInputError) Error() string {
	if e.Index < 0 {
		return "invalid replay input: " + e.Err.Error()
	}
	return fmt.Sprintf("invalid replay input at record %d: %s", e.Index, e.Err.Error())
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a degenerate period or cutoff setup
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid payout configuration (%s): %s", e.Field, e.Err.Error())
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
