package payout

import (
	"errors"
	"time"
)

// ReplayConfig controls a single replay
type ReplayConfig struct {
	Threshold     int64         // Minimum balance (minor units) that triggers a payout
	Cutoff        *time.Time    // Records after this instant never trigger a payout
	SettlementLag time.Duration // Zero means DefaultSettlementLag
	Period        *Period       // When set, the cutoff must fall inside it
}

func (c ReplayConfig) lag() time.Duration {
	if c.SettlementLag == 0 {
		return DefaultSettlementLag
	}
	return c.SettlementLag
}

// Replay folds the ordered records into a running balance and emits a payout
// each time a completed charge+fee pair leaves the balance at or above the
// threshold. Input is validated in full first; on error no result is returned.
func Replay(records []TransactionRecord, cfg ReplayConfig) (*ReplayResult, error) {
	if err := validate(records, cfg); err != nil {
		return nil, err
	}

	result := &ReplayResult{
		Payouts:  []PayoutEvent{},
		Skipped:  []SkippedPayout{},
		Consumed: len(records),
		Steps:    make([]Step, 0, len(records)),
	}

	var balance int64
	sequence := 1
	lag := cfg.lag()

	for i, rec := range records {
		balance += rec.Amount
		result.Steps = append(result.Steps, Step{Record: rec, Balance: balance})

		if !completesPair(records, i) || balance < cfg.Threshold {
			continue
		}

		payoutAt := rec.Timestamp.Add(lag)
		if cfg.Cutoff != nil && rec.Timestamp.After(*cfg.Cutoff) {
			result.Skipped = append(result.Skipped, SkippedPayout{
				RecordTimestamp: rec.Timestamp,
				WouldBeAt:       payoutAt,
				Amount:          balance,
				Reason:          SkipReasonAfterCutoff,
			})
			continue
		}

		result.Payouts = append(result.Payouts, PayoutEvent{
			TriggeredAt: payoutAt,
			Amount:      balance,
			Sequence:    sequence,
		})
		// The payout leaves the balance empty; record it on the same step.
		balance = 0
		result.Steps[len(result.Steps)-1].Balance = balance
		sequence++
	}

	result.Balance = balance
	return result, nil
}

// completesPair reports whether the net effect of a charge is known after
// records[i]. A charge directly followed by its own fee waits for the fee.
func completesPair(records []TransactionRecord, i int) bool {
	rec := records[i]
	if rec.Kind != KindCharge {
		return true
	}
	if i+1 >= len(records) {
		return true
	}
	next := records[i+1]
	return next.Kind != KindFee || next.ExternalRef != rec.ExternalRef
}

func validate(records []TransactionRecord, cfg ReplayConfig) error {
	if cfg.Threshold <= 0 {
		return &InvalidInputError{Index: -1, Err: ErrNonPositiveThreshold}
	}
	if cfg.SettlementLag < 0 {
		return &ConfigurationError{Field: "settlement_lag", Err: errors.New("settlement lag cannot be negative")}
	}
	if cfg.Cutoff != nil && cfg.Period != nil {
		if err := cfg.Period.ValidateCutoff(*cfg.Cutoff); err != nil {
			return err
		}
	}

	for i, rec := range records {
		switch rec.Kind {
		case KindCharge:
			if rec.Amount < 0 {
				return &InvalidInputError{Index: i, Err: ErrWrongSign}
			}
		case KindFee:
			if rec.Amount > 0 {
				return &InvalidInputError{Index: i, Err: ErrWrongSign}
			}
		case KindPayout:
			return &InvalidInputError{Index: i, Err: ErrPayoutInInput}
		default:
			return &InvalidInputError{Index: i, Err: ErrUnknownKind}
		}
		if i > 0 && rec.Timestamp.Before(records[i-1].Timestamp) {
			return &InvalidInputError{Index: i, Err: ErrOutOfOrder}
		}
	}
	return nil
}
