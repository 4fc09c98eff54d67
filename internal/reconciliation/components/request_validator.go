package components

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/payout-reconciler/internal/domain/shared"
	"github.com/payout-reconciler/internal/reconciliation/service"
)

type RequestValidatorImpl struct {
	logger *slog.Logger
}

func NewRequestValidator(logger *slog.Logger) service.RequestValidator {
	return &RequestValidatorImpl{
		logger: logger,
	}
}

// Validate checks the request shape. Whether the cutoff day exists in the
// month is decided once the period is known.
func (v *RequestValidatorImpl) Validate(ctx context.Context, request *shared.ReconciliationRequest) error {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	var err error
	switch {
	case strings.TrimSpace(request.Account) == "":
		err = shared.ErrMissingAccount
	case request.Month < 1 || request.Month > 12:
		err = fmt.Errorf("%w: %d", shared.ErrInvalidMonth, request.Month)
	case request.Year < 1970 || request.Year > 9999:
		err = fmt.Errorf("%w: %d", shared.ErrInvalidYear, request.Year)
	case request.Threshold < 0:
		err = fmt.Errorf("%w: %d", shared.ErrNegativeThreshold, request.Threshold)
	case request.CutoffDay < 0 || request.CutoffDay > 31:
		err = fmt.Errorf("%w: %d", shared.ErrInvalidCutoffDay, request.CutoffDay)
	}

	if err != nil {
		logger.Error("Invalid reconciliation request", "request_id", request.RequestID.String(), "error", err)
		return err
	}
	return nil
}
