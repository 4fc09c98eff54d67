package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/payout-reconciler/internal/api_gateway/middleware"
	"github.com/payout-reconciler/internal/api_gateway/service"
	"github.com/payout-reconciler/internal/domain/shared"
	recon "github.com/payout-reconciler/internal/reconciliation/service"
)

// ReconciliationHandler handles HTTP requests for payout reconciliation
type ReconciliationHandler struct {
	reconciliationService service.ReconciliationService
	logger                *slog.Logger
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(logger *slog.Logger, reconciliationService service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
		logger:                logger,
	}
}

// Preview replays the month synchronously and returns payouts, skipped
// payouts and the running-balance trace. Payouts are never stored.
func (h *ReconciliationHandler) Preview(c *gin.Context) {
	request, ok := h.bindRequest(c)
	if !ok {
		return
	}

	calc, err := h.reconciliationService.Preview(c.Request.Context(), request)
	if err != nil {
		if respondReconciliationError(c, err) {
			return
		}
		h.logger.Error("Failed to preview reconciliation", "account", request.Account, "error", err)
		RespondInternalError(c)
		return
	}

	response := PreviewResponse{
		RunResponse: mapRunToResponse(calc.Run),
		Period:      calc.Period.String(),
	}
	if calc.Account != nil {
		response.AccountName = calc.Account.Name
	}
	if calc.Result != nil {
		response.Trace = mapSteps(calc.Result.Steps)
	}
	RespondOK(c, response)
}

// Submit queues a reconciliation for the worker and returns immediately
func (h *ReconciliationHandler) Submit(c *gin.Context) {
	request, ok := h.bindRequest(c)
	if !ok {
		return
	}

	if err := h.reconciliationService.Submit(c.Request.Context(), request); err != nil {
		h.logger.Error("Failed to submit reconciliation", "account", request.Account, "error", err)
		RespondInternalError(c)
		return
	}

	RespondAccepted(c, gin.H{
		"request_id": request.RequestID.String(),
		"status":     "PENDING",
	})
}

func (h *ReconciliationHandler) bindRequest(c *gin.Context) (*shared.ReconciliationRequest, bool) {
	var req ReconciliationRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return nil, false
	}

	return &shared.ReconciliationRequest{
		RequestID:     uuid.New(),
		Account:       req.Account,
		Year:          req.Year,
		Month:         req.Month,
		Threshold:     req.Threshold,
		CutoffDay:     req.CutoffDay,
		DryRun:        req.DryRun,
		CorrelationID: middleware.GetCorrelationID(c),
		Timestamp:     time.Now(),
	}, true
}

// respondReconciliationError writes the response for errors callers can act
// on and reports whether it did
func respondReconciliationError(c *gin.Context, err error) bool {
	switch recon.FailureReasonFor(err) {
	case shared.FailureReasonAccountNotFound:
		RespondNotFound(c, "Account not found")
	case shared.FailureReasonAccountInactive:
		RespondConflict(c, "Account is inactive")
	case shared.FailureReasonInvalidInput, shared.FailureReasonInvalidConfig:
		RespondBadRequest(c, err.Error())
	default:
		return false
	}
	return true
}
