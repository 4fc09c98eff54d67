package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/payout-reconciler/internal/api_gateway/middleware"
	"github.com/payout-reconciler/internal/domain/statement"
	recon "github.com/payout-reconciler/internal/reconciliation/service"
)

// StatementHandler handles HTTP requests for monthly statements
type StatementHandler struct {
	statementService recon.StatementService
	logger           *slog.Logger
}

// NewStatementHandler creates a new statement handler
func NewStatementHandler(logger *slog.Logger, statementService recon.StatementService) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
		logger:           logger,
	}
}

// Get returns the stored statement of a month without its lines
func (h *StatementHandler) Get(c *gin.Context) {
	accountRef := c.Param("id")
	year, errYear := strconv.Atoi(c.Param("year"))
	month, errMonth := strconv.Atoi(c.Param("month"))
	if errYear != nil || errMonth != nil || month < 1 || month > 12 {
		RespondBadRequest(c, "Invalid statement period")
		return
	}

	st, err := h.statementService.Get(c.Request.Context(), accountRef, year, month)
	if err != nil {
		if errors.Is(err, statement.ErrStatementNotFound{}) {
			RespondNotFound(c, "Statement not found")
			return
		}
		if respondReconciliationError(c, err) {
			return
		}
		h.logger.Error("Failed to get statement", "account", accountRef, "year", year, "month", month, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, st)
}

// Generate builds and stores the statement of a month. Without an opening
// balance the previous month's closing balance is carried forward.
func (h *StatementHandler) Generate(c *gin.Context) {
	accountRef := c.Param("id")

	var req GenerateStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	st, err := h.statementService.Generate(c.Request.Context(), &recon.StatementRequest{
		Account:        accountRef,
		Year:           req.Year,
		Month:          req.Month,
		OpeningBalance: req.OpeningBalance,
		CorrelationID:  middleware.GetCorrelationID(c),
	})
	if err != nil {
		if respondReconciliationError(c, err) {
			return
		}
		h.logger.Error("Failed to generate statement", "account", accountRef, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, st)
}
