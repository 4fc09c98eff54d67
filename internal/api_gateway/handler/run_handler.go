package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/payout-reconciler/internal/api_gateway/service"
)

// RunHandler handles HTTP requests for recorded reconciliation runs
type RunHandler struct {
	runService service.RunService
	logger     *slog.Logger
}

// NewRunHandler creates a new run handler
func NewRunHandler(logger *slog.Logger, runService service.RunService) *RunHandler {
	return &RunHandler{
		runService: runService,
		logger:     logger,
	}
}

// GetByID retrieves a run by its ID, returns 404 if not found
func (h *RunHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid run ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid run ID")
		return
	}

	r, err := h.runService.GetRun(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get run", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}
	if r == nil {
		RespondNotFound(c, "Run not found")
		return
	}

	RespondOK(c, mapRunToResponse(r))
}

// GetByAccount retrieves the paginated run history of an account. The id may
// be the account uuid, its processor id or its name.
func (h *RunHandler) GetByAccount(c *gin.Context) {
	accountRef := c.Param("id")

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	runs, total, err := h.runService.GetRunsByAccount(c.Request.Context(), accountRef, pagination.Page, pagination.PerPage)
	if err != nil {
		if respondReconciliationError(c, err) {
			return
		}
		h.logger.Error("Failed to get runs", "account", accountRef, "error", err)
		RespondInternalError(c)
		return
	}

	response := make([]RunResponse, 0, len(runs))
	for _, r := range runs {
		response = append(response, mapRunToResponse(r))
	}
	RespondWithPaginatedData(c, http.StatusOK, response, pagination.Page, pagination.PerPage, int(total))
}
