package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/payout-reconciler/internal/api_gateway/handler"
	"github.com/payout-reconciler/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	reconciliationHandler *handler.ReconciliationHandler,
	runHandler *handler.RunHandler,
	statementHandler *handler.StatementHandler,
) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Payout reconciliation
		reconciliations := v1.Group("/reconciliations")
		{
			reconciliations.POST("", reconciliationHandler.Submit)
			reconciliations.POST("/preview", reconciliationHandler.Preview)
		}

		// Account scoped history and statements; :id is a uuid, processor id or name
		accounts := v1.Group("/accounts/:id")
		{
			accounts.GET("/runs", runHandler.GetByAccount)
			accounts.POST("/statements", statementHandler.Generate)
			accounts.GET("/statements/:year/:month", statementHandler.Get)
		}

		v1.GET("/runs/:id", runHandler.GetByID)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
