package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/hisab-books/ledger_backend/internal/core/ports/services"
	"github.com/hisab-books/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for dashboard summaries.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the read-only report routes.
func registerReportingRoutes(rg *gin.RouterGroup, rs portssvc.ReportingSvcFacade) {
	h := newReportingHandler(rs)

	reports := rg.Group("/reports")
	{
		reports.GET("/receivables-payables", h.getReceivablesPayables)
		reports.GET("/overdue-parties", h.listOverdueParties)
		reports.GET("/accounts-summary", h.getAccountsSummary)
	}
}

func (h *reportingHandler) getReceivablesPayables(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.reportingService.GetReceivablesPayables(c.Request.Context())
	if err != nil {
		logger.Error("Failed to fetch receivables and payables", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *reportingHandler) listOverdueParties(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	parties, err := h.reportingService.ListOverdueParties(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list overdue parties", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list overdue parties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"overdueParties": parties})
}

func (h *reportingHandler) getAccountsSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.reportingService.GetAccountsSummary(c.Request.Context())
	if err != nil {
		logger.Error("Failed to fetch accounts summary", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
