package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/dues_ledger/internal/core/ports/services"
	"github.com/SscSPs/dues_ledger/internal/dto"
	"github.com/SscSPs/dues_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves balance summaries and aggregate metrics.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := &reportingHandler{reportingService: reportingService}

	rg.GET("/members/:memberID/summary", h.memberSummary) // Own or admin
	rg.GET("/reports/metrics", middleware.RequireAdmin(), h.globalMetrics)
}

// memberSummary godoc
// @Summary Member balance summary
// @Description Outstanding total, paid total, largest payment and the oldest unpaid debt.
// @Tags reports
// @Produce  json
// @Param   memberID path string true "Member ID"
// @Success 200 {object} dto.MemberSummaryResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{memberID}/summary [get]
func (h *reportingHandler) memberSummary(c *gin.Context) {
	memberID := c.Param("memberID")
	if _, ok := requireSelfOrAdmin(c, memberID); !ok {
		return
	}

	summary, err := h.reportingService.MemberSummary(c.Request.Context(), memberID)
	if err != nil {
		respondWithError(c, err, "Failed to compute member summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberSummaryResponse(summary, time.Now()))
}

// globalMetrics godoc
// @Summary Global metrics
// @Description Totals and maxima of debts and payments, optionally narrowed by member, category, kind and date range.
// @Tags reports
// @Produce  json
// @Param   memberID query string false "Member ID"
// @Param   category query string false "Category name"
// @Param   kind query string false "DEBT or PAYMENT"
// @Param   from query string false "Posted on or after (YYYY-MM-DD)"
// @Param   to query string false "Posted on or before (YYYY-MM-DD)"
// @Success 200 {object} dto.GlobalMetricsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/metrics [get]
func (h *reportingHandler) globalMetrics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.GlobalMetricsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GlobalMetrics", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondWithError(c, err, "Invalid filter")
		return
	}

	m, err := h.reportingService.GlobalMetrics(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err, "Failed to compute metrics")
		return
	}
	c.JSON(http.StatusOK, dto.ToGlobalMetricsResponse(m))
}
