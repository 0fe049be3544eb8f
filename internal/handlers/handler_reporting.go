package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	portssvc "github.com/reliefbase/relief_ledger_app/internal/core/ports/services"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
	"github.com/reliefbase/relief_ledger_app/internal/middleware"
)

// reportingHandler handles dashboard statistics and background report jobs.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers report job and dashboard routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.POST("", h.requestReport)
		reports.GET("", h.listReports)
		reports.GET("/:id", h.getReport)
		reports.POST("/:id/cancel", h.cancelReport)
	}

	rg.GET("/stats/dashboard", h.getDashboard)
}

// requestReport godoc
// @Summary Request a background report
// @Description Records a report job and starts generating it in the background. Poll the job until it completes.
// @Tags reports
// @Accept json
// @Produce json
// @Param report body dto.CreateReportRequest true "Report type and period"
// @Success 202 {object} dto.Envelope{data=dto.ReportResponse}
// @Failure 400 {object} dto.Envelope "Invalid input format or validation error"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 500 {object} dto.Envelope "Failed to request report"
// @Security BearerAuth
// @Router /reports [post]
func (h *reportingHandler) requestReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RequestReport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	report, err := h.reportingService.RequestReport(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "request report")
		return
	}

	logger.Info("Report requested", slog.String("report_id", report.ReportID), slog.String("type", string(report.ReportType)))
	c.JSON(http.StatusAccepted, dto.OK(dto.ToReportResponse(report)))
}

// getReport godoc
// @Summary Get a report job by ID
// @Description Retrieves a report job. The summary payload is present once the job has completed.
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} dto.Envelope{data=dto.ReportResponse}
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Report not found"
// @Failure 500 {object} dto.Envelope "Failed to retrieve report"
// @Security BearerAuth
// @Router /reports/{id} [get]
func (h *reportingHandler) getReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("id")

	report, err := h.reportingService.GetReportByID(c.Request.Context(), reportID)
	if err != nil {
		respondServiceError(c, logger, err, "retrieve report")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToReportResponse(report)))
}

// listReports godoc
// @Summary List report jobs
// @Description Retrieves a paginated list of report jobs, optionally filtered by type.
// @Tags reports
// @Produce json
// @Param limit query int false "Max results per page" default(20)
// @Param nextToken query string false "Pagination cursor from previous page"
// @Param reportType query string false "Filter by report type"
// @Success 200 {object} dto.Envelope{data=dto.ListReportsResponse}
// @Failure 400 {object} dto.Envelope "Invalid query parameters"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 500 {object} dto.Envelope "Failed to list reports"
// @Security BearerAuth
// @Router /reports [get]
func (h *reportingHandler) listReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListReportsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListReports", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid query parameters: "+err.Error()))
		return
	}

	var reportType *domain.ReportType
	if params.ReportType != nil {
		t := domain.ReportType(*params.ReportType)
		reportType = &t
	}

	reports, nextToken, err := h.reportingService.ListReports(c.Request.Context(), params.Limit, params.NextToken, reportType)
	if err != nil {
		respondServiceError(c, logger, err, "list reports")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ListReportsResponse{
		Reports:   dto.ToListReportResponse(reports),
		NextToken: nextToken,
	}))
}

// cancelReport godoc
// @Summary Cancel a pending report job
// @Description Stops a pending report job. Only the user who requested the report may cancel it.
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} dto.Envelope{data=dto.ReportResponse}
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 403 {object} dto.Envelope "Only the issuer may cancel"
// @Failure 404 {object} dto.Envelope "Report not found"
// @Failure 409 {object} dto.Envelope "Report is no longer pending"
// @Failure 500 {object} dto.Envelope "Failed to cancel report"
// @Security BearerAuth
// @Router /reports/{id}/cancel [post]
func (h *reportingHandler) cancelReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	report, err := h.reportingService.CancelReport(c.Request.Context(), reportID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "cancel report")
		return
	}

	logger.Info("Report cancelled", slog.String("report_id", reportID))
	c.JSON(http.StatusOK, dto.OK(dto.ToReportResponse(report)))
}

// getDashboard godoc
// @Summary Get dashboard statistics
// @Description Assembles the aggregate snapshot behind the admin dashboard: donor and donation counts, monetary total, inventory summary, distribution progress and recent donations.
// @Tags reports
// @Produce json
// @Success 200 {object} dto.Envelope{data=domain.DashboardStats}
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 500 {object} dto.Envelope "Failed to assemble dashboard"
// @Security BearerAuth
// @Router /stats/dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.reportingService.DashboardStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "assemble dashboard")
		return
	}

	c.JSON(http.StatusOK, dto.OK(stats))
}
