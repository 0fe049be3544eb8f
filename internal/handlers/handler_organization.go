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

// organizationHandler handles HTTP requests related to partner organizations.
type organizationHandler struct {
	orgService portssvc.OrganizationSvcFacade
}

func newOrganizationHandler(os portssvc.OrganizationSvcFacade) *organizationHandler {
	return &organizationHandler{orgService: os}
}

// registerOrganizationRoutes registers routes related to organizations.
func registerOrganizationRoutes(rg *gin.RouterGroup, orgService portssvc.OrganizationSvcFacade) {
	h := newOrganizationHandler(orgService)

	orgs := rg.Group("/organizations")
	{
		orgs.POST("", h.createOrganization)
		orgs.GET("", h.listOrganizations)
		orgs.GET("/:id", h.getOrganization)
		orgs.PUT("/:id", h.updateOrganization)
		orgs.GET("/:id/contributions", h.getContributions)
		orgs.POST("/:id/transition", h.transitionOrganization)
	}
}

// createOrganization godoc
// @Summary Register a partner organization
// @Description Registers an organization in pending status, optionally linked to an organization-type donor record.
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body dto.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} dto.Envelope{data=dto.OrganizationResponse}
// @Failure 400 {object} dto.Envelope "Invalid input format or validation error"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 409 {object} dto.Envelope "Organization name already registered"
// @Failure 500 {object} dto.Envelope "Failed to create organization"
// @Security BearerAuth
// @Router /organizations [post]
func (h *organizationHandler) createOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateOrganization", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create organization")
		return
	}

	logger.Info("Organization registered", slog.String("org_id", org.OrgID), slog.String("name", org.Name))
	c.JSON(http.StatusCreated, dto.OK(dto.ToOrganizationResponse(org)))
}

// getOrganization godoc
// @Summary Get an organization by ID
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} dto.Envelope{data=dto.OrganizationResponse}
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Organization not found"
// @Failure 500 {object} dto.Envelope "Failed to retrieve organization"
// @Security BearerAuth
// @Router /organizations/{id} [get]
func (h *organizationHandler) getOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("id")

	org, err := h.orgService.GetOrganizationByID(c.Request.Context(), orgID)
	if err != nil {
		respondServiceError(c, logger, err, "retrieve organization")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToOrganizationResponse(org)))
}

// listOrganizations godoc
// @Summary List organizations
// @Description Retrieves a paginated list of organizations, optionally filtered by status.
// @Tags organizations
// @Produce json
// @Param limit query int false "Max results per page" default(20)
// @Param nextToken query string false "Pagination cursor from previous page"
// @Param status query string false "Filter by organization status"
// @Success 200 {object} dto.Envelope{data=dto.ListOrganizationsResponse}
// @Failure 400 {object} dto.Envelope "Invalid query parameters"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 500 {object} dto.Envelope "Failed to list organizations"
// @Security BearerAuth
// @Router /organizations [get]
func (h *organizationHandler) listOrganizations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListOrganizationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListOrganizations", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid query parameters: "+err.Error()))
		return
	}

	var status *domain.OrgStatus
	if params.Status != nil {
		s := domain.OrgStatus(*params.Status)
		if s != domain.OrgPending && s != domain.OrgActive && s != domain.OrgInactive {
			c.JSON(http.StatusBadRequest, dto.Fail("Invalid status filter: "+*params.Status))
			return
		}
		status = &s
	}

	orgs, nextToken, err := h.orgService.ListOrganizations(c.Request.Context(), params.Limit, params.NextToken, status)
	if err != nil {
		respondServiceError(c, logger, err, "list organizations")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ListOrganizationsResponse{
		Organizations: dto.ToListOrganizationResponse(orgs),
		NextToken:     nextToken,
	}))
}

// updateOrganization godoc
// @Summary Update an organization
// @Description Updates an organization's details.
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Param organization body dto.UpdateOrganizationRequest true "Organization fields to update"
// @Success 200 {object} dto.Envelope{data=dto.OrganizationResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Organization not found"
// @Failure 409 {object} dto.Envelope "Organization name already registered"
// @Failure 500 {object} dto.Envelope "Failed to update organization"
// @Security BearerAuth
// @Router /organizations/{id} [put]
func (h *organizationHandler) updateOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("id")

	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateOrganization", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	org, err := h.orgService.UpdateOrganization(c.Request.Context(), orgID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "update organization")
		return
	}

	logger.Info("Organization updated", slog.String("org_id", orgID))
	c.JSON(http.StatusOK, dto.OK(dto.ToOrganizationResponse(org)))
}

// getContributions godoc
// @Summary Get an organization's contribution summary
// @Description Aggregates the monetary total and in-kind count given through the organization's linked donor record.
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} dto.Envelope{data=dto.ContributionSummaryResponse}
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Organization not found"
// @Failure 500 {object} dto.Envelope "Failed to summarize contributions"
// @Security BearerAuth
// @Router /organizations/{id}/contributions [get]
func (h *organizationHandler) getContributions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("id")

	summary, err := h.orgService.GetContributionSummary(c.Request.Context(), orgID)
	if err != nil {
		respondServiceError(c, logger, err, "summarize contributions")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ContributionSummaryResponse{
		OrgID:         orgID,
		MonetaryTotal: summary.MonetaryTotal,
		InKindCount:   summary.InKindCount,
	}))
}

// transitionOrganization godoc
// @Summary Change an organization's status
// @Description Moves an organization between pending, active and inactive.
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Param transition body dto.UpdateOrgStatusRequest true "Target status"
// @Success 200 {object} dto.Envelope{data=dto.OrganizationResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Organization not found"
// @Failure 409 {object} dto.Envelope "Transition not permitted"
// @Failure 500 {object} dto.Envelope "Failed to change status"
// @Security BearerAuth
// @Router /organizations/{id}/transition [post]
func (h *organizationHandler) transitionOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("id")

	var req dto.UpdateOrgStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for TransitionOrganization", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	org, err := h.orgService.TransitionOrgStatus(c.Request.Context(), orgID, req.Status, userID)
	if err != nil {
		respondServiceError(c, logger, err, "change organization status")
		return
	}

	logger.Info("Organization status changed", slog.String("org_id", orgID), slog.String("status", string(req.Status)))
	c.JSON(http.StatusOK, dto.OK(dto.ToOrganizationResponse(org)))
}
