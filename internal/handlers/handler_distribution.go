package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	portsrepo "github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/reliefbase/relief_ledger_app/internal/core/ports/services"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
	"github.com/reliefbase/relief_ledger_app/internal/middleware"
)

// distributionHandler handles HTTP requests related to distributions and allocations.
type distributionHandler struct {
	distributionService portssvc.DistributionSvcFacade
}

func newDistributionHandler(ds portssvc.DistributionSvcFacade) *distributionHandler {
	return &distributionHandler{distributionService: ds}
}

// registerDistributionRoutes registers routes related to distributions.
func registerDistributionRoutes(rg *gin.RouterGroup, distributionService portssvc.DistributionSvcFacade) {
	h := newDistributionHandler(distributionService)

	distributions := rg.Group("/distributions")
	{
		distributions.POST("", h.createDistribution)
		distributions.GET("", h.listDistributions)
		distributions.GET("/:id", h.getDistribution)
		distributions.PUT("/:id", h.updateDistribution)
		distributions.POST("/:id/transition", h.transitionDistribution)
		distributions.POST("/:id/transition/preview", h.previewDistributionTransition)
		distributions.POST("/:id/allocate", h.allocate)
		distributions.POST("/:id/allocate/preview", h.previewAllocation)
		distributions.GET("/:id/allocations", h.listAllocations)
	}
}

// createDistribution godoc
// @Summary Plan a new distribution
// @Description Plans a distribution event in pending status. Monetary distributions need an amount per beneficiary, in-kind ones a requested items map.
// @Tags distributions
// @Accept json
// @Produce json
// @Param distribution body dto.CreateDistributionRequest true "Distribution details"
// @Success 201 {object} dto.Envelope{data=dto.DistributionResponse}
// @Failure 400 {object} dto.Envelope "Invalid input format or validation error"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Organization not found"
// @Failure 500 {object} dto.Envelope "Failed to create distribution"
// @Security BearerAuth
// @Router /distributions [post]
func (h *distributionHandler) createDistribution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDistribution", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	distribution, err := h.distributionService.CreateDistribution(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create distribution")
		return
	}

	logger.Info("Distribution planned", slog.String("distribution_id", distribution.DistributionID), slog.String("type", string(distribution.DistType)))
	c.JSON(http.StatusCreated, dto.OK(dto.ToDistributionResponse(distribution)))
}

// getDistribution godoc
// @Summary Get a distribution by ID
// @Tags distributions
// @Produce json
// @Param id path string true "Distribution ID"
// @Success 200 {object} dto.Envelope{data=dto.DistributionResponse}
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Distribution not found"
// @Failure 500 {object} dto.Envelope "Failed to retrieve distribution"
// @Security BearerAuth
// @Router /distributions/{id} [get]
func (h *distributionHandler) getDistribution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	distributionID := c.Param("id")

	distribution, err := h.distributionService.GetDistributionByID(c.Request.Context(), distributionID)
	if err != nil {
		respondServiceError(c, logger, err, "retrieve distribution")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToDistributionResponse(distribution)))
}

// listDistributions godoc
// @Summary List distributions
// @Description Retrieves a paginated list of distributions, optionally filtered by status or organization.
// @Tags distributions
// @Produce json
// @Param limit query int false "Max results per page" default(20)
// @Param nextToken query string false "Pagination cursor from previous page"
// @Param status query string false "Filter by distribution status"
// @Param orgID query string false "Filter by organization"
// @Success 200 {object} dto.Envelope{data=dto.ListDistributionsResponse}
// @Failure 400 {object} dto.Envelope "Invalid query parameters"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 500 {object} dto.Envelope "Failed to list distributions"
// @Security BearerAuth
// @Router /distributions [get]
func (h *distributionHandler) listDistributions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListDistributionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListDistributions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid query parameters: "+err.Error()))
		return
	}

	filter := portsrepo.DistributionListFilter{OrgID: params.OrgID}
	if params.Status != nil {
		s := domain.DistributionStatus(*params.Status)
		filter.Status = &s
	}

	distributions, nextToken, err := h.distributionService.ListDistributions(c.Request.Context(), params.Limit, params.NextToken, filter)
	if err != nil {
		respondServiceError(c, logger, err, "list distributions")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ListDistributionsResponse{
		Distributions: dto.ToListDistributionResponse(distributions),
		NextToken:     nextToken,
	}))
}

// updateDistribution godoc
// @Summary Update a distribution
// @Description Edits a distribution's plan. Only pending distributions may be edited.
// @Tags distributions
// @Accept json
// @Produce json
// @Param id path string true "Distribution ID"
// @Param distribution body dto.UpdateDistributionRequest true "Distribution fields to update"
// @Success 200 {object} dto.Envelope{data=dto.DistributionResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Distribution not found"
// @Failure 409 {object} dto.Envelope "Distribution is no longer editable"
// @Failure 500 {object} dto.Envelope "Failed to update distribution"
// @Security BearerAuth
// @Router /distributions/{id} [put]
func (h *distributionHandler) updateDistribution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	distributionID := c.Param("id")

	var req dto.UpdateDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDistribution", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	distribution, err := h.distributionService.UpdateDistribution(c.Request.Context(), distributionID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "update distribution")
		return
	}

	logger.Info("Distribution updated", slog.String("distribution_id", distributionID))
	c.JSON(http.StatusOK, dto.OK(dto.ToDistributionResponse(distribution)))
}

// transitionDistribution godoc
// @Summary Change a distribution's status
// @Description Moves a distribution through its lifecycle. Completing a distribution marks its allocated items distributed.
// @Tags distributions
// @Accept json
// @Produce json
// @Param id path string true "Distribution ID"
// @Param transition body dto.UpdateDistributionStatusRequest true "Target status"
// @Success 200 {object} dto.Envelope{data=dto.DistributionResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Distribution not found"
// @Failure 409 {object} dto.Envelope "Transition not permitted"
// @Failure 500 {object} dto.Envelope "Failed to change status"
// @Security BearerAuth
// @Router /distributions/{id}/transition [post]
func (h *distributionHandler) transitionDistribution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	distributionID := c.Param("id")

	var req dto.UpdateDistributionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for TransitionDistribution", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	distribution, err := h.distributionService.TransitionDistributionStatus(c.Request.Context(), distributionID, req.Status, userID)
	if err != nil {
		respondServiceError(c, logger, err, "change distribution status")
		return
	}

	logger.Info("Distribution status changed", slog.String("distribution_id", distributionID), slog.String("status", string(req.Status)))
	c.JSON(http.StatusOK, dto.OK(dto.ToDistributionResponse(distribution)))
}

// previewDistributionTransition godoc
// @Summary Preview a distribution status change
// @Description Reports whether the requested transition would be accepted, without committing anything.
// @Tags distributions
// @Accept json
// @Produce json
// @Param id path string true "Distribution ID"
// @Param transition body dto.UpdateDistributionStatusRequest true "Target status"
// @Success 200 {object} dto.Envelope{data=dto.TransitionPreviewResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Distribution not found"
// @Failure 500 {object} dto.Envelope "Failed to preview transition"
// @Security BearerAuth
// @Router /distributions/{id}/transition/preview [post]
func (h *distributionHandler) previewDistributionTransition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	distributionID := c.Param("id")

	var req dto.UpdateDistributionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	distribution, err := h.distributionService.GetDistributionByID(c.Request.Context(), distributionID)
	if err != nil {
		respondServiceError(c, logger, err, "preview distribution transition")
		return
	}

	next := distribution.Status.NextStatuses()
	nextStrs := make([]string, len(next))
	for i, s := range next {
		nextStrs[i] = string(s)
	}
	c.JSON(http.StatusOK, dto.OK(dto.TransitionPreviewResponse{
		From:         string(distribution.Status),
		To:           string(req.Status),
		Allowed:      distribution.Status.CanTransitionTo(req.Status),
		Terminal:     distribution.Status.IsTerminal(),
		NextStatuses: nextStrs,
	}))
}

// previewAllocation godoc
// @Summary Preview an allocation
// @Description Reports what an allocation with the same request body would consume. Nothing is reserved.
// @Tags distributions
// @Accept json
// @Produce json
// @Param id path string true "Distribution ID"
// @Param allocation body dto.AllocationRequest true "Requested items and monetary amount"
// @Success 200 {object} dto.Envelope{data=dto.AllocationPreviewResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Distribution not found"
// @Failure 409 {object} dto.Envelope "Distribution does not accept allocations"
// @Failure 500 {object} dto.Envelope "Failed to preview allocation"
// @Security BearerAuth
// @Router /distributions/{id}/allocate/preview [post]
func (h *distributionHandler) previewAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	distributionID := c.Param("id")

	var req dto.AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PreviewAllocation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	preview, err := h.distributionService.PreviewAllocation(c.Request.Context(), distributionID, req)
	if err != nil {
		respondServiceError(c, logger, err, "preview allocation")
		return
	}

	c.JSON(http.StatusOK, dto.OK(preview))
}

// allocate godoc
// @Summary Commit an allocation
// @Description Reserves inventory and funds against the distribution in a single transaction. Oldest stored items are consumed first; an item larger than the remaining need is split.
// @Tags distributions
// @Accept json
// @Produce json
// @Param id path string true "Distribution ID"
// @Param allocation body dto.AllocationRequest true "Requested items and monetary amount"
// @Success 201 {object} dto.Envelope{data=dto.AllocationResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Distribution not found"
// @Failure 409 {object} dto.Envelope "Insufficient inventory or funds, or concurrent conflict"
// @Failure 500 {object} dto.Envelope "Failed to allocate"
// @Security BearerAuth
// @Router /distributions/{id}/allocate [post]
func (h *distributionHandler) allocate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	distributionID := c.Param("id")

	var req dto.AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Allocate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	allocation, err := h.distributionService.Allocate(c.Request.Context(), distributionID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "allocate to distribution")
		return
	}

	logger.Info("Allocation committed",
		slog.String("distribution_id", distributionID),
		slog.String("allocation_id", allocation.AllocationID),
		slog.Int("lines", len(allocation.Lines)))
	c.JSON(http.StatusCreated, dto.OK(dto.ToAllocationResponse(allocation)))
}

// listAllocations godoc
// @Summary List a distribution's allocations
// @Tags distributions
// @Produce json
// @Param id path string true "Distribution ID"
// @Success 200 {object} dto.Envelope{data=[]dto.AllocationResponse}
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Distribution not found"
// @Failure 500 {object} dto.Envelope "Failed to list allocations"
// @Security BearerAuth
// @Router /distributions/{id}/allocations [get]
func (h *distributionHandler) listAllocations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	distributionID := c.Param("id")

	allocations, err := h.distributionService.ListAllocations(c.Request.Context(), distributionID)
	if err != nil {
		respondServiceError(c, logger, err, "list allocations")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToListAllocationResponse(allocations)))
}
