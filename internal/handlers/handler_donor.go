package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	portssvc "github.com/reliefbase/relief_ledger_app/internal/core/ports/services"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
	"github.com/reliefbase/relief_ledger_app/internal/middleware"
)

// donorHandler handles HTTP requests related to donors.
type donorHandler struct {
	donorService portssvc.DonorSvcFacade
}

func newDonorHandler(ds portssvc.DonorSvcFacade) *donorHandler {
	return &donorHandler{donorService: ds}
}

// registerDonorRoutes registers routes related to donors.
func registerDonorRoutes(rg *gin.RouterGroup, donorService portssvc.DonorSvcFacade) {
	h := newDonorHandler(donorService)

	donors := rg.Group("/donors")
	{
		donors.POST("", h.createDonor)
		donors.GET("", h.listDonors)
		donors.GET("/:id", h.getDonor)
		donors.PUT("/:id", h.updateDonor)
		donors.GET("/:id/total", h.getDonorTotal)
		donors.POST("/:id/transition", h.transitionDonor)
		donors.POST("/:id/transition/preview", h.previewDonorTransition)
	}
}

// createDonor godoc
// @Summary Register a new donor
// @Description Registers a donor in active status.
// @Tags donors
// @Accept json
// @Produce json
// @Param donor body dto.CreateDonorRequest true "Donor details"
// @Success 201 {object} dto.Envelope{data=dto.DonorResponse}
// @Failure 400 {object} dto.Envelope "Invalid input format or validation error"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 409 {object} dto.Envelope "Email already registered"
// @Failure 500 {object} dto.Envelope "Failed to create donor"
// @Security BearerAuth
// @Router /donors [post]
func (h *donorHandler) createDonor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDonor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	donor, err := h.donorService.CreateDonor(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create donor")
		return
	}

	logger.Info("Donor created", slog.String("donor_id", donor.DonorID))
	c.JSON(http.StatusCreated, dto.OK(dto.ToDonorResponse(donor, decimal.Zero)))
}

// getDonor godoc
// @Summary Get a donor by ID
// @Description Retrieves a donor together with their derived contribution total.
// @Tags donors
// @Produce json
// @Param id path string true "Donor ID"
// @Success 200 {object} dto.Envelope{data=dto.DonorResponse}
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Donor not found"
// @Failure 500 {object} dto.Envelope "Failed to retrieve donor"
// @Security BearerAuth
// @Router /donors/{id} [get]
func (h *donorHandler) getDonor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donorID := c.Param("id")

	donor, err := h.donorService.GetDonorByID(c.Request.Context(), donorID)
	if err != nil {
		respondServiceError(c, logger, err, "retrieve donor")
		return
	}

	total, err := h.donorService.GetDonorTotal(c.Request.Context(), donorID, false)
	if err != nil {
		respondServiceError(c, logger, err, "compute donor total")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToDonorResponse(donor, total)))
}

// listDonors godoc
// @Summary List donors
// @Description Retrieves a paginated list of donors, optionally filtered by status.
// @Tags donors
// @Produce json
// @Param limit query int false "Max results per page" default(20)
// @Param nextToken query string false "Pagination cursor from previous page"
// @Param status query string false "Filter by donor status"
// @Success 200 {object} dto.Envelope{data=dto.ListDonorsResponse}
// @Failure 400 {object} dto.Envelope "Invalid query parameters"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 500 {object} dto.Envelope "Failed to list donors"
// @Security BearerAuth
// @Router /donors [get]
func (h *donorHandler) listDonors(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListDonorsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListDonors", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid query parameters: "+err.Error()))
		return
	}

	var status *domain.DonorStatus
	if params.Status != nil {
		s := domain.DonorStatus(*params.Status)
		if s != domain.DonorActive && s != domain.DonorInactive && s != domain.DonorBlacklisted {
			c.JSON(http.StatusBadRequest, dto.Fail("Invalid status filter: "+*params.Status))
			return
		}
		status = &s
	}

	donors, nextToken, err := h.donorService.ListDonors(c.Request.Context(), params.Limit, params.NextToken, status)
	if err != nil {
		respondServiceError(c, logger, err, "list donors")
		return
	}

	responses := make([]dto.DonorResponse, len(donors))
	for i := range donors {
		total, err := h.donorService.GetDonorTotal(c.Request.Context(), donors[i].DonorID, false)
		if err != nil {
			respondServiceError(c, logger, err, "compute donor total")
			return
		}
		responses[i] = dto.ToDonorResponse(&donors[i], total)
	}

	c.JSON(http.StatusOK, dto.OK(dto.ListDonorsResponse{Donors: responses, NextToken: nextToken}))
}

// updateDonor godoc
// @Summary Update a donor
// @Description Updates a donor's profile fields.
// @Tags donors
// @Accept json
// @Produce json
// @Param id path string true "Donor ID"
// @Param donor body dto.UpdateDonorRequest true "Donor fields to update"
// @Success 200 {object} dto.Envelope{data=dto.DonorResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Donor not found"
// @Failure 409 {object} dto.Envelope "Email already registered"
// @Failure 500 {object} dto.Envelope "Failed to update donor"
// @Security BearerAuth
// @Router /donors/{id} [put]
func (h *donorHandler) updateDonor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donorID := c.Param("id")

	var req dto.UpdateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDonor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	donor, err := h.donorService.UpdateDonor(c.Request.Context(), donorID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "update donor")
		return
	}

	total, err := h.donorService.GetDonorTotal(c.Request.Context(), donorID, false)
	if err != nil {
		respondServiceError(c, logger, err, "compute donor total")
		return
	}

	logger.Info("Donor updated", slog.String("donor_id", donorID))
	c.JSON(http.StatusOK, dto.OK(dto.ToDonorResponse(donor, total)))
}

// getDonorTotal godoc
// @Summary Get a donor's contribution total
// @Description Computes the donor's derived monetary total. Only verified-or-later donations count unless includePending is set.
// @Tags donors
// @Produce json
// @Param id path string true "Donor ID"
// @Param includePending query bool false "Include pending donations in the total"
// @Success 200 {object} dto.Envelope{data=dto.DonorTotalResponse}
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Donor not found"
// @Failure 500 {object} dto.Envelope "Failed to compute total"
// @Security BearerAuth
// @Router /donors/{id}/total [get]
func (h *donorHandler) getDonorTotal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donorID := c.Param("id")
	includePending := c.Query("includePending") == "true"

	total, err := h.donorService.GetDonorTotal(c.Request.Context(), donorID, includePending)
	if err != nil {
		respondServiceError(c, logger, err, "compute donor total")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.DonorTotalResponse{
		DonorID:        donorID,
		Total:          total,
		IncludePending: includePending,
	}))
}

// transitionDonor godoc
// @Summary Change a donor's status
// @Description Moves a donor to a new lifecycle status. Blacklisting is terminal.
// @Tags donors
// @Accept json
// @Produce json
// @Param id path string true "Donor ID"
// @Param transition body dto.UpdateDonorStatusRequest true "Target status"
// @Success 200 {object} dto.Envelope{data=dto.DonorResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Donor not found"
// @Failure 409 {object} dto.Envelope "Transition not permitted"
// @Failure 500 {object} dto.Envelope "Failed to change status"
// @Security BearerAuth
// @Router /donors/{id}/transition [post]
func (h *donorHandler) transitionDonor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donorID := c.Param("id")

	var req dto.UpdateDonorStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for TransitionDonor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	donor, err := h.donorService.TransitionDonorStatus(c.Request.Context(), donorID, req.Status, userID)
	if err != nil {
		respondServiceError(c, logger, err, "change donor status")
		return
	}

	total, err := h.donorService.GetDonorTotal(c.Request.Context(), donorID, false)
	if err != nil {
		respondServiceError(c, logger, err, "compute donor total")
		return
	}

	logger.Info("Donor status changed", slog.String("donor_id", donorID), slog.String("status", string(req.Status)))
	c.JSON(http.StatusOK, dto.OK(dto.ToDonorResponse(donor, total)))
}

// previewDonorTransition godoc
// @Summary Preview a donor status change
// @Description Reports whether the requested transition would be accepted, without committing anything.
// @Tags donors
// @Accept json
// @Produce json
// @Param id path string true "Donor ID"
// @Param transition body dto.UpdateDonorStatusRequest true "Target status"
// @Success 200 {object} dto.Envelope{data=dto.TransitionPreviewResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Donor not found"
// @Failure 500 {object} dto.Envelope "Failed to preview transition"
// @Security BearerAuth
// @Router /donors/{id}/transition/preview [post]
func (h *donorHandler) previewDonorTransition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donorID := c.Param("id")

	var req dto.UpdateDonorStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	donor, err := h.donorService.GetDonorByID(c.Request.Context(), donorID)
	if err != nil {
		respondServiceError(c, logger, err, "preview donor transition")
		return
	}

	next := donor.Status.NextStatuses()
	nextStrs := make([]string, len(next))
	for i, s := range next {
		nextStrs[i] = string(s)
	}
	c.JSON(http.StatusOK, dto.OK(dto.TransitionPreviewResponse{
		From:         string(donor.Status),
		To:           string(req.Status),
		Allowed:      donor.Status.CanTransitionTo(req.Status),
		Terminal:     donor.Status.IsTerminal(),
		NextStatuses: nextStrs,
	}))
}
