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

// donationHandler handles HTTP requests related to donations.
type donationHandler struct {
	donationService portssvc.DonationSvcFacade
}

func newDonationHandler(ds portssvc.DonationSvcFacade) *donationHandler {
	return &donationHandler{donationService: ds}
}

// registerDonationRoutes registers routes related to donations.
func registerDonationRoutes(rg *gin.RouterGroup, donationService portssvc.DonationSvcFacade) {
	h := newDonationHandler(donationService)

	donations := rg.Group("/donations")
	{
		donations.POST("", h.createDonation)
		donations.GET("", h.listDonations)
		donations.GET("/:id", h.getDonation)
		donations.POST("/:id/transition", h.transitionDonation)
		donations.POST("/:id/transition/preview", h.previewDonationTransition)
	}
}

// createDonation godoc
// @Summary Record a new donation pledge
// @Description Records a monetary or in-kind pledge in pending status. Blacklisted donors are refused.
// @Tags donations
// @Accept json
// @Produce json
// @Param donation body dto.CreateDonationRequest true "Donation details"
// @Success 201 {object} dto.Envelope{data=dto.DonationResponse}
// @Failure 400 {object} dto.Envelope "Invalid input format or validation error"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Donor not found"
// @Failure 409 {object} dto.Envelope "Donor is blacklisted"
// @Failure 500 {object} dto.Envelope "Failed to create donation"
// @Security BearerAuth
// @Router /donations [post]
func (h *donationHandler) createDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDonation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	donation, err := h.donationService.CreateDonation(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create donation")
		return
	}

	logger.Info("Donation recorded", slog.String("donation_id", donation.DonationID), slog.String("donor_id", donation.DonorID))
	c.JSON(http.StatusCreated, dto.OK(dto.ToDonationResponse(donation)))
}

// getDonation godoc
// @Summary Get a donation by ID
// @Tags donations
// @Produce json
// @Param id path string true "Donation ID"
// @Success 200 {object} dto.Envelope{data=dto.DonationResponse}
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Donation not found"
// @Failure 500 {object} dto.Envelope "Failed to retrieve donation"
// @Security BearerAuth
// @Router /donations/{id} [get]
func (h *donationHandler) getDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donationID := c.Param("id")

	donation, err := h.donationService.GetDonationByID(c.Request.Context(), donationID)
	if err != nil {
		respondServiceError(c, logger, err, "retrieve donation")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToDonationResponse(donation)))
}

// listDonations godoc
// @Summary List donations
// @Description Retrieves a paginated list of donations, optionally filtered by status, donor or kind.
// @Tags donations
// @Produce json
// @Param limit query int false "Max results per page" default(20)
// @Param nextToken query string false "Pagination cursor from previous page"
// @Param status query string false "Filter by donation status"
// @Param donorID query string false "Filter by donor"
// @Param kind query string false "Filter by donation kind"
// @Success 200 {object} dto.Envelope{data=dto.ListDonationsResponse}
// @Failure 400 {object} dto.Envelope "Invalid query parameters"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 500 {object} dto.Envelope "Failed to list donations"
// @Security BearerAuth
// @Router /donations [get]
func (h *donationHandler) listDonations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListDonationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListDonations", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid query parameters: "+err.Error()))
		return
	}

	filter := portsrepo.DonationListFilter{DonorID: params.DonorID}
	if params.Status != nil {
		s := domain.DonationStatus(*params.Status)
		filter.Status = &s
	}
	if params.Kind != nil {
		k := domain.DonationKind(*params.Kind)
		if k != domain.Monetary && k != domain.InKind {
			c.JSON(http.StatusBadRequest, dto.Fail("Invalid kind filter: "+*params.Kind))
			return
		}
		filter.Kind = &k
	}

	donations, nextToken, err := h.donationService.ListDonations(c.Request.Context(), params.Limit, params.NextToken, filter)
	if err != nil {
		respondServiceError(c, logger, err, "list donations")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ListDonationsResponse{
		Donations: dto.ToListDonationResponse(donations),
		NextToken: nextToken,
	}))
}

// transitionDonation godoc
// @Summary Change a donation's status
// @Description Moves a donation through its lifecycle. Marking an in-kind donation received also creates its pending inventory item.
// @Tags donations
// @Accept json
// @Produce json
// @Param id path string true "Donation ID"
// @Param transition body dto.UpdateDonationStatusRequest true "Target status"
// @Success 200 {object} dto.Envelope{data=dto.DonationResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Donation not found"
// @Failure 409 {object} dto.Envelope "Transition not permitted"
// @Failure 500 {object} dto.Envelope "Failed to change status"
// @Security BearerAuth
// @Router /donations/{id}/transition [post]
func (h *donationHandler) transitionDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donationID := c.Param("id")

	var req dto.UpdateDonationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for TransitionDonation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	donation, err := h.donationService.TransitionDonationStatus(c.Request.Context(), donationID, req.Status, userID)
	if err != nil {
		respondServiceError(c, logger, err, "change donation status")
		return
	}

	logger.Info("Donation status changed", slog.String("donation_id", donationID), slog.String("status", string(req.Status)))
	c.JSON(http.StatusOK, dto.OK(dto.ToDonationResponse(donation)))
}

// previewDonationTransition godoc
// @Summary Preview a donation status change
// @Description Reports whether the requested transition would be accepted, without committing anything.
// @Tags donations
// @Accept json
// @Produce json
// @Param id path string true "Donation ID"
// @Param transition body dto.UpdateDonationStatusRequest true "Target status"
// @Success 200 {object} dto.Envelope{data=dto.TransitionPreviewResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Donation not found"
// @Failure 500 {object} dto.Envelope "Failed to preview transition"
// @Security BearerAuth
// @Router /donations/{id}/transition/preview [post]
func (h *donationHandler) previewDonationTransition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donationID := c.Param("id")

	var req dto.UpdateDonationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	donation, err := h.donationService.GetDonationByID(c.Request.Context(), donationID)
	if err != nil {
		respondServiceError(c, logger, err, "preview donation transition")
		return
	}

	next := donation.Status.NextStatuses()
	nextStrs := make([]string, len(next))
	for i, s := range next {
		nextStrs[i] = string(s)
	}
	c.JSON(http.StatusOK, dto.OK(dto.TransitionPreviewResponse{
		From:         string(donation.Status),
		To:           string(req.Status),
		Allowed:      donation.Status.CanTransitionTo(req.Status),
		Terminal:     donation.Status.IsTerminal(),
		NextStatuses: nextStrs,
	}))
}
