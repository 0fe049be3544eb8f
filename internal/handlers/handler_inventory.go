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

// inventoryHandler handles HTTP requests related to inventory items.
type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

func newInventoryHandler(is portssvc.InventorySvcFacade) *inventoryHandler {
	return &inventoryHandler{inventoryService: is}
}

// registerInventoryRoutes registers routes related to inventory items.
func registerInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := newInventoryHandler(inventoryService)

	inventory := rg.Group("/inventory")
	{
		inventory.POST("", h.createItem)
		inventory.GET("", h.listItems)
		inventory.GET("/summary", h.getSummary)
		inventory.GET("/:id", h.getItem)
		inventory.PUT("/:id", h.updateItem)
		inventory.DELETE("/:id", h.deleteItem)
		inventory.POST("/:id/transition", h.transitionItem)
		inventory.POST("/:id/transition/preview", h.previewItemTransition)
	}
}

// createItem godoc
// @Summary Record a received inventory item
// @Description Records an item that arrived outside the donation pipeline, in pending status.
// @Tags inventory
// @Accept json
// @Produce json
// @Param item body dto.CreateInventoryItemRequest true "Item details"
// @Success 201 {object} dto.Envelope{data=dto.InventoryItemResponse}
// @Failure 400 {object} dto.Envelope "Invalid input format or validation error"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Donor not found"
// @Failure 409 {object} dto.Envelope "Donor is blacklisted"
// @Failure 500 {object} dto.Envelope "Failed to create item"
// @Security BearerAuth
// @Router /inventory [post]
func (h *inventoryHandler) createItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create inventory item")
		return
	}

	logger.Info("Inventory item recorded", slog.String("item_id", item.ItemID), slog.String("category", item.Category))
	c.JSON(http.StatusCreated, dto.OK(dto.ToInventoryItemResponse(item)))
}

// getItem godoc
// @Summary Get an inventory item by ID
// @Tags inventory
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} dto.Envelope{data=dto.InventoryItemResponse}
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Item not found"
// @Failure 500 {object} dto.Envelope "Failed to retrieve item"
// @Security BearerAuth
// @Router /inventory/{id} [get]
func (h *inventoryHandler) getItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("id")

	item, err := h.inventoryService.GetItemByID(c.Request.Context(), itemID)
	if err != nil {
		respondServiceError(c, logger, err, "retrieve inventory item")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToInventoryItemResponse(item)))
}

// listItems godoc
// @Summary List inventory items
// @Description Retrieves a paginated list of inventory items, optionally filtered by status, category or donor.
// @Tags inventory
// @Produce json
// @Param limit query int false "Max results per page" default(20)
// @Param nextToken query string false "Pagination cursor from previous page"
// @Param status query string false "Filter by item status"
// @Param category query string false "Filter by category"
// @Param donorID query string false "Filter by donor"
// @Success 200 {object} dto.Envelope{data=dto.ListInventoryResponse}
// @Failure 400 {object} dto.Envelope "Invalid query parameters"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 500 {object} dto.Envelope "Failed to list items"
// @Security BearerAuth
// @Router /inventory [get]
func (h *inventoryHandler) listItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListInventoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListItems", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid query parameters: "+err.Error()))
		return
	}

	filter := portsrepo.InventoryListFilter{Category: params.Category, DonorID: params.DonorID}
	if params.Status != nil {
		s := domain.ItemStatus(*params.Status)
		filter.Status = &s
	}

	items, nextToken, err := h.inventoryService.ListItems(c.Request.Context(), params.Limit, params.NextToken, filter)
	if err != nil {
		respondServiceError(c, logger, err, "list inventory items")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ListInventoryResponse{
		Items:     dto.ToListInventoryItemResponse(items),
		NextToken: nextToken,
	}))
}

// getSummary godoc
// @Summary Get the inventory summary
// @Description Aggregates quantities by lifecycle stage, plus stored quantities per category.
// @Tags inventory
// @Produce json
// @Success 200 {object} dto.Envelope{data=domain.InventorySummary}
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 500 {object} dto.Envelope "Failed to summarize inventory"
// @Security BearerAuth
// @Router /inventory/summary [get]
func (h *inventoryHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.inventoryService.GetInventorySummary(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "summarize inventory")
		return
	}

	c.JSON(http.StatusOK, dto.OK(summary))
}

// updateItem godoc
// @Summary Update an inventory item
// @Description Edits an item's details. Items past verified status are immutable.
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param item body dto.UpdateInventoryItemRequest true "Item fields to update"
// @Success 200 {object} dto.Envelope{data=dto.InventoryItemResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Item not found"
// @Failure 409 {object} dto.Envelope "Item is immutable"
// @Failure 500 {object} dto.Envelope "Failed to update item"
// @Security BearerAuth
// @Router /inventory/{id} [put]
func (h *inventoryHandler) updateItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("id")

	var req dto.UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	item, err := h.inventoryService.UpdateItem(c.Request.Context(), itemID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "update inventory item")
		return
	}

	logger.Info("Inventory item updated", slog.String("item_id", itemID))
	c.JSON(http.StatusOK, dto.OK(dto.ToInventoryItemResponse(item)))
}

// deleteItem godoc
// @Summary Delete an inventory item
// @Description Removes a pending or verified item. Items past verified status cannot be deleted.
// @Tags inventory
// @Produce json
// @Param id path string true "Item ID"
// @Success 204 "No Content"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Item not found"
// @Failure 409 {object} dto.Envelope "Item is immutable"
// @Failure 500 {object} dto.Envelope "Failed to delete item"
// @Security BearerAuth
// @Router /inventory/{id} [delete]
func (h *inventoryHandler) deleteItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	if err := h.inventoryService.DeleteItem(c.Request.Context(), itemID, userID); err != nil {
		respondServiceError(c, logger, err, "delete inventory item")
		return
	}

	logger.Info("Inventory item deleted", slog.String("item_id", itemID))
	c.Status(http.StatusNoContent)
}

// transitionItem godoc
// @Summary Change an inventory item's status
// @Description Moves an item through pending, verified and stored. Allocation and distribution happen only through the allocation flow.
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param transition body dto.UpdateItemStatusRequest true "Target status"
// @Success 200 {object} dto.Envelope{data=dto.InventoryItemResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Item not found"
// @Failure 409 {object} dto.Envelope "Transition not permitted"
// @Failure 500 {object} dto.Envelope "Failed to change status"
// @Security BearerAuth
// @Router /inventory/{id}/transition [post]
func (h *inventoryHandler) transitionItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("id")

	var req dto.UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for TransitionItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	item, err := h.inventoryService.TransitionItemStatus(c.Request.Context(), itemID, req.Status, userID)
	if err != nil {
		respondServiceError(c, logger, err, "change item status")
		return
	}

	logger.Info("Inventory item status changed", slog.String("item_id", itemID), slog.String("status", string(req.Status)))
	c.JSON(http.StatusOK, dto.OK(dto.ToInventoryItemResponse(item)))
}

// previewItemTransition godoc
// @Summary Preview an inventory status change
// @Description Reports whether the requested transition would be accepted, without committing anything.
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param transition body dto.UpdateItemStatusRequest true "Target status"
// @Success 200 {object} dto.Envelope{data=dto.TransitionPreviewResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "Item not found"
// @Failure 500 {object} dto.Envelope "Failed to preview transition"
// @Security BearerAuth
// @Router /inventory/{id}/transition/preview [post]
func (h *inventoryHandler) previewItemTransition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("id")

	var req dto.UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	item, err := h.inventoryService.GetItemByID(c.Request.Context(), itemID)
	if err != nil {
		respondServiceError(c, logger, err, "preview item transition")
		return
	}

	// Allocation targets are never reachable through a transition request,
	// mirror what TransitionItemStatus enforces.
	allowed := item.Status.CanTransitionTo(req.Status) &&
		req.Status != domain.ItemAllocated && req.Status != domain.ItemDistributed

	next := item.Status.NextStatuses()
	nextStrs := make([]string, 0, len(next))
	for _, s := range next {
		if s == domain.ItemAllocated || s == domain.ItemDistributed {
			continue
		}
		nextStrs = append(nextStrs, string(s))
	}
	c.JSON(http.StatusOK, dto.OK(dto.TransitionPreviewResponse{
		From:         string(item.Status),
		To:           string(req.Status),
		Allowed:      allowed,
		Terminal:     item.Status.IsTerminal(),
		NextStatuses: nextStrs,
	}))
}
