package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/reliefbase/relief_ledger_app/internal/core/ports/services"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
	"github.com/reliefbase/relief_ledger_app/internal/middleware"
)

// userHandler handles HTTP requests related to login accounts.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers routes related to users.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("", h.listUsers)
		users.GET("/:id", h.getUser)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/:id", h.deactivateUser)
	}
}

// getUser godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 404 {object} dto.Envelope "User not found"
// @Failure 500 {object} dto.Envelope "Failed to retrieve user"
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *userHandler) getUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("id")

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "retrieve user")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToUserResponse(user)))
}

// listUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Max results per page" default(20)
// @Param nextToken query string false "Pagination cursor from previous page"
// @Success 200 {object} dto.Envelope{data=dto.ListUsersResponse}
// @Failure 400 {object} dto.Envelope "Invalid query parameters"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 500 {object} dto.Envelope "Failed to list users"
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListUsers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid query parameters: "+err.Error()))
		return
	}

	users, nextToken, err := h.userService.ListUsers(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		respondServiceError(c, logger, err, "list users")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToListUserResponse(users, nextToken)))
}

// updateUser godoc
// @Summary Update a user
// @Description Updates a user's profile fields. Users may only update their own profile.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body dto.UpdateUserRequest true "User fields to update"
// @Success 200 {object} dto.Envelope{data=dto.UserResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 403 {object} dto.Envelope "Cannot update another user"
// @Failure 404 {object} dto.Envelope "User not found"
// @Failure 500 {object} dto.Envelope "Failed to update user"
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *userHandler) updateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetID := c.Param("id")

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateUser", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}
	if loggedInUserID != targetID {
		logger.Warn("User tried to update another user's profile", slog.String("target_user_id", targetID))
		c.JSON(http.StatusForbidden, dto.Fail("Cannot update another user's profile"))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), targetID, req, loggedInUserID)
	if err != nil {
		respondServiceError(c, logger, err, "update user")
		return
	}

	logger.Info("User updated", slog.String("target_user_id", targetID))
	c.JSON(http.StatusOK, dto.OK(dto.ToUserResponse(user)))
}

// deactivateUser godoc
// @Summary Deactivate a user
// @Description Marks a user inactive. Users may only deactivate their own account.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 204 "No Content"
// @Failure 401 {object} dto.Envelope "Unauthorized"
// @Failure 403 {object} dto.Envelope "Cannot deactivate another user"
// @Failure 404 {object} dto.Envelope "User not found"
// @Failure 500 {object} dto.Envelope "Failed to deactivate user"
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *userHandler) deactivateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}
	if loggedInUserID != targetID {
		logger.Warn("User tried to deactivate another user", slog.String("target_user_id", targetID))
		c.JSON(http.StatusForbidden, dto.Fail("Cannot deactivate another user"))
		return
	}

	if err := h.userService.DeactivateUser(c.Request.Context(), targetID, loggedInUserID); err != nil {
		respondServiceError(c, logger, err, "deactivate user")
		return
	}

	logger.Info("User deactivated", slog.String("target_user_id", targetID))
	c.Status(http.StatusNoContent)
}
