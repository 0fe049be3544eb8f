package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reliefbase/relief_ledger_app/internal/apperrors"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
)

// respondServiceError maps a service error to an HTTP status and writes the
// failure envelope. Every rejection carries the underlying message so callers
// learn what exactly was refused.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status := http.StatusInternalServerError
	message := "Failed to " + action

	var inventoryErr *apperrors.InsufficientInventoryError
	var fundsErr *apperrors.InsufficientFundsError

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrEntityLocked),
		errors.Is(err, apperrors.ErrImmutableEntity),
		errors.Is(err, apperrors.ErrDonorBlacklisted),
		errors.Is(err, apperrors.ErrConcurrentUpdateConflict),
		errors.As(err, &inventoryErr),
		errors.As(err, &fundsErr):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
		message = err.Error()
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Service call failed", slog.String("action", action), slog.String("error", err.Error()))
	} else {
		logger.Warn("Request rejected", slog.String("action", action), slog.Int("status", status), slog.String("error", err.Error()))
	}
	c.JSON(status, dto.Fail(message))
}
