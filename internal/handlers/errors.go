package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFromError maps the apperrors sentinels to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes err as JSON. Server-side failures are logged and
// replaced by fallbackMsg so storage details do not leak to clients.
func respondWithError(c *gin.Context, err error, fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: fallbackMsg})
		return
	}
	logger.Warn(fallbackMsg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// requireActor returns the authenticated member ID, writing 401 when it is missing.
func requireActor(c *gin.Context) (string, bool) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Member ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return actorID, true
}

// requireSelfOrAdmin lets a member read their own data and admins read anyone's.
func requireSelfOrAdmin(c *gin.Context, memberID string) (string, bool) {
	actorID, ok := requireActor(c)
	if !ok {
		return "", false
	}
	if actorID != memberID && !middleware.GetIsAdminFromContext(c) {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Member forbidden to access another member's data",
			slog.String("accessor_id", actorID), slog.String("target_id", memberID))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return "", false
	}
	return actorID, true
}
