// Package handlers contains the Gin HTTP handlers.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ay-man-sup/personal-finance-tracker/internal/errors"
	"github.com/ay-man-sup/personal-finance-tracker/internal/logger"
	"github.com/ay-man-sup/personal-finance-tracker/internal/middleware"
)

// getUserID extracts the authenticated user ID set by the auth middleware.
func getUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		respondWithError(c, apperrors.ErrUnauthorized)
		return 0, false
	}
	userID, ok := value.(uint)
	if !ok {
		respondWithError(c, apperrors.ErrUnauthorized)
		return 0, false
	}
	return userID, true
}

// parsePathID parses a numeric :id path parameter.
func parsePathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}

// parseFlexibleTime accepts RFC 3339 timestamps or bare dates.
func parseFlexibleTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// respondWithError writes an AppError as JSON. Unknown errors become a 500.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("request failed",
				"request_id", c.GetString(middleware.ContextRequestIDKey),
				"code", appErr.Code,
				"error", appErr.Internal,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{"error": appErr})
		return
	}

	logger.Get().Errorw("unhandled error",
		"request_id", c.GetString(middleware.ContextRequestIDKey),
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.ErrInternalServer})
}
