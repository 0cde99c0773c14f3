package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ay-man-sup/personal-finance-tracker/internal/errors"
	"github.com/ay-man-sup/personal-finance-tracker/internal/logger"
)

// ErrorHandler translates errors attached to the context into JSON responses.
// AppErrors map to their status code; anything else becomes a 500 without
// leaking internals.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("request failed",
					"request_id", c.GetString(ContextRequestIDKey),
					"code", appErr.Code,
					"error", appErr.Internal,
				)
			}
			c.JSON(appErr.StatusCode, gin.H{"error": appErr})
			return
		}

		logger.Get().Errorw("unhandled error",
			"request_id", c.GetString(ContextRequestIDKey),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.ErrInternalServer})
	}
}
