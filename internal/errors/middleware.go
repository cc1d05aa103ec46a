package errors

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorHandler is a gin middleware that converts any error attached to the
// context into a structured JSON response with the right HTTP status.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		appErr := ToAppError(c.Errors.Last().Err)
		appErr.RequestID = c.GetString("request_id")
		LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, gin.H{
			"category":   appErr.Category,
			"message":    appErr.Message,
			"request_id": appErr.RequestID,
		})
	}
}

// RecoveryHandler converts panics into structured 500 responses so a single
// bad request can never take the session down.
func RecoveryHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		appErr := NewInternalError(
			fmt.Sprintf("panic recovered: %v", recovered),
			fmt.Errorf("%v", recovered),
		)
		appErr.RequestID = c.GetString("request_id")
		LogError(c, appErr)
		c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
			"category":   appErr.Category,
			"message":    appErr.Message,
			"request_id": appErr.RequestID,
		})
	})
}

// LogError logs an error with request context at a level matching its
// category: client-side problems are warnings, server-side are errors.
func LogError(c *gin.Context, err *AppError) {
	entry := slog.With(
		"error_category", err.Category,
		"error_code", err.ErrBuilder.ErrCode(),
		"http_status", err.HTTPStatus,
		"ip", c.ClientIP(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", err.RequestID,
	)

	switch err.Category {
	case CategoryInputDomain, CategoryRateLimit:
		entry.Warn(err.ErrBuilder.Msg)
	case CategoryInference:
		if cause := err.Unwrap(); cause != nil {
			entry.Warn(err.ErrBuilder.Msg, "cause", cause)
		} else {
			entry.Warn(err.ErrBuilder.Msg)
		}
	default:
		if cause := err.Unwrap(); cause != nil {
			entry.Error(err.ErrBuilder.Msg, "cause", cause)
		} else {
			entry.Error(err.ErrBuilder.Msg)
		}
	}
}
