package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "networth/internal/errors"
	"networth/internal/logger"
)

// ErrorHandler writes the JSON error body for the last error a handler
// pushed with c.Error. AppErrors keep their code and message; bind errors
// become INVALID_INPUT; anything else is logged and reported as
// INTERNAL_ERROR. Responses a handler already wrote are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		appErr := toAppError(last)
		if appErr.Internal != nil || appErr == apperrors.ErrInternalServer {
			cause := last.Err
			if appErr.Internal != nil {
				cause = appErr.Internal
			}
			logger.Get().Errorw("request failed",
				"code", appErr.Code,
				"error", cause.Error(),
				"request_id", c.GetString(requestIDKey),
				"user_id", c.GetString("userID"),
				"method", c.Request.Method,
				"route", routeOf(c),
			)
		}

		c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}

func toAppError(ginErr *gin.Error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(ginErr.Err, &appErr) {
		return appErr
	}
	if ginErr.IsType(gin.ErrorTypeBind) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, ginErr.Err.Error())
	}
	return apperrors.ErrInternalServer
}
