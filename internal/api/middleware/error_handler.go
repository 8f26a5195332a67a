package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	apierrors "lyriq/internal/api/errors"
)

// ErrorHandler recovers from panics raised by HandleError or by handler bugs
// and answers with a JSON APIError.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := c.GetString(RequestIDKey)

		var apiErr *apierrors.APIError
		switch err := recovered.(type) {
		case *apierrors.APIError:
			apiErr = err
		case error:
			if !errors.As(err, &apiErr) {
				logger.Error("internal server error",
					zap.Error(err),
					zap.String("request_id", requestID),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)
				apiErr = apierrors.NewInternalError("Internal server error")
			}
		default:
			logger.Error("unknown panic occurred",
				zap.Any("recovered", recovered),
				zap.String("request_id", requestID),
			)
			apiErr = apierrors.NewInternalError("Internal server error")
		}

		apiErr.RequestID = requestID
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
	})
}

// HandleError writes err as a JSON response. Anything that is not an
// APIError is re-panicked so ErrorHandler logs it and hides the details.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		apiErr.RequestID = c.GetString(RequestIDKey)
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
		return
	}

	panic(err)
}
