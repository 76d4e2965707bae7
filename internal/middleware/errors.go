package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/peopleapi/internal/apierrors"
	"github.com/alimgiray/peopleapi/pkg/logger"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// Domain errors are rendered as they are, anything else becomes a generic
// 500 so no internal detail reaches the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := apierrors.Render(err)
		if status == http.StatusInternalServerError {
			logger.WithError(err).
				WithField("request_id", GetRequestID(c)).
				Error("Unhandled error")
		}

		c.JSON(status, body)
	}
}

// Recovery converts panics into the generic 500 response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		logger.WithField("panic", recovered).
			WithField("request_id", GetRequestID(c)).
			Error("Recovered from panic")

		status, body := apierrors.Render(nil)
		c.AbortWithStatusJSON(status, body)
	})
}
