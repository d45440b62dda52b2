package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-admin/internal/handler"
	apperrors "github.com/jwalitptl/hospital-admin/pkg/errors"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// Errors that are not AppErrors are reported as internal.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		logger := requestLogger(c)
		for _, e := range c.Errors {
			logger.Warn().
				Err(e.Err).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("Request error")
		}

		var appErr *apperrors.AppError
		if !errors.As(c.Errors.Last().Err, &appErr) {
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("internal server error"))
			return
		}
		c.JSON(appErr.HTTPStatus(), handler.NewErrorResponse(appErr.Error(), appErr.Details...))
	}
}
