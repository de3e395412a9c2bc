package middleware

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	apperrors "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/errors"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/logger"
)

// Recovery converts a handler panic into a STORE_ERROR response and reports
// it to Sentry. Reporting is a no-op when Sentry was never initialised.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			hub := sentry.CurrentHub().Clone()
			hub.Scope().SetRequest(c.Request)
			hub.Scope().SetTag("request_id", c.GetString(RequestIDKey))
			hub.Recover(r)

			logger.Get().Errorw("panic recovered",
				"panic", fmt.Sprint(r),
				"path", c.Request.URL.Path,
				"request_id", c.GetString(RequestIDKey),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    apperrors.ErrStore.Code,
					"message": apperrors.ErrStore.Message,
				},
			})
		}()
		c.Next()
	}
}
