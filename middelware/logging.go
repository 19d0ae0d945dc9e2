package middelware

import (
	"net/http"
	"strings"
	"time"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"

	"github.com/gin-gonic/gin"
)

// LoggingMiddleware logs every request with the actor resolved by the auth
// middleware, and recovers panics into the standard error envelope.
type LoggingMiddleware struct {
	logger logger.Logger
}

func NewLoggingMiddleware(log logger.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: log}
}

// StructuredLogger writes one line per request after the handler chain ran.
func (m *LoggingMiddleware) StructuredLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		// Health probes are noise at info level.
		if strings.HasSuffix(path, "/health") {
			return
		}

		log := m.logger.
			WithField("method", c.Request.Method).
			WithField("path", path).
			WithField("status", c.Writer.Status()).
			WithField("latency", time.Since(start).String()).
			WithField("ip", c.ClientIP())
		if query != "" {
			log = log.WithField("query", query)
		}
		if claims, ok := ClaimsFromContext(c); ok {
			log = log.WithField("role", claims.Role)
		}
		if len(c.Errors) > 0 {
			log = log.WithField("errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("request failed")
		case status >= http.StatusBadRequest:
			log.Warn("request rejected")
		default:
			log.Info("request served")
		}
	}
}

// Recovery turns a handler panic into a 500 with the APIResponse envelope.
func (m *LoggingMiddleware) Recovery() gin.HandlerFunc {
	return gin.RecoveryWithWriter(gin.DefaultErrorWriter, func(c *gin.Context, recovered interface{}) {
		m.logger.Errorf("panic recovered on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)

		c.AbortWithStatusJSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
			Error: &models.APIError{
				Type:    "InternalError",
				Details: "an unexpected error occurred",
			},
		})
	})
}
