package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-admin/pkg/metrics"
)

// Logger logs each request and records it in m. Request bodies carry
// patient data and are never logged.
func Logger(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, status, latency)

		logger := requestLogger(c)
		event := logger.Info()
		msg := "Request processed"
		switch {
		case status >= 500:
			event, msg = logger.Error(), "Server error"
		case status >= 400:
			event, msg = logger.Warn(), "Client error"
		}

		event.
			Str("client_ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Str("user_agent", c.Request.UserAgent()).
			Msg(msg)
	}
}
