package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ordertrack/internal/metrics"
)

// Metrics records request duration per matched route.
func Metrics(m *metrics.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Observe(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
