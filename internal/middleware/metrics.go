package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillswap-app/session-api/internal/service"
)

// Metrics records per-route request counts and latency. Requests that match
// no route are grouped under a single label to keep cardinality bounded.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
