package middleware

import (
	"strconv"
	"time"

	"github.com/SscSPs/dues_ledger/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// PrometheusMiddleware observes request latency per matched route.
// Unmatched paths are grouped under "unmatched" to bound label cardinality.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
