package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/cache-service/internal/pkg/metrics"
)

// Metrics returns a gin middleware that records request metrics.
// Requests are labelled with the route template to keep key names out of the labels.
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		collector.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
